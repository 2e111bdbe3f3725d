package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
	// ErrCodeValidationRange is used when a value is out of range
	ErrCodeValidationRange = "ERR_VALIDATION_RANGE"
	// ErrCodeValidationLength is used when a field length is invalid
	ErrCodeValidationLength = "ERR_VALIDATION_LENGTH"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the member lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	// ErrCodeContention is used when a funding update loses the version race
	// repeatedly and gives up
	ErrCodeContention = "ERR_CONTENTION"
	// ErrCodeDuplicatePending is used when a member already has a pending
	// investment on the same project
	ErrCodeDuplicatePending = "ERR_DUPLICATE_PENDING_INVESTMENT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	// ErrCodeIllegalTransition is used when a lifecycle transition is not permitted
	ErrCodeIllegalTransition = "ERR_ILLEGAL_TRANSITION"
	// ErrCodeImmutableField is used when a field cannot change after publication
	ErrCodeImmutableField = "ERR_IMMUTABLE_FIELD"
	// ErrCodeProjectNotPublished is used when investing in an unpublished project
	ErrCodeProjectNotPublished = "ERR_PROJECT_NOT_PUBLISHED"
	// ErrCodeOverfunded is used when funding would exceed the allowed ceiling
	ErrCodeOverfunded = "ERR_OVERFUNDED"
	// ErrCodePublishBlocked is used when readiness checks block publication
	ErrCodePublishBlocked = "ERR_PUBLISH_BLOCKED"
	// ErrCodeTargetNotReached is used when marking funded before the target
	ErrCodeTargetNotReached = "ERR_TARGET_NOT_REACHED"
	// ErrCodeDocumentLimitExceeded is used when a project has too many documents
	ErrCodeDocumentLimitExceeded = "ERR_DOCUMENT_LIMIT_EXCEEDED"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeRequestTooLarge is used when a request body exceeds the size cap
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
	// ErrCodeTooManyRequests is an alias for rate limiting
	ErrCodeTooManyRequests = "ERR_TOO_MANY_REQUESTS"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,
	ErrCodeValidationLength:   http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeContention:          http.StatusConflict,
	ErrCodeDuplicatePending:    http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:          http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:          http.StatusUnprocessableEntity,
	ErrCodeIllegalTransition:     http.StatusUnprocessableEntity,
	ErrCodeImmutableField:        http.StatusUnprocessableEntity,
	ErrCodeProjectNotPublished:   http.StatusUnprocessableEntity,
	ErrCodeOverfunded:            http.StatusUnprocessableEntity,
	ErrCodePublishBlocked:        http.StatusUnprocessableEntity,
	ErrCodeTargetNotReached:      http.StatusUnprocessableEntity,
	ErrCodeDocumentLimitExceeded: http.StatusUnprocessableEntity,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	// Rate limiting -> 429 Too Many Requests
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeTooManyRequests: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps domain error codes to standardized codes.
// Domain errors carry short upper-snake codes; the transport layer speaks
// the ERR_ prefixed vocabulary.
var LegacyErrorCodeMapping = map[string]string{
	"NOT_FOUND":                    ErrCodeNotFound,
	"ALREADY_EXISTS":               ErrCodeAlreadyExists,
	"INVALID_INPUT":                ErrCodeInvalidInput,
	"INVALID_STATE":                ErrCodeInvalidState,
	"UNAUTHORIZED":                 ErrCodeUnauthorized,
	"FORBIDDEN":                    ErrCodeForbidden,
	"CONCURRENCY_CONFLICT":         ErrCodeConcurrencyConflict,
	"CONTENTION":                   ErrCodeContention,
	"DUPLICATE_PENDING_INVESTMENT": ErrCodeDuplicatePending,
	"ILLEGAL_TRANSITION":           ErrCodeIllegalTransition,
	"IMMUTABLE_FIELD":              ErrCodeImmutableField,
	"PROJECT_NOT_PUBLISHED":        ErrCodeProjectNotPublished,
	"OVERFUNDED":                   ErrCodeOverfunded,
	"PUBLISH_BLOCKED":              ErrCodePublishBlocked,
	"TARGET_NOT_REACHED":           ErrCodeTargetNotReached,
	"DOCUMENT_LIMIT_EXCEEDED":      ErrCodeDocumentLimitExceeded,
	"DISALLOWED_CONTENT_TYPE":      ErrCodeValidationFormat,
	"UPLOAD_NOT_FOUND":             ErrCodeBusinessRule,
	"UPLOAD_URL_FAILED":            ErrCodeInternal,
	"DOWNLOAD_URL_FAILED":          ErrCodeInternal,
	"STORAGE_CHECK_FAILED":         ErrCodeInternal,
	"INVALID_AMOUNT":               ErrCodeInvalidInput,
	"INVALID_TITLE":                ErrCodeInvalidInput,
	"INVALID_PROJECT":              ErrCodeInvalidInput,
	"INVALID_MEMBER":               ErrCodeInvalidInput,
	"INVALID_PROPERTY_TYPE":        ErrCodeInvalidInput,
	"INVALID_ROI":                  ErrCodeInvalidInput,
	"INVALID_CATEGORY":             ErrCodeInvalidInput,
	"INVALID_SECURITY_LEVEL":       ErrCodeInvalidInput,
	"INVALID_STORAGE_KEY":          ErrCodeInvalidInput,
	"INVALID_SIZE":                 ErrCodeInvalidInput,
	"VALIDATION_ERROR":             ErrCodeValidation,
	"BAD_REQUEST":                  ErrCodeBadRequest,
	"INTERNAL_ERROR":               ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the standardized format
// If the code is already in the new format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
