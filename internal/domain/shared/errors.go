package shared

// DomainError is an error with a stable machine-readable code. The HTTP
// layer maps codes onto status codes and response envelopes.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError builds a DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Sentinel errors shared across aggregates. Wrap them with %w so callers
// can classify with errors.Is.
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrContention          = NewDomainError("CONTENTION", "Resource is under contention, retry the operation")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrIllegalTransition   = NewDomainError("ILLEGAL_TRANSITION", "Requested status transition is not permitted")
	ErrImmutableField      = NewDomainError("IMMUTABLE_FIELD", "Field cannot be changed after publication")
)
