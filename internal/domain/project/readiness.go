package project

import (
	"unicode/utf8"

	"github.com/terravest/backend/internal/domain/document"
)

// Check name constants
const (
	CheckTitle              = "title"
	CheckDescription        = "description"
	CheckMinimumInvestment  = "minimum_investment"
	CheckTargetAmount       = "target_amount"
	CheckLocation           = "location"
	CheckLegalDocuments     = "legal_documents"
	CheckExpectedROI        = "expected_roi"
	CheckFinancialDocuments = "financial_documents"
	CheckImages             = "images"
)

// Minimum lengths for publishable text fields
const (
	minTitleLength       = 5
	minDescriptionLength = 50
)

// CheckSeverity distinguishes blocking checks from advisory ones
type CheckSeverity string

const (
	SeverityRequired    CheckSeverity = "REQUIRED"
	SeverityRecommended CheckSeverity = "RECOMMENDED"
)

// Check is a single named readiness check with its outcome and a
// remediation hint for the operator
type Check struct {
	Name     string        `json:"name"`
	Severity CheckSeverity `json:"severity"`
	Passed   bool          `json:"passed"`
	Hint     string        `json:"hint"`
}

// Report is the publish-readiness checklist for one project. It is
// computed fresh on every evaluation and never persisted.
type Report struct {
	Checks []Check `json:"checks"`
}

// CanPublish is true iff every required check passed. Recommended checks
// never block publication.
func (r Report) CanPublish() bool {
	for _, c := range r.Checks {
		if c.Severity == SeverityRequired && !c.Passed {
			return false
		}
	}
	return true
}

// FailedRequired returns the required checks that did not pass
func (r Report) FailedRequired() []Check {
	var failed []Check
	for _, c := range r.Checks {
		if c.Severity == SeverityRequired && !c.Passed {
			failed = append(failed, c)
		}
	}
	return failed
}

// FailedRecommended returns the recommended checks that did not pass
func (r Report) FailedRecommended() []Check {
	var failed []Check
	for _, c := range r.Checks {
		if c.Severity == SeverityRecommended && !c.Passed {
			failed = append(failed, c)
		}
	}
	return failed
}

// Evaluate computes the publish-readiness report for a project and its
// documents. Pure function: deterministic, no side effects, safe to call
// concurrently and to cancel at any point.
func Evaluate(p *Project, docs []document.Document) Report {
	counts := make(map[document.Category]int)
	for _, d := range docs {
		counts[d.Category]++
	}

	checks := []Check{
		{
			Name:     CheckTitle,
			Severity: SeverityRequired,
			Passed:   utf8.RuneCountInString(p.Title) >= minTitleLength,
			Hint:     "Give the project a title of at least 5 characters",
		},
		{
			Name:     CheckDescription,
			Severity: SeverityRequired,
			Passed:   utf8.RuneCountInString(p.Description) >= minDescriptionLength,
			Hint:     "Describe the project in at least 50 characters",
		},
		{
			Name:     CheckMinimumInvestment,
			Severity: SeverityRequired,
			Passed:   p.MinimumInvestment.IsPositive(),
			Hint:     "Set a positive minimum investment amount",
		},
		{
			Name:     CheckTargetAmount,
			Severity: SeverityRequired,
			Passed:   p.TargetAmount.IsPositive(),
			Hint:     "Set a positive target funding amount",
		},
		{
			Name:     CheckLocation,
			Severity: SeverityRequired,
			Passed:   p.Location != "",
			Hint:     "Provide the property location",
		},
		{
			Name:     CheckLegalDocuments,
			Severity: SeverityRequired,
			Passed:   counts[document.CategoryLegal] > 0,
			Hint:     "Upload at least one legal document",
		},
		{
			Name:     CheckExpectedROI,
			Severity: SeverityRecommended,
			Passed:   p.ExpectedROI.IsPositive(),
			Hint:     "State the expected return on investment",
		},
		{
			Name:     CheckFinancialDocuments,
			Severity: SeverityRecommended,
			Passed:   counts[document.CategoryFinancial] > 0,
			Hint:     "Upload at least one financial document",
		},
		{
			Name:     CheckImages,
			Severity: SeverityRecommended,
			Passed:   counts[document.CategoryImage] > 0,
			Hint:     "Upload at least one property image",
		},
	}

	return Report{Checks: checks}
}
