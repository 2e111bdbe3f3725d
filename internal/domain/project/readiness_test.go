package project

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terravest/backend/internal/domain/document"
	"github.com/terravest/backend/internal/domain/shared/valueobject"
)

func readyProject(t *testing.T) *Project {
	p, err := NewProject(
		uuid.New(),
		"Title",                           // exactly 5 chars
		strings.Repeat("d", 50),           // exactly 50 chars
		"Lisbon, PT",
		PropertyCommercial,
		valueobject.NewMoneyUSDFromFloat(1000),
		valueobject.NewMoneyUSDFromFloat(50000),
		decimal.NewFromFloat(6),
	)
	require.NoError(t, err)
	return p
}

func docWithCategory(t *testing.T, projectID uuid.UUID, category document.Category) document.Document {
	d, err := document.NewDocument(projectID, uuid.New(), "doc", category, document.SecurityMembers, "projects/x/doc.pdf", "application/pdf", 1024)
	require.NoError(t, err)
	return *d
}

func checkByName(t *testing.T, r Report, name string) Check {
	for _, c := range r.Checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("check %q not found in report", name)
	return Check{}
}

func TestEvaluate_AllRequiredPass(t *testing.T) {
	p := readyProject(t)
	docs := []document.Document{docWithCategory(t, p.ID, document.CategoryLegal)}

	report := Evaluate(p, docs)

	assert.True(t, report.CanPublish())
	assert.Empty(t, report.FailedRequired())

	// Recommended checks fail without financial docs and images, and do not block
	failed := report.FailedRecommended()
	names := make([]string, 0, len(failed))
	for _, c := range failed {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{CheckFinancialDocuments, CheckImages}, names)
}

func TestEvaluate_BoundaryLengths(t *testing.T) {
	legal := func(p *Project) []document.Document {
		return []document.Document{docWithCategory(t, p.ID, document.CategoryLegal)}
	}

	t.Run("title length 4 fails", func(t *testing.T) {
		p := readyProject(t)
		p.Title = "Four"
		report := Evaluate(p, legal(p))
		assert.False(t, report.CanPublish())
		assert.False(t, checkByName(t, report, CheckTitle).Passed)
	})

	t.Run("title length 5 passes", func(t *testing.T) {
		p := readyProject(t)
		p.Title = "Fives"
		report := Evaluate(p, legal(p))
		assert.True(t, checkByName(t, report, CheckTitle).Passed)
	})

	t.Run("description length 49 fails", func(t *testing.T) {
		p := readyProject(t)
		p.Description = strings.Repeat("d", 49)
		report := Evaluate(p, legal(p))
		assert.False(t, report.CanPublish())
		assert.False(t, checkByName(t, report, CheckDescription).Passed)
	})

	t.Run("description length 50 passes", func(t *testing.T) {
		p := readyProject(t)
		p.Description = strings.Repeat("d", 50)
		report := Evaluate(p, legal(p))
		assert.True(t, checkByName(t, report, CheckDescription).Passed)
	})

	t.Run("lengths count runes, not bytes", func(t *testing.T) {
		p := readyProject(t)
		p.Title = "日本橋" // 3 runes, 9 bytes
		report := Evaluate(p, legal(p))
		assert.False(t, checkByName(t, report, CheckTitle).Passed)

		p.Title = "日本橋タワー" // 6 runes
		p.Description = strings.Repeat("市", 50)
		report = Evaluate(p, legal(p))
		assert.True(t, checkByName(t, report, CheckTitle).Passed)
		assert.True(t, checkByName(t, report, CheckDescription).Passed)
	})
}

func TestEvaluate_RequiresLegalDocument(t *testing.T) {
	p := readyProject(t)

	report := Evaluate(p, nil)
	assert.False(t, report.CanPublish())
	assert.False(t, checkByName(t, report, CheckLegalDocuments).Passed)

	// A financial document alone does not satisfy the legal requirement
	report = Evaluate(p, []document.Document{docWithCategory(t, p.ID, document.CategoryFinancial)})
	assert.False(t, report.CanPublish())
}

func TestEvaluate_MissingLocation(t *testing.T) {
	p := readyProject(t)
	p.Location = ""

	report := Evaluate(p, []document.Document{docWithCategory(t, p.ID, document.CategoryLegal)})
	assert.False(t, report.CanPublish())
	assert.False(t, checkByName(t, report, CheckLocation).Passed)
	assert.NotEmpty(t, checkByName(t, report, CheckLocation).Hint)
}

func TestEvaluate_RecommendedROI(t *testing.T) {
	p := readyProject(t)
	p.ExpectedROI = decimal.Zero

	report := Evaluate(p, []document.Document{docWithCategory(t, p.ID, document.CategoryLegal)})
	assert.True(t, report.CanPublish(), "zero ROI is advisory only")
	assert.False(t, checkByName(t, report, CheckExpectedROI).Passed)
}

func TestEvaluate_Deterministic(t *testing.T) {
	p := readyProject(t)
	docs := []document.Document{
		docWithCategory(t, p.ID, document.CategoryLegal),
		docWithCategory(t, p.ID, document.CategoryImage),
	}

	first := Evaluate(p, docs)
	second := Evaluate(p, docs)
	assert.Equal(t, first, second)
}
