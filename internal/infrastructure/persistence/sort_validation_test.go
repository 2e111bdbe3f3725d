package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns DESC", "", "DESC"},
		{"ASC uppercase returns ASC", "ASC", "ASC"},
		{"asc lowercase returns ASC", "asc", "ASC"},
		{"DESC uppercase returns DESC", "DESC", "DESC"},
		{"desc lowercase returns DESC", "desc", "DESC"},
		{"invalid value returns DESC", "INVALID", "DESC"},
		{"sql injection attempt returns DESC", "ASC; DROP TABLE projects;--", "DESC"},
		{"whitespace only returns DESC", "   ", "DESC"},
		{"whitespace around ASC returns ASC", "  asc  ", "ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateSortOrder(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestValidateSortField(t *testing.T) {
	allowedFields := map[string]bool{
		"id":         true,
		"created_at": true,
		"updated_at": true,
		"title":      true,
	}

	tests := []struct {
		name         string
		input        string
		allowedMap   map[string]bool
		defaultField string
		expected     string
	}{
		{"empty string returns default", "", allowedFields, "created_at", "created_at"},
		{"valid field returns field", "title", allowedFields, "created_at", "title"},
		{"valid field id returns field", "id", allowedFields, "created_at", "id"},
		{"invalid field returns default", "invalid_field", allowedFields, "created_at", "created_at"},
		{"sql injection attempt returns default", "id; DROP TABLE projects;--", allowedFields, "created_at", "created_at"},
		{"case sensitive - uppercase invalid", "TITLE", allowedFields, "created_at", "created_at"},
		{"whitespace only returns default", "   ", allowedFields, "created_at", "created_at"},
		{"whitespace around valid field returns field", "  title  ", allowedFields, "created_at", "title"},
		{"field with spaces injection returns default", "title projects", allowedFields, "created_at", "created_at"},
		{"field with quotes injection returns default", "title'--", allowedFields, "created_at", "created_at"},
		{"empty default with valid field", "title", allowedFields, "", "title"},
		{"empty default with invalid field", "invalid", allowedFields, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateSortField(tt.input, tt.allowedMap, tt.defaultField)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSortFieldsWhitelists(t *testing.T) {
	// All predefined whitelists must contain the common base fields
	whitelists := map[string]map[string]bool{
		"ProjectSortFields":    ProjectSortFields,
		"InvestmentSortFields": InvestmentSortFields,
		"DocumentSortFields":   DocumentSortFields,
	}

	for name, fields := range whitelists {
		t.Run(name, func(t *testing.T) {
			for common := range CommonSortFields {
				assert.True(t, fields[common], "%s should allow %s", name, common)
			}
		})
	}

	t.Run("project whitelist rejects funding internals", func(t *testing.T) {
		assert.False(t, ProjectSortFields["version"])
		assert.False(t, ProjectSortFields["description"])
	})

	t.Run("investment whitelist rejects free text", func(t *testing.T) {
		assert.False(t, InvestmentSortFields["note"])
		assert.False(t, InvestmentSortFields["contract_ref"])
	})
}
