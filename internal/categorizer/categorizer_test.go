package categorizer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"rentops/owner-ledger/internal/logging"
	"rentops/owner-ledger/internal/models"
)

type stubLoader struct {
	categories []models.CategoryConfig
	err        error
}

func (s *stubLoader) LoadCategories() ([]models.CategoryConfig, error) {
	return s.categories, s.err
}

func TestCategorize_BuiltinKeywords(t *testing.T) {
	c := New(nil, logging.NewMockLogger())

	tests := []struct {
		label string
		want  string
	}{
		{"Water heater replacement", models.CategoryPlumbing},
		{"Leaking faucet repair", models.CategoryPlumbing},
		{"A/C unit service", models.CategoryHVAC},
		{"Furnace filter", models.CategoryHVAC},
		{"Breaker panel replacement", models.CategoryElectrical},
		{"Roof leak patched", models.CategoryRoofing},
		{"Dishwasher install", models.CategoryAppliance},
		{"Lawn mowing", models.CategoryLandscaping},
		{"Termite treatment", models.CategoryPestControl},
		{"Monthly management fee", models.CategoryManagementFee},
		{"Drywall repair", models.CategoryGeneralRepair},
		{"Notary charges", models.CategoryOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Categorize(tt.label, ""), "label %q", tt.label)
	}
}

func TestCategorize_MostSpecificKeywordWins(t *testing.T) {
	c := New(nil, logging.NewMockLogger())
	// "Water heater" must beat the bare "heat" HVAC keyword.
	assert.Equal(t, models.CategoryPlumbing, c.Categorize("Water heater swap", ""))
}

func TestCategorize_CaseInsensitive(t *testing.T) {
	c := New(nil, logging.NewMockLogger())
	assert.Equal(t, c.Categorize("ROOF REPAIR", ""), c.Categorize("roof repair", ""))
}

func TestCategorize_ConfiguredOverridesBuiltin(t *testing.T) {
	loader := &stubLoader{categories: []models.CategoryConfig{
		{Name: models.CategoryLandscaping, Keywords: []string{"gutter"}},
	}}
	c := New(loader, logging.NewMockLogger())

	assert.Equal(t, models.CategoryLandscaping, c.Categorize("Gutter cleaning", ""))
}

func TestCategorize_UnknownConfiguredNameIgnored(t *testing.T) {
	loader := &stubLoader{categories: []models.CategoryConfig{
		{Name: "Exotic", Keywords: []string{"roof"}},
	}}
	c := New(loader, logging.NewMockLogger())

	// The bogus configured name must not leak into results.
	assert.Equal(t, models.CategoryRoofing, c.Categorize("Roof repair", ""))
}

func TestNew_LoaderFailureFallsBack(t *testing.T) {
	log := logging.NewMockLogger()
	c := New(&stubLoader{err: errors.New("yaml broken")}, log)

	assert.Equal(t, models.CategoryPlumbing, c.Categorize("Clogged drain", ""))
	assert.True(t, log.HasEntry("WARN", "Failed to load category configuration, using built-in keywords only"))
}

func TestApply(t *testing.T) {
	c := New(nil, logging.NewMockLogger())
	entries := []models.ExpenseEntry{
		{Vendor: "Ajax Plumbing", Description: "Water heater repair"},
		{Vendor: "Joe's Mystery Services", Description: "Misc charges"},
	}
	c.Apply(entries)

	assert.Equal(t, models.CategoryPlumbing, entries[0].Category)
	assert.Equal(t, models.CategoryOther, entries[1].Category)
	// The raw label survives categorization.
	assert.Equal(t, "Misc charges", entries[1].Description)
}
