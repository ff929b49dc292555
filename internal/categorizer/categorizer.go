// Package categorizer assigns expense line items to the closed category
// vocabulary.
package categorizer

import (
	"strings"

	"rentops/owner-ledger/internal/logging"
	"rentops/owner-ledger/internal/models"
)

// CategoryLoader supplies extra keyword configuration on top of the built-in
// table. Implemented by store.CategoryStore.
type CategoryLoader interface {
	LoadCategories() ([]models.CategoryConfig, error)
}

// Categorizer maps raw expense labels to the closed vocabulary using
// case-insensitive keyword matching. It is pure and deterministic: the same
// label always maps to the same category.
type Categorizer struct {
	configured []models.CategoryConfig
	logger     logging.Logger
}

// New creates a Categorizer. loader may be nil, in which case only the
// built-in keyword table is used.
func New(loader CategoryLoader, logger logging.Logger) *Categorizer {
	if logger == nil {
		logger = logging.GetLogger()
	}
	c := &Categorizer{logger: logger}

	if loader != nil {
		configured, err := loader.LoadCategories()
		if err != nil {
			logger.WithError(err).Warn("Failed to load category configuration, using built-in keywords only")
		} else {
			c.configured = configured
		}
	}
	return c
}

// Categorize returns the category for an expense label plus description.
// Labels that match nothing fall through to Other; the caller keeps the raw
// label in the entry's description so nothing is lost.
func (c *Categorizer) Categorize(label, description string) string {
	text := strings.ToUpper(label + " " + description)

	// Configured categories take precedence so a deployment can correct
	// the built-in table without a code change. Configured names outside
	// the closed vocabulary are ignored.
	for _, cfg := range c.configured {
		if !models.IsKnownCategory(cfg.Name) {
			continue
		}
		for _, keyword := range cfg.Keywords {
			if strings.Contains(text, strings.ToUpper(keyword)) {
				return cfg.Name
			}
		}
	}

	for _, entry := range builtinKeywords {
		if strings.Contains(text, entry.keyword) {
			return entry.category
		}
	}

	return models.CategoryOther
}

// Apply categorizes every expense entry in a section in place. Entries whose
// label did not match keep the raw label in the description per the
// Other-category policy.
func (c *Categorizer) Apply(entries []models.ExpenseEntry) {
	for i := range entries {
		raw := entries[i].Description
		category := c.Categorize(raw, entries[i].Vendor)
		entries[i].Category = category

		c.logger.WithFields(
			logging.Field{Key: logging.FieldCategory, Value: category},
			logging.Field{Key: "label", Value: raw},
		).Debug("Expense categorized")
	}
}
