// Package classifier assigns each ingested document to exactly one of the
// known statement kinds, or to the unrecognized kind when it cannot be sure.
//
// Classification is a weighted marker match over the document's lines plus
// optional mail metadata. It is pure and deterministic: the same input
// always produces the same verdict, and there are no side effects.
package classifier

import (
	"strings"

	"rentops/owner-ledger/internal/logging"
	"rentops/owner-ledger/internal/models"
)

// Metadata is the optional mail context for a document. Zero values are
// simply ignored by the scorer.
type Metadata struct {
	Sender  string
	Subject string
}

// marker is one weighted content pattern contributing to a kind's score.
type marker struct {
	phrase string
	weight float64
}

// Markers are matched case-insensitively against the document text. Weights
// are relative; a kind's confidence is its score over its maximum possible
// score.
var (
	portfolioMarkers = []marker{
		{"OWNER STATEMENT", 3},
		{"PORTFOLIO SUMMARY", 3},
		{"REPORT PERIOD", 2},
		{"TOTAL INCOME", 1},
		{"TOTAL EXPENSES", 1},
	}

	propertyMarkers = []marker{
		{"PROPERTY STATEMENT", 3},
		{"REPORT PERIOD", 2},
		{"RENT:", 1},
		{"DEPOSIT:", 1},
		{"TOTAL INCOME", 1},
		{"TOTAL EXPENSES", 1},
	}

	senderMarkers = []string{"statements@", "propertymanagement", "rentals"}
	subjectMarkers = []string{"owner statement", "monthly statement"}
)

// minConfidence is the score fraction below which the classifier refuses to
// name a specific kind. Guessing wrong is worse than Unrecognized.
const minConfidence = 0.6

// Classifier scores documents against the known statement layouts.
type Classifier struct {
	logger logging.Logger
}

// New creates a Classifier. A nil logger falls back to the default.
func New(logger logging.Logger) *Classifier {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Classifier{logger: logger}
}

// Classify inspects the document text and metadata and returns exactly one
// classification. Ties and sub-threshold scores resolve to Unrecognized.
func (c *Classifier) Classify(lines []string, meta Metadata) models.Classification {
	text := strings.ToUpper(strings.Join(lines, "\n"))

	metaBonus := metadataBonus(meta)

	portfolio := score(text, portfolioMarkers)
	property := score(text, propertyMarkers)

	// A portfolio summary page is the strongest discriminator: statements
	// carrying one are portfolio statements even though they also contain
	// the single-property markers on their detail pages.
	hasPortfolioSummary := strings.Contains(text, "PORTFOLIO SUMMARY")

	portfolioConf := clamp(portfolio + metaBonus)
	propertyConf := clamp(property + metaBonus)

	var result models.Classification
	switch {
	case hasPortfolioSummary && portfolioConf >= minConfidence:
		result = models.Classification{Kind: models.KindPortfolioStatement, Confidence: portfolioConf}
	case portfolioConf >= minConfidence && portfolioConf > propertyConf:
		result = models.Classification{Kind: models.KindPortfolioStatement, Confidence: portfolioConf}
	case propertyConf >= minConfidence && propertyConf > portfolioConf:
		result = models.Classification{Kind: models.KindPropertyStatement, Confidence: propertyConf}
	default:
		// Includes exact ties: never guess between kinds.
		result = models.Classification{Kind: models.KindUnrecognized, Confidence: 0}
	}

	c.logger.WithFields(
		logging.Field{Key: logging.FieldKind, Value: string(result.Kind)},
		logging.Field{Key: "confidence", Value: result.Confidence},
	).Debug("Document classified")

	return result
}

// score returns the fraction of a marker set's total weight found in text.
func score(text string, markers []marker) float64 {
	var got, max float64
	for _, m := range markers {
		max += m.weight
		if strings.Contains(text, m.phrase) {
			got += m.weight
		}
	}
	if max == 0 {
		return 0
	}
	return got / max
}

// metadataBonus grants a small boost when the mail sender or subject looks
// like a property manager's statement mail. Content always dominates.
func metadataBonus(meta Metadata) float64 {
	sender := strings.ToLower(meta.Sender)
	subject := strings.ToLower(meta.Subject)

	var bonus float64
	for _, m := range senderMarkers {
		if sender != "" && strings.Contains(sender, m) {
			bonus = 0.1
			break
		}
	}
	for _, m := range subjectMarkers {
		if subject != "" && strings.Contains(subject, m) {
			bonus += 0.1
			break
		}
	}
	return bonus
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}
