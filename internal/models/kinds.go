// Package models provides the data structures used throughout the application.
package models

// DocumentKind identifies the layout of an ingested document. The set is
// closed: the classifier never invents a new kind, and every recognized kind
// is bound to exactly one parsing strategy.
type DocumentKind string

const (
	// KindPortfolioStatement is a multi-property owner statement with a
	// portfolio summary page followed by per-property detail sections.
	KindPortfolioStatement DocumentKind = "portfolio-statement"

	// KindPropertyStatement is a single-property statement without a
	// portfolio summary.
	KindPropertyStatement DocumentKind = "property-statement"

	// KindUnrecognized is the safe terminal outcome for anything the
	// classifier cannot confidently match.
	KindUnrecognized DocumentKind = "unrecognized"
)

// Classification is the classifier's verdict for a document.
type Classification struct {
	Kind       DocumentKind `json:"kind"`
	Confidence float64      `json:"confidence"`
}

// IsRecognized reports whether the document can be routed to a parser.
func (c Classification) IsRecognized() bool {
	return c.Kind != KindUnrecognized
}

// ImportOutcome is the terminal state of one document's trip through the
// pipeline, recorded in the import log.
type ImportOutcome string

const (
	OutcomeSuccess               ImportOutcome = "success"
	OutcomeReconciliationWarning ImportOutcome = "reconciliation-warning"
	OutcomeUnrecognized          ImportOutcome = "unrecognized"
	OutcomeParseError            ImportOutcome = "parse-error"
)
