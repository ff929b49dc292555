package parser

import (
	"fmt"

	"rentops/owner-ledger/internal/logging"
	"rentops/owner-ledger/internal/models"
	"rentops/owner-ledger/internal/portfolioparser"
	"rentops/owner-ledger/internal/propertyparser"
)

// GetParser returns the parsing strategy bound to the given document kind.
// The binding is decided here, once; nothing downstream re-inspects the
// document to second-guess the classifier.
func GetParser(kind models.DocumentKind, logger logging.Logger) (StatementParser, error) {
	switch kind {
	case models.KindPortfolioStatement:
		return portfolioparser.New(logger), nil
	case models.KindPropertyStatement:
		return propertyparser.New(logger), nil
	case models.KindUnrecognized:
		return nil, fmt.Errorf("no parser for unrecognized documents")
	default:
		return nil, fmt.Errorf("unknown document kind: %s", kind)
	}
}
