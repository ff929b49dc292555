// Package parser defines the shared contract for statement parsing
// strategies and the factory that binds each document kind to exactly one of
// them.
package parser

import (
	"rentops/owner-ledger/internal/models"
)

// StatementParser is the contract all parsing strategies conform to.
//
// Parse receives the document as an ordered sequence of extracted text lines
// and returns the structured statement, or an error (normally a
// *parsererror.ParseError carrying the last state machine state reached).
// Implementations must be pure: no side effects, and identical input lines
// produce structurally equal results.
type StatementParser interface {
	Parse(lines []string) (*models.ParsedStatement, error)
}
