// Package parsererror defines the error taxonomy for the ingestion pipeline.
package parsererror

import "fmt"

// ExtractionError means text could not be obtained from a document. It is a
// document-level failure, not retriable without a different extractor.
type ExtractionError struct {
	Document string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("text extraction failed for %s: %v", e.Document, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// ParseError means a recognized-kind document failed to reach a terminal
// parse state. State carries the last state machine state reached, which is
// the primary diagnostic for malformed statements.
type ParseError struct {
	Parser string
	State  string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s parser failed in state %s: %s: %v", e.Parser, e.State, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s parser failed in state %s: %s", e.Parser, e.State, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError means a parsed statement was structurally unusable for
// reconciliation (distinct from a reconciliation warning, which is not an
// error).
type ValidationError struct {
	Subject string
	Reason  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Subject, e.Reason)
}

// PersistenceError wraps a ledger store failure. The pipeline guarantees it
// never leaves a PropertyMonth without its Expense children; the store write
// for one document is a single logical unit.
type PersistenceError struct {
	Document string
	Err      error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("ledger write failed for %s: %v", e.Document, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
