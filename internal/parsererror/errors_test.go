package parsererror

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseErrorMessage(t *testing.T) {
	err := &ParseError{Parser: "portfolio", State: "property_section", Reason: "no total line"}
	assert.Equal(t, "portfolio parser failed in state property_section: no total line", err.Error())

	cause := errors.New("bad amount")
	wrapped := &ParseError{Parser: "portfolio", State: "expense_list", Reason: "unreadable bill", Err: cause}
	assert.Contains(t, wrapped.Error(), "unreadable bill")
	assert.Equal(t, cause, errors.Unwrap(wrapped))
}

func TestExtractionErrorUnwrap(t *testing.T) {
	cause := errors.New("pdftotext exited 1")
	err := &ExtractionError{Document: "june.pdf", Err: cause}
	assert.Contains(t, err.Error(), "june.pdf")
	assert.True(t, errors.Is(err, cause))
}

func TestPersistenceErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &PersistenceError{Document: "june.pdf", Err: cause}
	assert.Contains(t, err.Error(), "ledger write failed")
	assert.True(t, errors.Is(err, cause))
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Subject: "statement", Reason: "no property sections"}
	assert.Equal(t, "validation failed for statement: no property sections", err.Error())
}
