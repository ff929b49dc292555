// Package extractor converts PDF bytes into an ordered sequence of text
// lines. No layout geometry survives extraction; everything downstream is
// line-oriented by design.
package extractor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"rentops/owner-ledger/internal/logging"
	"rentops/owner-ledger/internal/parsererror"
)

// Extractor is the text-extraction boundary. Implementations fail with an
// error (wrapped into an ExtractionError by callers or by themselves) on
// corrupt or encrypted documents; they never panic on bad bytes.
type Extractor interface {
	// ExtractLines converts a PDF byte stream into its text lines.
	ExtractLines(pdf []byte) ([]string, error)
}

// PdftotextExtractor shells out to the pdftotext tool with layout
// preservation, which keeps amount columns intact for the tokenizer.
type PdftotextExtractor struct {
	logger logging.Logger
}

// NewPdftotextExtractor creates the production extractor.
func NewPdftotextExtractor(logger logging.Logger) *PdftotextExtractor {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &PdftotextExtractor{logger: logger}
}

// ExtractLines writes the bytes to a temp file, runs pdftotext -layout, and
// splits the output into lines.
func (e *PdftotextExtractor) ExtractLines(pdf []byte) ([]string, error) {
	tempFile, err := os.CreateTemp("", "*.pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary PDF file: %w", err)
	}
	defer func() {
		if err := os.Remove(tempFile.Name()); err != nil {
			e.logger.WithError(err).Warn("Failed to remove temporary file",
				logging.Field{Key: logging.FieldInputFile, Value: tempFile.Name()})
		}
	}()

	if _, err := tempFile.Write(pdf); err != nil {
		_ = tempFile.Close()
		return nil, fmt.Errorf("failed to write temporary PDF file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temporary PDF file: %w", err)
	}

	out, err := exec.Command("pdftotext", "-layout", tempFile.Name(), "-").Output()
	if err != nil {
		return nil, &parsererror.ExtractionError{
			Document: tempFile.Name(),
			Err:      fmt.Errorf("pdftotext failed: %w", err),
		}
	}

	return SplitLines(string(out)), nil
}

// SplitLines normalizes extracted text into lines. Form feeds (page breaks)
// become blank lines so page boundaries close any open section.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\f", "\n\n")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

// Mock returns canned lines or a canned error, for tests.
type Mock struct {
	Lines []string
	Err   error
}

// ExtractLines returns the predefined lines or error.
func (m *Mock) ExtractLines(pdf []byte) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Lines, nil
}
