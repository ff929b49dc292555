// Package parse implements the single-document inspection command.
package parse

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"rentops/owner-ledger/cmd/root"
	"rentops/owner-ledger/internal/classifier"
	"rentops/owner-ledger/internal/extractor"
	"rentops/owner-ledger/internal/logging"
	"rentops/owner-ledger/internal/parser"
)

var (
	inputFile string

	// Cmd represents the parse command.
	Cmd = &cobra.Command{
		Use:   "parse",
		Short: "Parse one statement and print the reconciled result as JSON",
		Long: `Parse runs a single document through extraction, classification,
parsing, categorization and reconciliation, then prints the result to
stdout. Nothing is persisted. Plain-text files are accepted alongside
PDFs, which makes the command useful for inspecting extraction output.

Example:
  owner-ledger parse -i statements/2025-06.pdf`,
		RunE: parseFunc,
	}
)

func init() {
	Cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Statement file to parse (PDF or extracted text)")
	_ = Cmd.MarkFlagRequired("input")
}

func parseFunc(cmd *cobra.Command, args []string) error {
	lines, err := readLines(inputFile)
	if err != nil {
		return err
	}

	cls := root.NewClassifier().Classify(lines, classifier.Metadata{})
	root.Log.Info("document classified",
		logging.Field{Key: logging.FieldKind, Value: string(cls.Kind)},
		logging.Field{Key: "confidence", Value: cls.Confidence})
	if !cls.IsRecognized() {
		return fmt.Errorf("document %s was not recognized as an owner statement", filepath.Base(inputFile))
	}

	prs, err := parser.GetParser(cls.Kind, root.Log)
	if err != nil {
		return err
	}
	stmt, err := prs.Parse(lines)
	if err != nil {
		return err
	}

	cat := root.NewCategorizer()
	for i := range stmt.Properties {
		cat.Apply(stmt.Properties[i].Expenses)
	}
	result, err := root.NewReconciler().Validate(stmt, filepath.Base(inputFile))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// readLines extracts text from a PDF, or splits an already-extracted text
// file into lines.
func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- CLI tool reads user-provided paths
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return extractor.NewPdftotextExtractor(root.Log).ExtractLines(data)
	}
	return extractor.SplitLines(string(data)), nil
}
