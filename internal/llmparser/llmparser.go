// Package llmparser is an alternate statement parsing strategy backed by the
// Gemini API. It conforms to the same contract as the deterministic parsers
// and sits behind the same factory selection; nothing in the classifier or
// the reconciler knows it exists.
//
// It is intended for near-miss statement layouts that a deterministic
// strategy does not cover yet, and is disabled unless explicitly configured.
package llmparser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/shopspring/decimal"
	"google.golang.org/api/option"

	"rentops/owner-ledger/internal/dateutils"
	"rentops/owner-ledger/internal/logging"
	"rentops/owner-ledger/internal/models"
	"rentops/owner-ledger/internal/parsererror"
)

const (
	parserName     = "llm"
	requestTimeout = 60 * time.Second
)

const promptPreamble = `Extract the owner statement below into JSON with this shape:
{"owner_name": "", "period_start": "MM/DD/YYYY", "period_end": "MM/DD/YYYY",
 "portfolio_income": "0.00", "portfolio_expenses": "0.00",
 "properties": [{"address": "", "income": "0.00",
   "expenses": [{"description": "", "amount": "0.00"}]}]}
Amounts are plain decimal strings; parenthesized amounts are negative.
Respond with only the JSON object.

Statement text:
`

// Parser parses statements by prompting a Gemini model.
type Parser struct {
	apiKey string
	model  string
	logger logging.Logger
}

// New creates an LLM-backed parser for the given model name.
func New(apiKey, model string, logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Parser{apiKey: apiKey, model: model, logger: logger}
}

// response is the JSON shape the prompt asks the model for.
type response struct {
	OwnerName         string `json:"owner_name"`
	PeriodStart       string `json:"period_start"`
	PeriodEnd         string `json:"period_end"`
	PortfolioIncome   string `json:"portfolio_income"`
	PortfolioExpenses string `json:"portfolio_expenses"`
	Properties        []struct {
		Address  string `json:"address"`
		Income   string `json:"income"`
		Expenses []struct {
			Description string `json:"description"`
			Amount      string `json:"amount"`
		} `json:"expenses"`
	} `json:"properties"`
}

// Parse prompts the model with the statement text and converts the reply to
// a ParsedStatement. Any model or conversion failure surfaces as a
// ParseError so the pipeline treats it like any other failed parse.
func (p *Parser) Parse(lines []string) (*models.ParsedStatement, error) {
	if p.apiKey == "" {
		return nil, &parsererror.ParseError{
			Parser: parserName,
			State:  "init",
			Reason: "no API key configured",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return nil, &parsererror.ParseError{
			Parser: parserName, State: "init",
			Reason: "failed to create client", Err: err,
		}
	}
	defer func() {
		if err := client.Close(); err != nil {
			p.logger.WithError(err).Warn("Failed to close Gemini client")
		}
	}()

	model := client.GenerativeModel(p.model)
	resp, err := model.GenerateContent(ctx, genai.Text(promptPreamble+strings.Join(lines, "\n")))
	if err != nil {
		return nil, &parsererror.ParseError{
			Parser: parserName, State: "generate",
			Reason: "model request failed", Err: err,
		}
	}

	raw, err := extractText(resp)
	if err != nil {
		return nil, &parsererror.ParseError{
			Parser: parserName, State: "generate",
			Reason: "empty model response", Err: err,
		}
	}

	return p.convert(raw)
}

// extractText pulls the text content out of a generation response.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no candidates returned")
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("no text parts in candidate")
	}
	return b.String(), nil
}

// convert turns the model's JSON reply into a ParsedStatement, enforcing the
// same terminal requirements as the deterministic parsers.
func (p *Parser) convert(raw string) (*models.ParsedStatement, error) {
	// Models sometimes wrap JSON in a markdown fence despite instructions.
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var r response
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, &parsererror.ParseError{
			Parser: parserName, State: "convert",
			Reason: "model reply is not valid JSON", Err: err,
		}
	}

	start, err := dateutils.ParseDate(r.PeriodStart)
	if err != nil {
		return nil, &parsererror.ParseError{
			Parser: parserName, State: "convert",
			Reason: "unparsable period start", Err: err,
		}
	}
	end, err := dateutils.ParseDate(r.PeriodEnd)
	if err != nil {
		return nil, &parsererror.ParseError{
			Parser: parserName, State: "convert",
			Reason: "unparsable period end", Err: err,
		}
	}

	stmt := &models.ParsedStatement{
		Kind:      models.KindPortfolioStatement,
		OwnerName: r.OwnerName,
		Period:    models.Period{Start: start, End: end},
	}

	if r.PortfolioIncome != "" || r.PortfolioExpenses != "" {
		summary := &models.PortfolioSummary{}
		summary.Income = parseOrZero(r.PortfolioIncome)
		summary.Expenses = parseOrZero(r.PortfolioExpenses)
		stmt.Portfolio = summary
	}

	for _, prop := range r.Properties {
		if strings.TrimSpace(prop.Address) == "" {
			stmt.SectionWarnings = append(stmt.SectionWarnings,
				"model returned a property with no address, section skipped")
			continue
		}
		section := models.PropertySection{
			Address: strings.TrimSpace(prop.Address),
			Income:  parseOrZero(prop.Income),
		}
		for _, e := range prop.Expenses {
			section.Expenses = append(section.Expenses, models.ExpenseEntry{
				Description: e.Description,
				Amount:      parseOrZero(e.Amount),
			})
		}
		stmt.MergeSection(section)
	}

	if len(stmt.Properties) == 0 {
		return nil, &parsererror.ParseError{
			Parser: parserName, State: "convert",
			Reason: "no property sections in model reply",
		}
	}

	return stmt, nil
}

func parseOrZero(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
