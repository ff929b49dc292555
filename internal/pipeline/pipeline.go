// Package pipeline wires the ingestion stages together: fetch, extract,
// classify, parse, categorize, reconcile, persist, log. One bad document
// never aborts a batch; every document ends in exactly one import-log
// outcome.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"rentops/owner-ledger/internal/categorizer"
	"rentops/owner-ledger/internal/classifier"
	"rentops/owner-ledger/internal/extractor"
	"rentops/owner-ledger/internal/ledger"
	"rentops/owner-ledger/internal/logging"
	"rentops/owner-ledger/internal/mailsource"
	"rentops/owner-ledger/internal/models"
	"rentops/owner-ledger/internal/parser"
	"rentops/owner-ledger/internal/parsererror"
	"rentops/owner-ledger/internal/reconcile"
)

// Options configures a Pipeline.
type Options struct {
	// DryRun runs every stage except persistence and acknowledgement.
	DryRun bool

	// Workers is the number of documents processed concurrently. Values
	// below 1 mean sequential.
	Workers int

	// Fallback, when set, is tried on documents the deterministic parser
	// rejects. Its output passes through the same reconciliation as any
	// other parse.
	Fallback parser.StatementParser
}

// Pipeline processes owner statements end to end.
type Pipeline struct {
	source      mailsource.Source
	extractor   extractor.Extractor
	classifier  *classifier.Classifier
	categorizer *categorizer.Categorizer
	reconciler  *reconcile.Reconciler
	store       ledger.Store
	opts        Options
	logger      logging.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New assembles a Pipeline from its collaborators.
func New(source mailsource.Source, ext extractor.Extractor, cls *classifier.Classifier,
	cat *categorizer.Categorizer, rec *reconcile.Reconciler, store ledger.Store,
	opts Options, logger logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Pipeline{
		source:      source,
		extractor:   ext,
		classifier:  cls,
		categorizer: cat,
		reconciler:  rec,
		store:       store,
		opts:        opts,
		logger:      logger,
		locks:       make(map[string]*sync.Mutex),
	}
}

// DocumentResult is the terminal state of one document.
type DocumentResult struct {
	DocumentID string
	Outcome    models.ImportOutcome
	Warnings   []models.Warning
	Alerts     []models.Alert
	Err        error
}

// BatchSummary aggregates the results of one ProcessBatch call.
type BatchSummary struct {
	Processed    int
	Succeeded    int
	Warned       int
	Unrecognized int
	Failed       int
	Results      []DocumentResult
}

// HasFailures reports whether any document ended in a parse error.
func (b BatchSummary) HasFailures() bool {
	return b.Failed > 0
}

func (b *BatchSummary) add(r DocumentResult) {
	b.Processed++
	b.Results = append(b.Results, r)
	switch r.Outcome {
	case models.OutcomeSuccess:
		b.Succeeded++
	case models.OutcomeReconciliationWarning:
		b.Warned++
	case models.OutcomeUnrecognized:
		b.Unrecognized++
	case models.OutcomeParseError:
		b.Failed++
	}
}

// ProcessBatch fetches candidate messages and runs each through the
// pipeline. Documents fail independently; the summary carries per-document
// outcomes in fetch order.
func (p *Pipeline) ProcessBatch(ctx context.Context, query string) (BatchSummary, error) {
	messages, err := p.source.FetchCandidates(ctx, query)
	if err != nil {
		return BatchSummary{}, fmt.Errorf("fetching candidates: %w", err)
	}
	p.logger.Info("batch started", logging.Field{Key: logging.FieldCount, Value: len(messages)})

	results := make([]DocumentResult, len(messages))
	workers := p.opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(messages) {
		workers = len(messages)
	}

	if workers <= 1 {
		for i, msg := range messages {
			results[i] = p.ProcessDocument(ctx, msg)
		}
	} else {
		jobs := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range jobs {
					results[i] = p.ProcessDocument(ctx, messages[i])
				}
			}()
		}
		for i := range messages {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
	}

	var summary BatchSummary
	for _, r := range results {
		summary.add(r)
	}
	p.logger.Info("batch finished",
		logging.Field{Key: logging.FieldCount, Value: summary.Processed},
		logging.Field{Key: "succeeded", Value: summary.Succeeded},
		logging.Field{Key: "warned", Value: summary.Warned},
		logging.Field{Key: "unrecognized", Value: summary.Unrecognized},
		logging.Field{Key: "failed", Value: summary.Failed})
	return summary, nil
}

// ProcessDocument runs one message through every stage and records exactly
// one import-log entry. Unrecognized and failed documents are left
// unacknowledged at the source so a later run can retry them.
func (p *Pipeline) ProcessDocument(ctx context.Context, msg mailsource.Message) DocumentResult {
	log := p.logger.WithField(logging.FieldDocument, msg.ID)

	lines, err := p.extractor.ExtractLines(msg.Attachment)
	if err != nil {
		log.WithError(err).Error("text extraction failed")
		return p.finish(ctx, msg, DocumentResult{
			DocumentID: msg.ID,
			Outcome:    models.OutcomeParseError,
			Err:        err,
		}, models.KindUnrecognized)
	}

	cls := p.classifier.Classify(lines, classifier.Metadata{Sender: msg.Sender, Subject: msg.Subject})
	log.Debug("document classified",
		logging.Field{Key: logging.FieldKind, Value: string(cls.Kind)},
		logging.Field{Key: "confidence", Value: cls.Confidence})
	if !cls.IsRecognized() {
		return p.finish(ctx, msg, DocumentResult{
			DocumentID: msg.ID,
			Outcome:    models.OutcomeUnrecognized,
		}, cls.Kind)
	}

	stmt, err := p.parse(ctx, cls.Kind, lines, log)
	if err != nil {
		return p.finish(ctx, msg, DocumentResult{
			DocumentID: msg.ID,
			Outcome:    models.OutcomeParseError,
			Err:        err,
		}, cls.Kind)
	}
	for _, warning := range stmt.SectionWarnings {
		log.Warn("section skipped", logging.Field{Key: logging.FieldReason, Value: warning})
	}

	for i := range stmt.Properties {
		p.categorizer.Apply(stmt.Properties[i].Expenses)
	}

	result, err := p.reconciler.Validate(stmt, msg.ID)
	if err != nil {
		return p.finish(ctx, msg, DocumentResult{
			DocumentID: msg.ID,
			Outcome:    models.OutcomeParseError,
			Err:        err,
		}, cls.Kind)
	}

	if !p.opts.DryRun {
		unlock := p.lock(result.OwnerName, result.Report.Period.String())
		err = p.store.SaveStatement(ctx, result)
		unlock()
		if err != nil {
			log.WithError(err).Error("persisting statement failed")
			return p.finish(ctx, msg, DocumentResult{
				DocumentID: msg.ID,
				Outcome:    models.OutcomeParseError,
				Err:        err,
			}, cls.Kind)
		}
	}

	outcome := models.OutcomeSuccess
	if result.HasWarnings() {
		outcome = models.OutcomeReconciliationWarning
	}
	return p.finish(ctx, msg, DocumentResult{
		DocumentID: msg.ID,
		Outcome:    outcome,
		Warnings:   result.Warnings,
		Alerts:     result.Alerts,
	}, cls.Kind)
}

// parse runs the deterministic parser for the kind, with an optional
// fallback strategy when it rejects the document.
func (p *Pipeline) parse(ctx context.Context, kind models.DocumentKind, lines []string, log logging.Logger) (*models.ParsedStatement, error) {
	if err := ctx.Err(); err != nil {
		return nil, &parsererror.ParseError{Parser: string(kind), Reason: "context cancelled", Err: err}
	}

	prs, err := parser.GetParser(kind, p.logger)
	if err != nil {
		return nil, err
	}
	stmt, err := prs.Parse(lines)
	if err == nil {
		return stmt, nil
	}

	if p.opts.Fallback == nil {
		return nil, err
	}
	var parseErr *parsererror.ParseError
	if !errors.As(err, &parseErr) {
		return nil, err
	}
	log.WithError(err).Warn("deterministic parse failed, trying fallback parser")
	stmt, fallbackErr := p.opts.Fallback.Parse(lines)
	if fallbackErr != nil {
		return nil, fmt.Errorf("fallback parse after %v: %w", err, fallbackErr)
	}
	return stmt, nil
}

// finish records the import log and, on success or warning, acknowledges
// the message at the source.
func (p *Pipeline) finish(ctx context.Context, msg mailsource.Message, result DocumentResult, kind models.DocumentKind) DocumentResult {
	entry := models.ImportLog{
		ID:         uuid.NewString(),
		DocumentID: msg.ID,
		Kind:       kind,
		Outcome:    result.Outcome,
		Detail:     detail(result),
		Timestamp:  time.Now().UTC(),
	}
	if !p.opts.DryRun {
		if err := p.store.InsertImportLog(ctx, entry); err != nil {
			p.logger.WithError(err).Error("recording import log failed",
				logging.Field{Key: logging.FieldDocument, Value: msg.ID})
		}
	}

	log := p.logger.WithField(logging.FieldDocument, msg.ID).
		WithField(logging.FieldOutcome, string(result.Outcome))
	switch result.Outcome {
	case models.OutcomeSuccess, models.OutcomeReconciliationWarning:
		if !p.opts.DryRun {
			if err := p.source.MarkProcessed(ctx, msg.ID); err != nil {
				log.WithError(err).Error("acknowledging message failed")
			}
		}
		log.Info("document imported", logging.Field{Key: logging.FieldCount, Value: len(result.Warnings)})
	case models.OutcomeUnrecognized:
		log.Warn("document left for manual review")
	case models.OutcomeParseError:
		log.WithError(result.Err).Error("document failed")
	}
	return result
}

func detail(result DocumentResult) string {
	if result.Err != nil {
		return result.Err.Error()
	}
	if len(result.Warnings) == 0 && len(result.Alerts) == 0 {
		return ""
	}
	parts := make([]string, 0, len(result.Warnings)+len(result.Alerts))
	for _, w := range result.Warnings {
		parts = append(parts, w.String())
	}
	for _, a := range result.Alerts {
		parts = append(parts, a.String())
	}
	return strings.Join(parts, "; ")
}

// lock serializes writes that touch the same owner and period so concurrent
// workers cannot interleave upserts for one report.
func (p *Pipeline) lock(owner, period string) func() {
	key := owner + "|" + period
	p.mu.Lock()
	mu, ok := p.locks[key]
	if !ok {
		mu = &sync.Mutex{}
		p.locks[key] = mu
	}
	p.mu.Unlock()
	mu.Lock()
	return mu.Unlock
}
