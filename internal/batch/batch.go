package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"sleuth/internal/artifacts"
	"sleuth/internal/browser"
	"sleuth/internal/config"
	"sleuth/internal/logging"
	"sleuth/internal/markup"
	"sleuth/internal/namematch"
	"sleuth/internal/notifications"
	"sleuth/internal/services"
	"sleuth/internal/session"
	"sleuth/internal/store"
	"sleuth/internal/textutil"
)

// Outcome is one query's retrieval and enrichment result. Outcomes preserve
// input order regardless of completion order; a failed lookup carries its
// error classification and description instead of a document.
type Outcome struct {
	Query            string
	Document         string
	Succeeded        bool
	ErrorKind        string
	ErrorDescription string
	Elapsed          time.Duration

	Fields      markup.FieldMap
	Matched     bool
	MatchedName string
	Confidence  float64
}

// Options supplies optional collaborators. A nil Notifier falls back to the
// config-driven service; a nil Sink discards captures; a nil Journal skips
// run persistence.
type Options struct {
	Notifier notifications.Service
	Sink     artifacts.Sink
	Journal  *store.Journal
}

// Orchestrator drives batches of lookups through isolated sessions. The
// driver is shared read-only across sessions; every query gets its own page.
type Orchestrator struct {
	cfg      *config.Config
	driver   browser.Driver
	base     *slog.Logger
	logger   *slog.Logger
	notifier notifications.Service
	sink     artifacts.Sink
	journal  *store.Journal
	limiter  *rate.Limiter
}

// New builds an orchestrator around a shared driver.
func New(cfg *config.Config, driver browser.Driver, logger *slog.Logger, opts Options) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}
	sink := opts.Sink
	if sink == nil {
		sink = artifacts.Discard
	}
	var limiter *rate.Limiter
	if cfg.Batch.SubmitRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Batch.SubmitRate), 1)
	}
	return &Orchestrator{
		cfg:      cfg,
		driver:   driver,
		base:     logger,
		logger:   logging.NewComponentLogger(logger, "batch"),
		notifier: notifier,
		sink:     sink,
		journal:  opts.Journal,
		limiter:  limiter,
	}
}

// Run drives every query through its own retrieval session, then enriches
// successful outcomes with extraction and matching. The returned slice
// preserves input order; one query's failure never aborts the run. The error
// is non-nil only when the run could not start or the context lapsed midway,
// and in the latter case the outcomes are still complete, with unstarted
// queries recorded as canceled failures.
func (o *Orchestrator) Run(ctx context.Context, queries []string) ([]Outcome, error) {
	if len(queries) == 0 {
		return nil, services.Wrap(services.ErrValidation, "batch", "run", "no queries supplied", nil)
	}

	runID, ok := services.RunIDFromContext(ctx)
	if !ok {
		runID = uuid.NewString()
		ctx = services.WithRunID(ctx, runID)
	}
	logger := logging.WithContext(ctx, o.logger)

	batchSize := o.cfg.Batch.BatchSize
	if batchSize <= 0 {
		batchSize = len(queries)
	}
	maxConcurrent := o.cfg.Batch.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	if o.journal != nil {
		if err := o.journal.BeginRun(ctx, runID, len(queries)); err != nil {
			return nil, fmt.Errorf("journal run start: %w", err)
		}
	}

	started := time.Now()
	logger.InfoContext(ctx, "run started",
		logging.Args(
			logging.Int("queries", len(queries)),
			logging.Int("batch_size", batchSize),
			logging.Int("max_concurrent", maxConcurrent),
		)...)
	if err := o.notifier.NotifyRunStarted(ctx, runID, len(queries)); err != nil {
		logger.WarnContext(ctx, "run-started notification failed", logging.Args(logging.Error(err))...)
	}

	outcomes := make([]Outcome, len(queries))
	gate := make(chan struct{}, maxConcurrent)
	sampler := logging.NewProgressSampler(10)

	for start := 0; start < len(queries); start += batchSize {
		end := min(start+batchSize, len(queries))
		batchCtx := services.WithBatch(ctx, start/batchSize+1)

		var wg sync.WaitGroup
		for position := start; position < end; position++ {
			wg.Add(1)
			go func(position int) {
				defer wg.Done()
				outcomes[position] = o.executeQuery(batchCtx, gate, queries[position])
			}(position)
		}
		wg.Wait()

		if sampler.ShouldLog(float64(end)/float64(len(queries))*100, "retrieval") {
			logger.InfoContext(ctx, "retrieval progress",
				logging.Args(
					logging.Int("completed", end),
					logging.Int("total", len(queries)),
				)...)
		}
		if end < len(queries) {
			o.pause(ctx)
		}
	}

	o.enrich(ctx, outcomes)

	// Bookkeeping must land even when the run was canceled midway.
	finishCtx := ctx
	if ctx.Err() != nil {
		finishCtx = services.WithRunID(context.Background(), runID)
	}
	processed, matched, failed := tally(outcomes)
	o.journalOutcomes(finishCtx, runID, outcomes)
	if o.journal != nil {
		if err := o.journal.FinishRun(finishCtx, runID, processed, matched, failed); err != nil {
			logger.WarnContext(finishCtx, "journal run finish failed", logging.Args(logging.Error(err))...)
		}
	}

	duration := time.Since(started)
	logger.InfoContext(finishCtx, "run completed",
		logging.Args(
			logging.Int("processed", processed),
			logging.Int("matched", matched),
			logging.Int("failed", failed),
			logging.Duration("elapsed", duration),
		)...)
	if err := o.notifier.NotifyRunCompleted(finishCtx, runID, processed, matched, failed, duration); err != nil {
		logger.WarnContext(finishCtx, "run-completed notification failed", logging.Args(logging.Error(err))...)
	}
	return outcomes, ctx.Err()
}

// executeQuery runs one query through an isolated session. Errors and panics
// never escape; they become Failed outcomes.
func (o *Orchestrator) executeQuery(ctx context.Context, gate chan struct{}, query string) (outcome Outcome) {
	outcome.Query = query
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			outcome = Outcome{
				Query:            query,
				ErrorKind:        "panic",
				ErrorDescription: fmt.Sprintf("panic: %v", r),
				Elapsed:          time.Since(started),
			}
		}
	}()

	ctx = services.WithQuery(ctx, query)
	logger := logging.WithContext(ctx, o.logger)

	select {
	case gate <- struct{}{}:
		defer func() { <-gate }()
	case <-ctx.Done():
		return failedOutcome(outcome, started, ctx.Err())
	}

	if o.limiter != nil {
		if err := o.limiter.Wait(ctx); err != nil {
			return failedOutcome(outcome, started, err)
		}
	}

	page, err := o.driver.NewPage(ctx)
	if err != nil {
		wrapped := services.Wrap(services.ErrEngine, "batch", "new page", "open isolated page", err)
		outcome = failedOutcome(outcome, started, wrapped)
		o.notifyLookupFailure(ctx, logger, query, outcome.ErrorDescription)
		return outcome
	}
	defer func() {
		if closeErr := page.Close(ctx); closeErr != nil {
			logger.DebugContext(ctx, "page close failed", logging.Args(logging.Error(closeErr))...)
		}
	}()

	sess := session.New(o.cfg, page, o.base)
	document, err := sess.Run(ctx, query)
	outcome.Elapsed = time.Since(started)
	outcome.Document = document

	if err != nil && !services.Expected(err) {
		outcome.ErrorKind = failureKind(err)
		outcome.ErrorDescription = err.Error()
		o.notifyLookupFailure(ctx, logger, query, outcome.ErrorDescription)
		return outcome
	}

	outcome.Succeeded = true
	o.captureDocument(ctx, logger, query, document)
	return outcome
}

// enrich runs extraction and matching over successful outcomes on a fixed
// worker pool so large-document parsing cannot stall collection.
func (o *Orchestrator) enrich(ctx context.Context, outcomes []Outcome) {
	workers := o.cfg.Batch.ExtractWorkers
	if workers <= 0 {
		workers = 2
	}
	if workers > len(outcomes) {
		workers = len(outcomes)
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	for worker := 0; worker < workers; worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range indexes {
				o.enrichOutcome(ctx, &outcomes[index])
			}
		}()
	}
	for index := range outcomes {
		indexes <- index
	}
	close(indexes)
	wg.Wait()
}

func (o *Orchestrator) enrichOutcome(ctx context.Context, outcome *Outcome) {
	if !outcome.Succeeded || outcome.Document == "" {
		return
	}
	ctx = services.WithQuery(ctx, outcome.Query)
	logger := logging.WithContext(ctx, o.logger)

	outcome.Fields = markup.Extract(outcome.Document)
	decision := namematch.Decide(outcome.Query, outcome.Fields)
	outcome.Matched = decision.Matched
	outcome.MatchedName = decision.MatchedName
	outcome.Confidence = decision.Confidence

	result := textutil.Ternary(decision.Matched, "matched", "unmatched")
	reason := decision.MatchedName
	if reason == "" {
		reason = "no candidate"
	}
	attrs := logging.DecisionAttrs("name_match", result, reason)
	attrs = append(attrs,
		logging.Int("fields", outcome.Fields.Len()),
		logging.Float64("confidence", decision.Confidence),
	)
	logger.DebugContext(ctx, "lookup enriched", logging.Args(attrs...)...)
}

func (o *Orchestrator) journalOutcomes(ctx context.Context, runID string, outcomes []Outcome) {
	if o.journal == nil {
		return
	}
	logger := logging.WithContext(ctx, o.logger)
	for position, outcome := range outcomes {
		record := store.OutcomeRecord{
			RunID:         runID,
			Position:      position,
			Query:         outcome.Query,
			Succeeded:     outcome.Succeeded,
			ErrorKind:     outcome.ErrorKind,
			ErrorMessage:  outcome.ErrorDescription,
			Matched:       outcome.Matched,
			MatchedName:   outcome.MatchedName,
			Confidence:    outcome.Confidence,
			Fields:        outcome.Fields,
			DocumentBytes: len(outcome.Document),
			Elapsed:       outcome.Elapsed,
		}
		if err := o.journal.RecordOutcome(ctx, record); err != nil {
			logger.WarnContext(ctx, "journal outcome failed",
				logging.Args(
					logging.String("query", outcome.Query),
					logging.Error(err),
				)...)
		}
	}
}

// pause inserts the configured cool-down between consecutive batches.
func (o *Orchestrator) pause(ctx context.Context) {
	if o.cfg.Batch.BatchPause <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(o.cfg.Batch.BatchPause) * time.Second):
	}
}

func (o *Orchestrator) captureDocument(ctx context.Context, logger *slog.Logger, query, document string) {
	if document == "" {
		return
	}
	if err := o.sink.Capture(ctx, query, document); err != nil {
		logger.WarnContext(ctx, "artifact capture failed", logging.Args(logging.Error(err))...)
	}
}

func (o *Orchestrator) notifyLookupFailure(ctx context.Context, logger *slog.Logger, query, cause string) {
	if err := o.notifier.NotifyLookupFailed(ctx, query, cause); err != nil {
		logger.WarnContext(ctx, "lookup-failed notification failed", logging.Args(logging.Error(err))...)
	}
}

func failedOutcome(outcome Outcome, started time.Time, err error) Outcome {
	outcome.ErrorKind = failureKind(err)
	outcome.ErrorDescription = err.Error()
	outcome.Elapsed = time.Since(started)
	return outcome
}

// failureKind classifies an error for the journal's error_kind column.
// Cancellation is a run-level condition, not a portal failure, so it gets its
// own label instead of the taxonomy fallback.
func failureKind(err error) string {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "canceled"
	}
	return services.Kind(err)
}

func tally(outcomes []Outcome) (processed, matched, failed int) {
	processed = len(outcomes)
	for _, outcome := range outcomes {
		if outcome.Matched {
			matched++
		}
		if !outcome.Succeeded {
			failed++
		}
	}
	return processed, matched, failed
}
