// Package engine drives the workflow simulation: a fixed linear pipeline
// that turns a file-selected trigger into a synthetic expense batch,
// per-user aggregates, and dispatched notification records, emitting one
// log entry per milestone. Only one run may be in flight at a time.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"etp/internal/catalog"
	"etp/internal/core"
	applog "etp/internal/log"
	"etp/internal/robot"
	"etp/internal/sink"
)

// Stage identifies one step of the fixed linear pipeline.
type Stage string

const (
	StageIdle             Stage = "idle"
	StageReadingFile      Stage = "reading_file"
	StageExtracting       Stage = "extracting"
	StageRecordsFound     Stage = "records_found"
	StageCategorizing     Stage = "categorizing"
	StageTotaling         Stage = "totaling"
	StageRecordsCommitted Stage = "records_committed"
	StageComposingReports Stage = "composing_reports"
	StageDispatching      Stage = "dispatching"
	StagePublishing       Stage = "publishing"
	StageCompleted        Stage = "completed"
)

// ErrBusy is returned when a trigger arrives while a run is in flight.
var ErrBusy = errors.New("workflow already in progress")

// EventPublisher mirrors workflow log entries to an external feed. A nil
// publisher disables mirroring.
type EventPublisher interface {
	PublishWorkflowEvent(ctx context.Context, e core.LogEntry) error
}

// Metrics are the derived session metrics surfaced to the dashboard.
type Metrics struct {
	TotalSpent        core.Money
	AveragePerUser    core.Money
	BatchesProcessed  int
	NotificationsSent int
}

// Config assembles an Engine. Store and Catalog are required; everything
// else has working defaults.
type Config struct {
	Store     sink.Store
	Catalog   *catalog.Catalog
	Generator *robot.Generator
	Pacing    Pacing
	Publisher EventPublisher
	Logger    *applog.Logger
	Clock     func() time.Time
}

type Engine struct {
	mu         sync.Mutex
	processing bool
	stage      Stage
	// token identifies the current session epoch. Reset bumps it; an
	// in-flight run re-checks it before every sink effect so a reset
	// cannot be overwritten by a stale run's late writes.
	token uint64

	store     sink.Store
	catalog   *catalog.Catalog
	generator *robot.Generator
	pacing    Pacing
	publisher EventPublisher
	logger    *applog.Logger
	clock     func() time.Time
}

func New(cfg Config) *Engine {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Generator == nil {
		cfg.Generator = robot.NewGenerator(cfg.Catalog, nil, cfg.Clock)
	}
	if cfg.Logger == nil {
		cfg.Logger = applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentEngine)
	}
	return &Engine{
		stage:     StageIdle,
		store:     cfg.Store,
		catalog:   cfg.Catalog,
		generator: cfg.Generator,
		pacing:    cfg.Pacing,
		publisher: cfg.Publisher,
		logger:    cfg.Logger,
		clock:     cfg.Clock,
	}
}

// Stage returns the current pipeline stage.
func (e *Engine) Stage() Stage {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stage
}

// IsProcessing reports whether a run is in flight.
func (e *Engine) IsProcessing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.processing
}

// SubmitFile triggers a run for the named file and returns immediately.
// Returns ErrBusy while a run is in flight. The file name is a trigger
// signal only; its content is never read.
func (e *Engine) SubmitFile(ctx context.Context, name string) error {
	token, err := e.begin()
	if err != nil {
		return err
	}
	go e.run(context.WithoutCancel(ctx), name, token)
	return nil
}

// Run executes one full workflow synchronously. Returns ErrBusy while
// another run is in flight.
func (e *Engine) Run(ctx context.Context, name string) error {
	token, err := e.begin()
	if err != nil {
		return err
	}
	e.run(ctx, name, token)
	return nil
}

func (e *Engine) begin() (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.processing {
		return 0, ErrBusy
	}
	e.processing = true
	e.stage = StageReadingFile
	return e.token, nil
}

func (e *Engine) run(ctx context.Context, name string, token uint64) {
	defer func() {
		e.mu.Lock()
		e.processing = false
		e.stage = StageIdle
		e.mu.Unlock()
	}()

	e.logger.InfoContext(ctx, "Workflow started", "file", name)

	// Reading and extracting are pure theater: the file is never opened.
	e.emit(ctx, token, fmt.Sprintf("Reading file: %s", name), core.LogProcessing)
	if e.pause(ctx, e.pacing.Read) {
		return
	}

	e.setStage(StageExtracting)
	e.emit(ctx, token, "Extracting expense data from Excel sheets", core.LogProcessing)
	if e.pause(ctx, e.pacing.Extract) {
		return
	}

	records := e.generator.Generate(name)
	e.setStage(StageRecordsFound)
	e.emit(ctx, token, fmt.Sprintf("Found %d expense entries", len(records)), core.LogInfo)
	if e.pause(ctx, e.pacing.Found) {
		return
	}

	e.setStage(StageCategorizing)
	e.emit(ctx, token, "Categorizing expenses by user and category", core.LogProcessing)
	if e.pause(ctx, e.pacing.Categorize) {
		return
	}

	e.setStage(StageTotaling)
	e.emit(ctx, token, "Calculating daily totals and averages", core.LogProcessing)
	if e.pause(ctx, e.pacing.Total) {
		return
	}

	// The new batch replaces the previous one wholesale.
	e.setStage(StageRecordsCommitted)
	if e.tokenValid(token) {
		if err := e.store.ReplaceBatch(ctx, records); err != nil {
			e.logger.ErrorContext(ctx, "Failed to commit batch", "error", err)
		}
	}
	e.emit(ctx, token, "Expense data updated successfully", core.LogSuccess)
	if e.pause(ctx, e.pacing.Commit) {
		return
	}

	e.setStage(StageComposingReports)
	e.emit(ctx, token, "Generating personalized expense reports", core.LogProcessing)
	summaries := robot.Aggregate(records)
	notifications := robot.Compose(summaries, e.catalog, e.clock())
	if e.pause(ctx, e.pacing.Compose) {
		return
	}

	// Strictly sequential dispatch keeps the log order deterministic.
	e.setStage(StageDispatching)
	for _, n := range notifications {
		e.emit(ctx, token, fmt.Sprintf("Sending email to %s", n.Recipient), core.LogProcessing)
		if e.pause(ctx, e.pacing.Send) {
			return
		}
		e.emit(ctx, token, fmt.Sprintf("Email delivered to %s (%s)", n.RecipientName, n.Recipient), core.LogSuccess)
		if e.pause(ctx, e.pacing.Deliver) {
			return
		}
	}

	e.setStage(StagePublishing)
	if e.tokenValid(token) {
		if err := e.store.PrependNotifications(ctx, notifications); err != nil {
			e.logger.ErrorContext(ctx, "Failed to publish notifications", "error", err)
		}
	}

	e.setStage(StageCompleted)
	if e.tokenValid(token) {
		if err := e.store.CompleteRun(ctx); err != nil {
			e.logger.ErrorContext(ctx, "Failed to record completed run", "error", err)
		}
	}
	e.emit(ctx, token, "Workflow completed successfully", core.LogSuccess)

	e.logger.InfoContext(ctx, "Workflow finished",
		"file", name,
		"records", len(records),
		"notifications", len(notifications))
}

func (e *Engine) setStage(s Stage) {
	e.mu.Lock()
	e.stage = s
	e.mu.Unlock()
}

func (e *Engine) tokenValid(token uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.token == token
}

// emit appends one log entry and mirrors it to the publisher. Entries from
// a run that predates the latest reset are dropped.
func (e *Engine) emit(ctx context.Context, token uint64, message string, status core.LogStatus) {
	if !e.tokenValid(token) {
		return
	}
	entry := core.LogEntry{
		ID:        uuid.NewString(),
		Message:   message,
		Timestamp: e.clock(),
		Status:    status,
	}
	if err := e.store.AppendLog(ctx, entry); err != nil {
		e.logger.ErrorContext(ctx, "Failed to append log entry", "error", err, "message", message)
		return
	}
	if e.publisher != nil {
		if err := e.publisher.PublishWorkflowEvent(ctx, entry); err != nil {
			// Mirroring is best-effort; the sink stays authoritative.
			e.logger.WarnContext(ctx, "Failed to publish workflow event", "error", err)
		}
	}
}

// pause reports whether the run should stop (context cancelled).
func (e *Engine) pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() != nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return false
	case <-ctx.Done():
		return true
	}
}

// Reset wipes batch, history, log, and counters, and invalidates any
// in-flight run's remaining sink effects. Safe to call at any time.
func (e *Engine) Reset(ctx context.Context) error {
	e.mu.Lock()
	e.token++
	e.mu.Unlock()
	if err := e.store.Reset(ctx); err != nil {
		return fmt.Errorf("reset sink: %w", err)
	}
	e.logger.InfoContext(ctx, "Session state cleared")
	return nil
}

// Expenses returns the current batch in generation order.
func (e *Engine) Expenses(ctx context.Context) ([]core.ExpenseRecord, error) {
	return e.store.Batch(ctx)
}

// Notifications returns the notification history, newest-first.
func (e *Engine) Notifications(ctx context.Context) ([]core.Notification, error) {
	return e.store.Notifications(ctx)
}

// Log returns the workflow log, newest-first.
func (e *Engine) Log(ctx context.Context) ([]core.LogEntry, error) {
	return e.store.Log(ctx)
}

// Metrics computes the dashboard metrics from the sink and the catalog.
func (e *Engine) Metrics(ctx context.Context) (Metrics, error) {
	var m Metrics

	batch, err := e.store.Batch(ctx)
	if err != nil {
		return m, fmt.Errorf("read batch: %w", err)
	}
	for _, r := range batch {
		m.TotalSpent.Cents += r.Amount.Cents
	}
	if len(batch) > 0 && e.catalog.UserCount() > 0 {
		m.AveragePerUser = core.Money{Cents: m.TotalSpent.Cents / int64(e.catalog.UserCount())}
	}

	counters, err := e.store.Counters(ctx)
	if err != nil {
		return m, fmt.Errorf("read counters: %w", err)
	}
	m.BatchesProcessed = counters.BatchesProcessed
	m.NotificationsSent = counters.NotificationsSent
	return m, nil
}
