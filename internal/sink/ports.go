// Package sink defines the ports for the engine's log/state sink: the only
// externally visible output of the workflow simulation. Implementations
// must keep log entries append-ordered and never drop them except on Reset.
package sink

import (
	"context"

	"etp/internal/core"
)

// Counters are the session counters maintained across runs.
type Counters struct {
	BatchesProcessed  int
	NotificationsSent int
}

// Store holds one current expense batch (replaced wholesale per run), a
// growing notification history, the append-only workflow log, and the
// session counters. All state is scoped to the hosting process's lifetime.
type Store interface {
	// AppendLog appends one entry to the workflow log.
	AppendLog(ctx context.Context, e core.LogEntry) error
	// ReplaceBatch replaces the current expense batch wholesale.
	ReplaceBatch(ctx context.Context, records []core.ExpenseRecord) error
	// PrependNotifications adds a run's notifications to the front of the
	// history, preserving their order within the run.
	PrependNotifications(ctx context.Context, notifications []core.Notification) error
	// CompleteRun increments the batches-processed counter.
	CompleteRun(ctx context.Context) error

	// Batch returns the current expense batch in generation order.
	Batch(ctx context.Context) ([]core.ExpenseRecord, error)
	// Notifications returns the history, newest-first.
	Notifications(ctx context.Context) ([]core.Notification, error)
	// Log returns the workflow log, newest-first.
	Log(ctx context.Context) ([]core.LogEntry, error)
	// Counters returns the session counters.
	Counters(ctx context.Context) (Counters, error)

	// Reset wipes batch, history, log, and counters.
	Reset(ctx context.Context) error
}
