// Package storage provides the sqlite-backed sink. The default DSN is an
// in-memory database, so sink state still lives only for the session; a
// file path can be supplied for debugging a demo session after the fact.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"etp/internal/core"
	"etp/internal/sink"

	_ "modernc.org/sqlite"
)

// MemoryDSN is the default shared in-memory database. The shared cache is
// required so the connection pool sees one database.
const MemoryDSN = "file:etp?mode=memory&cache=shared"

const (
	dateLayout = "2006-01-02"
	tsLayout   = time.RFC3339Nano
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	if dsn == "" {
		dsn = MemoryDSN
	}
	// Plain file paths need their directory to exist.
	if !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

type breakdownItem struct {
	Category      string `json:"category"`
	SubtotalCents int64  `json:"subtotal_cents"`
}

func marshalBreakdown(b []core.CategoryBreakdown) (string, error) {
	items := make([]breakdownItem, len(b))
	for i, cb := range b {
		items[i] = breakdownItem{Category: string(cb.Category), SubtotalCents: cb.Subtotal.Cents}
	}
	out, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("marshal breakdown: %w", err)
	}
	return string(out), nil
}

func unmarshalBreakdown(raw string) ([]core.CategoryBreakdown, error) {
	var items []breakdownItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("unmarshal breakdown: %w", err)
	}
	b := make([]core.CategoryBreakdown, len(items))
	for i, it := range items {
		b[i] = core.CategoryBreakdown{Category: core.Category(it.Category), Subtotal: core.Money{Cents: it.SubtotalCents}}
	}
	return b, nil
}

// AppendLog implements sink.Store.
func (s *SQLiteStore) AppendLog(ctx context.Context, e core.LogEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO workflow_log (log_id, message, ts, status) VALUES (?, ?, ?, ?)`,
		e.ID, e.Message, e.Timestamp.Format(tsLayout), string(e.Status))
	if err != nil {
		return fmt.Errorf("insert log entry: %w", err)
	}
	return nil
}

// ReplaceBatch implements sink.Store.
func (s *SQLiteStore) ReplaceBatch(ctx context.Context, records []core.ExpenseRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace batch: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM batch_records`); err != nil {
		return fmt.Errorf("clear batch: %w", err)
	}
	for _, r := range records {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO batch_records (record_id, occurred_on, category, description, amount_cents, owner)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			r.ID, r.Date.Format(dateLayout), string(r.Category), r.Description, r.Amount.Cents, r.Owner)
		if err != nil {
			return fmt.Errorf("insert record %s: %w", r.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace batch: %w", err)
	}
	return nil
}

// PrependNotifications implements sink.Store. Each call is one run; rows
// are read back newest run first, composer order within a run.
func (s *SQLiteStore) PrependNotifications(ctx context.Context, notifications []core.Notification) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin prepend notifications: %w", err)
	}
	defer tx.Rollback()

	var runSeq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(run_seq), 0) + 1 FROM notifications`).Scan(&runSeq); err != nil {
		return fmt.Errorf("next run seq: %w", err)
	}

	for _, n := range notifications {
		raw, err := marshalBreakdown(n.Breakdown)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO notifications (notification_id, recipient, recipient_name, total_cents, breakdown_json, composed_at, status, run_seq)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			n.ID, n.Recipient, n.RecipientName, n.Total.Cents, raw, n.ComposedAt.Format(tsLayout), string(n.Status), runSeq)
		if err != nil {
			return fmt.Errorf("insert notification %s: %w", n.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit prepend notifications: %w", err)
	}
	return nil
}

// CompleteRun implements sink.Store.
func (s *SQLiteStore) CompleteRun(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `UPDATE session_counters SET batches_processed = batches_processed + 1 WHERE id = 1`)
	if err != nil {
		return fmt.Errorf("increment batches processed: %w", err)
	}
	return nil
}

// Batch implements sink.Store.
func (s *SQLiteStore) Batch(ctx context.Context) ([]core.ExpenseRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT record_id, occurred_on, category, description, amount_cents, owner FROM batch_records ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("query batch: %w", err)
	}
	defer rows.Close()

	var out []core.ExpenseRecord
	for rows.Next() {
		var r core.ExpenseRecord
		var occurred, category string
		if err := rows.Scan(&r.ID, &occurred, &category, &r.Description, &r.Amount.Cents, &r.Owner); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		t, err := time.Parse(dateLayout, occurred)
		if err != nil {
			return nil, fmt.Errorf("parse record date: %w", err)
		}
		r.Date = core.DateOf(t)
		r.Category = core.Category(category)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Notifications implements sink.Store, newest run first.
func (s *SQLiteStore) Notifications(ctx context.Context) ([]core.Notification, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT notification_id, recipient, recipient_name, total_cents, breakdown_json, composed_at, status
		 FROM notifications ORDER BY run_seq DESC, seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var out []core.Notification
	for rows.Next() {
		var n core.Notification
		var raw, composed, status string
		if err := rows.Scan(&n.ID, &n.Recipient, &n.RecipientName, &n.Total.Cents, &raw, &composed, &status); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		if n.Breakdown, err = unmarshalBreakdown(raw); err != nil {
			return nil, err
		}
		if n.ComposedAt, err = time.Parse(tsLayout, composed); err != nil {
			return nil, fmt.Errorf("parse composed_at: %w", err)
		}
		n.Status = core.DeliveryStatus(status)
		out = append(out, n)
	}
	return out, rows.Err()
}

// Log implements sink.Store, newest entry first.
func (s *SQLiteStore) Log(ctx context.Context) ([]core.LogEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT log_id, message, ts, status FROM workflow_log ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("query log: %w", err)
	}
	defer rows.Close()

	var out []core.LogEntry
	for rows.Next() {
		var e core.LogEntry
		var ts, status string
		if err := rows.Scan(&e.ID, &e.Message, &ts, &status); err != nil {
			return nil, fmt.Errorf("scan log entry: %w", err)
		}
		if e.Timestamp, err = time.Parse(tsLayout, ts); err != nil {
			return nil, fmt.Errorf("parse log timestamp: %w", err)
		}
		e.Status = core.LogStatus(status)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Counters implements sink.Store.
func (s *SQLiteStore) Counters(ctx context.Context) (sink.Counters, error) {
	var c sink.Counters
	if err := s.db.QueryRowContext(ctx, `SELECT batches_processed FROM session_counters WHERE id = 1`).Scan(&c.BatchesProcessed); err != nil {
		return c, fmt.Errorf("read batches processed: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications`).Scan(&c.NotificationsSent); err != nil {
		return c, fmt.Errorf("count notifications: %w", err)
	}
	return c, nil
}

// Reset implements sink.Store.
func (s *SQLiteStore) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM batch_records`,
		`DELETE FROM notifications`,
		`DELETE FROM workflow_log`,
		`UPDATE session_counters SET batches_processed = 0 WHERE id = 1`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset: %w", err)
	}
	return nil
}

var _ sink.Store = (*SQLiteStore)(nil)
