// internal/auditlog/writer.go
package auditlog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"transaction-notifier/internal/common/logger"
	"transaction-notifier/internal/common/metrics"
	"transaction-notifier/internal/models"
)

const createTableStmt = `
CREATE TABLE IF NOT EXISTS notification_logs (
	id SERIAL PRIMARY KEY,
	customer_id TEXT NOT NULL,
	txn_id TEXT NOT NULL,
	status TEXT NOT NULL,
	email TEXT NOT NULL,
	message TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const insertStmt = `INSERT INTO notification_logs (customer_id, txn_id, status, email, message, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)`

// Writer appends one outcome row to notification_logs per notification
// attempt. Rows are never read back, updated, or deleted by this service.
type Writer struct {
	db     *sql.DB
	logger logger.Logger
}

func NewWriter(db *sql.DB, log logger.Logger) *Writer {
	return &Writer{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "auditlog"}),
	}
}

// EnsureSchema provisions the notification_logs table if it does not exist.
// Safe to run on every startup.
func (w *Writer) EnsureSchema(ctx context.Context) error {
	if _, err := w.db.ExecContext(ctx, createTableStmt); err != nil {
		return fmt.Errorf("create notification_logs table: %w", err)
	}
	return nil
}

// Record inserts one audit row inside its own short-lived transaction.
// Persistence failures are logged and counted but never surfaced: the
// caller's response reflects the send outcome, not the audit outcome.
func (w *Writer) Record(ctx context.Context, entry models.NotificationLogEntry) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		w.reportFailure(entry, err)
		return
	}

	if _, err := tx.ExecContext(ctx, insertStmt,
		entry.CustomerID,
		entry.TxnID,
		entry.Status,
		entry.Email,
		entry.Message,
		entry.CreatedAt,
	); err != nil {
		_ = tx.Rollback()
		w.reportFailure(entry, err)
		return
	}

	if err := tx.Commit(); err != nil {
		w.reportFailure(entry, err)
		return
	}

	w.logger.Debug("notification logged", map[string]interface{}{
		"customerId": entry.CustomerID,
		"txnId":      entry.TxnID,
		"status":     entry.Status,
	})
}

func (w *Writer) reportFailure(entry models.NotificationLogEntry, err error) {
	metrics.AuditWriteFailures.Inc()
	w.logger.Error("failed to write notification log", map[string]interface{}{
		"customerId": entry.CustomerID,
		"txnId":      entry.TxnID,
		"status":     entry.Status,
		"error":      err.Error(),
	})
}
