// internal/auditlog/writer_test.go
package auditlog

import (
	"context"
	"errors"
	"testing"
	"time"

	"transaction-notifier/internal/common/logger"
	"transaction-notifier/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func testEntry() models.NotificationLogEntry {
	return models.NotificationLogEntry{
		CustomerID: "c1",
		TxnID:      "t1",
		Status:     models.OutcomeSuccess,
		Email:      "a@b.com",
		Message:    "Dear Customer, ...",
	}
}

func TestWriter_Record_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO notification_logs`).
		WithArgs("c1", "t1", "success", "a@b.com", "Dear Customer, ...", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	writer := NewWriter(db, logger.NewTestLogger(t))
	writer.Record(context.Background(), testEntry())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriter_Record_KeepsProvidedTimestamp(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	createdAt := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO notification_logs`).
		WithArgs("c1", "t1", "success", "a@b.com", "Dear Customer, ...", createdAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	entry := testEntry()
	entry.CreatedAt = createdAt

	writer := NewWriter(db, logger.NewTestLogger(t))
	writer.Record(context.Background(), entry)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriter_Record_InsertFailureIsSwallowed(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO notification_logs`).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	writer := NewWriter(db, logger.NewTestLogger(t))

	// Must not panic or surface the error; the HTTP response is already
	// determined by the send outcome at this point.
	writer.Record(context.Background(), testEntry())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriter_Record_BeginFailureIsSwallowed(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin().WillReturnError(errors.New("connection reset"))

	writer := NewWriter(db, logger.NewTestLogger(t))
	writer.Record(context.Background(), testEntry())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriter_Record_CommitFailureIsSwallowed(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO notification_logs`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit().WillReturnError(errors.New("server closed connection"))

	writer := NewWriter(db, logger.NewTestLogger(t))
	writer.Record(context.Background(), testEntry())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriter_EnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS notification_logs`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	writer := NewWriter(db, logger.NewTestLogger(t))

	assert.NoError(t, writer.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriter_EnsureSchema_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS notification_logs`).
		WillReturnError(errors.New("permission denied"))

	writer := NewWriter(db, logger.NewTestLogger(t))

	assert.Error(t, writer.EnsureSchema(context.Background()))
}
