// internal/notifier/service.go
package notifier

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"transaction-notifier/internal/common/logger"
	"transaction-notifier/internal/common/metrics"
	"transaction-notifier/internal/models"
)

// Outcome classifies a processed notification request. Validation failures
// never reach the service; every outcome here corresponds to exactly one
// audit log entry.
type Outcome int

const (
	OutcomeSent Outcome = iota
	OutcomeResolutionFailed
	OutcomeSendFailed
)

// Failure reasons recorded in the audit log. Resolution and delivery
// failures share the failed status but carry distinct messages.
const (
	ReasonEmailNotFound = "Customer email not found"
	ReasonSendFailed    = "Email send failed"
)

// EmailResolver resolves a customer id to an email address. A false result
// covers every failure mode of the directory, the component never errors.
type EmailResolver interface {
	Resolve(ctx context.Context, customerID string) (string, bool)
}

// EmailSender transmits one plain-text message. Any error counts as a
// delivery failure; it is never propagated past the orchestrator.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// OutcomeRecorder appends one audit row. Best-effort: it swallows its own
// persistence failures.
type OutcomeRecorder interface {
	Record(ctx context.Context, entry models.NotificationLogEntry)
}

type Dependencies struct {
	Resolver EmailResolver
	Sender   EmailSender
	Recorder OutcomeRecorder
	Logger   logger.Logger
}

// Service sequences email resolution, delivery, and audit logging for one
// notification request. It is the only component with branching logic.
type Service struct {
	resolver EmailResolver
	sender   EmailSender
	recorder OutcomeRecorder
	logger   logger.Logger
}

func NewService(deps Dependencies) *Service {
	return &Service{
		resolver: deps.Resolver,
		sender:   deps.Sender,
		recorder: deps.Recorder,
		logger:   deps.Logger.WithFields(map[string]interface{}{"component": "notifier"}),
	}
}

// Process runs the full resolve -> send -> log sequence synchronously.
// The audit write always completes before Process returns, though its own
// failure does not change the outcome.
func (s *Service) Process(ctx context.Context, req models.NotificationRequest) Outcome {
	log := s.logger.WithFields(map[string]interface{}{
		"customerId": req.CustomerID,
		"txnId":      req.TxnID,
	})

	email, ok := s.resolver.Resolve(ctx, req.CustomerID)
	if !ok {
		log.Warn("customer email not found", nil)
		metrics.NotificationsFailed.WithLabelValues("resolution").Inc()
		s.recorder.Record(ctx, models.NotificationLogEntry{
			CustomerID: req.CustomerID,
			TxnID:      req.TxnID,
			Status:     models.OutcomeFailed,
			Email:      "",
			Message:    ReasonEmailNotFound,
		})
		return OutcomeResolutionFailed
	}

	subject, body := ComposeMessage(req)

	if err := s.sender.Send(ctx, email, subject, body); err != nil {
		log.Error("email send failed", map[string]interface{}{
			"email": email,
			"error": err.Error(),
		})
		metrics.NotificationsFailed.WithLabelValues("delivery").Inc()
		s.recorder.Record(ctx, models.NotificationLogEntry{
			CustomerID: req.CustomerID,
			TxnID:      req.TxnID,
			Status:     models.OutcomeFailed,
			Email:      email,
			Message:    ReasonSendFailed,
		})
		return OutcomeSendFailed
	}

	log.Info("notification sent", map[string]interface{}{"email": email})
	metrics.NotificationsSent.Inc()
	s.recorder.Record(ctx, models.NotificationLogEntry{
		CustomerID: req.CustomerID,
		TxnID:      req.TxnID,
		Status:     models.OutcomeSuccess,
		Email:      email,
		Message:    body,
	})
	return OutcomeSent
}

// ComposeMessage builds the notification subject and body. The transaction
// status is accepted verbatim and only case-adjusted; optional fields render
// as empty text when absent.
func ComposeMessage(req models.NotificationRequest) (subject, body string) {
	status := capitalize(req.Status)

	subject = fmt.Sprintf("Transaction %s - %s", status, req.TxnID)
	body = fmt.Sprintf(
		"Dear Customer,\n\nYour transaction with ID %s and reference %s has been %s.\nAccount ID: %s\n\nThank you.",
		req.TxnID, req.Reference, status, req.AccountID,
	)
	return subject, body
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
