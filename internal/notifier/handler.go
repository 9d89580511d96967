// internal/notifier/handler.go
package notifier

import (
	"context"
	"encoding/json"

	"transaction-notifier/internal/common/logger"
	"transaction-notifier/internal/common/metrics"
	"transaction-notifier/internal/common/validation"
	"transaction-notifier/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// Processor is implemented by Service; handler tests substitute a fake.
type Processor interface {
	Process(ctx context.Context, req models.NotificationRequest) Outcome
}

// Handler exposes the notification flow over HTTP.
type Handler struct {
	service Processor
	logger  logger.Logger
}

func NewHandler(service Processor, log logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log.WithFields(map[string]interface{}{"component": "http"}),
	}
}

// RegisterRoutes mounts the notification endpoint on the app.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Post("/notify", h.Notify)
}

// Notify handles POST /notify. Requests missing customer_id or txn_id are
// rejected with 400 before any side effect; everything else runs the full
// resolve -> send -> log sequence and maps the outcome to the response.
func (h *Handler) Notify(c *fiber.Ctx) error {
	metrics.NotifyRequestsReceived.Inc()
	timer := prometheus.NewTimer(metrics.NotifyRequestDuration)
	defer timer.ObserveDuration()

	requestID := uuid.New().String()
	log := h.logger.WithFields(map[string]interface{}{"requestId": requestID})

	var payload map[string]interface{}
	if err := json.Unmarshal(c.Body(), &payload); err != nil {
		log.Warn("unparseable payload", map[string]interface{}{"error": err.Error()})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing required fields"})
	}

	if result := validation.ValidateInput(payload, requestSchema()); !result.Valid {
		log.Warn("invalid payload", map[string]interface{}{"errors": result.Errors})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing required fields"})
	}

	var req models.NotificationRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing required fields"})
	}

	log.Info("processing notification request", map[string]interface{}{
		"customerId": req.CustomerID,
		"txnId":      req.TxnID,
		"status":     req.Status,
	})

	switch h.service.Process(c.Context(), req) {
	case OutcomeSent:
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Notification sent successfully"})
	case OutcomeResolutionFailed:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch customer email"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to send email"})
	}
}

// requestSchema describes the POST /notify payload. Only customer_id and
// txn_id must be present and non-empty; the transaction status is a
// free-form label and is not checked against a vocabulary.
func requestSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"customer_id", "txn_id"},
		Properties: map[string]validation.Property{
			"customer_id": {
				Type:        "string",
				Description: "Identifier of the customer owning the transaction",
				MinLength:   validation.IntPtr(1),
			},
			"txn_id": {
				Type:        "string",
				Description: "Transaction identifier, used as the audit reference key",
				MinLength:   validation.IntPtr(1),
			},
			"account_id": {
				Type:        "string",
				Description: "Account identifier, display-only",
			},
			"reference": {
				Type:        "string",
				Description: "Transaction reference, display-only",
			},
			"status": {
				Type:        "string",
				Description: "Free-form transaction status label",
			},
		},
	}
}
