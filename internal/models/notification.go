// internal/models/notification.go
package models

import "time"

// Outcome labels recorded in the audit log. These are distinct from the
// free-form transaction status carried in the inbound request.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// NotificationRequest is the inbound payload of POST /notify. It lives for
// the duration of one request and is never persisted as-is.
type NotificationRequest struct {
	CustomerID string `json:"customer_id"`
	AccountID  string `json:"account_id,omitempty"`
	TxnID      string `json:"txn_id"`
	Reference  string `json:"reference,omitempty"`
	Status     string `json:"status"`
}

// NotificationLogEntry is one append-only audit row per processed request.
// Email is empty when resolution failed; Message holds the email body on
// success and a failure reason otherwise.
type NotificationLogEntry struct {
	ID         int64     `json:"id"`
	CustomerID string    `json:"customer_id"`
	TxnID      string    `json:"txn_id"`
	Status     string    `json:"status"`
	Email      string    `json:"email"`
	Message    string    `json:"message,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
