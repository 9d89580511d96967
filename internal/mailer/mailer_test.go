// internal/mailer/mailer_test.go
package mailer

import (
	"context"
	"strings"
	"testing"

	"transaction-notifier/internal/common/logger"

	"github.com/stretchr/testify/assert"
)

func testMailer(t *testing.T) *Mailer {
	config := DefaultConfig()
	config.Username = "bot@example.com"
	config.Password = "secret"
	config.From = "noreply@example.com"
	return NewMailer(config, logger.NewTestLogger(t))
}

func TestMailer_BuildMessage(t *testing.T) {
	m := testMailer(t)

	message := m.buildMessage("a@b.com", "Transaction Completed - t1", "Dear Customer,\n\nThank you.")

	headers, body, found := strings.Cut(message, "\r\n\r\n")
	assert.True(t, found, "headers and body must be separated by a blank line")
	assert.Contains(t, headers, "From: noreply@example.com\r\n")
	assert.Contains(t, headers, "To: a@b.com\r\n")
	assert.Contains(t, headers, "Subject: Transaction Completed - t1\r\n")
	assert.Contains(t, headers, "Content-Type: text/plain; charset=UTF-8")
	assert.Equal(t, "Dear Customer,\n\nThank you.", body)
}

func TestMailer_Send_CancelledContext(t *testing.T) {
	m := testMailer(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Send(ctx, "a@b.com", "subject", "body")

	assert.Error(t, err, "a cancelled context must not open a connection")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid",
			mutate:  func(c *Config) { c.From = "noreply@example.com" },
			wantErr: false,
		},
		{
			name:    "missing host",
			mutate:  func(c *Config) { c.Host = ""; c.From = "noreply@example.com" },
			wantErr: true,
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Port = 99999; c.From = "noreply@example.com" },
			wantErr: true,
		},
		{
			name:    "missing from",
			mutate:  func(c *Config) {},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)

			err := config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
