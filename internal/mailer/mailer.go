// internal/mailer/mailer.go
package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"transaction-notifier/internal/common/logger"
)

// Config holds the mail transport settings.
type Config struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	UseTLS   bool   `mapstructure:"use_tls"`
	From     string `mapstructure:"from"`
}

func DefaultConfig() *Config {
	return &Config{
		Host:   "smtp.gmail.com",
		Port:   587,
		UseTLS: true,
	}
}

func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	if c.From == "" {
		return fmt.Errorf("from address is required")
	}
	return nil
}

// Mailer transmits plain-text messages through the configured SMTP relay.
type Mailer struct {
	config *Config
	logger logger.Logger
}

func NewMailer(config *Config, log logger.Logger) *Mailer {
	return &Mailer{
		config: config,
		logger: log.WithFields(map[string]interface{}{"component": "mailer"}),
	}
}

// Send transmits one plain-text message. A single attempt: any failure at
// connection, STARTTLS, authentication, or transmission time is returned as
// an error and the connection is torn down on every path. Address format is
// not validated here; malformed recipients fail at the transport layer.
func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before sending email: %w", err)
	}

	m.logger.Info("sending email", map[string]interface{}{
		"to":      to,
		"subject": subject,
	})

	message := m.buildMessage(to, subject, body)
	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)

	var auth smtp.Auth
	if m.config.Username != "" && m.config.Password != "" {
		auth = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	}

	if m.config.UseTLS {
		return m.sendWithTLS(addr, auth, to, []byte(message))
	}

	return smtp.SendMail(addr, auth, m.config.From, []string{to}, []byte(message))
}

func (m *Mailer) buildMessage(to, subject, body string) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("From: %s\r\n", m.config.From))
	builder.WriteString(fmt.Sprintf("To: %s\r\n", to))
	builder.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	builder.WriteString("MIME-Version: 1.0\r\n")
	builder.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	builder.WriteString("\r\n")
	builder.WriteString(body)

	return builder.String()
}

func (m *Mailer) sendWithTLS(addr string, auth smtp.Auth, to string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{
		ServerName: m.config.Host,
	}

	if err = client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err = client.Mail(m.config.From); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient %s: %w", to, err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}

	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}
