// internal/directory/client.go
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	commonhttp "transaction-notifier/internal/common/http"
	"transaction-notifier/internal/common/logger"
)

// Config holds the customer directory connection settings.
type Config struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL: "http://customer-service:8000/customers",
		Timeout: 10 * time.Second,
	}
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

// Client resolves customer identifiers to email addresses via the external
// customer directory service.
type Client struct {
	config     *Config
	httpClient *commonhttp.Client
	logger     logger.Logger
}

func NewClient(config *Config, log logger.Logger) *Client {
	return &Client{
		config:     config,
		httpClient: commonhttp.NewClient(config.Timeout),
		logger:     log.WithFields(map[string]interface{}{"component": "directory"}),
	}
}

// customerRecord is the subset of the directory response we care about.
type customerRecord struct {
	Email string `json:"email"`
}

// Resolve looks up a customer's email address. Every failure mode, transport
// error, non-success status, undecodable body, or a record with no email,
// collapses to an absent result; the cause is logged but never returned.
// Single attempt, no retries.
func (c *Client) Resolve(ctx context.Context, customerID string) (string, bool) {
	url := fmt.Sprintf("%s/%s", strings.TrimRight(c.config.BaseURL, "/"), customerID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.logger.Warn("failed to build directory request", map[string]interface{}{
			"customerId": customerID,
			"error":      err.Error(),
		})
		return "", false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("directory lookup failed", map[string]interface{}{
			"customerId": customerID,
			"error":      err.Error(),
		})
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("directory returned non-success status", map[string]interface{}{
			"customerId": customerID,
			"status":     resp.StatusCode,
		})
		return "", false
	}

	var record customerRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		c.logger.Warn("failed to decode directory response", map[string]interface{}{
			"customerId": customerID,
			"error":      err.Error(),
		})
		return "", false
	}

	if record.Email == "" {
		c.logger.Warn("directory record has no email", map[string]interface{}{
			"customerId": customerID,
		})
		return "", false
	}

	return record.Email, true
}
