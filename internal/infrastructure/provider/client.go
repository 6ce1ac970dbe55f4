// Package provider talks to the payment provider's transaction-status API.
// It is the system's only outbound call path and therefore carries the retry
// policy for transient failures.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"buffzone.backend/internal/domain/entities"
	"buffzone.backend/pkg/retry"
)

// Config holds provider API settings
type Config struct {
	BaseURL      string
	APIKey       string
	Timeout      time.Duration
	MaxRetries   int
	InitialDelay time.Duration
}

// Client queries the provider over HTTP
type Client struct {
	cfg    Config
	client *http.Client
}

// TransactionStatus is the provider's view of one payment session
type TransactionStatus struct {
	Status    entities.InvoiceStatus
	Reference string
	Amount    int64
}

// NewClient creates a provider client
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = retry.DefaultMaxRetries
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = retry.DefaultInitialDelay
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// GetTransactionStatus fetches the status of a payment session by order code,
// retrying transient failures with exponential backoff.
func (c *Client) GetTransactionStatus(ctx context.Context, orderCode int64) (*TransactionStatus, error) {
	if strings.TrimSpace(c.cfg.BaseURL) == "" {
		return nil, fmt.Errorf("provider base url is not configured")
	}

	var result *TransactionStatus
	err := retry.Do(ctx, func() error {
		st, err := c.fetch(ctx, orderCode)
		if err != nil {
			return err
		}
		result = st
		return nil
	}, retry.WithMaxRetries(c.cfg.MaxRetries), retry.WithInitialDelay(c.cfg.InitialDelay))
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) fetch(ctx context.Context, orderCode int64) (*TransactionStatus, error) {
	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/transactions/" + strconv.FormatInt(orderCode, 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, &retry.HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var payload struct {
		Status    string `json:"status"`
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode provider response: %w", err)
	}

	return &TransactionStatus{
		Status:    mapProviderStatus(payload.Status),
		Reference: payload.Reference,
		Amount:    payload.Amount,
	}, nil
}

func mapProviderStatus(s string) entities.InvoiceStatus {
	switch strings.ToLower(s) {
	case "paid", "completed", "success":
		return entities.InvoiceStatusCompleted
	case "failed", "cancelled", "rejected":
		return entities.InvoiceStatusFailed
	case "expired":
		return entities.InvoiceStatusExpired
	default:
		return entities.InvoiceStatusPending
	}
}
