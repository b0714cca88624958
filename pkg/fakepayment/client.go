// Package fakepayment provides a lightweight client for the external
// fake-payment API. Uses raw HTTP calls (no SDK).
package fakepayment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://fakepayment.onrender.com"

// ErrNotConfigured is returned when no API key is set; the payment service
// falls back to local simulation.
var ErrNotConfigured = errors.New("fakepayment: not configured")

// ChargeParams describes one payment attempt.
type ChargeParams struct {
	Amount      float64
	Currency    string
	Description string
	Reference   string // merchant-side reference, recorded by the API
}

// ChargeResult is the API's view of a completed charge.
type ChargeResult struct {
	TransactionID string
	Status        string
}

// Client is the fake-payment API contract consumed by the payment service.
type Client interface {
	// Charge submits a payment and returns the external transaction id.
	Charge(ctx context.Context, params ChargeParams) (*ChargeResult, error)
}

// RealClient talks to the fake-payment API over HTTP.
type RealClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a RealClient. An empty baseURL uses the public endpoint.
func NewClient(apiKey, baseURL string) *RealClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &RealClient{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

var _ Client = (*RealClient)(nil)

// Configured reports whether an API key is set.
func (c *RealClient) Configured() bool {
	return c.apiKey != ""
}

type chargeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		TransactionID string `json:"transaction_id"`
		Status        string `json:"status"`
	} `json:"data"`
}

// Charge POSTs the payment to the API and returns its transaction id.
func (c *RealClient) Charge(ctx context.Context, params ChargeParams) (*ChargeResult, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(map[string]any{
		"amount":      fmt.Sprintf("%.2f", params.Amount),
		"currency":    params.Currency,
		"description": params.Description,
		"reference":   params.Reference,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/payments", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fakepayment: charge request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("fakepayment: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fakepayment: charge returned status %d: %s",
			resp.StatusCode, raw)
	}

	var cr chargeResponse
	if err := json.Unmarshal(raw, &cr); err != nil {
		return nil, fmt.Errorf("fakepayment: decode response: %w", err)
	}
	if !cr.Success || cr.Data.TransactionID == "" {
		return nil, fmt.Errorf("fakepayment: charge rejected: %s", cr.Message)
	}
	return &ChargeResult{
		TransactionID: cr.Data.TransactionID,
		Status:        cr.Data.Status,
	}, nil
}
