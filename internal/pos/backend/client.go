// Package backend implements the terminal's HTTP gateways to the sale
// persistence and stock adjustment endpoints. These calls carry no client-side
// timeout: once a checkout attempt is under way it runs to completion or
// network-level failure.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/clubtryara/pos/internal/domain/entity"
	"github.com/clubtryara/pos/pkg/apperror"
)

// idempotencyHeader matches the header the API's idempotency middleware reads.
const idempotencyHeader = "Idempotency-Key"

// saleResponse is the backend's verdict on a submission. A response lacking
// the success indicator counts as a failure.
type saleResponse struct {
	Success bool   `json:"success"`
	SaleID  int64  `json:"saleId"`
	Message string `json:"message"`
}

// Client talks to the sale and stock endpoints.
type Client struct {
	base  string
	http  *http.Client
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// NewClient creates a gateway client against the API base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{base: baseURL, http: http.DefaultClient}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SaveSale submits a checkout attempt and returns the persisted sale ID
// (0 when the backend did not report one). Any failure, including an explicit
// success=false verdict, counts as a save failure.
func (c *Client) SaveSale(ctx context.Context, sale entity.SalePayload, idempotencyKey string) (int64, error) {
	res, err := c.post(ctx, "/sales", sale, idempotencyKey, apperror.CondSaveFailed, "save sale")
	if err != nil {
		return 0, err
	}
	return res.SaleID, nil
}

// AdjustStock submits per-line stock deductions for a saved sale.
func (c *Client) AdjustStock(ctx context.Context, adj entity.StockAdjustment, idempotencyKey string) error {
	_, err := c.post(ctx, "/stock/adjust", adj, idempotencyKey, apperror.CondStockAdjustFailed, "adjust stock")
	return err
}

func (c *Client) post(ctx context.Context, path string, payload interface{}, idempotencyKey string, cond apperror.Condition, what string) (*saleResponse, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, apperror.WrapFlowError(cond, "encode "+what+" payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(raw))
	if err != nil {
		return nil, apperror.WrapFlowError(cond, "build "+what+" request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set(idempotencyHeader, idempotencyKey)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperror.WrapFlowError(cond, what+" request failed", err)
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if readErr != nil {
		return nil, apperror.WrapFlowError(cond, "read "+what+" response", readErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperror.NewFlowErrorf(cond, "%s failed: %s", what, resp.Status).
			WithResponse(resp.StatusCode, string(body))
	}

	var res saleResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, apperror.WrapFlowError(cond, what+" returned invalid JSON", err).
			WithResponse(resp.StatusCode, string(body))
	}
	if !res.Success {
		msg := res.Message
		if msg == "" {
			msg = what + " rejected by server"
		}
		return nil, apperror.NewFlowError(cond, msg).WithResponse(resp.StatusCode, string(body))
	}
	return &res, nil
}
