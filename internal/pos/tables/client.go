// Package tables fetches candidate reservation tables from the backend and
// normalizes the heterogeneous row shapes the legacy endpoint can return.
package tables

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/clubtryara/pos/internal/domain/entity"
	"github.com/clubtryara/pos/internal/domain/enum"
	"github.com/clubtryara/pos/pkg/apperror"
)

// DefaultTimeout bounds each listing request.
const DefaultTimeout = 8 * time.Second

// Client lists reservation tables. A failed primary query is retried once
// against the unfiltered set; a timed-out one is not.
type Client struct {
	base    string
	http    *http.Client
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// NewClient creates a listing client against the API base URL
// (e.g. "http://localhost:8080/api/v1").
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		base:    baseURL,
		http:    http.DefaultClient,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the tables of the requested kind in backend order.
//
// A non-success response, transport error, or unparsable body triggers one
// fallback query for the unfiltered set before the original failure is
// surfaced. A timeout is reported as its own condition and never falls back.
func (c *Client) Fetch(ctx context.Context, kind enum.TableKind) ([]entity.Table, error) {
	rows, err := c.query(ctx, kind)
	if err == nil {
		return rows, nil
	}
	if apperror.IsCondition(err, apperror.CondNetworkTimeout) {
		return nil, err
	}
	if kind != enum.TableKindAll {
		if rows, fallbackErr := c.query(ctx, enum.TableKindAll); fallbackErr == nil {
			return rows, nil
		}
	}
	return nil, err
}

func (c *Client) query(ctx context.Context, kind enum.TableKind) ([]entity.Table, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := fmt.Sprintf("%s/tables?type=%s", c.base, url.QueryEscape(kind.String()))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, apperror.WrapFlowError(apperror.CondNetworkFailure, "build table listing request", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperror.WrapFlowError(apperror.CondNetworkTimeout,
				"table listing timed out, try again or check the server", err)
		}
		return nil, apperror.WrapFlowError(apperror.CondNetworkFailure, "table listing request failed", err)
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if readErr != nil {
		if errors.Is(readErr, context.DeadlineExceeded) {
			return nil, apperror.WrapFlowError(apperror.CondNetworkTimeout,
				"table listing timed out, try again or check the server", readErr)
		}
		return nil, apperror.WrapFlowError(apperror.CondNetworkFailure, "read table listing response", readErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperror.NewFlowErrorf(apperror.CondNetworkFailure,
			"table listing failed: %s", resp.Status).WithResponse(resp.StatusCode, string(body))
	}

	var raw []tableRow
	if len(body) == 0 {
		return nil, nil
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, apperror.WrapFlowError(apperror.CondInvalidResponse,
			"invalid JSON from server", err).WithResponse(resp.StatusCode, string(body))
	}

	out := make([]entity.Table, 0, len(raw))
	for _, r := range raw {
		out = append(out, r.normalize())
	}
	return out, nil
}

// tableRow tolerates the alternate column names seen across venue schemas.
type tableRow struct {
	ID                flexInt64  `json:"id"`
	TableID           flexInt64  `json:"table_id"`
	Name              string     `json:"name"`
	GuestName         string     `json:"guest_name"`
	TableNumber       flexString `json:"table_number"`
	TableNo           flexString `json:"table_no"`
	PartySize         flexInt    `json:"party_size"`
	Pax               flexInt    `json:"pax"`
	Status            string     `json:"status"`
	ReservationStatus string     `json:"reservation_status"`
	Price             flexFloat  `json:"price"`
}

func (r tableRow) normalize() entity.Table {
	t := entity.Table{
		ID:          int64(r.ID),
		Name:        r.Name,
		TableNumber: string(r.TableNumber),
		PartySize:   int(r.PartySize),
		Status:      r.Status,
		Price:       float64(r.Price),
	}
	if t.ID == 0 {
		t.ID = int64(r.TableID)
	}
	if t.Name == "" {
		t.Name = r.GuestName
	}
	if t.TableNumber == "" {
		t.TableNumber = string(r.TableNo)
	}
	if t.PartySize == 0 {
		t.PartySize = int(r.Pax)
	}
	if t.Status == "" {
		t.Status = r.ReservationStatus
	}
	return t
}
