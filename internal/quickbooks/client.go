// Package quickbooks pushes vendor bills to QuickBooks through the sync service.
// Only the "sync one bill" call is modelled; OAuth and company settings live in the sync service.
package quickbooks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dafibh/backoffice/backoffice-backend/internal/domain"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// maxErrorBody caps how much of a failed response is kept as the error message
const maxErrorBody = 512

// Ensure Client implements domain.BillSyncer
var _ domain.BillSyncer = (*Client)(nil)

// Config configures the sync client
type Config struct {
	BaseURL           string
	Token             string
	RequestsPerMinute int
	Timeout           time.Duration
}

// Client calls the sync service's sync-bill endpoint
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

type syncBillRequest struct {
	WorkspaceID int32 `json:"workspaceId"`
	BillID      int32 `json:"billId"`
}

type syncBillResponse struct {
	Success    bool    `json:"success"`
	Error      *string `json:"error,omitempty"`
	ExternalID *string `json:"qbBillId,omitempty"`
}

// NewClient creates a new sync client
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 300
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	perSecond := float64(cfg.RequestsPerMinute) / 60.0
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(perSecond), 1),
		logger:     logger.With().Str("component", "quickbooks_client").Logger(),
	}
}

// SyncBill pushes one bill. A non-nil error means the call itself failed
// (transport, throttling wait cancelled, unreadable response); a completed call
// that QuickBooks rejected is returned as an outcome with Success == false.
func (c *Client) SyncBill(ctx context.Context, workspaceID int32, billID int32) (*domain.SyncOutcome, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("sync throttle: %w", err)
	}

	body, err := json.Marshal(syncBillRequest{WorkspaceID: workspaceID, BillID: billID})
	if err != nil {
		return nil, fmt.Errorf("failed to encode sync request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sync-bill", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build sync request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sync request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Int32("workspace_id", workspaceID).
		Int32("bill_id", billID).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("Bill sync call completed")

	if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("sync service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var decoded syncBillResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode sync response (status %d): %w", resp.StatusCode, err)
	}

	outcome := &domain.SyncOutcome{
		Success:    decoded.Success && resp.StatusCode < http.StatusBadRequest,
		Error:      decoded.Error,
		ExternalID: decoded.ExternalID,
	}
	if !outcome.Success && outcome.Error == nil {
		msg := fmt.Sprintf("sync rejected with status %d", resp.StatusCode)
		outcome.Error = &msg
	}
	return outcome, nil
}
