// Package aggregation holds the collaborators that compute report payloads.
// The cache layer treats them as black boxes.
package aggregation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"go-report-cache/internal/config"
	"go-report-cache/internal/interfaces"
	"go-report-cache/internal/models"
	"go-report-cache/internal/utils"
)

// ErrNotConfigured is returned when no aggregation upstream is set
var ErrNotConfigured = errors.New("aggregation upstream is not configured")

// maxErrorBody bounds how much of an upstream error body is reported
const maxErrorBody = 512

// Func adapts a plain function to interfaces.Aggregator
type Func func(ctx context.Context, primary, comparison models.ResolvedRange, zone string, limit int) (json.RawMessage, error)

// Ensure Func implements interfaces.Aggregator
var _ interfaces.Aggregator = Func(nil)

// Compute calls f
func (f Func) Compute(ctx context.Context, primary, comparison models.ResolvedRange, zone string, limit int) (json.RawMessage, error) {
	return f(ctx, primary, comparison, zone, limit)
}

// Unavailable is the aggregator used when no upstream is configured
var Unavailable = Func(func(context.Context, models.ResolvedRange, models.ResolvedRange, string, int) (json.RawMessage, error) {
	return nil, ErrNotConfigured
})

// rangeBody is the wire form of a resolved range
type rangeBody struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// computeRequest is POSTed to the upstream
type computeRequest struct {
	Primary    rangeBody `json:"primary"`
	Comparison rangeBody `json:"comparison"`
	Zone       string    `json:"zone"`
	Limit      int       `json:"limit"`
}

func toRangeBody(r models.ResolvedRange) rangeBody {
	return rangeBody{Start: utils.FormatDate(r.Start), End: utils.FormatDate(r.End)}
}

// HTTPAggregator forwards compute requests to an upstream aggregation
// service and returns its JSON response body as the payload
type HTTPAggregator struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// Ensure HTTPAggregator implements interfaces.Aggregator
var _ interfaces.Aggregator = (*HTTPAggregator)(nil)

// NewHTTPAggregator creates an aggregator posting to cfg.URL
func NewHTTPAggregator(cfg *config.AggregationConfig, logger *zap.Logger) *HTTPAggregator {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPAggregator{
		url:    cfg.URL,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Compute POSTs the ranges, zone and limit and returns the response body
func (a *HTTPAggregator) Compute(ctx context.Context, primary, comparison models.ResolvedRange, zone string, limit int) (json.RawMessage, error) {
	body, err := json.Marshal(computeRequest{
		Primary:    toRangeBody(primary),
		Comparison: toRangeBody(comparison),
		Zone:       zone,
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("aggregation request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read aggregation response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if len(data) > maxErrorBody {
			data = data[:maxErrorBody]
		}
		a.logger.Warn("Aggregation upstream returned an error",
			zap.Int("status", resp.StatusCode),
			zap.String("zone", zone))
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, bytes.TrimSpace(data))
	}

	if !json.Valid(data) {
		return nil, errors.New("aggregation response is not valid JSON")
	}
	return json.RawMessage(data), nil
}
