package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"signaldash/internal/model"
)

// GetSignalsOptions configures a GetSignals request.
type GetSignalsOptions struct {
	MinConfidence float64
	SignalType    model.SignalType
	Limit         int
}

// GetSignals fetches the active signals, newest first.
func (c *Client) GetSignals(ctx context.Context, opts GetSignalsOptions) ([]model.Signal, error) {
	query := url.Values{}

	if opts.MinConfidence > 0 {
		query.Set("min_confidence", strconv.FormatFloat(opts.MinConfidence, 'f', -1, 64))
	}
	if opts.SignalType != "" {
		query.Set("signal_type", string(opts.SignalType))
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}

	var signals []model.Signal
	if err := c.get(ctx, "/api/signals", query, &signals); err != nil {
		return nil, fmt.Errorf("get signals: %w", err)
	}
	return signals, nil
}

// GetSignal fetches a single signal by id.
func (c *Client) GetSignal(ctx context.Context, id int64) (*model.Signal, error) {
	var sig model.Signal
	if err := c.get(ctx, "/api/signals/"+strconv.FormatInt(id, 10), nil, &sig); err != nil {
		return nil, fmt.Errorf("get signal %d: %w", id, err)
	}
	return &sig, nil
}

// GetSignalForStock fetches the latest signal for one symbol.
func (c *Client) GetSignalForStock(ctx context.Context, symbol string) (*model.Signal, error) {
	var sig model.Signal
	if err := c.get(ctx, "/api/signals/stock/"+symbol, nil, &sig); err != nil {
		return nil, fmt.Errorf("get signal for %s: %w", symbol, err)
	}
	return &sig, nil
}

// GenerateSignalsRequest is the body for POST /api/signals/generate.
// A nil Symbols slice asks the backend to scan its whole universe.
type GenerateSignalsRequest struct {
	Symbols       []string `json:"symbols,omitempty"`
	MinConfidence float64  `json:"min_confidence"`
}

// GenerateSignals triggers signal generation on the backend. Results arrive
// asynchronously as SIGNAL_UPDATE frames on the socket.
func (c *Client) GenerateSignals(ctx context.Context, req GenerateSignalsRequest) error {
	if req.MinConfidence == 0 {
		req.MinConfidence = 60
	}
	if err := c.post(ctx, "/api/signals/generate", req, nil); err != nil {
		return fmt.Errorf("generate signals: %w", err)
	}
	return nil
}
