package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"signaldash/internal/model"
)

// RunBacktest starts an asynchronous backtest run and returns its initial
// record. Poll GetBacktestResult until Status leaves "running".
func (c *Client) RunBacktest(ctx context.Context, cfg model.BacktestConfig) (*model.BacktestResult, error) {
	var result model.BacktestResult
	if err := c.post(ctx, "/api/backtest/run", cfg, &result); err != nil {
		return nil, fmt.Errorf("run backtest: %w", err)
	}
	return &result, nil
}

// GetBacktestResult fetches one backtest run by id.
func (c *Client) GetBacktestResult(ctx context.Context, id string) (*model.BacktestResult, error) {
	var result model.BacktestResult
	if err := c.getBare(ctx, "/api/backtest/results/"+id, nil, &result); err != nil {
		return nil, fmt.Errorf("get backtest result %s: %w", id, err)
	}
	return &result, nil
}

// ListBacktestOptions configures a ListBacktestResults request.
type ListBacktestOptions struct {
	Symbol string
	Limit  int
}

// ListBacktestResults fetches past backtest runs, newest first.
func (c *Client) ListBacktestResults(ctx context.Context, opts ListBacktestOptions) ([]model.BacktestResult, error) {
	query := url.Values{}
	if opts.Symbol != "" {
		query.Set("symbol", opts.Symbol)
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}

	var results []model.BacktestResult
	if err := c.getBare(ctx, "/api/backtest/results", query, &results); err != nil {
		return nil, fmt.Errorf("list backtest results: %w", err)
	}
	return results, nil
}

// DeleteBacktestResult removes one backtest run.
func (c *Client) DeleteBacktestResult(ctx context.Context, id string) error {
	if err := c.del(ctx, "/api/backtest/results/"+id); err != nil {
		return fmt.Errorf("delete backtest result %s: %w", id, err)
	}
	return nil
}
