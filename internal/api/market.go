package api

import (
	"context"
	"fmt"

	"signaldash/internal/model"
)

// GetMarketStatus fetches the current market session.
func (c *Client) GetMarketStatus(ctx context.Context) (*model.MarketStatus, error) {
	var status model.MarketStatus
	if err := c.get(ctx, "/api/market/status", nil, &status); err != nil {
		return nil, fmt.Errorf("get market status: %w", err)
	}
	return &status, nil
}

// GetIndices fetches the tracked index quotes (NIFTY 50, BANK NIFTY).
func (c *Client) GetIndices(ctx context.Context) ([]model.Index, error) {
	var indices []model.Index
	if err := c.get(ctx, "/api/market/indices", nil, &indices); err != nil {
		return nil, fmt.Errorf("get indices: %w", err)
	}
	return indices, nil
}
