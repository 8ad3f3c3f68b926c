package api

import (
	"context"
	"fmt"
	"net/url"

	"signaldash/internal/model"
)

// GetStocks fetches all tracked stocks with their latest quotes.
func (c *Client) GetStocks(ctx context.Context) ([]model.Stock, error) {
	var stocks []model.Stock
	if err := c.get(ctx, "/api/stocks", nil, &stocks); err != nil {
		return nil, fmt.Errorf("get stocks: %w", err)
	}
	return stocks, nil
}

// GetStock fetches a single stock by symbol. An empty exchange defaults
// to NSE on the backend.
func (c *Client) GetStock(ctx context.Context, symbol string, exchange model.Exchange) (*model.Stock, error) {
	query := url.Values{}
	if exchange != "" {
		query.Set("exchange", string(exchange))
	}

	var stock model.Stock
	if err := c.get(ctx, "/api/stocks/"+symbol, query, &stock); err != nil {
		return nil, fmt.Errorf("get stock %s: %w", symbol, err)
	}
	return &stock, nil
}

// GetOHLCVOptions configures a GetOHLCV request. Zero values fall back to
// the backend defaults (1d candles over one month on NSE).
type GetOHLCVOptions struct {
	Timeframe model.Timeframe
	Period    string // e.g. "1mo", "3mo", "1y"
	Exchange  model.Exchange
}

// GetOHLCV fetches candles for a symbol.
func (c *Client) GetOHLCV(ctx context.Context, symbol string, opts GetOHLCVOptions) ([]model.OHLCV, error) {
	query := url.Values{}
	if opts.Timeframe != "" {
		query.Set("timeframe", string(opts.Timeframe))
	}
	if opts.Period != "" {
		query.Set("period", opts.Period)
	}
	if opts.Exchange != "" {
		query.Set("exchange", string(opts.Exchange))
	}

	var candles []model.OHLCV
	if err := c.get(ctx, "/api/stocks/"+symbol+"/ohlcv", query, &candles); err != nil {
		return nil, fmt.Errorf("get ohlcv %s: %w", symbol, err)
	}
	return candles, nil
}

// GetIndicators fetches the current technical indicators for a symbol.
func (c *Client) GetIndicators(ctx context.Context, symbol string, timeframe model.Timeframe, exchange model.Exchange) (*model.IndicatorSnapshot, error) {
	query := url.Values{}
	if timeframe != "" {
		query.Set("timeframe", string(timeframe))
	}
	if exchange != "" {
		query.Set("exchange", string(exchange))
	}

	var snap model.IndicatorSnapshot
	if err := c.get(ctx, "/api/stocks/"+symbol+"/indicators", query, &snap); err != nil {
		return nil, fmt.Errorf("get indicators %s: %w", symbol, err)
	}
	return &snap, nil
}
