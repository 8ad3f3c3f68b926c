package model

import "time"

// SignalType is the trade direction of a generated signal.
type SignalType string

const (
	SignalBuy  SignalType = "BUY"
	SignalSell SignalType = "SELL"
	SignalHold SignalType = "HOLD"
)

// Valid reports whether t is one of the known signal types.
func (t SignalType) Valid() bool {
	switch t {
	case SignalBuy, SignalSell, SignalHold:
		return true
	}
	return false
}

// Exchange identifies an Indian stock exchange.
type Exchange string

const (
	ExchangeNSE Exchange = "NSE"
	ExchangeBSE Exchange = "BSE"
)

// Timeframe is a candle interval supported by the backend.
type Timeframe string

const (
	Timeframe1m  Timeframe = "1m"
	Timeframe5m  Timeframe = "5m"
	Timeframe15m Timeframe = "15m"
	Timeframe1h  Timeframe = "1h"
	Timeframe1d  Timeframe = "1d"
)

// Stock is a listed equity with its latest quote.
type Stock struct {
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name"`
	Exchange      Exchange `json:"exchange"`
	Sector        string   `json:"sector"`
	CurrentPrice  float64  `json:"currentPrice"`
	Change        float64  `json:"change"`
	ChangePercent float64  `json:"changePercent"`
	Volume        int64    `json:"volume"`
	AvgVolume     int64    `json:"avgVolume"`
	MarketCap     float64  `json:"marketCap,omitempty"`
	PreviousClose float64  `json:"previousClose,omitempty"`
}

// Signal is an algorithmically generated trading signal.
type Signal struct {
	ID         int64      `json:"id"`
	Symbol     string     `json:"symbol"`
	Type       SignalType `json:"signal_type"`
	Strategy   string     `json:"strategy_name"`
	Confidence float64    `json:"confidence"` // 0-100
	EntryPrice float64    `json:"entry_price"`
	StopLoss   float64    `json:"stop_loss"`
	Target     float64    `json:"target_price"`
	RiskReward float64    `json:"risk_reward"`
	Reasoning  string     `json:"reasoning"`
	Timeframe  Timeframe  `json:"timeframe"`
	Active     bool       `json:"is_active"`
	Timestamp  time.Time  `json:"timestamp"`
}

// MACD holds the MACD line, its signal line, and the histogram.
type MACD struct {
	Value     float64 `json:"value"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// BollingerBands holds the three band values.
type BollingerBands struct {
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
}

// IndicatorSnapshot is the set of technical indicators computed by the
// backend for one symbol at one point in time.
type IndicatorSnapshot struct {
	RSI            float64        `json:"rsi"`
	MACD           MACD           `json:"macd"`
	EMA20          float64        `json:"ema20"`
	EMA50          float64        `json:"ema50"`
	SMA200         float64        `json:"sma200"`
	BollingerBands BollingerBands `json:"bollingerBands"`
	VWAP           float64        `json:"vwap"`
	ATR            float64        `json:"atr"`
	VolumeSpike    bool           `json:"volumeSpike"`
}

// OHLCV is a single candle.
type OHLCV struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

// BacktestConfig is the request body for starting a backtest run.
type BacktestConfig struct {
	Symbol         string  `json:"symbol"`
	Strategy       string  `json:"strategy_name"`
	StartDate      string  `json:"start_date"` // YYYY-MM-DD
	EndDate        string  `json:"end_date"`   // YYYY-MM-DD
	InitialCapital float64 `json:"initial_capital"`
}

// Trade is a single simulated trade inside a backtest run.
type Trade struct {
	EntryDate    string  `json:"entry_date"`
	EntryPrice   float64 `json:"entry_price"`
	ExitDate     string  `json:"exit_date,omitempty"`
	ExitPrice    float64 `json:"exit_price,omitempty"`
	PositionType string  `json:"position_type"` // LONG or SHORT
	Quantity     int     `json:"quantity"`
	StopLoss     float64 `json:"stop_loss"`
	Target       float64 `json:"target"`
	PnL          float64 `json:"pnl"`
	PnLPct       float64 `json:"pnl_pct"`
	Status       string  `json:"status"` // OPEN, WIN or LOSS
}

// EquityPoint is one sample of the equity curve of a backtest run.
type EquityPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// BacktestResult summarizes one backtest run on the backend. Runs execute
// asynchronously; Status moves from "running" to "completed" or "failed".
type BacktestResult struct {
	ID             string        `json:"id"`
	Status         string        `json:"status"`
	Symbol         string        `json:"symbol"`
	Strategy       string        `json:"strategy_name"`
	StartDate      string        `json:"start_date"`
	EndDate        string        `json:"end_date"`
	InitialCapital float64       `json:"initial_capital"`
	FinalCapital   float64       `json:"final_capital,omitempty"`
	TotalReturn    float64       `json:"total_return,omitempty"`
	TotalReturnPct float64       `json:"total_return_pct,omitempty"`
	WinRate        float64       `json:"win_rate,omitempty"`
	ProfitFactor   float64       `json:"profit_factor,omitempty"`
	SharpeRatio    float64       `json:"sharpe_ratio,omitempty"`
	MaxDrawdown    float64       `json:"max_drawdown,omitempty"`
	MaxDrawdownPct float64       `json:"max_drawdown_pct,omitempty"`
	TotalTrades    int           `json:"total_trades,omitempty"`
	WinningTrades  int           `json:"winning_trades,omitempty"`
	LosingTrades   int           `json:"losing_trades,omitempty"`
	AvgWin         float64       `json:"avg_win,omitempty"`
	AvgLoss        float64       `json:"avg_loss,omitempty"`
	EquityCurve    []EquityPoint `json:"equity_curve,omitempty"`
	Trades         []Trade       `json:"trades,omitempty"`
	ErrorMessage   string        `json:"error_message,omitempty"`
	CreatedAt      string        `json:"created_at"`
}

// Market session names reported by the backend.
const (
	SessionPreMarket   = "Pre-Market"
	SessionMarketHours = "Market Hours"
	SessionPostMarket  = "Post-Market"
	SessionClosed      = "Closed"
	SessionWeekend     = "Weekend"
	SessionHoliday     = "Holiday"
)

// MarketStatus describes whether the market is open and when it changes next.
type MarketStatus struct {
	IsOpen    bool      `json:"isOpen"`
	Session   string    `json:"session"`
	NextEvent string    `json:"nextEvent"`
	Timestamp time.Time `json:"timestamp"`
}

// Index is a market index quote (NIFTY 50, BANK NIFTY).
type Index struct {
	Name          string  `json:"name"`
	Value         float64 `json:"value"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
}
