// Package poller periodically fetches the market session over REST and
// republishes it on the event bus, so consumers see session changes through
// the same path as socket events.
package poller

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"signaldash/internal/bus"
	"signaldash/internal/model"
)

// StatusSource provides the current market status. *api.Client satisfies it.
type StatusSource interface {
	GetMarketStatus(ctx context.Context) (*model.MarketStatus, error)
}

// Config holds poller configuration.
type Config struct {
	Interval time.Duration // Poll interval (default: 1m)
	Timeout  time.Duration // Per-request timeout (default: 10s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval: time.Minute,
		Timeout:  10 * time.Second,
	}
}

// Poller periodically fetches the market status via REST API.
type Poller struct {
	cfg    Config
	source StatusSource
	events *bus.Bus
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	lastSession string
}

// New creates a new Poller.
func New(cfg Config, source StatusSource, events *bus.Bus, logger *slog.Logger) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig().Interval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		cfg:    cfg,
		source: source,
		events: events,
		logger: logger,
	}
}

// Start begins the polling loop.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("market status poller started", "interval", p.cfg.Interval)
	return nil
}

// Stop gracefully shuts down the poller.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("market status poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the main polling loop.
func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	// Poll immediately on start.
	p.poll()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.poll()
		}
	}
}

// poll fetches the status once and dispatches it on the bus.
func (p *Poller) poll() {
	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.Timeout)
	defer cancel()

	status, err := p.source.GetMarketStatus(ctx)
	if err != nil {
		p.logger.Warn("failed to fetch market status", "err", err)
		return
	}

	if status.Session != p.lastSession {
		p.logger.Info("market session changed",
			"session", status.Session,
			"open", status.IsOpen,
		)
		p.lastSession = status.Session
	}

	payload, err := json.Marshal(status)
	if err != nil {
		p.logger.Warn("failed to marshal market status", "err", err)
		return
	}

	p.events.Dispatch(bus.Event{
		Kind:       bus.KindMarketStatus,
		Data:       payload,
		ReceivedAt: time.Now(),
	})
}
