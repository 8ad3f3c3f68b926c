package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBaseURL            = "http://localhost:8000"
	DefaultWSURL              = "ws://localhost:8000/ws"
	DefaultAPITimeout         = 30 * time.Second
	DefaultMaxRetries         = 3
	DefaultReconnectDelay     = 3 * time.Second
	DefaultPingInterval       = 30 * time.Second
	DefaultPingTimeout        = 90 * time.Second
	DefaultWriteTimeout       = 5 * time.Second
	DefaultBufferSize         = 256
	DefaultTelegramRetries    = 3
	DefaultTelegramRetryDelay = time.Second
	DefaultPollInterval       = time.Minute
	DefaultHealthPort         = 8090
	DefaultHealthPath         = "/healthz"
)

func (c *Config) applyDefaults() {
	// API defaults
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}

	// Connection defaults
	if c.Connection.URL == "" {
		c.Connection.URL = DefaultWSURL
	}
	if c.Connection.ReconnectDelay == 0 {
		c.Connection.ReconnectDelay = DefaultReconnectDelay
	}
	if c.Connection.PingInterval == 0 {
		c.Connection.PingInterval = DefaultPingInterval
	}
	if c.Connection.PingTimeout == 0 {
		c.Connection.PingTimeout = DefaultPingTimeout
	}
	if c.Connection.WriteTimeout == 0 {
		c.Connection.WriteTimeout = DefaultWriteTimeout
	}
	if c.Connection.BufferSize == 0 {
		c.Connection.BufferSize = DefaultBufferSize
	}

	// Telegram defaults
	if c.Notifications.Telegram.MaxRetries == 0 {
		c.Notifications.Telegram.MaxRetries = DefaultTelegramRetries
	}
	if c.Notifications.Telegram.RetryDelay == 0 {
		c.Notifications.Telegram.RetryDelay = DefaultTelegramRetryDelay
	}

	// Poller defaults
	if c.Poller.Interval == 0 {
		c.Poller.Interval = DefaultPollInterval
	}

	// Health defaults
	if c.Health.Port == 0 {
		c.Health.Port = DefaultHealthPort
	}
	if c.Health.Path == "" {
		c.Health.Path = DefaultHealthPath
	}
}
