package config

import "time"

// Config is the root configuration for a signaldash instance.
type Config struct {
	Instance      InstanceConfig      `yaml:"instance"`
	API           APIConfig           `yaml:"api"`
	Connection    ConnectionConfig    `yaml:"connection"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Watchlist     WatchlistConfig     `yaml:"watchlist"`
	Poller        PollerConfig        `yaml:"poller"`
	Health        HealthConfig        `yaml:"health"`
}

// InstanceConfig identifies this signaldash instance.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// APIConfig holds backend REST API settings.
type APIConfig struct {
	BaseURL    string        `yaml:"base_url"`
	APIKey     string        `yaml:"api_key"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// ConnectionConfig holds websocket connection settings.
type ConnectionConfig struct {
	URL            string        `yaml:"url"`
	ReconnectDelay time.Duration `yaml:"reconnect_delay"`
	PingInterval   time.Duration `yaml:"ping_interval"`
	PingTimeout    time.Duration `yaml:"ping_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	BufferSize     int           `yaml:"buffer_size"`
}

// NotificationsConfig controls alert delivery.
type NotificationsConfig struct {
	Desktop  bool           `yaml:"desktop"`
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig holds Telegram bot credentials for alert delivery.
// Both fields empty disables the Telegram notifier.
type TelegramConfig struct {
	BotToken   string        `yaml:"bot_token"`
	ChatID     string        `yaml:"chat_id"`
	MaxRetries int           `yaml:"max_retries"`
	RetryDelay time.Duration `yaml:"retry_delay"`
}

// WatchlistConfig holds local watchlist store settings.
type WatchlistConfig struct {
	DBPath string `yaml:"db_path"`
}

// PollerConfig holds market-status poller settings.
type PollerConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// HealthConfig holds the local health endpoint settings.
type HealthConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}
