package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("api.base_url must start with http:// or https://, got %q", c.API.BaseURL)
	}

	if !strings.HasPrefix(c.Connection.URL, "ws://") && !strings.HasPrefix(c.Connection.URL, "wss://") {
		return fmt.Errorf("connection.url must start with ws:// or wss://, got %q", c.Connection.URL)
	}
	if c.Connection.ReconnectDelay <= 0 {
		return errors.New("connection.reconnect_delay must be > 0")
	}
	if c.Connection.BufferSize < 1 {
		return errors.New("connection.buffer_size must be >= 1")
	}

	// Telegram is optional, but token and chat id come as a pair.
	tg := c.Notifications.Telegram
	if (tg.BotToken == "") != (tg.ChatID == "") {
		return errors.New("notifications.telegram requires both bot_token and chat_id")
	}

	if c.Poller.Interval <= 0 {
		return errors.New("poller.interval must be > 0")
	}

	if c.Health.Port < 1 || c.Health.Port > 65535 {
		return fmt.Errorf("health.port must be between 1 and 65535, got %d", c.Health.Port)
	}

	return nil
}
