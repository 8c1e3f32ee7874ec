package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks that all required fields are set and values are valid.
func (c *ClientConfig) Validate() error {
	if c.Server.RestURL == "" {
		return errors.New("server.rest_url is required")
	}
	if c.Server.WSURL == "" {
		return errors.New("server.ws_url is required")
	}
	if !strings.HasPrefix(c.Server.WSURL, "ws://") && !strings.HasPrefix(c.Server.WSURL, "wss://") {
		return fmt.Errorf("server.ws_url must use ws:// or wss://, got %q", c.Server.WSURL)
	}

	if c.Socket.BufferSize < 1 {
		return errors.New("socket.buffer_size must be >= 1")
	}
	if c.Socket.PongTimeout <= c.Socket.PingInterval {
		return fmt.Errorf("socket.pong_timeout (%v) must exceed ping_interval (%v)",
			c.Socket.PongTimeout, c.Socket.PingInterval)
	}

	if c.Reconnect.MaxAttempts < 1 {
		return errors.New("reconnect.max_attempts must be >= 1")
	}
	if c.Reconnect.BaseDelay > c.Reconnect.MaxDelay {
		return fmt.Errorf("reconnect.base_delay (%v) cannot exceed max_delay (%v)",
			c.Reconnect.BaseDelay, c.Reconnect.MaxDelay)
	}

	if c.Notifications.Cap < 1 {
		return errors.New("notifications.cap must be >= 1")
	}
	if c.Feed.Cap < 1 {
		return errors.New("feed.cap must be >= 1")
	}
	if c.Feed.PageSize < 1 {
		return errors.New("feed.page_size must be >= 1")
	}

	return nil
}
