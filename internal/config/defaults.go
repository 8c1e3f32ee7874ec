package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultRestURL          = "https://api.volunteerhub.app/v1"
	DefaultWSURL            = "wss://api.volunteerhub.app/realtime"
	DefaultAPITimeout       = 30 * time.Second
	DefaultMaxRetries       = 3
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultPingInterval     = 15 * time.Second
	DefaultPongTimeout      = 60 * time.Second
	DefaultWriteTimeout     = 5 * time.Second
	DefaultSocketBuffer     = 1000
	DefaultBaseDelay        = 1 * time.Second
	DefaultMaxDelay         = 30 * time.Second
	DefaultMaxAttempts      = 5
	DefaultErrorWindow      = 1 * time.Minute
	DefaultNotificationCap  = 50
	DefaultFeedCap          = 100
	DefaultFeedPageSize     = 20
)

func (c *ClientConfig) applyDefaults() {
	if c.Server.RestURL == "" {
		c.Server.RestURL = DefaultRestURL
	}
	if c.Server.WSURL == "" {
		c.Server.WSURL = DefaultWSURL
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = DefaultAPITimeout
	}
	if c.Server.MaxRetries == 0 {
		c.Server.MaxRetries = DefaultMaxRetries
	}

	if c.Socket.HandshakeTimeout == 0 {
		c.Socket.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if c.Socket.PingInterval == 0 {
		c.Socket.PingInterval = DefaultPingInterval
	}
	if c.Socket.PongTimeout == 0 {
		c.Socket.PongTimeout = DefaultPongTimeout
	}
	if c.Socket.WriteTimeout == 0 {
		c.Socket.WriteTimeout = DefaultWriteTimeout
	}
	if c.Socket.BufferSize == 0 {
		c.Socket.BufferSize = DefaultSocketBuffer
	}

	if c.Reconnect.BaseDelay == 0 {
		c.Reconnect.BaseDelay = DefaultBaseDelay
	}
	if c.Reconnect.MaxDelay == 0 {
		c.Reconnect.MaxDelay = DefaultMaxDelay
	}
	if c.Reconnect.MaxAttempts == 0 {
		c.Reconnect.MaxAttempts = DefaultMaxAttempts
	}
	if c.Reconnect.ErrorWindow == 0 {
		c.Reconnect.ErrorWindow = DefaultErrorWindow
	}

	if c.Notifications.Cap == 0 {
		c.Notifications.Cap = DefaultNotificationCap
	}

	if c.Feed.Cap == 0 {
		c.Feed.Cap = DefaultFeedCap
	}
	if c.Feed.PageSize == 0 {
		c.Feed.PageSize = DefaultFeedPageSize
	}
}
