package config

import "time"

// ClientConfig is the root configuration for a realtime client instance.
type ClientConfig struct {
	Server        ServerConfig        `yaml:"server"`
	Socket        SocketConfig        `yaml:"socket"`
	Reconnect     ReconnectConfig     `yaml:"reconnect"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Feed          FeedConfig          `yaml:"feed"`
}

// ServerConfig holds the platform backend endpoints and credentials.
type ServerConfig struct {
	RestURL      string        `yaml:"rest_url"`
	WSURL        string        `yaml:"ws_url"`
	SessionToken string        `yaml:"session_token"` // usually supplied via ${VHUB_SESSION_TOKEN}
	Timeout      time.Duration `yaml:"timeout"`
	MaxRetries   int           `yaml:"max_retries"`
}

// SocketConfig holds transport-level WebSocket settings.
type SocketConfig struct {
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	PingInterval     time.Duration `yaml:"ping_interval"`
	PongTimeout      time.Duration `yaml:"pong_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	BufferSize       int           `yaml:"buffer_size"`
}

// ReconnectConfig governs reconnection backoff and failure surfacing.
type ReconnectConfig struct {
	BaseDelay   time.Duration `yaml:"base_delay"`
	MaxDelay    time.Duration `yaml:"max_delay"`
	MaxAttempts int           `yaml:"max_attempts"`
	ErrorWindow time.Duration `yaml:"error_window"` // min gap between repeated connection-failure notifications
}

// NotificationsConfig holds notification surface settings.
type NotificationsConfig struct {
	Cap int `yaml:"cap"` // most-recent entries retained for the live dropdown
}

// FeedConfig holds activity feed settings.
type FeedConfig struct {
	Cap      int `yaml:"cap"` // most-recent entries retained client-side
	PageSize int `yaml:"page_size"`
}
