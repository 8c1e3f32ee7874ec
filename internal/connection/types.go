package connection

import (
	"errors"
	"log/slog"
	"strings"
	"time"
)

// Errors
var (
	ErrNotConnected    = errors.New("not connected")
	ErrStaleConnection = errors.New("connection stale (no pong)")
	ErrAlreadyClosed   = errors.New("already closed")
)

// Status is the connection lifecycle state of the client session.
type Status int

const (
	// Disconnected means no session is active (initial state, or after an
	// explicit Disconnect).
	Disconnected Status = iota

	// Connecting means the initial handshake is in progress.
	Connecting

	// Connected means the session is warm: transport up and all desired
	// room memberships replayed.
	Connected

	// Reconnecting means the transport dropped and backoff retries are in
	// progress. Desired memberships are preserved.
	Reconnecting

	// Failed means all reconnect attempts were exhausted.
	Failed
)

// String returns the string representation of a Status.
func (s Status) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Reconnecting:
		return "reconnecting"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// TimestampedMessage wraps raw message data with a receive timestamp.
type TimestampedMessage struct {
	Data       []byte    // Raw message bytes from the transport
	ReceivedAt time.Time // Local timestamp when the read returned
}

// RawMessage is a message handed from the Manager to the dispatcher. The
// Manager never inspects payload content; Room is lifted from the envelope
// only to enforce the desired-membership gate.
type RawMessage struct {
	Data       []byte
	Room       string // Empty for session-global messages
	ReceivedAt time.Time
}

// Command is an outbound membership frame.
type Command struct {
	Type string `json:"type"` // e.g. "join:event", "leave:community"
	Room string `json:"room,omitempty"`
}

// Room identifier helpers. Rooms are client-constructed strings matching the
// server's broadcast scopes.
const (
	RoomAdmin       = "admin"
	RoomLeaderboard = "leaderboard"
)

// RoomCommunity returns the room id for a community's broadcast scope.
func RoomCommunity(id string) string { return "community:" + id }

// RoomEvent returns the room id for an event's broadcast scope.
func RoomEvent(id string) string { return "event:" + id }

// joinCommand maps a room id to its join frame discriminator.
func joinCommand(room string) (Command, bool) {
	switch scope := roomScope(room); scope {
	case "community", "event":
		return Command{Type: "join:" + scope, Room: room}, true
	case RoomAdmin, RoomLeaderboard:
		return Command{Type: "join:" + scope}, true
	}
	return Command{}, false
}

// leaveCommand maps a room id to its leave frame discriminator. The wire
// contract has no leave frame for admin or leaderboard; dropping those is
// handled entirely by the desired-membership gate.
func leaveCommand(room string) (Command, bool) {
	switch scope := roomScope(room); scope {
	case "community", "event":
		return Command{Type: "leave:" + scope, Room: room}, true
	}
	return Command{}, false
}

func roomScope(room string) string {
	if i := strings.IndexByte(room, ':'); i >= 0 {
		return room[:i]
	}
	return room
}

// SocketConfig configures a single transport connection.
type SocketConfig struct {
	URL              string        // WebSocket URL
	Token            string        // Bearer token sent at handshake
	ClientID         string        // Per-session client id
	HandshakeTimeout time.Duration // Dial deadline
	PingInterval     time.Duration // Keepalive ping cadence
	PongTimeout      time.Duration // Max silence before the connection is stale
	WriteTimeout     time.Duration // Write deadline for sends
	BufferSize       int           // Message channel buffer size
}

// ManagerConfig configures the connection Manager.
type ManagerConfig struct {
	WSURL             string
	HandshakeTimeout  time.Duration
	PingInterval      time.Duration
	PongTimeout       time.Duration
	WriteTimeout      time.Duration
	ReconnectBase     time.Duration // Base wait between reconnect attempts
	ReconnectMax      time.Duration // Cap on the backoff wait
	MaxAttempts       int           // Attempts before giving up (Failed)
	ErrorWindow       time.Duration // Min gap between repeated failure notifications
	MessageBufferSize int           // Buffer for the dispatcher-facing channel
}

// DefaultManagerConfig returns sensible defaults.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		HandshakeTimeout:  10 * time.Second,
		PingInterval:      15 * time.Second,
		PongTimeout:       60 * time.Second,
		WriteTimeout:      5 * time.Second,
		ReconnectBase:     1 * time.Second,
		ReconnectMax:      30 * time.Second,
		MaxAttempts:       5,
		ErrorWindow:       1 * time.Minute,
		MessageBufferSize: 1000,
	}
}

// Snapshot is a point-in-time copy of the Manager's state for readers. UI
// components read snapshots; they never touch manager internals.
type Snapshot struct {
	Status              Status
	Rooms               []string
	RetryCount          int
	NextRetryAt         time.Time
	LastErrorNotifiedAt time.Time
}

// DialFunc constructs a Socket for one connection attempt. Tests swap this
// for a fake transport.
type DialFunc func(cfg SocketConfig, logger *slog.Logger) Socket
