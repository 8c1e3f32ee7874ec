package connection

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager owns the transport lifecycle for one client session: connect,
// detect failure, reconnect with backoff, and replay room memberships. It is
// the single writer of connection state; everything else reads through
// Snapshot and the documented methods.
type Manager struct {
	cfg    ManagerConfig
	dial   DialFunc
	logger *slog.Logger

	// onFailure surfaces a sustained connection failure to the user. The
	// Manager throttles calls to at most one per ErrorWindow.
	onFailure func(message string)

	// Output to the dispatcher. Frames are forwarded untouched; only the
	// room field of the envelope is read, for the membership gate.
	out chan RawMessage

	mu                  sync.Mutex
	status              Status
	token               string
	clientID            string
	rooms               map[string]struct{}
	retryCount          int
	nextRetryAt         time.Time
	lastErrorNotifiedAt time.Time
	sock                Socket
	gen                 int // bumped on every install/teardown to invalidate stale loops

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithDialer replaces the transport constructor. Tests use this to inject a
// fake socket.
func WithDialer(dial DialFunc) ManagerOption {
	return func(m *Manager) {
		m.dial = dial
	}
}

// WithFailureHandler sets the callback invoked (throttled) when reconnect
// attempts are exhausted.
func WithFailureHandler(fn func(message string)) ManagerOption {
	return func(m *Manager) {
		m.onFailure = fn
	}
}

// NewManager creates a connection Manager. It does not connect.
func NewManager(cfg ManagerConfig, logger *slog.Logger, opts ...ManagerOption) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		cfg:    cfg,
		dial:   NewSocket,
		logger: logger,
		rooms:  make(map[string]struct{}),
		out:    make(chan RawMessage, cfg.MessageBufferSize),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Connect starts a session. Idempotent: a no-op while Connecting, Connected,
// or Reconnecting. An empty token is the expected state for an
// unauthenticated visitor and is logged, not surfaced.
func (m *Manager) Connect(ctx context.Context, token string) {
	m.mu.Lock()
	switch m.status {
	case Connecting, Connected, Reconnecting:
		m.mu.Unlock()
		return
	}
	if token == "" {
		m.mu.Unlock()
		m.logger.Info("no session token, realtime connection skipped")
		return
	}

	m.token = token
	if m.clientID == "" {
		m.clientID = uuid.NewString()
	}
	m.status = Connecting
	m.retryCount = 0
	if m.cancel != nil {
		m.cancel()
	}
	m.ctx, m.cancel = context.WithCancel(ctx)
	m.mu.Unlock()

	sock, err := m.trySocket()
	if err != nil {
		m.logger.Warn("handshake failed", "error", err)
		m.mu.Lock()
		m.status = Reconnecting
		m.mu.Unlock()

		m.wg.Add(1)
		go m.reconnectLoop()
		return
	}

	m.install(sock)
}

// Disconnect tears the session down. Desired room memberships are cleared
// only on explicit logout, never on transient loss.
func (m *Manager) Disconnect(logout bool) {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	if m.sock != nil {
		m.sock.Close()
		m.sock = nil
	}
	m.gen++
	m.status = Disconnected
	m.retryCount = 0
	m.nextRetryAt = time.Time{}
	if logout {
		m.rooms = make(map[string]struct{})
		m.token = ""
		m.clientID = ""
	}
	m.mu.Unlock()

	m.wg.Wait()
	m.logger.Info("disconnected", "logout", logout)
}

// JoinRoom records desired membership and, when connected, sends the join
// frame immediately. When not connected the membership is replayed on the
// next successful connection.
func (m *Manager) JoinRoom(room string) {
	m.mu.Lock()
	m.rooms[room] = struct{}{}
	sock := m.sock
	connected := m.status == Connected
	m.mu.Unlock()

	if !connected || sock == nil {
		return
	}

	cmd, ok := joinCommand(room)
	if !ok {
		m.logger.Warn("unknown room scope", "room", room)
		return
	}
	m.send(sock, cmd)
}

// LeaveRoom removes desired membership. Events for the room are dropped from
// this point even if a join acknowledgment is still in flight.
func (m *Manager) LeaveRoom(room string) {
	m.mu.Lock()
	delete(m.rooms, room)
	sock := m.sock
	connected := m.status == Connected
	m.mu.Unlock()

	if !connected || sock == nil {
		return
	}

	if cmd, ok := leaveCommand(room); ok {
		m.send(sock, cmd)
	}
}

// Messages returns the dispatcher-facing channel of inbound frames.
func (m *Manager) Messages() <-chan RawMessage {
	return m.out
}

// Status returns the current lifecycle status.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Snapshot returns a copy of the connection state for readers.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	rooms := make([]string, 0, len(m.rooms))
	for room := range m.rooms {
		rooms = append(rooms, room)
	}
	sort.Strings(rooms)

	return Snapshot{
		Status:              m.status,
		Rooms:               rooms,
		RetryCount:          m.retryCount,
		NextRetryAt:         m.nextRetryAt,
		LastErrorNotifiedAt: m.lastErrorNotifiedAt,
	}
}

// trySocket dials one new transport connection.
func (m *Manager) trySocket() (Socket, error) {
	m.mu.Lock()
	cfg := SocketConfig{
		URL:              m.cfg.WSURL,
		Token:            m.token,
		ClientID:         m.clientID,
		HandshakeTimeout: m.cfg.HandshakeTimeout,
		PingInterval:     m.cfg.PingInterval,
		PongTimeout:      m.cfg.PongTimeout,
		WriteTimeout:     m.cfg.WriteTimeout,
		BufferSize:       m.cfg.MessageBufferSize,
	}
	ctx := m.ctx
	m.mu.Unlock()

	sock := m.dial(cfg, m.logger)
	if err := sock.Connect(ctx); err != nil {
		sock.Close()
		return nil, err
	}
	return sock, nil
}

// install replays all desired memberships on the fresh transport, then marks
// the session warm and starts its read loop.
func (m *Manager) install(sock Socket) {
	m.mu.Lock()
	if m.ctx == nil || m.ctx.Err() != nil || (m.status != Connecting && m.status != Reconnecting) {
		m.mu.Unlock()
		sock.Close()
		return
	}
	rooms := make([]string, 0, len(m.rooms))
	for room := range m.rooms {
		rooms = append(rooms, room)
	}
	sort.Strings(rooms)
	m.mu.Unlock()

	for _, room := range rooms {
		cmd, ok := joinCommand(room)
		if !ok {
			m.logger.Warn("unknown room scope, not replayed", "room", room)
			continue
		}
		m.send(sock, cmd)
	}

	m.mu.Lock()
	m.sock = sock
	m.gen++
	gen := m.gen
	m.status = Connected
	m.retryCount = 0
	m.nextRetryAt = time.Time{}
	m.mu.Unlock()

	m.logger.Info("session warm", "rooms", len(rooms))

	m.wg.Add(1)
	go m.readLoop(sock, gen)
}

// send marshals and writes one membership frame.
func (m *Manager) send(sock Socket, cmd Command) {
	data, _ := json.Marshal(cmd)
	if err := sock.Send(data); err != nil {
		m.logger.Warn("failed to send membership frame",
			"type", cmd.Type,
			"room", cmd.Room,
			"error", err,
		)
	}
}

// readLoop forwards inbound frames until the transport drops or the session
// ends. Frames for rooms no longer desired are dropped here.
func (m *Manager) readLoop(sock Socket, gen int) {
	defer m.wg.Done()

	ctx := m.sessionContext()
	if ctx == nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return

		case err := <-sock.Errors():
			m.logger.Warn("transport error", "error", err)
			m.handleDrop(gen)
			return

		case msg, ok := <-sock.Messages():
			if !ok {
				m.handleDrop(gen)
				return
			}

			room := extractRoom(msg.Data)
			if room != "" && !m.wantsRoom(room) {
				m.logger.Debug("dropping event for undesired room", "room", room)
				continue
			}

			raw := RawMessage{
				Data:       msg.Data,
				Room:       room,
				ReceivedAt: msg.ReceivedAt,
			}

			select {
			case m.out <- raw:
			case <-ctx.Done():
				return
			default:
				m.logger.Warn("message buffer full, dropping")
			}
		}
	}
}

// handleDrop moves a live session to Reconnecting. The generation check makes
// reconnection exclusive: a stale read loop cannot start a second attempt.
func (m *Manager) handleDrop(gen int) {
	m.mu.Lock()
	if m.gen != gen || m.status != Connected {
		m.mu.Unlock()
		return
	}
	m.status = Reconnecting
	m.retryCount = 0
	if m.sock != nil {
		m.sock.Close()
		m.sock = nil
	}
	m.mu.Unlock()

	m.wg.Add(1)
	go m.reconnectLoop()
}

// reconnectLoop retries with exponential backoff until success or exhaustion.
func (m *Manager) reconnectLoop() {
	defer m.wg.Done()

	ctx := m.sessionContext()
	if ctx == nil {
		return
	}

	delay := m.cfg.ReconnectBase

	for attempt := 1; attempt <= m.cfg.MaxAttempts; attempt++ {
		m.mu.Lock()
		m.retryCount = attempt
		m.nextRetryAt = time.Now().Add(delay)
		m.mu.Unlock()

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}

		m.logger.Info("attempting reconnection", "attempt", attempt)

		sock, err := m.trySocket()
		if err == nil {
			m.logger.Info("reconnected", "attempt", attempt)
			m.install(sock)
			return
		}

		m.logger.Warn("reconnection failed", "attempt", attempt, "error", err)

		delay *= 2
		if delay > m.cfg.ReconnectMax {
			delay = m.cfg.ReconnectMax
		}
	}

	m.fail()
}

// fail marks the session Failed and surfaces at most one user-visible error
// per ErrorWindow. The throttle timestamp lives in connection state and is
// updated in the same transition that surfaces the error.
func (m *Manager) fail() {
	m.mu.Lock()
	if m.status != Reconnecting {
		m.mu.Unlock()
		return
	}
	m.status = Failed
	now := time.Now()
	notify := now.Sub(m.lastErrorNotifiedAt) >= m.cfg.ErrorWindow
	if notify {
		m.lastErrorNotifiedAt = now
	}
	m.mu.Unlock()

	m.logger.Error("connection failed, retries exhausted", "attempts", m.cfg.MaxAttempts)

	if notify && m.onFailure != nil {
		m.onFailure("Lost connection to the server. Live updates are paused.")
	}
}

func (m *Manager) wantsRoom(room string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rooms[room]
	return ok
}

func (m *Manager) sessionContext() context.Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ctx
}

// roomEnvelope lifts only the room field; payload content stays opaque to
// the Manager.
type roomEnvelope struct {
	Room string `json:"room"`
}

func extractRoom(data []byte) string {
	var env roomEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return ""
	}
	return env.Room
}
