// Package notify maintains the bounded, ordered queue of user-visible alerts
// derived from reconciled events.
package notify

import (
	"log/slog"
	"sync"
	"time"

	"github.com/volunteerhub/realtime/internal/model"
)

// Kind styles a notification. Error-class entries come from transport
// failures; the rest are domain notifications. Both flow through the same
// queue and ordering rules.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

// Action is an optional link rendered on a notification.
type Action struct {
	Label string
	Link  string
}

// Notification is one user-visible alert. IDs are monotonic within the
// session and assigned by the Surface at enqueue time.
type Notification struct {
	ID        int64
	CreatedAt time.Time
	Kind      Kind
	Title     string
	Message   string
	Read      bool
	Related   *model.RelatedEntity
	Action    *Action
}

// Config holds Surface settings.
type Config struct {
	Cap         int           // most-recent entries retained for the live dropdown
	ErrorWindow time.Duration // min gap between repeated error-class entries
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Cap:         50,
		ErrorWindow: 1 * time.Minute,
	}
}

// Surface is the in-memory notification queue for one session. Insertion is
// always at the head; the feed is bounded, evicting oldest entries beyond
// the cap. The unread counter is maintained incrementally and always equals
// the number of unread entries.
type Surface struct {
	cfg    Config
	logger *slog.Logger

	mu          sync.Mutex
	nextID      int64
	items       []Notification // index 0 = most recent
	unread      int
	lastErrorAt time.Time
	watchers    []chan struct{}
}

// NewSurface creates a notification Surface.
func NewSurface(cfg Config, logger *slog.Logger) *Surface {
	if logger == nil {
		logger = slog.Default()
	}
	return &Surface{
		cfg:    cfg,
		logger: logger,
	}
}

// Enqueue assigns an id and timestamp, prepends the notification, and bumps
// the unread counter unless the entry is pre-read. Returns the assigned id.
func (s *Surface) Enqueue(n Notification) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	n.ID = s.nextID
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	s.items = append([]Notification{n}, s.items...)
	if !n.Read {
		s.unread++
	}

	// Evict oldest beyond the cap; an evicted unread entry leaves the
	// unread count with it.
	for len(s.items) > s.cfg.Cap {
		last := s.items[len(s.items)-1]
		if !last.Read {
			s.unread--
		}
		s.items = s.items[:len(s.items)-1]
	}

	s.notifyLocked()
	return n.ID
}

// EnqueueError enqueues an error-class notification unless one was surfaced
// within the suppression window. Returns the id and whether it was enqueued.
func (s *Surface) EnqueueError(title, message string) (int64, bool) {
	s.mu.Lock()
	now := time.Now()
	if now.Sub(s.lastErrorAt) < s.cfg.ErrorWindow {
		s.mu.Unlock()
		s.logger.Debug("error notification suppressed", "title", title)
		return 0, false
	}
	s.lastErrorAt = now
	s.mu.Unlock()

	id := s.Enqueue(Notification{
		Kind:    KindError,
		Title:   title,
		Message: message,
	})
	return id, true
}

// MarkRead marks one notification read.
func (s *Surface) MarkRead(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			if !s.items[i].Read {
				s.items[i].Read = true
				if s.unread > 0 {
					s.unread--
				}
				s.notifyLocked()
			}
			return
		}
	}
}

// MarkAllRead marks every notification read.
func (s *Surface) MarkAllRead() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		s.items[i].Read = true
	}
	s.unread = 0
	s.notifyLocked()
}

// Dismiss removes a notification; an unread dismissal decrements the
// counter.
func (s *Surface) Dismiss(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			if !s.items[i].Read && s.unread > 0 {
				s.unread--
			}
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.notifyLocked()
			return
		}
	}
}

// List returns a copy of the queue, most recent first.
func (s *Surface) List() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Notification, len(s.items))
	copy(out, s.items)
	return out
}

// UnreadCount returns the number of unread notifications.
func (s *Surface) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unread
}

// Subscribe returns a channel that receives a signal whenever the queue
// changes. The signal coalesces; readers re-read List/UnreadCount.
func (s *Surface) Subscribe() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan struct{}, 1)
	s.watchers = append(s.watchers, ch)
	return ch
}

func (s *Surface) notifyLocked() {
	for _, ch := range s.watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
