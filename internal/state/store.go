// Package state reconciles inbound server events and local optimistic
// mutations into one session-scoped view of platform state.
//
// All mutation flows through pure per-slice reducers, applied under the
// Store's lock. User-initiated writes (join, leave, attendance) converge
// through the same reducer contract as live events, so the two paths cannot
// diverge. Live events referencing entities the client never loaded are
// no-ops, not errors.
//
// Delivery note: capacity and event:update reconcile by wholesale
// replacement and are naturally idempotent under replay. Additive events
// without server ids (points:earned, user:levelup) are at-least-once; the
// wire protocol has no sequence numbers to dedup them on.
package state

import (
	"log/slog"
	"sync"

	"github.com/volunteerhub/realtime/internal/event"
	"github.com/volunteerhub/realtime/internal/model"
)

// Config holds Store settings.
type Config struct {
	FeedCap int // most-recent activity entries retained client-side
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{FeedCap: 100}
}

// Store holds the reconciled client state for one session. UI components
// read copies through the accessor methods; nothing outside the Store
// mutates reconciled state directly.
type Store struct {
	cfg    Config
	logger *slog.Logger

	mu            sync.RWMutex
	activity      Activity
	capacity      map[string]model.CapacitySnapshot
	participation map[string]Participation
	members       map[string]Members
	ratings       map[string][]model.Rating
	photos        map[string][]model.Photo
	verifications map[string]string // community id → status
	attendance    map[string]string // event id → "verified" | "rejected"
	profile       Profile

	watchers []chan struct{}
}

// New creates an empty Store.
func New(cfg Config, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.FeedCap == 0 {
		cfg.FeedCap = DefaultConfig().FeedCap
	}

	return &Store{
		cfg:           cfg,
		logger:        logger,
		capacity:      make(map[string]model.CapacitySnapshot),
		participation: make(map[string]Participation),
		members:       make(map[string]Members),
		ratings:       make(map[string][]model.Rating),
		photos:        make(map[string][]model.Photo),
		verifications: make(map[string]string),
		attendance:    make(map[string]string),
	}
}

// SetUser records the authenticated user the profile slice belongs to.
func (s *Store) SetUser(userID string) {
	s.mu.Lock()
	s.profile.UserID = userID
	s.mu.Unlock()
}

// Apply reconciles one inbound event. The switch is exhaustive over the
// closed event sum; adding a kind without a case here is a bug.
func (s *Store) Apply(ev event.Inbound) {
	s.mu.Lock()
	changed := s.applyLocked(ev)
	s.mu.Unlock()

	if changed {
		s.notifyWatchers()
	}
}

func (s *Store) applyLocked(ev event.Inbound) bool {
	switch e := ev.(type) {
	case event.PointsEarned:
		s.profile = reducePointsEarned(s.profile, e.Points)
		return true

	case event.LevelUp:
		s.profile = reduceLevelUp(s.profile, e.Level)
		return true

	case event.AttendanceVerified:
		s.attendance[e.EventID] = "verified"
		return true

	case event.ParticipationRejected:
		s.attendance[e.EventID] = "rejected"
		return true

	case event.VerificationChanged:
		s.verifications[e.CommunityID] = e.Status
		return true

	case event.NewParticipant:
		p, ok := s.participation[e.EventID]
		if !ok {
			s.logger.Debug("participant event for unloaded event", "event_id", e.EventID)
			return false
		}
		s.participation[e.EventID] = reduceParticipantAdd(p, e.Participant)
		return true

	case event.NewRating:
		if _, ok := s.participation[e.Rating.EventID]; !ok {
			return false
		}
		for _, have := range s.ratings[e.Rating.EventID] {
			if have.RatingID == e.Rating.RatingID {
				return false
			}
		}
		s.ratings[e.Rating.EventID] = append([]model.Rating{e.Rating}, s.ratings[e.Rating.EventID]...)
		return true

	case event.PhotoUploaded:
		if _, ok := s.participation[e.Photo.EventID]; !ok {
			return false
		}
		for _, have := range s.photos[e.Photo.EventID] {
			if have.PhotoID == e.Photo.PhotoID {
				return false
			}
		}
		s.photos[e.Photo.EventID] = append([]model.Photo{e.Photo}, s.photos[e.Photo.EventID]...)
		return true

	case event.CapacityChanged:
		if _, ok := s.capacity[e.Capacity.EventID]; !ok {
			s.logger.Debug("capacity update for unloaded event", "event_id", e.Capacity.EventID)
			return false
		}
		s.capacity[e.Capacity.EventID] = e.Capacity
		return true

	case event.EventUpdated:
		if _, ok := s.participation[e.Event.EventID]; !ok {
			s.logger.Debug("event update for unloaded event", "event_id", e.Event.EventID)
			return false
		}
		s.participation[e.Event.EventID] = reduceParticipationReplace(e.Event)
		s.capacity[e.Event.EventID] = e.Event.Capacity()
		return true

	case event.NewMember:
		m, ok := s.members[e.CommunityID]
		if !ok {
			s.logger.Debug("member event for unloaded community", "community_id", e.CommunityID)
			return false
		}
		s.members[e.CommunityID] = reduceMemberAdd(m, e.Member)
		return true

	case event.NewActivity:
		s.activity = reduceActivityPrepend(s.activity, e.Entry, s.cfg.FeedCap)
		return true
	}

	s.logger.Warn("unhandled event kind", "kind", ev.Kind())
	return false
}

// -----------------------------------------------------------------------------
// Page-fetch and optimistic entry points (same reducer contract as events)
// -----------------------------------------------------------------------------

// UpsertEvent seeds or replaces an event's state wholesale from an
// authoritative entity (a detail fetch or the success payload of a write
// operation).
func (s *Store) UpsertEvent(d model.EventDetail) {
	s.mu.Lock()
	s.participation[d.EventID] = reduceParticipationReplace(d)
	s.capacity[d.EventID] = d.Capacity()
	s.mu.Unlock()
	s.notifyWatchers()
}

// DropEvent forgets an event the UI no longer shows.
func (s *Store) DropEvent(eventID string) {
	s.mu.Lock()
	delete(s.participation, eventID)
	delete(s.capacity, eventID)
	delete(s.ratings, eventID)
	delete(s.photos, eventID)
	s.mu.Unlock()
	s.notifyWatchers()
}

// UpsertCommunity seeds a community's member slice from a page fetch.
func (s *Store) UpsertCommunity(communityID string, members []model.Member, total int) {
	cp := make([]model.Member, len(members))
	copy(cp, members)

	s.mu.Lock()
	s.members[communityID] = Members{Members: cp, Total: total}
	s.mu.Unlock()
	s.notifyWatchers()
}

// ReplaceActivityPage applies a page fetch: the working set and total are
// replaced wholesale, regardless of prior local state.
func (s *Store) ReplaceActivityPage(entries []model.ActivityEntry, total int) {
	s.mu.Lock()
	s.activity = reduceActivityPage(entries, total)
	s.mu.Unlock()
	s.notifyWatchers()
}

// RemoveActivity removes one feed entry, decrementing the total with a
// floor of zero.
func (s *Store) RemoveActivity(id string) {
	s.mu.Lock()
	s.activity = reduceActivityRemove(s.activity, id)
	s.mu.Unlock()
	s.notifyWatchers()
}

// AddParticipant optimistically adds one participant to a loaded event.
func (s *Store) AddParticipant(eventID string, p model.Participant) {
	s.mu.Lock()
	if cur, ok := s.participation[eventID]; ok {
		s.participation[eventID] = reduceParticipantAdd(cur, p)
	}
	s.mu.Unlock()
	s.notifyWatchers()
}

// RemoveParticipant optimistically removes one participant from a loaded
// event.
func (s *Store) RemoveParticipant(eventID, userID string) {
	s.mu.Lock()
	if cur, ok := s.participation[eventID]; ok {
		s.participation[eventID] = reduceParticipantRemove(cur, userID)
	}
	s.mu.Unlock()
	s.notifyWatchers()
}

// -----------------------------------------------------------------------------
// Readers
// -----------------------------------------------------------------------------

// Activity returns a copy of the feed and its server-side total.
func (s *Store) Activity() ([]model.ActivityEntry, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.ActivityEntry, len(s.activity.Entries))
	copy(out, s.activity.Entries)
	return out, s.activity.Total
}

// Capacity returns the capacity snapshot for a loaded event.
func (s *Store) Capacity(eventID string) (model.CapacitySnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.capacity[eventID]
	return snap, ok
}

// Participants returns a copy of a loaded event's participant list and its
// registered total.
func (s *Store) Participants(eventID string) ([]model.Participant, int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.participation[eventID]
	if !ok {
		return nil, 0, false
	}
	out := make([]model.Participant, len(p.Participants))
	copy(out, p.Participants)
	return out, p.Registered, true
}

// Members returns a copy of a loaded community's member list and total.
func (s *Store) Members(communityID string) ([]model.Member, int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.members[communityID]
	if !ok {
		return nil, 0, false
	}
	out := make([]model.Member, len(m.Members))
	copy(out, m.Members)
	return out, m.Total, true
}

// Ratings returns a copy of a loaded event's ratings, most recent first.
func (s *Store) Ratings(eventID string) []model.Rating {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Rating, len(s.ratings[eventID]))
	copy(out, s.ratings[eventID])
	return out
}

// Photos returns a copy of a loaded event's photos, most recent first.
func (s *Store) Photos(eventID string) []model.Photo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Photo, len(s.photos[eventID]))
	copy(out, s.photos[eventID])
	return out
}

// Profile returns the current user's gamification slice.
func (s *Store) Profile() Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// VerificationStatus returns a community's last known verification status.
func (s *Store) VerificationStatus(communityID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status, ok := s.verifications[communityID]
	return status, ok
}

// AttendanceStatus returns the user's attendance status for an event.
func (s *Store) AttendanceStatus(eventID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status, ok := s.attendance[eventID]
	return status, ok
}

// Subscribe returns a channel signalled whenever reconciled state changes.
// Signals coalesce; readers re-read through the accessors.
func (s *Store) Subscribe() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan struct{}, 1)
	s.watchers = append(s.watchers, ch)
	return ch
}

func (s *Store) notifyWatchers() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
