package state

import "github.com/volunteerhub/realtime/internal/model"

// Slice reducers. Every reducer is a pure function of (slice, input) → next
// slice with no hidden I/O, so reconciliation is testable without the Store.
// Reducers must tolerate replay: the transport can redeliver events after a
// reconnect, and where an entity id exists the reducer skips the duplicate
// rather than double-counting. Additive events without ids (points) are
// at-least-once; see the package doc.

// Activity is the feed slice. Entries are capped; Total is independent and
// tracks the server-side count, never derived from len(Entries).
type Activity struct {
	Entries []model.ActivityEntry
	Total   int
}

// reduceActivityPage replaces the working set wholesale. Ordering and total
// authority belong to the server for paged views.
func reduceActivityPage(entries []model.ActivityEntry, total int) Activity {
	out := make([]model.ActivityEntry, len(entries))
	copy(out, entries)
	if total < 0 {
		total = 0
	}
	return Activity{Entries: out, Total: total}
}

// reduceActivityPrepend prepends exactly one live entry and increments the
// total by exactly one. An entry whose id is already present is a replayed
// duplicate and leaves the slice unchanged.
func reduceActivityPrepend(s Activity, e model.ActivityEntry, cap int) Activity {
	if e.ID != "" {
		for _, have := range s.Entries {
			if have.ID == e.ID {
				return s
			}
		}
	}

	entries := make([]model.ActivityEntry, 0, len(s.Entries)+1)
	entries = append(entries, e)
	entries = append(entries, s.Entries...)
	if cap > 0 && len(entries) > cap {
		entries = entries[:cap]
	}
	return Activity{Entries: entries, Total: s.Total + 1}
}

// reduceActivityRemove filters one entry by id and decrements the total,
// floored at zero.
func reduceActivityRemove(s Activity, id string) Activity {
	entries := make([]model.ActivityEntry, 0, len(s.Entries))
	removed := false
	for _, e := range s.Entries {
		if e.ID == id {
			removed = true
			continue
		}
		entries = append(entries, e)
	}
	if !removed {
		return s
	}
	total := s.Total - 1
	if total < 0 {
		total = 0
	}
	return Activity{Entries: entries, Total: total}
}

// Participation is the per-event participant slice. Registered is
// independent of len(Participants): the list may be capped or partial while
// the total is not.
type Participation struct {
	Participants []model.Participant
	Registered   int
}

// reduceParticipantAdd prepends one participant and increments the total.
// A participant already present is a replayed duplicate.
func reduceParticipantAdd(s Participation, p model.Participant) Participation {
	for _, have := range s.Participants {
		if have.UserID == p.UserID {
			return s
		}
	}

	participants := make([]model.Participant, 0, len(s.Participants)+1)
	participants = append(participants, p)
	participants = append(participants, s.Participants...)
	return Participation{Participants: participants, Registered: s.Registered + 1}
}

// reduceParticipantRemove filters one participant by identity and decrements
// the total, floored at zero.
func reduceParticipantRemove(s Participation, userID string) Participation {
	participants := make([]model.Participant, 0, len(s.Participants))
	removed := false
	for _, p := range s.Participants {
		if p.UserID == userID {
			removed = true
			continue
		}
		participants = append(participants, p)
	}
	if !removed {
		return s
	}
	registered := s.Registered - 1
	if registered < 0 {
		registered = 0
	}
	return Participation{Participants: participants, Registered: registered}
}

// reduceParticipationReplace applies a server-authoritative event entity.
// Shared fields are replaced wholesale, never merged field-by-field, so a
// stale optimistic fragment can never resurface.
func reduceParticipationReplace(d model.EventDetail) Participation {
	participants := make([]model.Participant, len(d.Participants))
	copy(participants, d.Participants)
	return Participation{Participants: participants, Registered: d.Registered}
}

// Members is the per-community member slice.
type Members struct {
	Members []model.Member
	Total   int
}

// reduceMemberAdd prepends one member and increments the total. A member
// already present is a replayed duplicate.
func reduceMemberAdd(s Members, m model.Member) Members {
	for _, have := range s.Members {
		if have.UserID == m.UserID {
			return s
		}
	}

	members := make([]model.Member, 0, len(s.Members)+1)
	members = append(members, m)
	members = append(members, s.Members...)
	return Members{Members: members, Total: s.Total + 1}
}

// Profile is the current user's gamification slice.
type Profile struct {
	UserID string
	Points int
	Level  int
}

func reducePointsEarned(s Profile, points int) Profile {
	s.Points += points
	return s
}

func reduceLevelUp(s Profile, level int) Profile {
	s.Level = level
	return s
}
