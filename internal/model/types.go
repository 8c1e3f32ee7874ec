package model

import "time"

// -----------------------------------------------------------------------------
// Entity references
// -----------------------------------------------------------------------------

// RelatedEntity points a notification or activity entry at the platform
// object it is about.
type RelatedEntity struct {
	Type string // "event", "community", "user"
	ID   string
}

// -----------------------------------------------------------------------------
// Event participation
// -----------------------------------------------------------------------------

// Participant is one registered member of a platform event.
type Participant struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	JoinedAt  time.Time `json:"joined_at"`
}

// CapacitySnapshot is the authoritative registration count for one event.
// It is only ever replaced wholesale from the latest server message; the
// client never does delta arithmetic on it.
type CapacitySnapshot struct {
	EventID    string `json:"event_id"`
	Registered int    `json:"registered"`
	Available  int    `json:"available"`
	IsFull     bool   `json:"is_full"`
}

// EventDetail is the authoritative shape of an event as returned by write
// operations and broadcast on event:update.
type EventDetail struct {
	EventID      string        `json:"event_id"`
	Title        string        `json:"title"`
	CommunityID  string        `json:"community_id"`
	Participants []Participant `json:"participants"`
	Registered   int           `json:"registered"`
	Available    int           `json:"available"`
	IsFull       bool          `json:"is_full"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Capacity derives the event's capacity snapshot from its detail.
func (d EventDetail) Capacity() CapacitySnapshot {
	return CapacitySnapshot{
		EventID:    d.EventID,
		Registered: d.Registered,
		Available:  d.Available,
		IsFull:     d.IsFull,
	}
}

// Rating is a review left on a completed event.
type Rating struct {
	RatingID  string    `json:"rating_id"`
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	Stars     int       `json:"stars"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Photo is an image uploaded to an event's gallery.
type Photo struct {
	PhotoID    string    `json:"photo_id"`
	EventID    string    `json:"event_id"`
	UploaderID string    `json:"uploader_id"`
	URL        string    `json:"url"`
	CreatedAt  time.Time `json:"created_at"`
}

// -----------------------------------------------------------------------------
// Communities
// -----------------------------------------------------------------------------

// Member is one member of a community.
type Member struct {
	UserID   string    `json:"user_id"`
	Name     string    `json:"name"`
	JoinedAt time.Time `json:"joined_at"`
}

// -----------------------------------------------------------------------------
// Activity feed
// -----------------------------------------------------------------------------

// ActivityEntry is a feed item, sourced either from a page fetch or from a
// live activity:new broadcast.
type ActivityEntry struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Description string         `json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	Actor       string         `json:"actor"`
	Related     *RelatedEntity `json:"related,omitempty"`
	Points      int            `json:"points,omitempty"`
}
