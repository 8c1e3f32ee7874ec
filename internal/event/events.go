package event

import (
	"time"

	"github.com/volunteerhub/realtime/internal/model"
)

// Inbound is a classified server event. The concrete types below form a
// closed sum: reducers type-switch over them, so adding a kind means
// touching every switch. Events are ephemeral; they live only long enough
// to be applied to state and optionally promoted into a notification.
type Inbound interface {
	Kind() Kind
	isInbound()
}

// PointsEarned reports points credited to the current user.
type PointsEarned struct {
	ReceivedAt time.Time
	UserID     string
	Points     int
	Reason     string
}

func (PointsEarned) Kind() Kind { return KindPointsEarned }
func (PointsEarned) isInbound() {}

// LevelUp reports the current user reaching a new level.
type LevelUp struct {
	ReceivedAt time.Time
	UserID     string
	Level      int
}

func (LevelUp) Kind() Kind { return KindLevelUp }
func (LevelUp) isInbound() {}

// AttendanceVerified reports an organizer confirming the user's attendance.
type AttendanceVerified struct {
	ReceivedAt time.Time
	EventID    string
	UserID     string
	Points     int
}

func (AttendanceVerified) Kind() Kind { return KindAttendanceVerified }
func (AttendanceVerified) isInbound() {}

// ParticipationRejected reports an organizer declining the user's
// participation.
type ParticipationRejected struct {
	ReceivedAt time.Time
	EventID    string
	UserID     string
	Reason     string
}

func (ParticipationRejected) Kind() Kind { return KindParticipationRejected }
func (ParticipationRejected) isInbound() {}

// VerificationChanged reports a community's verification status change.
// Covers both the verification_update and verified wire types.
type VerificationChanged struct {
	ReceivedAt  time.Time
	CommunityID string
	Status      string // "pending", "verified", "rejected"
}

func (VerificationChanged) Kind() Kind { return KindVerificationChanged }
func (VerificationChanged) isInbound() {}

// NewParticipant reports someone registering for an event.
type NewParticipant struct {
	ReceivedAt  time.Time
	EventID     string
	Participant model.Participant
}

func (NewParticipant) Kind() Kind { return KindNewParticipant }
func (NewParticipant) isInbound() {}

// NewRating reports a rating left on an event.
type NewRating struct {
	ReceivedAt time.Time
	Rating     model.Rating
}

func (NewRating) Kind() Kind { return KindNewRating }
func (NewRating) isInbound() {}

// PhotoUploaded reports a photo added to an event gallery.
type PhotoUploaded struct {
	ReceivedAt time.Time
	Photo      model.Photo
}

func (PhotoUploaded) Kind() Kind { return KindPhotoUploaded }
func (PhotoUploaded) isInbound() {}

// CapacityChanged carries the authoritative registration count for an event.
type CapacityChanged struct {
	ReceivedAt time.Time
	Capacity   model.CapacitySnapshot
}

func (CapacityChanged) Kind() Kind { return KindCapacityChanged }
func (CapacityChanged) isInbound() {}

// EventUpdated carries the full authoritative event entity.
type EventUpdated struct {
	ReceivedAt time.Time
	Event      model.EventDetail
}

func (EventUpdated) Kind() Kind { return KindEventUpdated }
func (EventUpdated) isInbound() {}

// NewMember reports someone joining a community.
type NewMember struct {
	ReceivedAt  time.Time
	CommunityID string
	Member      model.Member
}

func (NewMember) Kind() Kind { return KindNewMember }
func (NewMember) isInbound() {}

// NewActivity carries one live activity feed entry.
type NewActivity struct {
	ReceivedAt time.Time
	Entry      model.ActivityEntry
}

func (NewActivity) Kind() Kind { return KindNewActivity }
func (NewActivity) isInbound() {}
