package event

import (
	"fmt"

	"github.com/volunteerhub/realtime/internal/model"
	"github.com/volunteerhub/realtime/internal/notify"
)

// NotificationFor derives the user-visible notification for event kinds
// flagged as user-facing. Silent kinds (activity, event updates) return
// false. Capacity changes are also decided here, but only the
// transition-to-full case notifies; the dispatcher supplies wasFull from
// prior state.
func NotificationFor(ev Inbound) (notify.Notification, bool) {
	switch e := ev.(type) {
	case PointsEarned:
		msg := fmt.Sprintf("You earned %d points", e.Points)
		if e.Reason != "" {
			msg = fmt.Sprintf("You earned %d points (%s)", e.Points, e.Reason)
		}
		return notify.Notification{
			Kind:    notify.KindSuccess,
			Title:   "Points earned",
			Message: msg,
		}, true

	case LevelUp:
		return notify.Notification{
			Kind:    notify.KindSuccess,
			Title:   "Level up!",
			Message: fmt.Sprintf("You reached level %d", e.Level),
		}, true

	case AttendanceVerified:
		msg := "Your attendance was verified"
		if e.Points > 0 {
			msg = fmt.Sprintf("Your attendance was verified, +%d points", e.Points)
		}
		return notify.Notification{
			Kind:    notify.KindSuccess,
			Title:   "Attendance verified",
			Message: msg,
			Related: &model.RelatedEntity{Type: "event", ID: e.EventID},
		}, true

	case ParticipationRejected:
		msg := "Your participation was declined"
		if e.Reason != "" {
			msg = "Your participation was declined: " + e.Reason
		}
		return notify.Notification{
			Kind:    notify.KindWarning,
			Title:   "Participation declined",
			Message: msg,
			Related: &model.RelatedEntity{Type: "event", ID: e.EventID},
		}, true

	case VerificationChanged:
		kind := notify.KindInfo
		msg := "Community verification status: " + e.Status
		if e.Status == "verified" {
			kind = notify.KindSuccess
			msg = "Your community is now verified"
		}
		return notify.Notification{
			Kind:    kind,
			Title:   "Community verification",
			Message: msg,
			Related: &model.RelatedEntity{Type: "community", ID: e.CommunityID},
		}, true

	case NewParticipant:
		return notify.Notification{
			Kind:    notify.KindInfo,
			Title:   "New participant",
			Message: e.Participant.Name + " joined your event",
			Related: &model.RelatedEntity{Type: "event", ID: e.EventID},
		}, true

	case NewRating:
		return notify.Notification{
			Kind:    notify.KindInfo,
			Title:   "New rating",
			Message: fmt.Sprintf("Your event received a %d-star rating", e.Rating.Stars),
			Related: &model.RelatedEntity{Type: "event", ID: e.Rating.EventID},
		}, true

	case PhotoUploaded:
		return notify.Notification{
			Kind:    notify.KindInfo,
			Title:   "New photo",
			Message: "A photo was added to your event",
			Related: &model.RelatedEntity{Type: "event", ID: e.Photo.EventID},
		}, true

	case NewMember:
		return notify.Notification{
			Kind:    notify.KindInfo,
			Title:   "New member",
			Message: e.Member.Name + " joined your community",
			Related: &model.RelatedEntity{Type: "community", ID: e.CommunityID},
		}, true
	}

	return notify.Notification{}, false
}

// CapacityNotification is the conditional notification for a capacity
// update that just made an event full.
func CapacityNotification(e CapacityChanged) notify.Notification {
	return notify.Notification{
		Kind:    notify.KindInfo,
		Title:   "Event full",
		Message: fmt.Sprintf("An event you follow is now full (%d registered)", e.Capacity.Registered),
		Related: &model.RelatedEntity{Type: "event", ID: e.Capacity.EventID},
	}
}
