package event

import "strings"

// Kind identifies one member of the closed inbound event taxonomy.
type Kind int

const (
	KindUnknown Kind = iota
	KindPointsEarned
	KindLevelUp
	KindAttendanceVerified
	KindParticipationRejected
	KindVerificationChanged
	KindNewParticipant
	KindNewRating
	KindPhotoUploaded
	KindCapacityChanged
	KindEventUpdated
	KindNewMember
	KindNewActivity
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case KindPointsEarned:
		return "points_earned"
	case KindLevelUp:
		return "level_up"
	case KindAttendanceVerified:
		return "attendance_verified"
	case KindParticipationRejected:
		return "participation_rejected"
	case KindVerificationChanged:
		return "verification_changed"
	case KindNewParticipant:
		return "new_participant"
	case KindNewRating:
		return "new_rating"
	case KindPhotoUploaded:
		return "photo_uploaded"
	case KindCapacityChanged:
		return "capacity_changed"
	case KindEventUpdated:
		return "event_updated"
	case KindNewMember:
		return "new_member"
	case KindNewActivity:
		return "new_activity"
	default:
		return "unknown"
	}
}

// discriminators is the closed wire-type table. Unknown discriminators are
// dropped at the classifier boundary so server-added kinds never reach the
// reducers.
var discriminators = map[string]Kind{
	"points:earned":                 KindPointsEarned,
	"user:levelup":                  KindLevelUp,
	"participation:verified":        KindAttendanceVerified,
	"participation:rejected":        KindParticipationRejected,
	"community:verification_update": KindVerificationChanged,
	"community:verified":            KindVerificationChanged,
	"event:new_participant":         KindNewParticipant,
	"event:new_rating":              KindNewRating,
	"event:photo_uploaded":          KindPhotoUploaded,
	"event:capacity_update":         KindCapacityChanged,
	"event:update":                  KindEventUpdated,
	"community:member_joined":       KindNewMember,
	"activity:new":                  KindNewActivity,
}

// normalizeType resolves a wire discriminator to its canonical form,
// stripping room-scoped prefixes (e.g. "community:42:activity:new" →
// "activity:new"). Exact matches win, so "community:verified" is never
// mistaken for a room prefix.
func normalizeType(wireType string) (string, Kind, bool) {
	rest := wireType
	for {
		if kind, ok := discriminators[rest]; ok {
			return rest, kind, true
		}
		i := strings.IndexByte(rest, ':')
		if i < 0 {
			return "", KindUnknown, false
		}
		rest = rest[i+1:]
	}
}
