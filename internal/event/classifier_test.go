package event

import (
	"strings"
	"testing"
	"time"

	"github.com/volunteerhub/realtime/internal/notify"
)

func TestClassify_PointsEarned(t *testing.T) {
	c := NewClassifier(nil)
	now := time.Now()

	raw := `{"type":"points:earned","payload":{"user_id":"U1","points":25,"reason":"event_attended"}}`
	ev, ok := c.Classify([]byte(raw), now)
	if !ok {
		t.Fatal("classify failed")
	}

	pe, ok := ev.(PointsEarned)
	if !ok {
		t.Fatalf("type = %T, want PointsEarned", ev)
	}
	if pe.Points != 25 || pe.Reason != "event_attended" {
		t.Errorf("payload = %+v, want points 25 reason event_attended", pe)
	}
	if !pe.ReceivedAt.Equal(now) {
		t.Errorf("ReceivedAt = %v, want %v", pe.ReceivedAt, now)
	}
}

func TestClassify_UnknownKindDropped(t *testing.T) {
	c := NewClassifier(nil)

	_, ok := c.Classify([]byte(`{"type":"server:new_thing","payload":{}}`), time.Now())
	if ok {
		t.Error("unknown discriminator must be dropped, not classified")
	}
}

func TestClassify_MalformedFrameDropped(t *testing.T) {
	c := NewClassifier(nil)

	tests := []string{
		`not json at all`,
		`{"type":"points:earned","payload":"not an object"}`,
		`{}`,
	}
	for _, raw := range tests {
		if _, ok := c.Classify([]byte(raw), time.Now()); ok {
			t.Errorf("Classify(%q) ok, want dropped", raw)
		}
	}
}

func TestClassify_RoomScopedVariant(t *testing.T) {
	c := NewClassifier(nil)

	raw := `{"type":"community:42:activity:new","room":"community:42","payload":{"id":"A1","type":"event_created","actor":"dana"}}`
	ev, ok := c.Classify([]byte(raw), time.Now())
	if !ok {
		t.Fatal("room-scoped variant not classified")
	}
	na, ok := ev.(NewActivity)
	if !ok {
		t.Fatalf("type = %T, want NewActivity", ev)
	}
	if na.Entry.ID != "A1" || na.Entry.Actor != "dana" {
		t.Errorf("entry = %+v", na.Entry)
	}
}

func TestClassify_CommunityVerifiedImpliesStatus(t *testing.T) {
	c := NewClassifier(nil)

	ev, ok := c.Classify([]byte(`{"type":"community:verified","payload":{"community_id":"C1"}}`), time.Now())
	if !ok {
		t.Fatal("classify failed")
	}
	vc := ev.(VerificationChanged)
	if vc.Status != "verified" {
		t.Errorf("Status = %q, want verified", vc.Status)
	}

	ev, ok = c.Classify([]byte(`{"type":"community:verification_update","payload":{"community_id":"C1","status":"pending"}}`), time.Now())
	if !ok {
		t.Fatal("classify failed")
	}
	vc = ev.(VerificationChanged)
	if vc.Status != "pending" {
		t.Errorf("Status = %q, want pending", vc.Status)
	}
}

func TestClassify_CapacityUpdate(t *testing.T) {
	c := NewClassifier(nil)

	raw := `{"type":"event:capacity_update","payload":{"event_id":"E1","registered":10,"available":0,"is_full":true}}`
	ev, ok := c.Classify([]byte(raw), time.Now())
	if !ok {
		t.Fatal("classify failed")
	}
	cc := ev.(CapacityChanged)
	if cc.Capacity.EventID != "E1" || !cc.Capacity.IsFull || cc.Capacity.Registered != 10 {
		t.Errorf("capacity = %+v", cc.Capacity)
	}
}

func TestClassify_EventUpdate(t *testing.T) {
	c := NewClassifier(nil)

	raw := `{"type":"event:update","payload":{"event_id":"E2","registered":2,"participants":[{"user_id":"U1","name":"Ana"},{"user_id":"U2","name":"Ben"}]}}`
	ev, ok := c.Classify([]byte(raw), time.Now())
	if !ok {
		t.Fatal("classify failed")
	}
	eu := ev.(EventUpdated)
	if len(eu.Event.Participants) != 2 || eu.Event.Registered != 2 {
		t.Errorf("event = %+v", eu.Event)
	}
}

func TestClassify_AllKnownDiscriminators(t *testing.T) {
	c := NewClassifier(nil)

	frames := map[string]Kind{
		`{"type":"points:earned","payload":{}}`:                 KindPointsEarned,
		`{"type":"user:levelup","payload":{}}`:                  KindLevelUp,
		`{"type":"participation:verified","payload":{}}`:        KindAttendanceVerified,
		`{"type":"participation:rejected","payload":{}}`:        KindParticipationRejected,
		`{"type":"community:verification_update","payload":{}}`: KindVerificationChanged,
		`{"type":"community:verified","payload":{}}`:            KindVerificationChanged,
		`{"type":"event:new_participant","payload":{}}`:         KindNewParticipant,
		`{"type":"event:new_rating","payload":{}}`:              KindNewRating,
		`{"type":"event:photo_uploaded","payload":{}}`:          KindPhotoUploaded,
		`{"type":"event:capacity_update","payload":{}}`:         KindCapacityChanged,
		`{"type":"event:update","payload":{}}`:                  KindEventUpdated,
		`{"type":"community:member_joined","payload":{}}`:       KindNewMember,
		`{"type":"activity:new","payload":{}}`:                  KindNewActivity,
	}

	for raw, want := range frames {
		ev, ok := c.Classify([]byte(raw), time.Now())
		if !ok {
			t.Errorf("Classify(%s) dropped", raw)
			continue
		}
		if ev.Kind() != want {
			t.Errorf("Classify(%s) kind = %v, want %v", raw, ev.Kind(), want)
		}
	}
}

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"activity:new", "activity:new", true},
		{"community:42:activity:new", "activity:new", true},
		{"event:E9:event:capacity_update", "event:capacity_update", true},
		{"community:verified", "community:verified", true},
		{"totally:unknown", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, _, ok := normalizeType(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("normalizeType(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

// Scenario: points:earned surfaces a success notification whose message
// names the amount.
func TestNotificationFor_PointsEarned(t *testing.T) {
	n, ok := NotificationFor(PointsEarned{Points: 25, Reason: "event_attended"})
	if !ok {
		t.Fatal("points earned must be user-facing")
	}
	if n.Kind != notify.KindSuccess {
		t.Errorf("kind = %q, want success", n.Kind)
	}
	if !strings.Contains(n.Message, "25") {
		t.Errorf("message %q must contain the amount", n.Message)
	}
}

func TestNotificationFor_SilentKinds(t *testing.T) {
	if _, ok := NotificationFor(NewActivity{}); ok {
		t.Error("activity entries are feed items, not notifications")
	}
	if _, ok := NotificationFor(EventUpdated{}); ok {
		t.Error("event updates reconcile silently")
	}
	if _, ok := NotificationFor(CapacityChanged{}); ok {
		t.Error("capacity changes notify only on transition to full, via the dispatcher")
	}
}

func TestNotificationFor_Rejection(t *testing.T) {
	n, ok := NotificationFor(ParticipationRejected{EventID: "E1", Reason: "no-show history"})
	if !ok {
		t.Fatal("rejection must be user-facing")
	}
	if n.Kind != notify.KindWarning {
		t.Errorf("kind = %q, want warning (domain notification, not error)", n.Kind)
	}
	if n.Related == nil || n.Related.ID != "E1" {
		t.Errorf("related = %+v, want event E1", n.Related)
	}
}
