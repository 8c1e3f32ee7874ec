// Package event defines the closed inbound event taxonomy and the
// classifier that turns raw transport frames into typed events.
package event

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/volunteerhub/realtime/internal/model"
)

// envelope is the wire shape of every inbound frame.
type envelope struct {
	Type    string          `json:"type"`
	Room    string          `json:"room"`
	Payload json.RawMessage `json:"payload"`
}

// Classifier validates raw frames against the known taxonomy and produces
// exactly one typed Inbound per valid frame. It performs shape validation
// and routing only; no business logic.
type Classifier struct {
	logger *slog.Logger
}

// NewClassifier creates a Classifier.
func NewClassifier(logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{logger: logger}
}

// Classify parses one raw frame. Unknown discriminators and malformed
// payloads are logged and dropped; they never propagate as errors.
func (c *Classifier) Classify(data []byte, receivedAt time.Time) (Inbound, bool) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		c.logger.Warn("malformed frame, dropping", "error", err)
		return nil, false
	}

	wireType, kind, ok := normalizeType(env.Type)
	if !ok {
		c.logger.Debug("unknown event kind, dropping", "type", env.Type)
		return nil, false
	}

	ev, err := decode(kind, wireType, env.Payload, receivedAt)
	if err != nil || ev == nil {
		c.logger.Warn("malformed payload, dropping", "type", env.Type, "error", err)
		return nil, false
	}
	return ev, true
}

func decode(kind Kind, wireType string, payload json.RawMessage, at time.Time) (Inbound, error) {
	switch kind {
	case KindPointsEarned:
		var p struct {
			UserID string `json:"user_id"`
			Points int    `json:"points"`
			Reason string `json:"reason"`
		}
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, err
		}
		return PointsEarned{ReceivedAt: at, UserID: p.UserID, Points: p.Points, Reason: p.Reason}, nil

	case KindLevelUp:
		var p struct {
			UserID string `json:"user_id"`
			Level  int    `json:"level"`
		}
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, err
		}
		return LevelUp{ReceivedAt: at, UserID: p.UserID, Level: p.Level}, nil

	case KindAttendanceVerified:
		var p struct {
			EventID string `json:"event_id"`
			UserID  string `json:"user_id"`
			Points  int    `json:"points"`
		}
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, err
		}
		return AttendanceVerified{ReceivedAt: at, EventID: p.EventID, UserID: p.UserID, Points: p.Points}, nil

	case KindParticipationRejected:
		var p struct {
			EventID string `json:"event_id"`
			UserID  string `json:"user_id"`
			Reason  string `json:"reason"`
		}
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, err
		}
		return ParticipationRejected{ReceivedAt: at, EventID: p.EventID, UserID: p.UserID, Reason: p.Reason}, nil

	case KindVerificationChanged:
		var p struct {
			CommunityID string `json:"community_id"`
			Status      string `json:"status"`
		}
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, err
		}
		// community:verified carries no status field; the type implies it.
		if p.Status == "" && wireType == "community:verified" {
			p.Status = "verified"
		}
		return VerificationChanged{ReceivedAt: at, CommunityID: p.CommunityID, Status: p.Status}, nil

	case KindNewParticipant:
		var p struct {
			EventID     string            `json:"event_id"`
			Participant model.Participant `json:"participant"`
		}
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, err
		}
		return NewParticipant{ReceivedAt: at, EventID: p.EventID, Participant: p.Participant}, nil

	case KindNewRating:
		var p model.Rating
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, err
		}
		return NewRating{ReceivedAt: at, Rating: p}, nil

	case KindPhotoUploaded:
		var p model.Photo
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, err
		}
		return PhotoUploaded{ReceivedAt: at, Photo: p}, nil

	case KindCapacityChanged:
		var p model.CapacitySnapshot
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, err
		}
		return CapacityChanged{ReceivedAt: at, Capacity: p}, nil

	case KindEventUpdated:
		var p model.EventDetail
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, err
		}
		return EventUpdated{ReceivedAt: at, Event: p}, nil

	case KindNewMember:
		var p struct {
			CommunityID string       `json:"community_id"`
			Member      model.Member `json:"member"`
		}
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, err
		}
		return NewMember{ReceivedAt: at, CommunityID: p.CommunityID, Member: p.Member}, nil

	case KindNewActivity:
		var p model.ActivityEntry
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, err
		}
		return NewActivity{ReceivedAt: at, Entry: p}, nil
	}

	return nil, nil
}
