package api

import "github.com/volunteerhub/realtime/internal/model"

// eventResponse wraps a single event entity.
type eventResponse struct {
	Event model.EventDetail `json:"event"`
}

// ActivityPage is one page of the activity feed plus the server-side total.
type ActivityPage struct {
	Entries []model.ActivityEntry `json:"entries"`
	Total   int                   `json:"total"`
}

// MemberPage is one page of a community's members plus the total.
type MemberPage struct {
	Members []model.Member `json:"members"`
	Total   int            `json:"total"`
}

// PageOptions control offset pagination for list endpoints.
type PageOptions struct {
	Limit  int
	Offset int
}

// attendanceRequest is the body for marking attendance.
type attendanceRequest struct {
	UserID string `json:"user_id"`
	Status string `json:"status"`
}
