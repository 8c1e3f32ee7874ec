package api

import (
	"context"
	"fmt"

	"github.com/volunteerhub/realtime/internal/model"
)

// GetEvent fetches a single event with its participant list and capacity.
func (c *Client) GetEvent(ctx context.Context, eventID string) (*model.EventDetail, error) {
	var resp eventResponse
	if err := c.get(ctx, "/events/"+eventID, nil, &resp); err != nil {
		return nil, fmt.Errorf("get event %s: %w", eventID, err)
	}
	return &resp.Event, nil
}

// JoinEvent registers the current user for an event. The response is the
// server's authoritative event entity after the join.
func (c *Client) JoinEvent(ctx context.Context, eventID string) (*model.EventDetail, error) {
	var resp eventResponse
	if err := c.post(ctx, "/events/"+eventID+"/join", nil, &resp); err != nil {
		return nil, fmt.Errorf("join event %s: %w", eventID, err)
	}
	return &resp.Event, nil
}

// LeaveEvent cancels the current user's registration. The response is the
// server's authoritative event entity after the leave.
func (c *Client) LeaveEvent(ctx context.Context, eventID string) (*model.EventDetail, error) {
	var resp eventResponse
	if err := c.del(ctx, "/events/"+eventID+"/participation", &resp); err != nil {
		return nil, fmt.Errorf("leave event %s: %w", eventID, err)
	}
	return &resp.Event, nil
}

// MarkAttendance records an organizer's attendance decision for one
// participant. The response is the authoritative event entity.
func (c *Client) MarkAttendance(ctx context.Context, eventID, userID, status string) (*model.EventDetail, error) {
	var resp eventResponse
	body := attendanceRequest{UserID: userID, Status: status}
	if err := c.post(ctx, "/events/"+eventID+"/attendance", body, &resp); err != nil {
		return nil, fmt.Errorf("mark attendance for event %s: %w", eventID, err)
	}
	return &resp.Event, nil
}
