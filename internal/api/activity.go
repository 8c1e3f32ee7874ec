package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// GetActivityPage fetches one page of the activity feed. The total counts
// all entries server-side, independent of the page size.
func (c *Client) GetActivityPage(ctx context.Context, opts PageOptions) (*ActivityPage, error) {
	query := url.Values{}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		query.Set("offset", strconv.Itoa(opts.Offset))
	}

	var resp ActivityPage
	if err := c.get(ctx, "/activity", query, &resp); err != nil {
		return nil, fmt.Errorf("get activity page: %w", err)
	}

	return &resp, nil
}

// DeleteActivity removes one feed entry the current user owns.
func (c *Client) DeleteActivity(ctx context.Context, id string) error {
	if err := c.del(ctx, "/activity/"+id, nil); err != nil {
		return fmt.Errorf("delete activity %s: %w", id, err)
	}
	return nil
}
