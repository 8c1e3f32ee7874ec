package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// GetCommunityMembers fetches one page of a community's member list.
func (c *Client) GetCommunityMembers(ctx context.Context, communityID string, opts PageOptions) (*MemberPage, error) {
	query := url.Values{}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		query.Set("offset", strconv.Itoa(opts.Offset))
	}

	var resp MemberPage
	if err := c.get(ctx, "/communities/"+communityID+"/members", query, &resp); err != nil {
		return nil, fmt.Errorf("get members for community %s: %w", communityID, err)
	}

	return &resp, nil
}
