package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/naveenspark/venuebook/pkg/domain"
)

// ListUsers returns user accounts (admin only), optionally filtered by role.
func (c *Client) ListUsers(ctx context.Context, role domain.Role) ([]domain.User, error) {
	params := url.Values{}
	if role != "" {
		params.Set("role", string(role))
	}
	var list domain.List[domain.User]
	if err := c.get(ctx, "users", params, &list); err != nil {
		return nil, fmt.Errorf("client.ListUsers: %w", err)
	}
	return list.Items, nil
}
