package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/naveenspark/venuebook/pkg/domain"
)

// ListNotifications returns the caller's notifications.
func (c *Client) ListNotifications(ctx context.Context, unreadOnly bool) ([]domain.Notification, error) {
	params := url.Values{}
	if unreadOnly {
		params.Set("unread", "true")
	}
	var list domain.List[domain.Notification]
	if err := c.get(ctx, "notifications", params, &list); err != nil {
		return nil, fmt.Errorf("client.ListNotifications: %w", err)
	}
	return list.Items, nil
}

// MarkNotificationRead marks one notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	if err := c.put(ctx, idPath("notifications", id, "read"), nil, nil); err != nil {
		return fmt.Errorf("client.MarkNotificationRead: %w", err)
	}
	return nil
}

// MarkAllNotificationsRead marks every notification as read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	if err := c.put(ctx, "notifications/read-all", nil, nil); err != nil {
		return fmt.Errorf("client.MarkAllNotificationsRead: %w", err)
	}
	return nil
}
