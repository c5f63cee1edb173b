package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/naveenspark/venuebook/pkg/domain"
)

// DashboardStats returns the headline counters.
func (c *Client) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	if err := c.get(ctx, "dashboard/stats", nil, &stats); err != nil {
		return nil, fmt.Errorf("client.DashboardStats: %w", err)
	}
	return &stats, nil
}

// DashboardTrends returns daily application counts for the last days days.
func (c *Client) DashboardTrends(ctx context.Context, days int) ([]domain.TrendPoint, error) {
	params := url.Values{}
	if days > 0 {
		params.Set("days", strconv.Itoa(days))
	}
	var list domain.List[domain.TrendPoint]
	if err := c.get(ctx, "dashboard/trends", params, &list); err != nil {
		return nil, fmt.Errorf("client.DashboardTrends: %w", err)
	}
	return list.Items, nil
}
