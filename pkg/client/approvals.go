package client

import (
	"context"
	"fmt"

	"github.com/naveenspark/venuebook/pkg/domain"
)

// PendingApprovals returns applications awaiting the caller's decision.
func (c *Client) PendingApprovals(ctx context.Context, f ApplicationFilter) ([]domain.Application, error) {
	var list domain.List[domain.Application]
	if err := c.get(ctx, "approvals/pending", f.values(), &list); err != nil {
		return nil, fmt.Errorf("client.PendingApprovals: %w", err)
	}
	return list.Items, nil
}

// ApproveApplication approves an application.
func (c *Client) ApproveApplication(ctx context.Context, id int64) error {
	if err := c.put(ctx, idPath("applications", id, "approve"), nil, nil); err != nil {
		return fmt.Errorf("client.ApproveApplication: %w", err)
	}
	return nil
}

// RejectApplication rejects an application with a reason.
func (c *Client) RejectApplication(ctx context.Context, id int64, reason string) error {
	if err := c.put(ctx, idPath("applications", id, "reject"), domain.RejectInput{Reason: reason}, nil); err != nil {
		return fmt.Errorf("client.RejectApplication: %w", err)
	}
	return nil
}
