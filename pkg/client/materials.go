package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/naveenspark/venuebook/pkg/domain"
)

// ListMaterials returns materials, optionally filtered by category.
func (c *Client) ListMaterials(ctx context.Context, category string) ([]domain.Material, error) {
	params := url.Values{}
	if category != "" {
		params.Set("category", category)
	}
	var list domain.List[domain.Material]
	if err := c.get(ctx, "materials", params, &list); err != nil {
		return nil, fmt.Errorf("client.ListMaterials: %w", err)
	}
	return list.Items, nil
}

// CreateMaterial creates a new material.
func (c *Client) CreateMaterial(ctx context.Context, in domain.MaterialInput) (*domain.Material, error) {
	var created domain.Material
	if err := c.post(ctx, "materials", in, &created); err != nil {
		return nil, fmt.Errorf("client.CreateMaterial: %w", err)
	}
	return &created, nil
}

// UpdateMaterial replaces a material's editable fields.
func (c *Client) UpdateMaterial(ctx context.Context, id int64, in domain.MaterialInput) (*domain.Material, error) {
	var updated domain.Material
	if err := c.put(ctx, idPath("materials", id, ""), in, &updated); err != nil {
		return nil, fmt.Errorf("client.UpdateMaterial: %w", err)
	}
	return &updated, nil
}

// DeleteMaterial deletes a material.
func (c *Client) DeleteMaterial(ctx context.Context, id int64) error {
	if err := c.delete(ctx, idPath("materials", id, "")); err != nil {
		return fmt.Errorf("client.DeleteMaterial: %w", err)
	}
	return nil
}

// AlertThreshold returns the low-stock alert percentage.
func (c *Client) AlertThreshold(ctx context.Context) (int, error) {
	var t domain.AlertThreshold
	if err := c.get(ctx, "materials/alert-threshold", nil, &t); err != nil {
		return 0, fmt.Errorf("client.AlertThreshold: %w", err)
	}
	return t.Threshold, nil
}

// SetAlertThreshold updates the low-stock alert percentage (1-100).
func (c *Client) SetAlertThreshold(ctx context.Context, threshold int) (int, error) {
	if threshold < domain.MinAlertThreshold || threshold > domain.MaxAlertThreshold {
		return 0, fmt.Errorf("client.SetAlertThreshold: threshold %d outside %d-%d",
			threshold, domain.MinAlertThreshold, domain.MaxAlertThreshold)
	}
	var t domain.AlertThreshold
	if err := c.put(ctx, "materials/alert-threshold", domain.AlertThreshold{Threshold: threshold}, &t); err != nil {
		return 0, fmt.Errorf("client.SetAlertThreshold: %w", err)
	}
	if t.Threshold == 0 {
		t.Threshold = threshold
	}
	return t.Threshold, nil
}
