package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/naveenspark/venuebook/pkg/domain"
)

// ApplicationFilter narrows application listings. Zero fields are omitted.
type ApplicationFilter struct {
	Status   string
	Keyword  string
	Page     int
	PageSize int
}

func (f ApplicationFilter) values() url.Values {
	params := url.Values{}
	if f.Status != "" {
		params.Set("status", f.Status)
	}
	if f.Keyword != "" {
		params.Set("keyword", f.Keyword)
	}
	if f.Page > 0 {
		params.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		params.Set("page_size", strconv.Itoa(f.PageSize))
	}
	return params
}

// CreateApplication submits a new booking application.
func (c *Client) CreateApplication(ctx context.Context, in domain.ApplicationInput) (*domain.Application, error) {
	var created domain.Application
	if err := c.post(ctx, "applications", in, &created); err != nil {
		return nil, fmt.Errorf("client.CreateApplication: %w", err)
	}
	return &created, nil
}

// ListApplications returns every application visible to the caller.
func (c *Client) ListApplications(ctx context.Context, f ApplicationFilter) ([]domain.Application, error) {
	var list domain.List[domain.Application]
	if err := c.get(ctx, "applications", f.values(), &list); err != nil {
		return nil, fmt.Errorf("client.ListApplications: %w", err)
	}
	return list.Items, nil
}

// MyApplications returns the caller's own applications.
func (c *Client) MyApplications(ctx context.Context, f ApplicationFilter) ([]domain.Application, error) {
	var list domain.List[domain.Application]
	if err := c.get(ctx, "applications/my", f.values(), &list); err != nil {
		return nil, fmt.Errorf("client.MyApplications: %w", err)
	}
	return list.Items, nil
}

// GetApplication fetches a single application by ID.
func (c *Client) GetApplication(ctx context.Context, id int64) (*domain.Application, error) {
	var app domain.Application
	if err := c.get(ctx, idPath("applications", id, ""), nil, &app); err != nil {
		return nil, fmt.Errorf("client.GetApplication: %w", err)
	}
	return &app, nil
}

// CancelApplication withdraws one of the caller's applications.
func (c *Client) CancelApplication(ctx context.Context, id int64) error {
	if err := c.put(ctx, idPath("applications", id, "cancel"), nil, nil); err != nil {
		return fmt.Errorf("client.CancelApplication: %w", err)
	}
	return nil
}
