package client

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/naveenspark/venuebook/internal/datetime"
	"github.com/naveenspark/venuebook/pkg/domain"
)

// ListVenues returns venues, optionally filtered by status.
func (c *Client) ListVenues(ctx context.Context, status string) ([]domain.Venue, error) {
	params := url.Values{}
	if status != "" {
		params.Set("status", status)
	}
	var list domain.List[domain.Venue]
	if err := c.get(ctx, "venues", params, &list); err != nil {
		return nil, fmt.Errorf("client.ListVenues: %w", err)
	}
	return list.Items, nil
}

// CreateVenue creates a new venue.
func (c *Client) CreateVenue(ctx context.Context, in domain.VenueInput) (*domain.Venue, error) {
	var created domain.Venue
	if err := c.post(ctx, "venues", in, &created); err != nil {
		return nil, fmt.Errorf("client.CreateVenue: %w", err)
	}
	return &created, nil
}

// UpdateVenue replaces a venue's editable fields.
func (c *Client) UpdateVenue(ctx context.Context, id int64, in domain.VenueInput) (*domain.Venue, error) {
	var updated domain.Venue
	if err := c.put(ctx, idPath("venues", id, ""), in, &updated); err != nil {
		return nil, fmt.Errorf("client.UpdateVenue: %w", err)
	}
	return &updated, nil
}

// DeleteVenue deletes a venue.
func (c *Client) DeleteVenue(ctx context.Context, id int64) error {
	if err := c.delete(ctx, idPath("venues", id, "")); err != nil {
		return fmt.Errorf("client.DeleteVenue: %w", err)
	}
	return nil
}

// AvailableVenues returns venues free for the whole of [start, end).
func (c *Client) AvailableVenues(ctx context.Context, start, end time.Time) ([]domain.Venue, error) {
	var list domain.List[domain.Venue]
	if err := c.get(ctx, "venues/available", timeRange(start, end), &list); err != nil {
		return nil, fmt.Errorf("client.AvailableVenues: %w", err)
	}
	return list.Items, nil
}

// VenueBookings returns the bookings of a venue. Zero bounds are omitted.
func (c *Client) VenueBookings(ctx context.Context, id int64, from, to time.Time) ([]domain.Booking, error) {
	var list domain.List[domain.Booking]
	if err := c.get(ctx, idPath("venues", id, "bookings"), timeRange(from, to), &list); err != nil {
		return nil, fmt.Errorf("client.VenueBookings: %w", err)
	}
	return list.Items, nil
}

// timeRange encodes bounds as canonical +08:00 timestamps.
func timeRange(start, end time.Time) url.Values {
	params := url.Values{}
	if s := datetime.FormatCanonical(start); s != "" {
		params.Set("start_time", s)
	}
	if e := datetime.FormatCanonical(end); e != "" {
		params.Set("end_time", e)
	}
	return params
}
