package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/naveenspark/venuebook/pkg/domain"
)

// Login exchanges credentials for a session token. It never sends the current
// session token, so a rejected login cannot end an existing session.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResult, error) {
	var res domain.LoginResult
	noToken := ""
	if err := c.do(ctx, request{method: http.MethodPost, path: "auth/login", body: creds, out: &res, token: &noToken}); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	if res.Token == "" {
		return nil, fmt.Errorf("client.Login: %w", &Fault{Kind: KindDecode, StatusCode: http.StatusOK, Err: fmt.Errorf("response has no token")})
	}
	return &res, nil
}

// Logout terminates the session identified by token on the server. A 401 here
// does not fire the unauthorized handler.
func (c *Client) Logout(ctx context.Context, token string) error {
	if err := c.do(ctx, request{method: http.MethodPost, path: "auth/logout", token: &token}); err != nil {
		return fmt.Errorf("client.Logout: %w", err)
	}
	return nil
}

// Profile returns the authenticated caller's profile.
func (c *Client) Profile(ctx context.Context) (*domain.UserProfile, error) {
	var p domain.UserProfile
	if err := c.get(ctx, "auth/profile", nil, &p); err != nil {
		return nil, fmt.Errorf("client.Profile: %w", err)
	}
	return &p, nil
}

// ProfileWithToken fetches the profile for token instead of the current
// session token. Used to complete a login before it is committed.
func (c *Client) ProfileWithToken(ctx context.Context, token string) (*domain.UserProfile, error) {
	var p domain.UserProfile
	if err := c.do(ctx, request{method: http.MethodGet, path: "auth/profile", token: &token, out: &p}); err != nil {
		return nil, fmt.Errorf("client.ProfileWithToken: %w", err)
	}
	return &p, nil
}
