package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spent-dev/spent/internal/model"
)

// Credentials is a token plus the user it authenticates, as returned by
// login and register.
type Credentials struct {
	Token string
	User  model.User
}

type authResponse struct {
	Token string   `json:"token"`
	User  wireUser `json:"user"`
}

// Login exchanges email and password for a token. The request goes out
// without a bearer header regardless of current session state.
func (c *Client) Login(ctx context.Context, email, password string) (Credentials, error) {
	return c.authenticate(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

// Register creates an account. A 2xx response means created and logged in;
// there is no separate verification step.
func (c *Client) Register(ctx context.Context, email, password, displayName string) (Credentials, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}
	if displayName != "" {
		body["displayName"] = displayName
	}
	return c.authenticate(ctx, "/auth/register", body)
}

func (c *Client) authenticate(ctx context.Context, path string, body map[string]string) (Credentials, error) {
	raw, err := c.send(ctx, "POST", path, body)
	if err != nil {
		return Credentials{}, err
	}
	var resp authResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return Credentials{}, fmt.Errorf("api: parsing auth response: %w", err)
	}
	return Credentials{Token: resp.Token, User: resp.User.toModel()}, nil
}

// Profile fetches the current user for the bearer token.
func (c *Client) Profile(ctx context.Context) (model.User, error) {
	raw, err := c.get(ctx, "/auth/profile", nil)
	if err != nil {
		return model.User{}, err
	}
	var resp struct {
		User wireUser `json:"user"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return model.User{}, fmt.Errorf("api: parsing profile: %w", err)
	}
	return resp.User.toModel(), nil
}

// ProfileUpdate carries the editable profile fields. Nil means leave the
// field unchanged.
type ProfileUpdate struct {
	DisplayName *string
	PhotoURL    *string
}

// UpdateProfile sends a partial profile update and returns the user as the
// server echoed it. Callers merge only the echoed fields.
func (c *Client) UpdateProfile(ctx context.Context, upd ProfileUpdate) (model.User, error) {
	body := map[string]*string{}
	if upd.DisplayName != nil {
		body["display_name"] = upd.DisplayName
	}
	if upd.PhotoURL != nil {
		body["photo_url"] = upd.PhotoURL
	}
	raw, err := c.send(ctx, "PUT", "/auth/profile", body)
	if err != nil {
		return model.User{}, err
	}
	var resp struct {
		User wireUser `json:"user"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return model.User{}, fmt.Errorf("api: parsing profile update: %w", err)
	}
	return resp.User.toModel(), nil
}

// ChangePassword verifies the current password server-side and sets a new
// one. No session state changes on success.
func (c *Client) ChangePassword(ctx context.Context, current, updated string) error {
	_, err := c.send(ctx, "POST", "/auth/change-password", map[string]string{
		"currentPassword": current,
		"newPassword":     updated,
	})
	return err
}
