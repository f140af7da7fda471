package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"cinema-booking-cli/model"
)

// Login exchanges credentials for an access/refresh token pair.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (model.TokenPair, error) {
	if err := c.validate.Struct(creds); err != nil {
		return model.TokenPair{}, fmt.Errorf("invalid credentials: %w", err)
	}
	var pair model.TokenPair
	if err := c.sendJSON(ctx, http.MethodPost, c.endpoint("/auth/login/"), creds, &pair, nil); err != nil {
		return model.TokenPair{}, err
	}
	if pair.Access == "" {
		return model.TokenPair{}, errors.New("login response has no access token")
	}
	return pair, nil
}

// GetProfile returns the authenticated user.
func (c *Client) GetProfile(ctx context.Context) (model.User, error) {
	var user model.User
	if err := c.getJSON(ctx, c.endpoint("/users/me/"), &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// UpdateProfile patches the authenticated user's profile.
func (c *Client) UpdateProfile(ctx context.Context, update model.ProfileUpdate) (model.User, error) {
	if update == (model.ProfileUpdate{}) {
		return model.User{}, errors.New("nothing to update")
	}
	if err := c.validate.Struct(update); err != nil {
		return model.User{}, fmt.Errorf("invalid profile: %w", err)
	}
	var user model.User
	if err := c.sendJSON(ctx, http.MethodPatch, c.endpoint("/users/me/"), update, &user, nil); err != nil {
		return model.User{}, err
	}
	return user, nil
}
