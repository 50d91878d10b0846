package api

import (
	"context"
	"net/http"
)

const (
	loginPath    = "/api/auth/login"
	registerPath = "/api/auth/register"
)

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, creds Credentials) (AuthResponse, error) {
	var payload AuthResponse
	if err := c.do(ctx, http.MethodPost, loginPath, creds, &payload); err != nil {
		return AuthResponse{}, err
	}
	return payload, nil
}

// Register creates an account and signs it in.
func (c *Client) Register(ctx context.Context, reg Registration) (AuthResponse, error) {
	var payload AuthResponse
	if err := c.do(ctx, http.MethodPost, registerPath, reg, &payload); err != nil {
		return AuthResponse{}, err
	}
	return payload, nil
}
