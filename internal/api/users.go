package api

import (
	"context"
	"fmt"
	"net/http"
)

func userPath(id int64) string {
	return fmt.Sprintf("/api/users/%d", id)
}

// GetUser returns a user profile.
func (c *Client) GetUser(ctx context.Context, id int64) (User, error) {
	var payload User
	if err := c.do(ctx, http.MethodGet, userPath(id), nil, &payload); err != nil {
		return User{}, err
	}
	return payload, nil
}

// UpdateUser applies a partial profile update.
func (c *Client) UpdateUser(ctx context.Context, id int64, upd UserUpdate) error {
	var payload MessageResponse
	return c.do(ctx, http.MethodPut, userPath(id), upd, &payload)
}

// DeleteUser removes the account.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	var payload MessageResponse
	return c.do(ctx, http.MethodDelete, userPath(id), nil, &payload)
}
