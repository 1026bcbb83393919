package usersdk

import (
	"context"
	"net/http"
)

// ListUsers returns every user.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/users", nil, "")
	if err != nil {
		return nil, err
	}

	var users []User
	if err := decodeJSON(resp, &users, http.StatusOK); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser fetches one user. A missing user yields ErrNotFound.
func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, userPath(id), nil, "")
	if err != nil {
		return nil, err
	}

	var u User
	if err := decodeJSON(resp, &u, http.StatusOK); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser registers a new user.
func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/users", req, "")
	if err != nil {
		return nil, err
	}

	var u User
	if err := decodeJSON(resp, &u, http.StatusCreated); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUser applies a partial update and returns the stored user.
func (c *Client) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*User, error) {
	resp, err := c.doRequest(ctx, http.MethodPut, userPath(id), req, "")
	if err != nil {
		return nil, err
	}

	var u User
	if err := decodeJSON(resp, &u, http.StatusOK); err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteUser removes a user and returns the deleted record.
func (c *Client) DeleteUser(ctx context.Context, id string) (*User, error) {
	resp, err := c.doRequest(ctx, http.MethodDelete, userPath(id), nil, "")
	if err != nil {
		return nil, err
	}

	var u User
	if err := decodeJSON(resp, &u, http.StatusOK); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login exchanges credentials for an access token. A locked account
// yields ErrAccountLocked with UnlockAt set on the *APIError.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/users/login", LoginRequest{Email: email, Password: password}, "")
	if err != nil {
		return nil, err
	}

	var out LoginResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the user the access token was issued to.
func (c *Client) Me(ctx context.Context, token string) (*User, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/users/me", nil, token)
	if err != nil {
		return nil, err
	}

	var u User
	if err := decodeJSON(resp, &u, http.StatusOK); err != nil {
		return nil, err
	}
	return &u, nil
}
