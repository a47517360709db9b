package api

import (
	"context"
	"net/http"

	"github.com/AdY21850/sweet-shop-manager/internal/domain"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the backend's login reply: a bearer token plus the user
// record it was issued for.
type LoginResult struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var result LoginResult
	req := LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Register(ctx context.Context, username, email, password string) error {
	req := RegisterRequest{Username: username, Email: email, Password: password}
	return c.do(ctx, http.MethodPost, "/auth/register", req, nil)
}
