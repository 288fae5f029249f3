// Package api is the authentication API client.
package api

import (
	"context"
	"net/http"

	"github.com/spreadpad/spreadpad/business/session/domain"
	"github.com/spreadpad/spreadpad/internal/apperror"
	"github.com/spreadpad/spreadpad/internal/httpclient"
)

// Client talks to the auth endpoints of the sync server.
type Client struct {
	http httpclient.Client
}

// NewClient creates an auth API client.
func NewClient(http httpclient.Client) *Client {
	return &Client{http: http}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
	Error string      `json:"error,omitempty"`
}

// Login exchanges credentials for a session. A rejected login yields a
// CodeLoginFailed error carrying the server's message for the UI.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	var body loginResponse
	resp, err := c.http.NewRequest().
		SetBody(loginRequest{Username: username, Password: password}).
		SetResult(&body).
		Post(ctx, "/api/login")
	if err != nil {
		return nil, apperror.External(apperror.CodeLoginFailed, "login request", err)
	}
	if resp.IsError() {
		msg := body.Error
		if msg == "" {
			msg = resp.Status
		}
		return nil, apperror.New(apperror.CodeLoginFailed, apperror.WithContext(msg))
	}
	return &domain.Session{Token: body.Token, User: body.User}, nil
}

// Profile validates the token against the server and returns the user.
// A 401 maps to CodeSessionUnauthorized so callers log out.
func (c *Client) Profile(ctx context.Context, token string) (*domain.User, error) {
	var user domain.User
	resp, err := c.http.NewRequest().
		SetHeader("Authorization", "Bearer "+token).
		SetResult(&user).
		Get(ctx, "/api/profile")
	if err != nil {
		return nil, apperror.External(apperror.CodeExternalServiceError, "profile request", err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, apperror.Unauthorized(apperror.CodeSessionUnauthorized, "profile")
	}
	if resp.IsError() {
		return nil, apperror.External(apperror.CodeExternalServiceError, resp.Status, nil)
	}
	return &user, nil
}
