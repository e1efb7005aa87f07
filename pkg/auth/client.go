package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/connectiq/connectiq-tui/internal/api"
)

// Client performs signup and login against the remote service
type Client struct {
	api *api.Client
}

// NewClient creates an auth client on top of the API gateway
func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

// Signup registers a new account. The service takes credentials as query
// parameters on the signup path with no request body.
func (c *Client) Signup(ctx context.Context, email, password string) error {
	path := "/auth/signup?email=" + url.QueryEscape(email) + "&password=" + url.QueryEscape(password)
	if _, err := c.api.Request(ctx, http.MethodPost, path, nil, ""); err != nil {
		return fmt.Errorf("signup: %w", err)
	}
	return nil
}

// loginResponse is the expected shape of POST /auth/login
type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges credentials for a bearer token. The endpoint speaks the
// OAuth2 password-grant form shape with fields username and password.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	form := url.Values{
		"username": {email},
		"password": {password},
	}
	raw, err := c.api.PostForm(ctx, "/auth/login", form)
	if err != nil {
		return "", fmt.Errorf("login failed: %w", err)
	}
	var res loginResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return "", fmt.Errorf("login failed: %w", err)
	}
	if res.AccessToken == "" {
		return "", fmt.Errorf("login failed: no access token in response")
	}
	return res.AccessToken, nil
}
