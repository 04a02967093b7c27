// Package api is a thin HTTP client for the blog platform's JSON API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/oksasatya/go-blog-platform/internal/domain/entity"
	"github.com/oksasatya/go-blog-platform/pkg/response"
)

var ErrUnauthorized = errors.New("unauthorized")

// Error is a non-2xx API response other than 401.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

type LoginResponse struct {
	Token string            `json:"token"`
	User  entity.UserDetail `json:"user"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Login(ctx context.Context, email, password string, remember bool) (*LoginResponse, error) {
	body := map[string]any{"email": email, "password": password, "rememberMe": remember}
	var out LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/login", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, in RegisterRequest) (*entity.UserDetail, error) {
	var out entity.UserDetail
	if err := c.do(ctx, http.MethodPost, "/api/register", "", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RequestReset reports whether a new password was mailed.
func (c *Client) RequestReset(ctx context.Context, email string) (bool, error) {
	err := c.do(ctx, http.MethodPost, "/api/password/reset", "", map[string]string{"email": email}, nil)
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c *Client) Profile(ctx context.Context, token string) (*entity.UserDetail, error) {
	var out entity.UserDetail
	if err := c.do(ctx, http.MethodGet, "/api/profile", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/api/logout", token, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	var env response.APIResponse[json.RawMessage]
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		if res.StatusCode >= 300 {
			return &Error{Status: res.StatusCode, Message: http.StatusText(res.StatusCode)}
		}
		return fmt.Errorf("decode response: %w", err)
	}
	if res.StatusCode >= 300 || !env.Success {
		return &Error{Status: res.StatusCode, Message: env.Message}
	}
	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}
