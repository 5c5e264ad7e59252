// Package api is the typed HTTP client for the userboard server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var (
	// ErrUnauthorized covers both a rejected and an absent credential; the
	// caller's reaction is the same either way: drop the session.
	ErrUnauthorized = errors.New("not authorized")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrConflict           = errors.New("username or email already exists")
	ErrValidation         = errors.New("invalid input")
)

type Account struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type LoginResult struct {
	Token string `json:"token"`
	User  struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	} `json:"user"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Register(ctx context.Context, username, email, password string) error {
	body := map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}
	return c.do(ctx, http.MethodPost, "/api/register", "", body, nil)
}

func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var result LoginResult
	err := c.do(ctx, http.MethodPost, "/api/login", "", body, &result)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	return result, nil
}

func (c *Client) ListUsers(ctx context.Context, token string) ([]Account, error) {
	var accounts []Account
	if err := c.do(ctx, http.MethodGet, "/api/users", token, nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (c *Client) UpdateUser(ctx context.Context, token string, id int64, username, email string) error {
	body := map[string]string{
		"username": username,
		"email":    email,
	}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/users/%d", id), token, body, nil)
}

func (c *Client) DeleteUser(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/users/%d", id), token, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	}

	return c.statusError(resp)
}

func (c *Client) statusError(resp *http.Response) error {
	var envelope struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&envelope)

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusConflict:
		return ErrConflict
	case http.StatusBadRequest:
		if envelope.Message != "" {
			return fmt.Errorf("%w: %s", ErrValidation, envelope.Message)
		}
		return ErrValidation
	default:
		if envelope.Message != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, envelope.Message)
		}
		return fmt.Errorf("server error (%d)", resp.StatusCode)
	}
}
