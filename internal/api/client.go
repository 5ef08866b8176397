// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the backend client.
type ClientError struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Cause      error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is matches sentinel errors by type so wrapped causes still compare equal.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return t.Type == e.Type && (t.Message == "" || t.Message == e.Message)
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeNotReachable
	ErrTypeTimeout
	ErrTypeInvalidResponse
	ErrTypeBackend
)

// String returns the display string for the error type.
func (t ErrorType) String() string {
	switch t {
	case ErrTypeNotReachable:
		return "not-reachable"
	case ErrTypeTimeout:
		return "timeout"
	case ErrTypeInvalidResponse:
		return "invalid-response"
	case ErrTypeBackend:
		return "backend"
	default:
		return "unknown"
	}
}

// Sentinel errors for easy checking.
var (
	ErrNotReachable = &ClientError{Type: ErrTypeNotReachable}
	ErrTimeout      = &ClientError{Type: ErrTypeTimeout}
)

// IsBackendError reports whether err carries an "error" field sent by the
// backend, as opposed to a transport or decoding failure.
func IsBackendError(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Type == ErrTypeBackend
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// DefaultBaseURL matches the backend's development server.
const DefaultBaseURL = "http://localhost:5000/api"

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the API root; endpoint paths are appended to it.
	BaseURL string

	// Timeout bounds each request (default: 30s)
	Timeout time.Duration

	// HTTPClient overrides the transport, mostly for tests.
	HTTPClient *http.Client
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL: DefaultBaseURL,
		Timeout: 30 * time.Second,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the chat backend over its JSON HTTP contract.
//
// The Client is safe for concurrent use.
//
// Example:
//
//	client := api.NewClient(&api.ClientConfig{BaseURL: "http://localhost:5000/api"})
//	resp, err := client.Chat(ctx, api.ChatRequest{Message: "hi", Model: "brad-ai-1.12.2x", UserID: id})
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client, filling zero config values with defaults.
func NewClient(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// BaseURL returns the API root the client is bound to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// ENDPOINTS
// =============================================================================

// Models fetches the model catalog.
func (c *Client) Models(ctx context.Context) (*ModelsResponse, error) {
	var out ModelsResponse
	if err := c.getJSON(ctx, "/models", &out); err != nil {
		return nil, err
	}
	if out.Status != StatusSuccess {
		return nil, &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: fmt.Sprintf("models: unexpected status %q", out.Status),
		}
	}
	return &out, nil
}

// Chat sends one user turn. A reply whose "error" field is set is returned
// as an ErrTypeBackend ClientError carrying that text, whatever the HTTP
// status code.
func (c *Client) Chat(ctx context.Context, chatReq ChatRequest) (*ChatResponse, error) {
	body, err := json.Marshal(chatReq)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeNotReachable, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to read response", StatusCode: resp.StatusCode, Cause: err}
	}

	var out ChatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, statusError("chat", resp)
		}
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", StatusCode: resp.StatusCode, Cause: err}
	}
	if out.Error != "" {
		return nil, &ClientError{Type: ErrTypeBackend, Message: out.Error, StatusCode: resp.StatusCode}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError("chat", resp)
	}
	return &out, nil
}

// Profile fetches the backend profile for a session id.
func (c *Client) Profile(ctx context.Context, userID string) (*ProfileResponse, error) {
	var out ProfileResponse
	if err := c.getJSON(ctx, "/profile/"+url.PathEscape(userID), &out); err != nil {
		return nil, err
	}
	if out.Status != StatusSuccess {
		return nil, &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: fmt.Sprintf("profile: unexpected status %q", out.Status),
		}
	}
	return &out, nil
}

// Health fetches backend health. A reachable backend that reports a status
// other than "healthy" is returned without error; callers check Healthy().
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.getJSON(ctx, "/health", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// History fetches the server-side message history for a session id.
func (c *Client) History(ctx context.Context, userID string) (*HistoryResponse, error) {
	var out HistoryResponse
	if err := c.getJSON(ctx, "/history/"+url.PathEscape(userID), &out); err != nil {
		return nil, err
	}
	if out.Status != StatusSuccess {
		return nil, &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: fmt.Sprintf("history: unexpected status %q", out.Status),
		}
	}
	return &out, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// getJSON issues a GET and decodes a 200 response into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &ClientError{Type: ErrTypeNotReachable, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(strings.TrimPrefix(path, "/"), resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", StatusCode: resp.StatusCode, Cause: err}
	}
	return nil
}

// transportError classifies an http.Client.Do failure.
func transportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		return &ClientError{Type: ErrTypeTimeout, Message: "request timed out", Cause: err}
	}
	return &ClientError{Type: ErrTypeNotReachable, Message: "backend not reachable", Cause: err}
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

// statusError builds an error for a non-200 reply, preferring the body's
// "error" field when there is one.
func statusError(what string, resp *http.Response) error {
	var eb errorBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&eb); err == nil && eb.Error != "" {
		return &ClientError{Type: ErrTypeBackend, Message: eb.Error, StatusCode: resp.StatusCode}
	}
	return &ClientError{
		Type:       ErrTypeInvalidResponse,
		Message:    what + " request failed: " + resp.Status,
		StatusCode: resp.StatusCode,
	}
}
