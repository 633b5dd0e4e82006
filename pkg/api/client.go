// Package api is the HTTP client for the agent host's REST surface:
// message submission plus the plugin and persona endpoints.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"agentchat/pkg/version"
)

const DefaultTimeout = 30 * time.Second

// Client handles backend API interactions for one session.
type Client struct {
	BaseURL    string
	Session    string
	HTTPClient *http.Client
}

// NewClient creates an API client for the given backend and session.
func NewClient(baseURL, session string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		BaseURL:    baseURL,
		Session:    session,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// SendMessage submits a user message to the chat session. The reducer
// treats this as fire-and-forget; callers that care can still inspect
// the error.
func (c *Client) SendMessage(ctx context.Context, text string) error {
	path := fmt.Sprintf("/chat/%s/send", url.PathEscape(c.Session))

	slog.Debug("api_send_message", "session", c.Session, "length", len(text))
	return c.post(ctx, path, SendRequest{Message: text}, nil)
}

// ListPlugins fetches the backend's plugin list with toggle states.
func (c *Client) ListPlugins(ctx context.Context) ([]Plugin, error) {
	var plugins []Plugin
	if err := c.get(ctx, "/plugins", &plugins); err != nil {
		return nil, err
	}
	return plugins, nil
}

// SavePlugins submits the full plugin list, as the toggle panel does.
func (c *Client) SavePlugins(ctx context.Context, plugins []Plugin) error {
	slog.Debug("api_save_plugins", "count", len(plugins))
	return c.post(ctx, "/plugins", plugins, nil)
}

// ListPersonas lists persona names in a scope ("local" or "shared").
func (c *Client) ListPersonas(ctx context.Context, scope string) ([]PersonaRef, error) {
	var refs []PersonaRef
	path := fmt.Sprintf("/personas/%s", url.PathEscape(scope))
	if err := c.get(ctx, path, &refs); err != nil {
		return nil, err
	}
	return refs, nil
}

// GetPersona fetches one persona definition.
func (c *Client) GetPersona(ctx context.Context, scope, name string) (Persona, error) {
	var persona Persona
	path := fmt.Sprintf("/personas/%s/%s", url.PathEscape(scope), url.PathEscape(name))
	if err := c.get(ctx, path, &persona); err != nil {
		return Persona{}, err
	}
	return persona, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Warn("api_error_response", "method", method, "path", path, "status", resp.StatusCode)
		return decodeError(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// decodeError pulls the backend's {"detail": ...} shape out of an
// error body when present.
func decodeError(status int, body []byte) error {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return &Error{StatusCode: status, Detail: payload.Detail}
	}
	return &Error{StatusCode: status}
}
