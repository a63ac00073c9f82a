// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the HTTP client for the Sarkar chat backend.
//
// All endpoints exchange JSON. Errors from the server arrive as
// {"error": "..."} bodies and are surfaced as wrapped Go errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// =============================================================================
// TYPES
// =============================================================================

// ChatMessage is a single message as the server stores it.
type ChatMessage struct {
	Content string `json:"content"`
	IsUser  bool   `json:"is_user"`
}

// Chat is a full conversation returned by GetChat.
type Chat struct {
	ID       int64         `json:"id"`
	Title    string        `json:"title"`
	Messages []ChatMessage `json:"messages"`
}

// ProfileUpdate carries the fields of a profile change. Nil fields are
// omitted so the server only touches what the user edited.
type ProfileUpdate struct {
	DisplayName     *string `json:"display_name,omitempty"`
	ThemePreference *string `json:"theme_preference,omitempty"`
	CurrentPassword *string `json:"current_password,omitempty"`
	NewPassword     *string `json:"new_password,omitempty"`
}

// RetryRequest asks the server to regenerate a response. Truncate is the
// number of messages the server should drop from the stored chat before
// re-answering AnchorUserText.
type RetryRequest struct {
	AnchorUserText string `json:"anchor_user_text"`
	ChatID         int64  `json:"chat_id"`
	Truncate       int    `json:"truncate"`
}

// Feedback values accepted by SendFeedback.
const (
	FeedbackUp   = "up"
	FeedbackDown = "down"
)

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the Sarkar backend. The zero value is not usable;
// construct with NewClient.
type Client struct {
	baseURL string
	http    *http.Client
	// stream has no overall timeout so long generations are not cut off.
	stream *http.Client
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout, Transport: transport},
		stream:  &http.Client{Transport: transport},
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// ENDPOINTS
// =============================================================================

// GetChat fetches a full conversation by id.
func (c *Client) GetChat(ctx context.Context, id int64) (*Chat, error) {
	var resp struct {
		Chat Chat `json:"chat"`
	}
	url := fmt.Sprintf("%s/api/get_chat/%d", c.baseURL, id)
	if err := c.doJSON(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return nil, fmt.Errorf("get chat %d: %w", id, err)
	}
	return &resp.Chat, nil
}

// RetitleChat asks the server to generate a title from the first message
// of a chat. Returns the new title.
func (c *Client) RetitleChat(ctx context.Context, chatID int64, firstMessage string) (string, error) {
	req := struct {
		ChatID       int64  `json:"chat_id"`
		FirstMessage string `json:"first_message"`
	}{ChatID: chatID, FirstMessage: firstMessage}

	var resp struct {
		Title string `json:"title"`
	}
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/api/retitle_chat", req, &resp); err != nil {
		return "", fmt.Errorf("retitle chat %d: %w", chatID, err)
	}
	return resp.Title, nil
}

// DeleteChat removes a single chat.
func (c *Client) DeleteChat(ctx context.Context, id int64) error {
	url := fmt.Sprintf("%s/api/delete_chat/%d", c.baseURL, id)
	if err := c.doJSON(ctx, http.MethodDelete, url, nil, nil); err != nil {
		return fmt.Errorf("delete chat %d: %w", id, err)
	}
	return nil
}

// DeleteAllChats removes every chat for the current user.
func (c *Client) DeleteAllChats(ctx context.Context) error {
	if err := c.doJSON(ctx, http.MethodDelete, c.baseURL+"/api/delete_all_chats", nil, nil); err != nil {
		return fmt.Errorf("delete all chats: %w", err)
	}
	return nil
}

// UpdateProfile submits a profile change.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) error {
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/api/update_profile", update, nil); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// SendFeedback records a thumbs up/down for an assistant message.
// Callers treat failures as best-effort and may ignore the error.
func (c *Client) SendFeedback(ctx context.Context, chatID int64, feedback, content string) error {
	req := struct {
		ChatID   int64  `json:"chat_id"`
		Feedback string `json:"feedback"`
		Content  string `json:"content"`
	}{ChatID: chatID, Feedback: feedback, Content: content}

	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/api/feedback", req, nil); err != nil {
		return fmt.Errorf("send feedback: %w", err)
	}
	return nil
}

// Retry regenerates an assistant response and returns its content.
func (c *Client) Retry(ctx context.Context, req RetryRequest) (string, error) {
	var resp struct {
		AIMessage struct {
			Content string `json:"content"`
		} `json:"ai_message"`
	}
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/api/retry", req, &resp); err != nil {
		return "", fmt.Errorf("retry: %w", err)
	}
	return resp.AIMessage.Content, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// doJSON performs a JSON request/response round trip. out may be nil when
// the response body is irrelevant.
func (c *Client) doJSON(ctx context.Context, method, url string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out == nil {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError turns a non-2xx response into an error, preferring the
// server's {"error": "..."} body over the bare status.
func decodeError(resp *http.Response) error {
	var apiErr struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
		return fmt.Errorf("server: %s (HTTP %d)", apiErr.Error, resp.StatusCode)
	}
	return fmt.Errorf("server returned HTTP %d", resp.StatusCode)
}
