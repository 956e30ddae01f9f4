// Package client implements the conversation store API over HTTP+JSON.
// Each operation makes exactly one attempt; any transport error or
// non-2xx status is returned as a plain error with no status-specific
// branching, matching how the session manager absorbs failures.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/joss/lawchat/internal/domain"
)

// HTTPClient interface for HTTP requests (enables testing)
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Verify http.Client implements HTTPClient
var _ HTTPClient = (*http.Client)(nil)

// Client talks to the lawchat backend.
type Client struct {
	baseURL string
	client  HTTPClient
}

// Verify Client implements domain.Store
var _ domain.Store = (*Client)(nil)

// New creates a client for the store at baseURL.
func New(baseURL string) *Client {
	return NewWithClient(baseURL, &http.Client{})
}

// NewWithClient creates a client with a custom HTTP client.
func NewWithClient(baseURL string, httpClient HTTPClient) *Client {
	return &Client{
		baseURL: baseURL,
		client:  httpClient,
	}
}

// ListConversations fetches all conversations in store order.
func (c *Client) ListConversations(ctx context.Context) ([]domain.Conversation, error) {
	var conversations []domain.Conversation
	if err := c.get(ctx, "/conversations", &conversations); err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return conversations, nil
}

// GetMessages fetches a conversation's transcript. An empty transcript
// decodes to an empty slice, which is a valid result.
func (c *Client) GetMessages(ctx context.Context, conversationID int64) ([]domain.Message, error) {
	var messages []domain.Message
	path := fmt.Sprintf("/conversations/%d", conversationID)
	if err := c.get(ctx, path, &messages); err != nil {
		return nil, fmt.Errorf("get messages: %w", err)
	}
	return messages, nil
}

// CreateConversation creates a conversation and returns the
// store-assigned id.
func (c *Client) CreateConversation(ctx context.Context, title string) (int64, error) {
	req := struct {
		Title string `json:"title"`
	}{Title: title}

	var resp struct {
		ConversationID int64 `json:"conversation_id"`
	}
	if err := c.post(ctx, "/conversations", req, &resp); err != nil {
		return 0, fmt.Errorf("create conversation: %w", err)
	}
	return resp.ConversationID, nil
}

// Ask sends a question into a conversation and returns the assistant's
// answer. One question, one answer; no streaming.
func (c *Client) Ask(ctx context.Context, conversationID int64, question string) (string, error) {
	req := struct {
		Question       string `json:"question"`
		ConversationID int64  `json:"conversation_id"`
	}{Question: question, ConversationID: conversationID}

	var resp struct {
		Answer string `json:"answer"`
	}
	if err := c.post(ctx, "/ask", req, &resp); err != nil {
		return "", fmt.Errorf("ask: %w", err)
	}
	return resp.Answer, nil
}

// Health checks whether the backend is reachable.
func (c *Client) Health(ctx context.Context) error {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.get(ctx, "/health", &resp); err != nil {
		return fmt.Errorf("health: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s: status %d after %s", req.Method, req.URL.Path, resp.StatusCode, time.Since(start).Round(time.Millisecond))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
