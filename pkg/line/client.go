package line

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

const defaultAPIBaseURL = "https://api.line.me"

// ClientInterface is the subset of the LINE Messaging API the service uses.
type ClientInterface interface {
	PushMessage(ctx context.Context, to string, messages ...Message) error
	ReplyMessage(ctx context.Context, replyToken string, messages ...Message) error
	Enabled() bool
}

// Message is a LINE message object. Text messages set Text, flex messages set
// AltText and Contents.
type Message struct {
	Type     string      `json:"type"`
	Text     string      `json:"text,omitempty"`
	AltText  string      `json:"altText,omitempty"`
	Contents interface{} `json:"contents,omitempty"`
}

func NewTextMessage(text string) Message {
	return Message{Type: "text", Text: truncate(text, 5000)}
}

func NewFlexMessage(altText string, contents interface{}) Message {
	return Message{Type: "flex", AltText: truncate(altText, 400), Contents: contents}
}

type Client struct {
	accessToken string
	baseURL     string
	httpClient  *http.Client
}

type ClientOption func(*Client)

func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(accessToken string, opts ...ClientOption) *Client {
	c := &Client{
		accessToken: accessToken,
		baseURL:     defaultAPIBaseURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled reports whether a channel access token is configured.
func (c *Client) Enabled() bool {
	return c.accessToken != ""
}

type pushRequest struct {
	To       string    `json:"to"`
	Messages []Message `json:"messages"`
}

type replyRequest struct {
	ReplyToken string    `json:"replyToken"`
	Messages   []Message `json:"messages"`
}

func (c *Client) PushMessage(ctx context.Context, to string, messages ...Message) error {
	if to == "" {
		return fmt.Errorf("line: push recipient is empty")
	}
	return c.send(ctx, "/v2/bot/message/push", pushRequest{To: to, Messages: messages})
}

func (c *Client) ReplyMessage(ctx context.Context, replyToken string, messages ...Message) error {
	if replyToken == "" {
		return fmt.Errorf("line: reply token is empty")
	}
	return c.send(ctx, "/v2/bot/message/reply", replyRequest{ReplyToken: replyToken, Messages: messages})
}

type apiError struct {
	Message string `json:"message"`
	Details []struct {
		Message  string `json:"message"`
		Property string `json:"property"`
	} `json:"details"`
}

func (c *Client) send(ctx context.Context, path string, payload interface{}) error {
	if !c.Enabled() {
		return fmt.Errorf("line: channel access token is not configured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("line: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("line: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("line: send %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var apiErr apiError
	if json.Unmarshal(raw, &apiErr) == nil && apiErr.Message != "" {
		return fmt.Errorf("line: %s returned %d: %s", path, resp.StatusCode, apiErr.Message)
	}
	return fmt.Errorf("line: %s returned %d", path, resp.StatusCode)
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
