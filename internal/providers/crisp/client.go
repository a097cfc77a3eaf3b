// Package crisp implements the outbound Crisp REST capability: a liveness
// probe on a conversation and posting an operator message into it.
package crisp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sandevgo/relancebot/internal/core"
	"github.com/sandevgo/relancebot/pkg/retry"
)

type Config struct {
	BaseURL    string
	WebsiteID  string
	Identifier string
	Key        string
}

type Client struct {
	client    *http.Client
	baseURL   string
	websiteID string
	ident     string
	key       string
	retrier   *retry.Retrier
}

func NewClient(cfg Config) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL:   cfg.BaseURL,
		websiteID: cfg.WebsiteID,
		ident:     cfg.Identifier,
		key:       cfg.Key,
		retrier:   retry.NewDefaultRetrier(),
	}
}

// ConversationExists probes the conversation resource; 200 means the
// conversation is still alive upstream. Transport errors are retried, a
// non-200 answer is not.
func (c *Client) ConversationExists(ctx context.Context, sessionID string) (bool, error) {
	path := fmt.Sprintf("/website/%s/conversation/%s", c.websiteID, sessionID)

	var status int
	err := c.retrier.Do(ctx, func() error {
		resp, err := c.do(ctx, http.MethodGet, path, nil)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)
		status = resp.StatusCode
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("probe conversation: %w", err)
	}

	return status == http.StatusOK, nil
}

// PostMessage sends one message into the conversation. Single-shot: a retry
// here could deliver the same reminder twice.
func (c *Client) PostMessage(ctx context.Context, sessionID string, msg core.OutboundMessage) error {
	path := fmt.Sprintf("/website/%s/conversation/%s/message", c.websiteID, sessionID)

	resp, err := c.do(ctx, http.MethodPost, path, msg)
	if err != nil {
		return fmt.Errorf("post message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("post message: http %d: %s", resp.StatusCode, string(data))
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.SetBasicAuth(c.ident, c.key)
	req.Header.Set("X-Crisp-Tier", "plugin")
	req.Header.Set("User-Agent", core.AppUserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	return resp, nil
}
