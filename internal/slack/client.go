// Package slack posts rendered alerts to a Slack-compatible webhook using
// the block layout.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"logrouter/internal/render"
)

// DeliveryError reports a non-200 webhook response. It is fatal: the
// orchestrator propagates it to the host.
type DeliveryError struct {
	Status  int
	Body    string
	Payload []byte
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("slack delivery failed: status %d: %s", e.Status, e.Body)
}

// Client posts chat messages to a single webhook URL.
type Client struct {
	webhookURL string
	httpClient *http.Client
}

// NewClient returns a Client for the given webhook. A nil httpClient gets
// a default with a 10 second timeout.
func NewClient(webhookURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{webhookURL: webhookURL, httpClient: httpClient}
}

type block struct {
	Type   string `json:"type"`
	Text   *text  `json:"text,omitempty"`
	Fields []text `json:"fields,omitempty"`
}

type text struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Send converts the message to the block layout and posts it. Success is
// exactly a 200 response.
func (c *Client) Send(ctx context.Context, message render.ChatMessage) error {
	payload, err := json.Marshal(map[string]any{"blocks": buildBlocks(message)})
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post slack message: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &DeliveryError{Status: resp.StatusCode, Body: string(body), Payload: payload}
	}
	return nil
}

func buildBlocks(message render.ChatMessage) []block {
	fields := make([]text, 0, len(message.Fields))
	for _, f := range message.Fields {
		fields = append(fields, text{Type: "mrkdwn", Text: "*" + f.Label + ":*\n" + f.Value})
	}
	blocks := []block{
		{Type: "header", Text: &text{Type: "plain_text", Text: ":alert: " + message.Title}},
		{Type: "section", Fields: fields},
	}
	if message.Content != "" {
		blocks = append(blocks,
			block{Type: "divider"},
			block{Type: "section", Text: &text{Type: "mrkdwn", Text: message.Content}},
		)
	}
	blocks = append(blocks,
		block{Type: "divider"},
		block{Type: "section", Text: &text{Type: "mrkdwn", Text: message.Footnote}},
	)
	return blocks
}
