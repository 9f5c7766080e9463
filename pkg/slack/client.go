package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

type message struct {
	ResponseType string `json:"response_type,omitempty"`
	Text         string `json:"text"`
}

// Client posts messages back to Slack, either to a command's response_url
// or to the configured incoming webhook.
type Client struct {
	httpClient *http.Client
	webhookUrl string
}

func NewClient(webhookUrl string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		webhookUrl: webhookUrl,
	}
}

// PostResponse sends an ephemeral follow-up to a slash command.
func (c *Client) PostResponse(ctx context.Context, responseUrl string, text string) error {
	return c.post(ctx, responseUrl, message{ResponseType: "ephemeral", Text: text})
}

// PostNotification sends to the organization's notification webhook. It is a
// no-op when no webhook is configured.
func (c *Client) PostNotification(ctx context.Context, text string) error {
	if c.webhookUrl == "" {
		log.Debug("Slack notification webhook not configured, skipping notification")
		return nil
	}
	return c.post(ctx, c.webhookUrl, message{Text: text})
}

func (c *Client) post(ctx context.Context, url string, payload message) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("could not marshal slack message: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("could not create slack request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("could not post slack message: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode >= 300 {
		return fmt.Errorf("slack responded with status %d", response.StatusCode)
	}
	return nil
}
