package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// GotifySender pushes messages to a Gotify server.
type GotifySender struct {
	client *http.Client
}

// NewGotifySender constructs a Gotify sender.
func NewGotifySender(timeout time.Duration) *GotifySender {
	return &GotifySender{client: newHTTPClient(timeout)}
}

// Send calls POST /message with the app token.
func (g *GotifySender) Send(ctx context.Context, target Target, msg Message) error {
	payload := gotifyMessage{
		Title:    msg.Subject,
		Message:  msg.Body,
		Priority: target.Priority,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal gotify payload: %w", err)
	}

	scheme := "https"
	if !target.Secure {
		scheme = "http"
	}
	endpoint := fmt.Sprintf("%s://%s/message?%s", scheme, target.Host, url.Values{"token": {target.Token}}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create gotify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("send gotify request: %w", err)
	}
	defer resp.Body.Close()

	return checkStatus("gotify", resp)
}

type gotifyMessage struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	Priority int    `json:"priority"`
}

var _ Sender = (*GotifySender)(nil)
