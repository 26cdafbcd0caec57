package alerting

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Message is the channel-agnostic content of a notification.
type Message struct {
	Subject string
	Body    string
}

// Sender delivers a message to one kind of target.
type Sender interface {
	Send(ctx context.Context, target Target, msg Message) error
}

// Notifier broadcasts a subject/body pair and reports whether anyone got it.
type Notifier interface {
	Notify(ctx context.Context, subject, body string) bool
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// checkStatus turns a non-2xx response into an error carrying a short excerpt
// of the body.
func checkStatus(channel string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	if excerpt := strings.TrimSpace(string(raw)); excerpt != "" {
		return fmt.Errorf("%s returned status %d: %s", channel, resp.StatusCode, excerpt)
	}
	return fmt.Errorf("%s returned status %d", channel, resp.StatusCode)
}
