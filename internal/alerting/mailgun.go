package alerting

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// MailgunSender posts messages to the Mailgun HTTP API.
type MailgunSender struct {
	client *http.Client
	// baseURL overrides the regional endpoint; empty in production.
	baseURL string
}

// NewMailgunSender constructs a Mailgun sender.
func NewMailgunSender(timeout time.Duration, baseURL string) *MailgunSender {
	return &MailgunSender{
		client:  newHTTPClient(timeout),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Send submits a plain-text message with basic auth api:<key>.
func (m *MailgunSender) Send(ctx context.Context, target Target, msg Message) error {
	form := url.Values{}
	form.Set("from", target.From)
	form.Set("to", strings.Join(target.Recipients, ","))
	form.Set("subject", msg.Subject)
	form.Set("text", msg.Body)

	endpoint := m.endpoint(target)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create mailgun request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth("api", target.Token)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send mailgun request: %w", err)
	}
	defer resp.Body.Close()

	return checkStatus("mailgun", resp)
}

func (m *MailgunSender) endpoint(target Target) string {
	base := m.baseURL
	if base == "" {
		base = regionBaseURL(target.Region)
	}
	return fmt.Sprintf("%s/v3/%s/messages", base, url.PathEscape(target.Host))
}

func regionBaseURL(region string) string {
	if region == "" || region == "us" {
		return "https://api.mailgun.net"
	}
	return "https://api." + region + ".mailgun.net"
}

var _ Sender = (*MailgunSender)(nil)
