package alerting

import (
	"net/url"
	"strings"

	"fx-threshold-alerts/internal/config"
)

// Kind identifies a notification channel.
type Kind string

const (
	KindMailgun  Kind = "mailgun"
	KindGotify   Kind = "gotify"
	KindTelegram Kind = "telegram"
)

// mailgunUser is the fixed user part of Mailgun descriptors; the actual
// sender address travels in Target.From.
const mailgunUser = "no-reply"

const redactedToken = "****"

// Target is the normalised connection data for one channel.
type Target struct {
	Kind Kind
	// Host is the Mailgun sending domain or the Gotify host (scheme stripped).
	Host string
	// Token is the Mailgun API key, the Gotify app token or the Telegram bot token.
	Token      string
	Secure     bool
	From       string
	Recipients []string
	Region     string
	Name       string
	Priority   int
	APIBase    string
}

// Scheme returns the descriptor scheme. Gotify distinguishes TLS from plain
// HTTP with gotifys/gotify.
func (t Target) Scheme() string {
	switch t.Kind {
	case KindGotify:
		if t.Secure {
			return "gotifys"
		}
		return "gotify"
	case KindTelegram:
		return "tgram"
	default:
		return string(t.Kind)
	}
}

// URL renders the target as a notification URL, e.g.
// mailgun://no-reply@mg.example.com/key/ops@example.com/?region=eu&name=Alerts
// or gotifys://push.example.com/token.
func (t Target) URL() string {
	switch t.Kind {
	case KindMailgun:
		var b strings.Builder
		b.WriteString("mailgun://")
		b.WriteString(mailgunUser)
		b.WriteString("@")
		b.WriteString(t.Host)
		b.WriteString("/")
		b.WriteString(t.Token)
		b.WriteString("/")
		for _, to := range t.Recipients {
			b.WriteString(to)
			b.WriteString("/")
		}
		b.WriteString("?region=")
		b.WriteString(t.Region)
		if t.Name != "" {
			b.WriteString("&name=")
			b.WriteString(url.QueryEscape(t.Name))
		}
		return b.String()
	case KindGotify:
		return t.Scheme() + "://" + t.Host + "/" + t.Token
	case KindTelegram:
		return t.Scheme() + "://" + t.Token + "/" + strings.Join(t.Recipients, "/")
	default:
		return ""
	}
}

// Redacted is URL with the credential masked, safe for logs.
func (t Target) Redacted() string {
	u := t.URL()
	if t.Token == "" {
		return u
	}
	return strings.Replace(u, t.Token, redactedToken, 1)
}

// BuildMailgunTarget requires domain, API key, sender and at least one
// recipient. The second return is false when the channel is not configured.
func BuildMailgunTarget(cfg config.MailgunConfig, senderName string) (Target, bool) {
	domain := strings.TrimSpace(cfg.Domain)
	apiKey := strings.TrimSpace(cfg.APIKey)
	from := strings.TrimSpace(cfg.From)
	recipients := splitRecipients(cfg.To)
	if domain == "" || apiKey == "" || from == "" || len(recipients) == 0 {
		return Target{}, false
	}

	region := strings.ToLower(strings.TrimSpace(cfg.Region))
	if region == "" {
		region = "eu"
	}

	return Target{
		Kind:       KindMailgun,
		Host:       domain,
		Token:      apiKey,
		From:       from,
		Recipients: recipients,
		Region:     region,
		Name:       strings.TrimSpace(senderName),
	}, true
}

// BuildGotifyTarget requires a server URL and an app token. An https:// URL,
// or a URL without any scheme, yields a secure target; only an explicit
// http:// yields an insecure one.
func BuildGotifyTarget(cfg config.GotifyConfig) (Target, bool) {
	raw := strings.TrimSpace(cfg.URL)
	token := strings.TrimSpace(cfg.Token)
	if raw == "" || token == "" {
		return Target{}, false
	}

	var host string
	var secure bool
	switch {
	case strings.HasPrefix(raw, "https://"):
		host, secure = strings.TrimPrefix(raw, "https://"), true
	case strings.HasPrefix(raw, "http://"):
		host, secure = strings.TrimPrefix(raw, "http://"), false
	default:
		// no scheme given: default to TLS
		host, secure = raw, true
	}
	host = strings.TrimRight(host, "/")
	if host == "" {
		return Target{}, false
	}

	return Target{
		Kind:     KindGotify,
		Host:     host,
		Token:    token,
		Secure:   secure,
		Priority: cfg.Priority,
	}, true
}

// BuildTelegramTarget requires a bot token and a chat id.
func BuildTelegramTarget(cfg config.TelegramConfig) (Target, bool) {
	token := strings.TrimSpace(cfg.BotToken)
	chatID := strings.TrimSpace(cfg.ChatID)
	if token == "" || chatID == "" {
		return Target{}, false
	}

	apiBase := strings.TrimRight(strings.TrimSpace(cfg.APIBase), "/")
	if apiBase == "" {
		apiBase = "https://api.telegram.org"
	}

	return Target{
		Kind:       KindTelegram,
		Token:      token,
		Recipients: []string{chatID},
		APIBase:    apiBase,
	}, true
}

// BuildTargets runs every channel builder once and returns the configured targets.
func BuildTargets(cfg config.NotifyConfig) []Target {
	targets := make([]Target, 0, 3)
	if t, ok := BuildMailgunTarget(cfg.Mailgun, cfg.SenderName); ok {
		targets = append(targets, t)
	}
	if t, ok := BuildGotifyTarget(cfg.Gotify); ok {
		targets = append(targets, t)
	}
	if t, ok := BuildTelegramTarget(cfg.Telegram); ok {
		targets = append(targets, t)
	}
	return targets
}

func splitRecipients(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if addr := strings.TrimSpace(part); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
