package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// TelegramSender 通过 Telegram Bot API 推送消息。
type TelegramSender struct {
	client *http.Client
}

// NewTelegramSender 构造 Telegram 发送器。
func NewTelegramSender(timeout time.Duration) *TelegramSender {
	return &TelegramSender{client: newHTTPClient(timeout)}
}

// Send posts to <api_base>/bot<token>/sendMessage. A 2xx reply whose body
// says ok=false still counts as a failure.
func (s *TelegramSender) Send(ctx context.Context, target Target, msg Message) error {
	if len(target.Recipients) == 0 {
		return errors.New("telegram target has no chat id")
	}

	body, err := json.Marshal(telegramMessage{ChatID: target.Recipients[0], Text: renderText(msg)})
	if err != nil {
		return fmt.Errorf("marshal telegram payload: %w", err)
	}

	endpoint := strings.TrimRight(target.APIBase, "/") + "/bot" + target.Token + "/sendMessage"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		// url.Error embeds the endpoint, which carries the bot token
		return fmt.Errorf("send telegram request: %w", errors.Unwrap(err))
	}
	defer resp.Body.Close()

	if err := checkStatus("telegram", resp); err != nil {
		return err
	}

	var reply telegramReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return fmt.Errorf("decode telegram reply: %w", err)
	}
	if !reply.OK {
		return fmt.Errorf("telegram rejected message: %s", reply.Description)
	}
	return nil
}

type telegramMessage struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type telegramReply struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// renderText 把标题与正文合并为一条文本消息。
func renderText(msg Message) string {
	if msg.Subject == "" {
		return msg.Body
	}
	return msg.Subject + "\n\n" + msg.Body
}

var _ Sender = (*TelegramSender)(nil)
