// Package telegram sends chat messages through the Telegram Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.telegram.org"

// Bot posts messages to one chat.
type Bot struct {
	baseURL    string
	token      string
	chatID     string
	httpClient *http.Client
}

type Option func(*Bot)

// WithBaseURL points the bot at another API host.
func WithBaseURL(u string) Option {
	return func(b *Bot) { b.baseURL = u }
}

func NewBot(token, chatID string, timeout time.Duration, opts ...Option) *Bot {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	b := &Bot{
		baseURL:    defaultBaseURL,
		token:      token,
		chatID:     chatID,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Configured reports whether the bot has a token and a chat.
func (b *Bot) Configured() bool {
	return b != nil && b.token != "" && b.chatID != ""
}

type sendMessageReq struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// SendHTML sends text formatted with Telegram's HTML subset.
func (b *Bot) SendHTML(ctx context.Context, text string) error {
	if !b.Configured() {
		return fmt.Errorf("telegram bot not configured")
	}
	body, err := json.Marshal(sendMessageReq{ChatID: b.chatID, Text: text, ParseMode: "HTML"})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", b.baseURL, b.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call telegram: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API returned status %d: %s", resp.StatusCode, respBody)
	}
	var result apiResponse
	if err := json.Unmarshal(respBody, &result); err == nil && !result.OK {
		return fmt.Errorf("telegram API error: %s", result.Description)
	}
	return nil
}

// Notify sends an order message; it satisfies the order alert notifier.
func (b *Bot) Notify(ctx context.Context, orderCode, message string) error {
	if err := b.SendHTML(ctx, message); err != nil {
		return fmt.Errorf("notify order %s: %w", orderCode, err)
	}
	return nil
}
