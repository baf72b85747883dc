// Package telegram pushes user notifications to linked Telegram chats.
package telegram

import (
	"context"
	"fmt"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Pusher struct {
	bot *tgbotapi.BotAPI
}

// NewPusher authenticates the bot against endpoint, a Bot API URL template
// such as tgbotapi.APIEndpoint.
func NewPusher(token, endpoint string, httpClient *http.Client) (*Pusher, error) {
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, httpClient)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	return &Pusher{bot: bot}, nil
}

// Push sends text to chatID. The bot client has no per-call context, so the
// http.Client timeout bounds the call.
func (p *Pusher) Push(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := p.bot.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}
