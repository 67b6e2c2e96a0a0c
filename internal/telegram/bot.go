package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ErrDelivery wraps every failure to hand a message to Telegram
var ErrDelivery = errors.New("telegram delivery failed")

type linkPreviewOptions struct {
	IsDisabled bool `json:"is_disabled"`
}

// Bot sends Markdown messages to a single chat.
type Bot struct {
	api    *tgbotapi.BotAPI
	chatID string
}

type options struct {
	endpoint string
	client   tgbotapi.HTTPClient
}

type Option func(*options)

// WithEndpoint overrides the API endpoint format, e.g. "http://127.0.0.1:8080/bot%s/%s"
func WithEndpoint(endpoint string) Option {
	return func(o *options) { o.endpoint = endpoint }
}

func WithHTTPClient(c tgbotapi.HTTPClient) Option {
	return func(o *options) { o.client = c }
}

// NewBot checks the token with getMe and returns a bot bound to chatID.
// chatID may be a numeric id or an @channel username.
func NewBot(token, chatID string, opts ...Option) (*Bot, error) {
	o := &options{
		endpoint: tgbotapi.APIEndpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(o)
	}

	api, err := tgbotapi.NewBotAPIWithClient(token, o.endpoint, o.client)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}

	//turn this on in case of debug
	//api.Debug = true

	return &Bot{
		api:    api,
		chatID: chatID,
	}, nil
}

// Send posts text with legacy Markdown and link previews disabled.
func (b *Bot) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrDelivery, err)
	}

	params := tgbotapi.Params{}
	params.AddNonEmpty("chat_id", b.chatID)
	params.AddNonEmpty("text", text)
	params.AddNonEmpty("parse_mode", tgbotapi.ModeMarkdown)
	if err := params.AddInterface("link_preview_options", linkPreviewOptions{IsDisabled: true}); err != nil {
		return fmt.Errorf("%w: encode link preview options: %w", ErrDelivery, err)
	}

	if _, err := b.api.MakeRequest("sendMessage", params); err != nil {
		return fmt.Errorf("%w: %w", ErrDelivery, err)
	}
	return nil
}

// Username of the bot as reported by getMe
func (b *Bot) Username() string {
	return b.api.Self.UserName
}
