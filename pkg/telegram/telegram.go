package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Client wraps the Bot API client behind the two operations the rest
// of the system needs: configuration probing and Markdown sends.
type Client struct {
	bot *tgbotapi.BotAPI
}

// NewClient creates a Telegram client. An empty token produces an
// unconfigured client whose sends fail. The bot is assembled directly
// rather than through tgbotapi.NewBotAPI, which would block startup on
// a getMe round-trip.
func NewClient(token string) *Client {
	if token == "" {
		return &Client{}
	}

	bot := &tgbotapi.BotAPI{
		Token:  token,
		Client: &http.Client{Timeout: 30 * time.Second},
		Buffer: 100,
	}
	bot.SetAPIEndpoint(tgbotapi.APIEndpoint)
	return &Client{bot: bot}
}

// Configured reports whether a bot token is present.
func (c *Client) Configured() bool {
	return c.bot != nil
}

// SendMessage delivers a Markdown-formatted message to the given chat.
// A non-ok API response surfaces as an error carrying the API's
// human-readable description.
func (c *Client) SendMessage(ctx context.Context, chatID, text string) error {
	if !c.Configured() {
		return errors.New("telegram bot token not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat id %q: %w", chatID, err)
	}

	msg := tgbotapi.NewMessage(id, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := c.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram API error: %w", err)
	}
	return nil
}
