package dispatch

import (
	"context"
	"errors"
	"html"
	"strings"

	"tasktracker-backend/internal/reminder/domain"
	"tasktracker-backend/pkg/mailer"
	"tasktracker-backend/pkg/telegram"
)

// ErrSkipped marks a send that did not happen because the channel's
// credential is absent. A skipped channel counts as neither success
// nor failure when the reminder's outcome is decided.
var ErrSkipped = errors.New("channel not configured")

// Message is one rendered notification, in the forms the channels need.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

func renderMessage(title, description string) Message {
	text := "🔔 *TASK REMINDER*\n\n*" + title + "*"
	if description != "" {
		text += "\n\n" + description
	}

	var b strings.Builder
	b.WriteString("<h2>🔔 Task Reminder</h2>")
	b.WriteString("<p><strong>" + html.EscapeString(title) + "</strong></p>")
	if description != "" {
		b.WriteString("<p>" + html.EscapeString(description) + "</p>")
	}

	return Message{
		Subject: "Task Reminder: " + title,
		Text:    text,
		HTML:    b.String(),
	}
}

// Channel is one independent delivery mechanism. Channels are
// stateless; a failure in one never blocks another.
type Channel interface {
	Name() string

	// Eligible reports whether this reminder resolves to a target on
	// this channel at all.
	Eligible(rem *domain.DueReminder) bool

	// Send delivers the message. ErrSkipped means the channel is not
	// configured in this environment; any other error is a delivery
	// failure.
	Send(ctx context.Context, rem *domain.DueReminder, msg Message) error
}

type telegramChannel struct {
	client *telegram.Client
}

// NewTelegramChannel wraps the Telegram client as a dispatch channel.
func NewTelegramChannel(client *telegram.Client) Channel {
	return &telegramChannel{client: client}
}

func (t *telegramChannel) Name() string { return "telegram" }

func (t *telegramChannel) Eligible(rem *domain.DueReminder) bool {
	return rem.Reminder.ChatID != ""
}

func (t *telegramChannel) Send(ctx context.Context, rem *domain.DueReminder, msg Message) error {
	return t.client.SendMessage(ctx, rem.Reminder.ChatID, msg.Text)
}

type emailChannel struct {
	client *mailer.Client
}

// NewEmailChannel wraps the mailer as a dispatch channel.
func NewEmailChannel(client *mailer.Client) Channel {
	return &emailChannel{client: client}
}

func (e *emailChannel) Name() string { return "email" }

func (e *emailChannel) Eligible(rem *domain.DueReminder) bool {
	return rem.EmailEnabled && rem.OwnerEmail != ""
}

func (e *emailChannel) Send(ctx context.Context, rem *domain.DueReminder, msg Message) error {
	if !e.client.Configured() {
		return ErrSkipped
	}
	return e.client.Send(ctx, rem.OwnerEmail, msg.Subject, msg.HTML)
}
