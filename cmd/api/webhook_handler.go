package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"tasktracker-backend/pkg/telegram"
)

// WebhookHandler receives Telegram bot updates. Its only job is chat
// linking: a user messages the bot, gets their chat id back, and pastes
// it into their notification settings.
type WebhookHandler struct {
	client *telegram.Client
	log    zerolog.Logger
}

func NewWebhookHandler(client *telegram.Client, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		client: client,
		log:    log.With().Str("component", "telegram_webhook").Logger(),
	}
}

// Handle processes one Telegram update. Telegram retries updates whose
// webhook call fails, so this always answers 200 with {"ok": true};
// anything unusable is dropped.
// POST /api/telegram/webhook
func (h *WebhookHandler) Handle(c *gin.Context) {
	var update tgbotapi.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.log.Debug().Err(err).Msg("ignoring unparseable update")
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	if update.Message == nil || update.Message.Chat == nil {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)
	if chatID == 0 || text == "" {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	command := text
	if i := strings.IndexByte(command, '@'); i > 0 {
		command = command[:i]
	}

	if command == "/start" || command == "/id" {
		chat := strconv.FormatInt(chatID, 10)
		reply := "Your chat ID is `" + chat + "`\n\nPaste it into your Task Tracker notification settings to receive reminders here."

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		if err := h.client.SendMessage(ctx, chat, reply); err != nil {
			h.log.Warn().Str("chat_id", chat).Err(err).Msg("failed to reply with chat id")
		}
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
