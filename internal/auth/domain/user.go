package domain

import "time"

type User struct {
	ID       string `json:"id" gorm:"primaryKey"`
	Email    string `json:"email" gorm:"uniqueIndex;not null"`
	Password string `json:"-"` // Never return password in JSON
	Name     string `json:"name"`

	// Notification preferences. TelegramChatID is the chat the bot
	// replies to /start with; empty means no messenger channel.
	TelegramChatID            string `json:"telegram_chat_id,omitempty"`
	EmailNotificationsEnabled bool   `json:"email_notifications_enabled" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
