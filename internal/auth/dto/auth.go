package dto

import authdomain "tasktracker-backend/internal/auth/domain"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
}

type TokenResponse struct {
	AccessToken string           `json:"access_token"`
	User        *authdomain.User `json:"user"`
}

type SettingsResponse struct {
	TelegramChatID            string `json:"telegram_chat_id"`
	EmailNotificationsEnabled bool   `json:"email_notifications_enabled"`
}

type UpdateSettingsRequest struct {
	TelegramChatID            *string `json:"telegram_chat_id,omitempty"`
	EmailNotificationsEnabled *bool   `json:"email_notifications_enabled,omitempty"`
}
