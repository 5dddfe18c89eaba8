package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tasktracker-backend/internal/broadcast"
)

// AdminHandler handles operator messaging requests
type AdminHandler struct {
	broadcaster *broadcast.Service
}

func NewAdminHandler(broadcaster *broadcast.Service) *AdminHandler {
	return &AdminHandler{broadcaster: broadcaster}
}

// BroadcastRequest represents the request body for a broadcast
type BroadcastRequest struct {
	Message string `json:"message" binding:"required"`
}

// MessageRequest represents the request body for a direct message
type MessageRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// Broadcast sends an announcement to every linked Telegram chat
// POST /api/admin/broadcast
func (h *AdminHandler) Broadcast(c *gin.Context) {
	var req BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.broadcaster.BroadcastAll(c.Request.Context(), req.Message)
	if err != nil {
		respondBroadcastError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// Message sends a direct message to one user's linked chat
// POST /api/admin/message
func (h *AdminHandler) Message(c *gin.Context) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.broadcaster.SendToUser(c.Request.Context(), req.UserID, req.Message); err != nil {
		respondBroadcastError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message sent"})
}

func respondBroadcastError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, broadcast.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, broadcast.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, broadcast.ErrUserNotLinked):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
