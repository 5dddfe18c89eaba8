package delivery

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tasktracker-backend/internal/reminder/domain"
	"tasktracker-backend/internal/reminder/usecase"
)

// ReminderHandler handles reminder-related HTTP requests
type ReminderHandler struct {
	reminderUsecase usecase.ReminderUsecase
}

// NewReminderHandler creates a new ReminderHandler
func NewReminderHandler(reminderUsecase usecase.ReminderUsecase) *ReminderHandler {
	return &ReminderHandler{
		reminderUsecase: reminderUsecase,
	}
}

// GetReminders returns all reminders for the authenticated user
// GET /api/reminders
func (h *ReminderHandler) GetReminders(c *gin.Context) {
	userID := c.GetString("userID")

	reminders, err := h.reminderUsecase.GetUserReminders(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reminders": reminders})
}

// GetTaskReminders returns the reminders attached to a task
// GET /api/tasks/:id/reminders
func (h *ReminderHandler) GetTaskReminders(c *gin.Context) {
	userID := c.GetString("userID")
	taskID := c.Param("id")

	reminders, err := h.reminderUsecase.GetTaskReminders(userID, taskID)
	if err != nil {
		respondUsecaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reminders": reminders})
}

// CreateReminder attaches a reminder to a task
// POST /api/reminders
func (h *ReminderHandler) CreateReminder(c *gin.Context) {
	userID := c.GetString("userID")

	var req usecase.CreateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reminder, err := h.reminderUsecase.CreateReminder(userID, req)
	if err != nil {
		respondUsecaseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reminder)
}

// UpdateReminder updates a reminder's target, active flag or schedule
// PUT /api/reminders/:id
func (h *ReminderHandler) UpdateReminder(c *gin.Context) {
	userID := c.GetString("userID")
	reminderID := c.Param("id")

	var req usecase.UpdateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reminder, err := h.reminderUsecase.UpdateReminder(userID, reminderID, req)
	if err != nil {
		respondUsecaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, reminder)
}

// DeleteReminder removes a reminder
// DELETE /api/reminders/:id
func (h *ReminderHandler) DeleteReminder(c *gin.Context) {
	userID := c.GetString("userID")
	reminderID := c.Param("id")

	if err := h.reminderUsecase.DeleteReminder(userID, reminderID); err != nil {
		respondUsecaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reminder deleted"})
}

func respondUsecaseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrReminderNotFound) || err.Error() == "task not found":
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case err.Error() == "unauthorized":
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
