package usecase

import (
	"tasktracker-backend/internal/reminder/domain"
	taskdomain "tasktracker-backend/internal/task/domain"
)

// ReminderUsecase defines the interface for reminder business logic
type ReminderUsecase interface {
	// CreateReminder attaches a reminder to one of the user's tasks and
	// seeds its next due timestamp from the schedule
	CreateReminder(userID string, req CreateReminderRequest) (*domain.Reminder, error)

	// GetUserReminders lists the user's reminders
	GetUserReminders(userID string) ([]*domain.Reminder, error)

	// GetTaskReminders lists the reminders attached to one of the user's tasks
	GetTaskReminders(userID, taskID string) ([]*domain.Reminder, error)

	// UpdateReminder updates delivery target, active flag or schedule;
	// a schedule change re-seeds next_due_at
	UpdateReminder(userID, reminderID string, req UpdateReminderRequest) (*domain.Reminder, error)

	// DeleteReminder deletes one of the user's reminders
	DeleteReminder(userID, reminderID string) error
}

// TaskLookup resolves the parent task for ownership checks.
type TaskLookup interface {
	FindByID(id string) (*taskdomain.Task, error)
}

// CreateReminderRequest mirrors the reminder form: either an exact
// datetime or a recurrence rule, never both.
type CreateReminderRequest struct {
	TaskID         string   `json:"task_id" binding:"required"`
	ChatID         string   `json:"chat_id"`
	ReminderType   string   `json:"reminder_type" binding:"required"` // "exact" or "recurring"
	ExactDatetime  string   `json:"exact_datetime"`
	RecurrenceType string   `json:"recurrence_type"` // "daily" or "weekly"
	TimeOfDay      string   `json:"time_of_day"`
	DaysOfWeek     []string `json:"days_of_week"`
}

// UpdateReminderRequest represents the fields that can be updated. When
// ReminderType is present the whole schedule is replaced.
type UpdateReminderRequest struct {
	ChatID         *string  `json:"chat_id,omitempty"`
	IsActive       *bool    `json:"is_active,omitempty"`
	ReminderType   *string  `json:"reminder_type,omitempty"`
	ExactDatetime  string   `json:"exact_datetime,omitempty"`
	RecurrenceType string   `json:"recurrence_type,omitempty"`
	TimeOfDay      string   `json:"time_of_day,omitempty"`
	DaysOfWeek     []string `json:"days_of_week,omitempty"`
}
