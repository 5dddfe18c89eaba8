package repository

import (
	"time"

	"tasktracker-backend/internal/reminder/domain"
)

// ReminderRepository defines the interface for reminder data access
type ReminderRepository interface {
	// Create creates a new reminder
	Create(reminder *domain.Reminder) error

	// FindByID finds a reminder by its ID
	FindByID(id string) (*domain.Reminder, error)

	// FindByUserID lists all reminders belonging to a user
	FindByUserID(userID string) ([]*domain.Reminder, error)

	// FindByTaskID lists all reminders attached to a task
	FindByTaskID(taskID string) ([]*domain.Reminder, error)

	// Update updates an existing reminder
	Update(reminder *domain.Reminder) error

	// Delete deletes a reminder by ID
	Delete(id string) error

	// DeleteByTaskID removes every reminder attached to a task
	// (task-deletion cascade)
	DeleteByTaskID(taskID string) error

	// FindDue returns active reminders whose next_due_at has passed,
	// joined with the parent task and the owner's notification
	// preferences. An empty slice means nothing is due.
	FindDue(now time.Time) ([]*domain.DueReminder, error)

	// UpdateAfterSend applies the post-send transition only if
	// next_due_at still equals the value read by the selector, so two
	// overlapping dispatch runs cannot both advance the same reminder.
	// It reports whether this caller won the update.
	UpdateAfterSend(id string, readNextDue time.Time, update domain.SendUpdate) (bool, error)
}
