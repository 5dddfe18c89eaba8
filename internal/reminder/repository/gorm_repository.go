package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tasktracker-backend/internal/reminder/domain"
)

// gormReminderRepository implements ReminderRepository using GORM
type gormReminderRepository struct {
	db *gorm.DB
}

// NewGormReminderRepository creates a new GORM-based ReminderRepository
func NewGormReminderRepository(db *gorm.DB) ReminderRepository {
	return &gormReminderRepository{db: db}
}

func (r *gormReminderRepository) Create(reminder *domain.Reminder) error {
	if reminder.ID == "" {
		reminder.ID = uuid.New().String()
	}
	reminder.CreatedAt = time.Now()
	return r.db.Create(reminder).Error
}

func (r *gormReminderRepository) FindByID(id string) (*domain.Reminder, error) {
	var reminder domain.Reminder
	err := r.db.Where("id = ?", id).First(&reminder).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reminder, nil
}

func (r *gormReminderRepository) FindByUserID(userID string) ([]*domain.Reminder, error) {
	var reminders []*domain.Reminder
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&reminders).Error
	return reminders, err
}

func (r *gormReminderRepository) FindByTaskID(taskID string) ([]*domain.Reminder, error) {
	var reminders []*domain.Reminder
	err := r.db.Where("task_id = ?", taskID).Find(&reminders).Error
	return reminders, err
}

func (r *gormReminderRepository) Update(reminder *domain.Reminder) error {
	return r.db.Save(reminder).Error
}

func (r *gormReminderRepository) Delete(id string) error {
	return r.db.Delete(&domain.Reminder{}, "id = ?", id).Error
}

func (r *gormReminderRepository) DeleteByTaskID(taskID string) error {
	return r.db.Delete(&domain.Reminder{}, "task_id = ?", taskID).Error
}

func (r *gormReminderRepository) FindDue(now time.Time) ([]*domain.DueReminder, error) {
	var due []*domain.DueReminder
	err := r.db.Table("reminders").
		Select("reminders.*, tasks.title AS task_title, tasks.description AS task_description, users.email AS owner_email, users.email_notifications_enabled AS email_enabled").
		Joins("JOIN tasks ON tasks.id = reminders.task_id").
		Joins("JOIN users ON users.id = reminders.user_id").
		Where("reminders.is_active = ? AND reminders.next_due_at <= ?", true, now).
		Scan(&due).Error
	return due, err
}

func (r *gormReminderRepository) UpdateAfterSend(id string, readNextDue time.Time, update domain.SendUpdate) (bool, error) {
	values := map[string]interface{}{
		"last_sent_at": update.LastSentAt,
	}
	if update.Deactivate {
		values["is_active"] = false
	}
	if update.NextDueAt != nil {
		values["next_due_at"] = *update.NextDueAt
	}

	res := r.db.Model(&domain.Reminder{}).
		Where("id = ? AND next_due_at = ?", id, readNextDue).
		Updates(values)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
