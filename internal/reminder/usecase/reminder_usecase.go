package usecase

import (
	"errors"
	"fmt"
	"time"

	"tasktracker-backend/internal/reminder/domain"
	"tasktracker-backend/internal/reminder/repository"
)

// reminderUsecase implements ReminderUsecase
type reminderUsecase struct {
	reminderRepo repository.ReminderRepository
	tasks        TaskLookup
	now          func() time.Time
}

// NewReminderUsecase creates a new instance of reminderUsecase
func NewReminderUsecase(reminderRepo repository.ReminderRepository, tasks TaskLookup) ReminderUsecase {
	return &reminderUsecase{
		reminderRepo: reminderRepo,
		tasks:        tasks,
		now:          time.Now,
	}
}

func (u *reminderUsecase) CreateReminder(userID string, req CreateReminderRequest) (*domain.Reminder, error) {
	task, err := u.tasks.FindByID(req.TaskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, errors.New("task not found")
	}
	if task.UserID != userID {
		return nil, errors.New("unauthorized")
	}

	schedule, err := scheduleFromRequest(req.ReminderType, req.ExactDatetime, req.RecurrenceType, req.TimeOfDay, req.DaysOfWeek)
	if err != nil {
		return nil, err
	}

	reminder := &domain.Reminder{
		TaskID:   req.TaskID,
		UserID:   userID,
		ChatID:   req.ChatID,
		IsActive: true,
	}
	reminder.SetSchedule(schedule)
	reminder.NextDueAt = domain.FirstDue(schedule, u.now())

	if err := u.reminderRepo.Create(reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

func (u *reminderUsecase) GetUserReminders(userID string) ([]*domain.Reminder, error) {
	return u.reminderRepo.FindByUserID(userID)
}

func (u *reminderUsecase) GetTaskReminders(userID, taskID string) ([]*domain.Reminder, error) {
	task, err := u.tasks.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, errors.New("task not found")
	}
	if task.UserID != userID {
		return nil, errors.New("unauthorized")
	}
	return u.reminderRepo.FindByTaskID(taskID)
}

func (u *reminderUsecase) UpdateReminder(userID, reminderID string, req UpdateReminderRequest) (*domain.Reminder, error) {
	reminder, err := u.getOwned(userID, reminderID)
	if err != nil {
		return nil, err
	}

	if req.ChatID != nil {
		reminder.ChatID = *req.ChatID
	}
	if req.IsActive != nil {
		reminder.IsActive = *req.IsActive
	}

	if req.ReminderType != nil {
		schedule, err := scheduleFromRequest(*req.ReminderType, req.ExactDatetime, req.RecurrenceType, req.TimeOfDay, req.DaysOfWeek)
		if err != nil {
			return nil, err
		}
		reminder.SetSchedule(schedule)
		reminder.NextDueAt = domain.FirstDue(schedule, u.now())
	}

	if err := u.reminderRepo.Update(reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

func (u *reminderUsecase) DeleteReminder(userID, reminderID string) error {
	reminder, err := u.getOwned(userID, reminderID)
	if err != nil {
		return err
	}
	return u.reminderRepo.Delete(reminder.ID)
}

func (u *reminderUsecase) getOwned(userID, reminderID string) (*domain.Reminder, error) {
	reminder, err := u.reminderRepo.FindByID(reminderID)
	if err != nil {
		return nil, err
	}
	if reminder == nil {
		return nil, domain.ErrReminderNotFound
	}
	if reminder.UserID != userID {
		return nil, errors.New("unauthorized")
	}
	return reminder, nil
}

func scheduleFromRequest(reminderType, exactDatetime, recurrenceType, timeOfDay string, daysOfWeek []string) (domain.Schedule, error) {
	switch reminderType {
	case "exact":
		at, err := time.Parse(time.RFC3339, exactDatetime)
		if err != nil {
			return nil, fmt.Errorf("invalid exact_datetime: %w", err)
		}
		return domain.OneTime{At: at}, nil

	case "recurring":
		at, err := domain.ParseTimeOfDay(timeOfDay)
		if err != nil {
			return nil, err
		}
		switch domain.RecurrenceType(recurrenceType) {
		case domain.RecurrenceDaily:
			return domain.Daily{At: at}, nil
		case domain.RecurrenceWeekly:
			if len(daysOfWeek) == 0 {
				return nil, errors.New("weekly reminders need at least one day")
			}
			days := make([]time.Weekday, 0, len(daysOfWeek))
			for _, name := range daysOfWeek {
				d, err := domain.ParseWeekday(name)
				if err != nil {
					return nil, err
				}
				days = append(days, d)
			}
			return domain.Weekly{At: at, Days: days}, nil
		}
		return nil, fmt.Errorf("unknown recurrence_type %q", recurrenceType)
	}
	return nil, fmt.Errorf("unknown reminder_type %q", reminderType)
}
