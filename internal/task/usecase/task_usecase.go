package usecase

import (
	"errors"

	"tasktracker-backend/internal/task/domain"
	"tasktracker-backend/internal/task/repository"
)

// taskUsecase implements TaskUsecase interface
type taskUsecase struct {
	taskRepo  repository.TaskRepository
	reminders ReminderCleaner
}

// NewTaskUsecase creates a new instance of taskUsecase
func NewTaskUsecase(taskRepo repository.TaskRepository, reminders ReminderCleaner) TaskUsecase {
	return &taskUsecase{
		taskRepo:  taskRepo,
		reminders: reminders,
	}
}

func (u *taskUsecase) CreateTask(userID, title, description string) (*domain.Task, error) {
	task := &domain.Task{
		UserID:      userID,
		Title:       title,
		Description: description,
	}

	if err := u.taskRepo.Create(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (u *taskUsecase) GetTaskByID(userID, taskID string) (*domain.Task, error) {
	task, err := u.taskRepo.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, errors.New("task not found")
	}
	if task.UserID != userID {
		return nil, errors.New("unauthorized")
	}
	return task, nil
}

func (u *taskUsecase) GetUserTasks(userID string, completed *bool, limit, offset int) ([]*domain.Task, int64, error) {
	return u.taskRepo.FindByUserID(userID, completed, limit, offset)
}

func (u *taskUsecase) UpdateTask(userID, taskID string, updates TaskUpdateRequest) (*domain.Task, error) {
	task, err := u.GetTaskByID(userID, taskID)
	if err != nil {
		return nil, err
	}

	if updates.Title != nil {
		task.Title = *updates.Title
	}
	if updates.Description != nil {
		task.Description = *updates.Description
	}
	if updates.Completed != nil {
		task.Completed = *updates.Completed
	}

	if err := u.taskRepo.Update(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (u *taskUsecase) DeleteTask(userID, taskID string) error {
	task, err := u.GetTaskByID(userID, taskID)
	if err != nil {
		return err
	}

	// Reminders go first so a failure leaves the task (and another
	// attempt at the cascade) in place.
	if err := u.reminders.DeleteByTaskID(task.ID); err != nil {
		return err
	}
	return u.taskRepo.Delete(task.ID)
}
