package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"taskmanager/internal/domain/errors"
	"taskmanager/internal/domain/models"
	"taskmanager/internal/validation"
)

type TaskService struct {
	repo TaskRepository
	log  *slog.Logger
	now  func() time.Time
}

func NewTaskService(repo TaskRepository, log *slog.Logger) *TaskService {
	if log == nil {
		log = slog.Default()
	}
	return &TaskService{
		repo: repo,
		log:  log.With(slog.String("component", "tasks")),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// List returns one page of tasks plus the size of the whole filtered set.
func (s *TaskService) List(ctx context.Context, q models.TaskQuery) (models.TaskPage, error) {
	page, err := s.repo.ListTasks(ctx, q)
	if err != nil {
		return models.TaskPage{}, fmt.Errorf("list tasks: %w", err)
	}
	if page.Tasks == nil {
		page.Tasks = []models.Task{}
	}
	return page, nil
}

func (s *TaskService) Get(ctx context.Context, id int64) (*models.Task, error) {
	task, err := s.repo.GetTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Create validates the payload, defaults the due date to now and persists the
// task. Field errors come back as errors.FieldErrors; a user id that is not a
// positive integer is errors.ErrInvalidUserID.
func (s *TaskService) Create(ctx context.Context, p validation.TaskPayload, typeErrs errors.FieldErrors) (*models.Task, error) {
	in, userID, err := s.validate(p, typeErrs)
	if err != nil {
		return nil, err
	}

	due := s.now()
	if in.DueDate != nil {
		due = *in.DueDate
	}
	task := &models.Task{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Status:      in.Status,
		Priority:    in.Priority,
		Importance:  in.Importance,
		DueDate:     due,
		UserID:      userID,
	}
	if err := s.repo.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	s.log.Info("task created", slog.Int64("task_id", task.ID), slog.Int64("user_id", task.UserID))
	return task, nil
}

// Update replaces every mutable field. The due date is kept when the payload
// omits it.
func (s *TaskService) Update(ctx context.Context, id int64, p validation.TaskPayload, typeErrs errors.FieldErrors) (*models.Task, error) {
	in, userID, err := s.validate(p, typeErrs)
	if err != nil {
		return nil, err
	}

	task, err := s.repo.UpdateTask(ctx, id, models.TaskUpdate{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Status:      in.Status,
		Priority:    in.Priority,
		Importance:  in.Importance,
		DueDate:     in.DueDate,
		UserID:      userID,
	})
	if err != nil {
		return nil, wrapUnlessNotFound("update task", err)
	}
	s.log.Info("task updated", slog.Int64("task_id", id))
	return task, nil
}

// Complete moves the task to COMPLETED without touching any other field.
func (s *TaskService) Complete(ctx context.Context, id int64) (*models.Task, error) {
	task, err := s.repo.CompleteTask(ctx, id)
	if err != nil {
		return nil, wrapUnlessNotFound("complete task", err)
	}
	s.log.Info("task completed", slog.Int64("task_id", id))
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteTask(ctx, id); err != nil {
		return wrapUnlessNotFound("delete task", err)
	}
	s.log.Info("task deleted", slog.Int64("task_id", id))
	return nil
}

func (s *TaskService) validate(p validation.TaskPayload, typeErrs errors.FieldErrors) (*validation.TaskInput, int64, error) {
	in, fe := validation.Task(p, typeErrs)
	if fe != nil {
		s.log.Debug("task payload rejected", slog.String("errors", fe.Error()))
		return nil, 0, fe
	}
	userID, ok := in.UserID.Int64()
	if !ok {
		return nil, 0, errors.ErrInvalidUserID
	}
	return in, userID, nil
}

func wrapUnlessNotFound(op string, err error) error {
	if errors.Is(err, errors.ErrTaskNotFound) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
