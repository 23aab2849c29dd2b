// Package service holds the task and user use cases. Stores are injected at
// construction; the service never reaches for a global handle.
package service

import (
	"context"
	"strconv"
	"strings"

	"taskmanager/internal/domain/errors"
	"taskmanager/internal/domain/models"
)

// TaskRepository is the record store for tasks. ListTasks must compute the
// total and the page against the same snapshot.
type TaskRepository interface {
	ListTasks(ctx context.Context, q models.TaskQuery) (models.TaskPage, error)
	GetTaskByID(ctx context.Context, id int64) (*models.Task, error)
	CreateTask(ctx context.Context, task *models.Task) error
	UpdateTask(ctx context.Context, id int64, upd models.TaskUpdate) (*models.Task, error)
	CompleteTask(ctx context.Context, id int64) (*models.Task, error)
	DeleteTask(ctx context.Context, id int64) error
}

type UserRepository interface {
	GetUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
}

// ParseID parses a path identifier. Anything but a positive base-10 integer
// is errors.ErrInvalidID.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id < 1 {
		return 0, errors.ErrInvalidID
	}
	return id, nil
}
