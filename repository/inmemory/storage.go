package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"taskmanager/internal/domain/errors"
	"taskmanager/internal/domain/models"
)

// Storage keeps users and tasks in maps. One RWMutex guards both, so a
// listing sees a single consistent snapshot.
type Storage struct {
	mu         sync.RWMutex
	users      map[int64]models.User
	tasks      map[int64]models.Task
	nextUserID int64
	nextTaskID int64
	now        func() time.Time
}

func NewStorage() *Storage {
	return &Storage{
		users: make(map[int64]models.User),
		tasks: make(map[int64]models.Task),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *Storage) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Storage) GetUsers(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextUserID++
	now := s.now()
	user.ID = s.nextUserID
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = *user
	return nil
}

func (s *Storage) ListTasks(ctx context.Context, q models.TaskQuery) (models.TaskPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]models.Task, 0)
	for _, t := range s.tasks {
		if q.Filter.Match(t) {
			matched = append(matched, t)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return less(matched[i], matched[j], q.SortBy, q.Order)
	})

	page := models.TaskPage{Total: len(matched), Tasks: []models.Task{}}
	start := q.Offset()
	if start >= len(matched) {
		return page, nil
	}
	end := min(start+q.PageSize, len(matched))
	page.Tasks = append(page.Tasks, matched[start:end]...)
	return page, nil
}

// less orders by the sort key, then by id, both in the requested direction.
func less(a, b models.Task, by models.SortField, order models.SortOrder) bool {
	var cmp int
	switch by {
	case models.SortByCreatedAt:
		cmp = a.CreatedAt.Compare(b.CreatedAt)
	case models.SortByPriority:
		cmp = a.Priority.Rank() - b.Priority.Rank()
	default:
		cmp = a.DueDate.Compare(b.DueDate)
	}
	if cmp == 0 {
		switch {
		case a.ID < b.ID:
			cmp = -1
		case a.ID > b.ID:
			cmp = 1
		}
	}
	if order == models.SortDesc {
		return cmp > 0
	}
	return cmp < 0
}

func (s *Storage) GetTaskByID(ctx context.Context, id int64) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, exists := s.tasks[id]
	if !exists {
		return nil, errors.ErrTaskNotFound
	}
	return &task, nil
}

func (s *Storage) CreateTask(ctx context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextTaskID++
	now := s.now()
	task.ID = s.nextTaskID
	task.CreatedAt = now
	task.UpdatedAt = now
	s.tasks[task.ID] = *task
	return nil
}

func (s *Storage) UpdateTask(ctx context.Context, id int64, upd models.TaskUpdate) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, exists := s.tasks[id]
	if !exists {
		return nil, errors.ErrTaskNotFound
	}
	upd.Apply(&task)
	task.UpdatedAt = s.now()
	s.tasks[id] = task
	return &task, nil
}

func (s *Storage) CompleteTask(ctx context.Context, id int64) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, exists := s.tasks[id]
	if !exists {
		return nil, errors.ErrTaskNotFound
	}
	task.Status = models.StatusCompleted
	task.UpdatedAt = s.now()
	s.tasks[id] = task
	return &task, nil
}

func (s *Storage) DeleteTask(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[id]; !exists {
		return errors.ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}
