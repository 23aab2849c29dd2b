package db

import (
	"context"
	"os"
	"testing"
	"time"

	"taskmanager/internal/domain/errors"
	"taskmanager/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupStorage connects to the database named by TASKS_TEST_POSTGRES_DSN,
// migrates it and empties both tables. The test is skipped without one.
func setupStorage(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	dsn := os.Getenv("TASKS_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TASKS_TEST_POSTGRES_DSN not set")
	}

	require.NoError(t, Migration(dsn, ""))
	s, err := NewStorage(dsn, nil)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	_, err = s.pool.Exec(context.Background(), `TRUNCATE tasks, users RESTART IDENTITY`)
	require.NoError(t, err)
	return s
}

func TestNewStorageInvalidDSN(t *testing.T) {
	_, err := NewStorage("not a dsn ::", nil)
	assert.ErrorIs(t, err, errors.ErrDatabaseConnection)
}

func TestStorageTasks(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	for i, seed := range []struct {
		title string
		prio  models.Priority
	}{
		{"rent", models.PriorityHigh},
		{"gym", models.PriorityLow},
		{"taxes", models.PriorityUrgent},
	} {
		task := &models.Task{
			Title:       seed.title,
			Description: seed.title,
			Category:    models.CategoryFinance,
			Status:      models.StatusOpen,
			Priority:    seed.prio,
			Importance:  models.ImportanceMedium,
			DueDate:     base.AddDate(0, 0, i),
			UserID:      1,
		}
		require.NoError(t, s.CreateTask(ctx, task))
		assert.NotZero(t, task.ID)
	}

	q := models.DefaultTaskQuery()
	q.SortBy = models.SortByPriority
	q.Order = models.SortDesc
	page, err := s.ListTasks(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Tasks, 3)
	assert.Equal(t, "taxes", page.Tasks[0].Title)
	assert.Equal(t, "gym", page.Tasks[2].Title)

	done, err := s.CompleteTask(ctx, page.Tasks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, done.Status)

	updated, err := s.UpdateTask(ctx, page.Tasks[1].ID, models.TaskUpdate{
		Title:       "rent (paid)",
		Description: "done",
		Category:    models.CategoryFinance,
		Status:      models.StatusClosed,
		Priority:    models.PriorityHigh,
		Importance:  models.ImportanceLow,
		UserID:      1,
	})
	require.NoError(t, err)
	assert.Equal(t, "rent (paid)", updated.Title)
	assert.True(t, base.Equal(updated.DueDate))

	require.NoError(t, s.DeleteTask(ctx, updated.ID))
	_, err = s.GetTaskByID(ctx, updated.ID)
	assert.ErrorIs(t, err, errors.ErrTaskNotFound)
	assert.ErrorIs(t, s.DeleteTask(ctx, updated.ID), errors.ErrTaskNotFound)

	_, err = s.CompleteTask(ctx, 9999)
	assert.ErrorIs(t, err, errors.ErrTaskNotFound)
}

func TestStorageUsers(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	user := &models.User{FName: "Ada", LName: "Lovelace", Email: "ada@example.com", Description: "math"}
	require.NoError(t, s.CreateUser(ctx, user))
	assert.Equal(t, int64(1), user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	users, err := s.GetUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "ada@example.com", users[0].Email)
}
