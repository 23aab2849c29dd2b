// Package sqlite stores users and tasks in a SQLite file through the
// pure-Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"taskmanager/internal/domain/errors"
	"taskmanager/internal/domain/models"
	"taskmanager/repository/sqlquery"

	_ "modernc.org/sqlite"
)

const queryTimeout = 15 * time.Second

type Storage struct {
	db  *sql.DB
	log *slog.Logger
	now func() time.Time
}

// DSN appends the time format parameter so timestamps are written in a
// sortable layout.
func DSN(path string) string {
	if strings.Contains(path, "_time_format=") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_time_format=sqlite"
}

// NewStorage opens the database at path with WAL journaling and a single
// connection.
func NewStorage(path string, log *slog.Logger) (*Storage, error) {
	if log == nil {
		log = slog.Default()
	}
	db, err := sql.Open("sqlite", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite: %v", errors.ErrDatabaseConnection, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: %s: %v", errors.ErrDatabaseConnection, pragma, err)
		}
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping sqlite: %v", errors.ErrDatabaseConnection, err)
	}

	log.Info("database connection established", slog.String("driver", "sqlite"))
	return &Storage{
		db:  db,
		log: log.With(slog.String("store", "sqlite")),
		now: func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) GetUsers(ctx context.Context) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, fname, lname, email, description, created_at, updated_at FROM users ORDER BY id`)
	if err != nil {
		s.log.Error("failed to query users", slog.Any("error", err))
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.FName, &u.LName, &u.Email, &u.Description, &u.CreatedAt, &u.UpdatedAt); err != nil {
			s.log.Error("failed to scan user", slog.Any("error", err))
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := s.now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (fname, lname, email, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.FName, user.LName, user.Email, user.Description, now, now,
	)
	if err != nil {
		s.log.Error("failed to create user", slog.Any("error", err))
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

// ListTasks counts and fetches inside one transaction.
func (s *Storage) ListTasks(ctx context.Context, q models.TaskQuery) (models.TaskPage, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.TaskPage{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	where, args := sqlquery.Where(q.Filter, sqlquery.Question)
	page := models.TaskPage{Tasks: []models.Task{}}
	if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM tasks`+where, args...).Scan(&page.Total); err != nil {
		s.log.Error("failed to count tasks", slog.Any("error", err))
		return models.TaskPage{}, fmt.Errorf("count tasks: %w", err)
	}

	query := `SELECT ` + sqlquery.TaskColumns + ` FROM tasks` + where +
		sqlquery.OrderBy(q.SortBy, q.Order) + ` LIMIT ? OFFSET ?`
	rows, err := tx.QueryContext(ctx, query, append(args, q.PageSize, q.Offset())...)
	if err != nil {
		s.log.Error("failed to select tasks", slog.Any("error", err))
		return models.TaskPage{}, fmt.Errorf("select tasks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		t, err := sqlquery.ScanTask(rows)
		if err != nil {
			return models.TaskPage{}, fmt.Errorf("scan task: %w", err)
		}
		page.Tasks = append(page.Tasks, t)
	}
	if err := rows.Err(); err != nil {
		return models.TaskPage{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.TaskPage{}, fmt.Errorf("commit: %w", err)
	}
	return page, nil
}

func (s *Storage) GetTaskByID(ctx context.Context, id int64) (*models.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	row := s.db.QueryRowContext(ctx, `SELECT `+sqlquery.TaskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := sqlquery.ScanTask(row)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.ErrTaskNotFound
		}
		s.log.Error("failed to read task", slog.Int64("task_id", id), slog.Any("error", err))
		return nil, err
	}
	return &t, nil
}

func (s *Storage) CreateTask(ctx context.Context, task *models.Task) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := s.now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (title, description, category, status, priority, importance, due_date, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.Title, task.Description, string(task.Category), string(task.Status), string(task.Priority),
		string(task.Importance), task.DueDate.UTC(), task.UserID, now, now,
	)
	if err != nil {
		s.log.Error("failed to create task", slog.Any("error", err))
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	task.ID = id
	task.DueDate = task.DueDate.UTC()
	task.CreatedAt = now
	task.UpdatedAt = now
	return nil
}

func (s *Storage) UpdateTask(ctx context.Context, id int64, upd models.TaskUpdate) (*models.Task, error) {
	var due any
	if upd.DueDate != nil {
		due = upd.DueDate.UTC()
	}
	return s.mutate(ctx, id,
		`UPDATE tasks SET title = ?, description = ?, category = ?, status = ?, priority = ?,
		     importance = ?, due_date = COALESCE(?, due_date), user_id = ?, updated_at = ?
		 WHERE id = ?`,
		upd.Title, upd.Description, string(upd.Category), string(upd.Status), string(upd.Priority),
		string(upd.Importance), due, upd.UserID, s.now(), id,
	)
}

func (s *Storage) CompleteTask(ctx context.Context, id int64) (*models.Task, error) {
	return s.mutate(ctx, id, `UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?`,
		string(models.StatusCompleted), s.now(), id)
}

// mutate runs an UPDATE and reads the row back in the same transaction.
func (s *Storage) mutate(ctx context.Context, id int64, stmt string, args ...any) (*models.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, stmt, args...)
	if err != nil {
		s.log.Error("failed to update task", slog.Int64("task_id", id), slog.Any("error", err))
		return nil, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, errors.ErrTaskNotFound
	}

	t, err := sqlquery.ScanTask(tx.QueryRowContext(ctx, `SELECT `+sqlquery.TaskColumns+` FROM tasks WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("reload task: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &t, nil
}

func (s *Storage) DeleteTask(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		s.log.Error("failed to delete task", slog.Int64("task_id", id), slog.Any("error", err))
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.ErrTaskNotFound
	}
	return nil
}
