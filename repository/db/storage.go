package db

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"taskmanager/internal/domain/errors"
	"taskmanager/internal/domain/models"
	"taskmanager/repository/sqlquery"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const queryTimeout = 15 * time.Second

type Storage struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewStorage(connStr string, log *slog.Logger) (*Storage, error) {
	if log == nil {
		log = slog.Default()
	}
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	cfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrDatabaseConnection, err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrDatabaseConnection, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %v", errors.ErrDatabaseConnection, err)
	}

	log.Info("database connection established", slog.String("driver", "postgres"))
	return &Storage{pool: pool, log: log.With(slog.String("store", "postgres"))}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Storage) GetUsers(ctx context.Context) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx,
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

	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (fname, lname, email, description) VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		user.FName, user.LName, user.Email, user.Description,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		s.log.Error("failed to create user", slog.Any("error", err))
		return err
	}
	s.log.Debug("user created", slog.Int64("user_id", user.ID))
	return nil
}

// ListTasks runs the count and the page fetch in one repeatable-read
// transaction so both see the same rows.
func (s *Storage) ListTasks(ctx context.Context, q models.TaskQuery) (models.TaskPage, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	where, args := sqlquery.Where(q.Filter, sqlquery.Dollar)
	page := models.TaskPage{Tasks: []models.Task{}}

	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly},
		func(tx pgx.Tx) error {
			if err := tx.QueryRow(ctx, `SELECT count(*) FROM tasks`+where, args...).Scan(&page.Total); err != nil {
				return fmt.Errorf("count tasks: %w", err)
			}

			n := len(args)
			query := `SELECT ` + sqlquery.TaskColumns + ` FROM tasks` + where +
				sqlquery.OrderBy(q.SortBy, q.Order) +
				fmt.Sprintf(" LIMIT %s OFFSET %s", sqlquery.Dollar(n+1), sqlquery.Dollar(n+2))
			rows, err := tx.Query(ctx, query, append(args, q.PageSize, q.Offset())...)
			if err != nil {
				return fmt.Errorf("select tasks: %w", err)
			}
			defer rows.Close()

			for rows.Next() {
				t, err := sqlquery.ScanTask(rows)
				if err != nil {
					return fmt.Errorf("scan task: %w", err)
				}
				page.Tasks = append(page.Tasks, t)
			}
			return rows.Err()
		})
	if err != nil {
		s.log.Error("failed to list tasks", slog.Any("error", err))
		return models.TaskPage{}, err
	}
	return page, nil
}

func (s *Storage) GetTaskByID(ctx context.Context, id int64) (*models.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	row := s.pool.QueryRow(ctx, `SELECT `+sqlquery.TaskColumns+` FROM tasks WHERE id = $1`, id)
	return s.scanOne(row, id)
}

func (s *Storage) CreateTask(ctx context.Context, task *models.Task) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := s.pool.QueryRow(ctx,
		`INSERT INTO tasks (title, description, category, status, priority, importance, due_date, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		task.Title, task.Description, string(task.Category), string(task.Status),
		string(task.Priority), string(task.Importance), task.DueDate, task.UserID,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		s.log.Error("failed to create task", slog.Any("error", err))
		return err
	}
	s.log.Debug("task created", slog.Int64("task_id", task.ID))
	return nil
}

func (s *Storage) UpdateTask(ctx context.Context, id int64, upd models.TaskUpdate) (*models.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	row := s.pool.QueryRow(ctx,
		`UPDATE tasks SET title = $1, description = $2, category = $3, status = $4, priority = $5,
		     importance = $6, due_date = COALESCE($7, due_date), user_id = $8, updated_at = now()
		 WHERE id = $9
		 RETURNING `+sqlquery.TaskColumns,
		upd.Title, upd.Description, string(upd.Category), string(upd.Status), string(upd.Priority),
		string(upd.Importance), upd.DueDate, upd.UserID, id,
	)
	return s.scanOne(row, id)
}

func (s *Storage) CompleteTask(ctx context.Context, id int64) (*models.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	row := s.pool.QueryRow(ctx,
		`UPDATE tasks SET status = $1, updated_at = now() WHERE id = $2 RETURNING `+sqlquery.TaskColumns,
		string(models.StatusCompleted), id,
	)
	return s.scanOne(row, id)
}

func (s *Storage) DeleteTask(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	ct, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		s.log.Error("failed to delete task", slog.Int64("task_id", id), slog.Any("error", err))
		return err
	}
	if ct.RowsAffected() == 0 {
		return errors.ErrTaskNotFound
	}
	s.log.Debug("task deleted", slog.Int64("task_id", id))
	return nil
}

func (s *Storage) scanOne(row pgx.Row, id int64) (*models.Task, error) {
	t, err := sqlquery.ScanTask(row)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.ErrTaskNotFound
		}
		s.log.Error("failed to read task", slog.Int64("task_id", id), slog.Any("error", err))
		return nil, err
	}
	return &t, nil
}
