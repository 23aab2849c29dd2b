// Package sqlquery renders the task listing clauses shared by the SQL stores.
package sqlquery

import (
	"strconv"
	"strings"

	"taskmanager/internal/domain/models"
)

// Placeholder renders the n-th (1-based) bind parameter of a dialect.
type Placeholder func(n int) string

func Dollar(n int) string { return "$" + strconv.Itoa(n) }

func Question(int) string { return "?" }

// Where renders the filter as a WHERE clause (empty when nothing filters) and
// returns its arguments in bind order.
func Where(f models.TaskFilter, ph Placeholder) (string, []any) {
	var conds []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		conds = append(conds, col+" = "+ph(len(args)))
	}
	if f.UserID != nil {
		add("user_id", *f.UserID)
	}
	if f.Status != nil {
		add("status", string(*f.Status))
	}
	if f.Category != nil {
		add("category", string(*f.Category))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

const priorityRank = "CASE priority WHEN 'LOW' THEN 1 WHEN 'MEDIUM' THEN 2 WHEN 'HIGH' THEN 3 WHEN 'URGENT' THEN 4 ELSE 0 END"

// OrderBy renders the ORDER BY clause; id breaks ties in the same direction.
func OrderBy(by models.SortField, order models.SortOrder) string {
	dir := "ASC"
	if order == models.SortDesc {
		dir = "DESC"
	}
	var key string
	switch by {
	case models.SortByCreatedAt:
		key = "created_at"
	case models.SortByPriority:
		key = priorityRank
	default:
		key = "due_date"
	}
	return " ORDER BY " + key + " " + dir + ", id " + dir
}

const TaskColumns = "id, title, description, category, status, priority, importance, due_date, user_id, created_at, updated_at"

// Scanner is satisfied by pgx.Row, pgx.Rows, *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// ScanTask reads one row selected with TaskColumns.
func ScanTask(row Scanner) (models.Task, error) {
	var t models.Task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Category, &t.Status, &t.Priority,
		&t.Importance, &t.DueDate, &t.UserID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return t, err
	}
	t.DueDate = t.DueDate.UTC()
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return t, nil
}
