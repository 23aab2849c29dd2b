package models

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 50
)

type SortField string

const (
	SortByDueDate   SortField = "dueDate"
	SortByCreatedAt SortField = "createdAt"
	SortByPriority  SortField = "priority"
)

func (f SortField) Valid() bool {
	return f == SortByDueDate || f == SortByCreatedAt || f == SortByPriority
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// TaskFilter restricts a listing; nil fields do not filter.
type TaskFilter struct {
	UserID   *int64
	Status   *Status
	Category *Category
}

// Match reports whether t passes every set field of the filter.
func (f TaskFilter) Match(t Task) bool {
	if f.UserID != nil && t.UserID != *f.UserID {
		return false
	}
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.Category != nil && t.Category != *f.Category {
		return false
	}
	return true
}

type TaskQuery struct {
	Filter   TaskFilter
	SortBy   SortField
	Order    SortOrder
	Page     int
	PageSize int
}

func DefaultTaskQuery() TaskQuery {
	return TaskQuery{
		SortBy:   SortByDueDate,
		Order:    SortAsc,
		Page:     DefaultPage,
		PageSize: DefaultPageSize,
	}
}

// Offset is the number of matching rows skipped before the page starts.
func (q TaskQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

type TaskPage struct {
	Total int    `json:"total"`
	Tasks []Task `json:"tasks"`
}
