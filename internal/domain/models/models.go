package models

import "time"

type User struct {
	ID          int64     `json:"id"`
	FName       string    `json:"fname"`
	LName       string    `json:"lname"`
	Email       string    `json:"email"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    Category   `json:"category"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	Importance  Importance `json:"importance"`
	DueDate     time.Time  `json:"dueDate"`
	UserID      int64      `json:"userId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TaskUpdate carries the fields replaced by a full update. A nil DueDate keeps
// the stored value.
type TaskUpdate struct {
	Title       string
	Description string
	Category    Category
	Status      Status
	Priority    Priority
	Importance  Importance
	DueDate     *time.Time
	UserID      int64
}

// Apply overwrites the mutable fields of t.
func (u TaskUpdate) Apply(t *Task) {
	t.Title = u.Title
	t.Description = u.Description
	t.Category = u.Category
	t.Status = u.Status
	t.Priority = u.Priority
	t.Importance = u.Importance
	if u.DueDate != nil {
		t.DueDate = *u.DueDate
	}
	t.UserID = u.UserID
}
