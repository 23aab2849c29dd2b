package models

type Category string

const (
	CategoryWork     Category = "WORK"
	CategoryPersonal Category = "PERSONAL"
	CategoryErrands  Category = "ERRANDS"
	CategoryHealth   Category = "HEALTH"
	CategoryFinance  Category = "FINANCE"
	CategoryLearning Category = "LEARNING"
	CategoryOther    Category = "OTHER"
)

var categories = []Category{
	CategoryWork, CategoryPersonal, CategoryErrands, CategoryHealth,
	CategoryFinance, CategoryLearning, CategoryOther,
}

func Categories() []Category { return append([]Category(nil), categories...) }

func (c Category) Valid() bool {
	for _, v := range categories {
		if c == v {
			return true
		}
	}
	return false
}

type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusInProgress Status = "IN_PROGRESS"
	StatusIncomplete Status = "INCOMPLETE"
	StatusCompleted  Status = "COMPLETED"
	StatusClosed     Status = "CLOSED"
)

var statuses = []Status{StatusOpen, StatusInProgress, StatusIncomplete, StatusCompleted, StatusClosed}

func Statuses() []Status { return append([]Status(nil), statuses...) }

func (s Status) Valid() bool {
	for _, v := range statuses {
		if s == v {
			return true
		}
	}
	return false
}

type Priority string

const (
	PriorityUrgent Priority = "URGENT"
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

var priorities = []Priority{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow}

func Priorities() []Priority { return append([]Priority(nil), priorities...) }

func (p Priority) Valid() bool { return p.Rank() > 0 }

// Rank orders priorities from LOW (1) to URGENT (4); unknown values rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityUrgent:
		return 4
	}
	return 0
}

type Importance string

const (
	ImportanceHigh   Importance = "HIGH"
	ImportanceMedium Importance = "MEDIUM"
	ImportanceLow    Importance = "LOW"
)

var importances = []Importance{ImportanceHigh, ImportanceMedium, ImportanceLow}

func Importances() []Importance { return append([]Importance(nil), importances...) }

func (i Importance) Valid() bool {
	for _, v := range importances {
		if i == v {
			return true
		}
	}
	return false
}
