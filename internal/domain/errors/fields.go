package errors

import (
	"sort"
	"strings"
)

// FieldErrors maps a field path to the messages of every rule it violated.
type FieldErrors map[string][]string

type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (fe FieldErrors) Add(field, message string) {
	fe[field] = append(fe[field], message)
}

func (fe FieldErrors) Has(field string) bool {
	return len(fe[field]) > 0
}

// Issues flattens the map into a list ordered by path.
func (fe FieldErrors) Issues() []Issue {
	paths := make([]string, 0, len(fe))
	for p := range fe {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	issues := make([]Issue, 0, len(fe))
	for _, p := range paths {
		for _, msg := range fe[p] {
			issues = append(issues, Issue{Path: p, Message: msg})
		}
	}
	return issues
}

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, is := range fe.Issues() {
		parts = append(parts, is.Path+": "+is.Message)
	}
	return ErrValidationFailed.Error() + ": " + strings.Join(parts, "; ")
}

// Unwrap lets errors.Is match ErrValidationFailed.
func (fe FieldErrors) Unwrap() error { return ErrValidationFailed }
