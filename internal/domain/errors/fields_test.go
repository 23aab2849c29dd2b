package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldErrors(t *testing.T) {
	fe := FieldErrors{}
	fe.Add("title", "Title is required")
	fe.Add("category", "Category is required")
	fe.Add("title", "Title must be at most 255 characters")

	assert.True(t, fe.Has("title"))
	assert.False(t, fe.Has("status"))

	assert.Equal(t, []Issue{
		{Path: "category", Message: "Category is required"},
		{Path: "title", Message: "Title is required"},
		{Path: "title", Message: "Title must be at most 255 characters"},
	}, fe.Issues())

	assert.Equal(t,
		"validation failed: category: Category is required; title: Title is required; title: Title must be at most 255 characters",
		fe.Error())

	wrapped := fmt.Errorf("create task: %w", fe)
	assert.True(t, Is(wrapped, ErrValidationFailed))

	var got FieldErrors
	assert.True(t, As(wrapped, &got))
	assert.Len(t, got, 2)
}
