package service

import (
	"math"
	"net/url"
	"testing"

	"taskmanager/internal/domain/errors"
	"taskmanager/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTaskQuery(t *testing.T) {
	userID := int64(3)
	status := models.StatusOpen
	category := models.CategoryWork

	tests := []struct {
		name   string
		params string
		want   models.TaskQuery
	}{
		{
			name:   "no parameters",
			params: "",
			want:   models.DefaultTaskQuery(),
		},
		{
			name:   "filters and sorting",
			params: "userId=3&status=OPEN&category=WORK&sortBy=priority&sortOrder=desc&page=2&pageSize=20",
			want: models.TaskQuery{
				Filter:   models.TaskFilter{UserID: &userID, Status: &status, Category: &category},
				SortBy:   models.SortByPriority,
				Order:    models.SortDesc,
				Page:     2,
				PageSize: 20,
			},
		},
		{
			name:   "unknown filter values are ignored",
			params: "userId=abc&status=DONE&category=FOOD",
			want:   models.DefaultTaskQuery(),
		},
		{
			name:   "unknown sort falls back to due date ascending",
			params: "sortBy=title&sortOrder=sideways",
			want:   models.DefaultTaskQuery(),
		},
		{
			name:   "page size above the maximum is clamped",
			params: "pageSize=500",
			want: models.TaskQuery{
				SortBy:   models.SortByDueDate,
				Order:    models.SortAsc,
				Page:     1,
				PageSize: models.MaxPageSize,
			},
		},
		{
			name:   "non positive paging is clamped to one",
			params: "page=0&pageSize=-4",
			want: models.TaskQuery{
				SortBy:   models.SortByDueDate,
				Order:    models.SortAsc,
				Page:     1,
				PageSize: 1,
			},
		},
		{
			name:   "malformed paging uses defaults",
			params: "page=two&pageSize=ten",
			want:   models.DefaultTaskQuery(),
		},
		{
			name:   "huge page is capped",
			params: "page=99999999999",
			want: models.TaskQuery{
				SortBy:   models.SortByDueDate,
				Order:    models.SortAsc,
				Page:     math.MaxInt32,
				PageSize: models.DefaultPageSize,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := url.ParseQuery(tt.params)
			require.NoError(t, err)

			assert.Equal(t, tt.want, ParseTaskQuery(params))
		})
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  struct {
			id  int64
			err error
		}
	}{
		{
			name:  "positive integer",
			input: "12",
			want: struct {
				id  int64
				err error
			}{id: 12},
		},
		{
			name:  "zero",
			input: "0",
			want: struct {
				id  int64
				err error
			}{err: errors.ErrInvalidID},
		},
		{
			name:  "negative",
			input: "-5",
			want: struct {
				id  int64
				err error
			}{err: errors.ErrInvalidID},
		},
		{
			name:  "not a number",
			input: "abc",
			want: struct {
				id  int64
				err error
			}{err: errors.ErrInvalidID},
		},
		{
			name:  "fraction",
			input: "1.5",
			want: struct {
				id  int64
				err error
			}{err: errors.ErrInvalidID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseID(tt.input)
			assert.Equal(t, tt.want.id, id)
			assert.ErrorIs(t, err, tt.want.err)
		})
	}
}
