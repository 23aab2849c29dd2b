package service

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"taskmanager/internal/domain/models"
)

// ParseTaskQuery builds a listing query from request parameters. It never
// fails: unknown filter values are dropped and malformed paging falls back
// to defaults before clamping.
func ParseTaskQuery(params url.Values) models.TaskQuery {
	q := models.DefaultTaskQuery()

	if raw := strings.TrimSpace(params.Get("userId")); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			q.Filter.UserID = &id
		}
	}
	if s := models.Status(params.Get("status")); s.Valid() {
		q.Filter.Status = &s
	}
	if c := models.Category(params.Get("category")); c.Valid() {
		q.Filter.Category = &c
	}

	if by := models.SortField(params.Get("sortBy")); by.Valid() {
		q.SortBy = by
	}
	if params.Get("sortOrder") == string(models.SortDesc) {
		q.Order = models.SortDesc
	}

	// capped so the offset cannot overflow
	q.Page = min(max(intParam(params, "page", models.DefaultPage), 1), math.MaxInt32)
	q.PageSize = min(max(intParam(params, "pageSize", models.DefaultPageSize), 1), models.MaxPageSize)
	return q
}

func intParam(params url.Values, key string, def int) int {
	raw := strings.TrimSpace(params.Get(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
