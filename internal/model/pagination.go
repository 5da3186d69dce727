package model

import (
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListQuery carries the common read parameters: page/limit, a case-insensitive
// substring filter and an optional sort field and direction.
type ListQuery struct {
	Page   int
	Limit  int
	Query  string
	SortBy string
	Desc   bool
}

func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// ParseListQuery reads page, limit, query, sortBy and sortType (or order) from
// URL query values. Invalid numbers fall back to the defaults.
func ParseListQuery(get func(string) string) ListQuery {
	q := ListQuery{
		Page:   parsePositive(get("page"), DefaultPage),
		Limit:  parsePositive(get("limit"), DefaultLimit),
		Query:  strings.TrimSpace(get("query")),
		SortBy: strings.TrimSpace(get("sortBy")),
		Desc:   true,
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}

	direction := strings.ToLower(strings.TrimSpace(get("sortType")))
	if direction == "" {
		direction = strings.ToLower(strings.TrimSpace(get("order")))
	}
	if direction == "asc" {
		q.Desc = false
	}

	return q
}

func parsePositive(raw string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

func TotalPages(total int, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// Page is the paginated list payload.
type Page[T any] struct {
	Items      []T `json:"docs"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

func NewPage[T any](items []T, total int, q ListQuery) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: TotalPages(total, q.Limit),
	}
}
