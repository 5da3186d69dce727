package model

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseListQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  ListQuery
	}{
		{name: "defaults", query: "", want: ListQuery{Page: 1, Limit: 10, Desc: true}},
		{name: "explicit", query: "page=2&limit=5&query=+cats+&sortBy=views&sortType=asc",
			want: ListQuery{Page: 2, Limit: 5, Query: "cats", SortBy: "views", Desc: false}},
		{name: "order alias", query: "order=ASC", want: ListQuery{Page: 1, Limit: 10, Desc: false}},
		{name: "sortType wins over order", query: "sortType=desc&order=asc", want: ListQuery{Page: 1, Limit: 10, Desc: true}},
		{name: "invalid numbers fall back", query: "page=-3&limit=abc", want: ListQuery{Page: 1, Limit: 10, Desc: true}},
		{name: "limit capped", query: "limit=1000", want: ListQuery{Page: 1, Limit: MaxLimit, Desc: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, ParseListQuery(values.Get))
		})
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 3, TotalPages(12, 5))
	assert.Equal(t, 2, TotalPages(10, 5))
	assert.Equal(t, 1, TotalPages(1, 10))
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 0, TotalPages(5, 0))
}

func TestNewPage(t *testing.T) {
	q := ListQuery{Page: 2, Limit: 5}
	assert.Equal(t, 5, q.Offset())

	page := NewPage[string](nil, 12, q)
	assert.NotNil(t, page.Items)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 5, page.Limit)
}
