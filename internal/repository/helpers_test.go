package repository

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"go-vidtube/pkg/apierror"
)

func TestOrderByUsesWhitelist(t *testing.T) {
	columns := map[string]string{"createdAt": "v.created_at", "views": "v.view_count"}

	assert.Equal(t, "ORDER BY v.view_count DESC, v.id DESC", orderBy("views", true, columns, "v.created_at"))
	assert.Equal(t, "ORDER BY v.created_at ASC, v.id DESC", orderBy("createdAt", false, columns, "v.created_at"))
	assert.Equal(t, "ORDER BY v.created_at DESC, v.id DESC", orderBy("title; DROP TABLE users", true, columns, "v.created_at"))
}

func TestLikePatternEscapesWildcards(t *testing.T) {
	assert.Equal(t, `%100\%\_off%`, likePattern("100%_off"))
}

func TestWhereBuilder(t *testing.T) {
	var w whereBuilder
	assert.Equal(t, "", w.sql())

	w.add("v.owner_id = $%d", "owner")
	w.addRaw("v.is_published")
	w.add("v.title ILIKE $%d", "%x%")

	assert.Equal(t, "WHERE v.owner_id = $1 AND v.is_published AND v.title ILIKE $2", w.sql())
	assert.Equal(t, []any{"owner", "%x%"}, w.args)
	assert.Equal(t, 3, w.next())
}

func TestErrorTranslation(t *testing.T) {
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))

	err := notFoundOr(pgx.ErrNoRows, "video not found", "v1", "find video")
	assert.Equal(t, 404, apierror.StatusOf(err))

	err = notFoundOr(fmt.Errorf("conn reset"), "video not found", "v1", "find video")
	assert.Contains(t, err.Error(), "find video: conn reset")
}
