package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"go-vidtube/pkg/apierror"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func notFoundOr(err error, message string, id string, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apierror.NotFound(message, id)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// orderBy builds an ORDER BY clause from a whitelisted sort key. Unknown keys
// use the fallback column so user input never reaches the SQL text.
func orderBy(sortBy string, desc bool, columns map[string]string, fallback string) string {
	column, ok := columns[strings.TrimSpace(sortBy)]
	if !ok {
		column = fallback
	}
	direction := "ASC"
	if desc {
		direction = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s, %s", column, direction, tieBreaker(column))
}

func tieBreaker(column string) string {
	prefix := ""
	if idx := strings.Index(column, "."); idx >= 0 {
		prefix = column[:idx+1]
	}
	return prefix + "id DESC"
}

func likePattern(query string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(query)
	return "%" + escaped + "%"
}

// whereBuilder accumulates positional predicates the same way the list queries need them.
type whereBuilder struct {
	clauses []string
	args    []any
}

func (w *whereBuilder) add(format string, arg any) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, fmt.Sprintf(format, len(w.args)))
}

func (w *whereBuilder) addRaw(clause string) {
	w.clauses = append(w.clauses, clause)
}

func (w *whereBuilder) sql() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(w.clauses, " AND ")
}

func (w *whereBuilder) next() int {
	return len(w.args) + 1
}
