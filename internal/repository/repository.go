package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Sort whitelists: api field -> column.
var (
	UserSortColumns     = map[string]string{"id": "id", "nickname": "nickname", "createdAt": "created_at"}
	CategorySortColumns = map[string]string{"id": "id", "name": "name", "createdAt": "created_at"}
	ProductSortColumns  = map[string]string{"id": "p.id", "title": "p.title", "price": "p.price", "createdAt": "p.created_at"}
)

func pgCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// where accumulates AND-ed predicates with numbered placeholders.
type where struct {
	clauses []string
	args    []any
}

// add appends a predicate; every "?" in expr is replaced by the next $n.
func (w *where) add(expr string, args ...any) {
	for _, a := range args {
		w.args = append(w.args, a)
		expr = strings.Replace(expr, "?", fmt.Sprintf("$%d", len(w.args)), 1)
	}
	w.clauses = append(w.clauses, expr)
}

func (w *where) sql() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// page appends LIMIT/OFFSET placeholders and returns the clause and args.
func (w *where) page(limit, offset int) (string, []any) {
	args := append(append([]any{}, w.args...), limit, offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args)), args
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
