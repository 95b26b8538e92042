package postgresdb

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// ErrNoPredicate is returned by statements that refuse to run without a WHERE clause.
var ErrNoPredicate = errors.New("statement requires at least one predicate")

// Where accumulates AND-ed predicates and their named arguments. Column names are passed
// through QuoteIdentifier; values are always bound as arguments. Branches created by Or
// share the parent's argument set so names never collide.
type Where struct {
	parts []string
	args  pgx.NamedArgs
	n     *int
	err   error
}

// NewWhere returns an empty predicate builder.
func NewWhere() *Where {
	return &Where{
		args: pgx.NamedArgs{},
		n:    new(int),
	}
}

func (w *Where) child() *Where {
	return &Where{args: w.args, n: w.n}
}

func (w *Where) bind(v any) string {
	*w.n++
	name := fmt.Sprintf("w%d", *w.n)
	w.args[name] = v
	return "@" + name
}

func (w *Where) quote(column string) (string, bool) {
	if w.err != nil {
		return "", false
	}
	q, err := QuoteIdentifier(column)
	if err != nil {
		w.err = fmt.Errorf("where column: %w", err)
		return "", false
	}
	return q, true
}

func (w *Where) compare(column, op string, v any) *Where {
	if q, ok := w.quote(column); ok {
		w.parts = append(w.parts, fmt.Sprintf("%s %s %s", q, op, w.bind(v)))
	}
	return w
}

func (w *Where) Eq(column string, v any) *Where  { return w.compare(column, "=", v) }
func (w *Where) Neq(column string, v any) *Where { return w.compare(column, "<>", v) }
func (w *Where) Gt(column string, v any) *Where  { return w.compare(column, ">", v) }
func (w *Where) Gte(column string, v any) *Where { return w.compare(column, ">=", v) }
func (w *Where) Lt(column string, v any) *Where  { return w.compare(column, "<", v) }
func (w *Where) Lte(column string, v any) *Where { return w.compare(column, "<=", v) }

// In matches any element of a slice value.
func (w *Where) In(column string, values any) *Where {
	if q, ok := w.quote(column); ok {
		w.parts = append(w.parts, fmt.Sprintf("%s = ANY(%s)", q, w.bind(values)))
	}
	return w
}

// NotIn excludes every element of a slice value.
func (w *Where) NotIn(column string, values any) *Where {
	if q, ok := w.quote(column); ok {
		w.parts = append(w.parts, fmt.Sprintf("NOT (%s = ANY(%s))", q, w.bind(values)))
	}
	return w
}

func (w *Where) IsNull(column string) *Where {
	if q, ok := w.quote(column); ok {
		w.parts = append(w.parts, q+" IS NULL")
	}
	return w
}

func (w *Where) NotNull(column string) *Where {
	if q, ok := w.quote(column); ok {
		w.parts = append(w.parts, q+" IS NOT NULL")
	}
	return w
}

// ILike is a case-insensitive pattern match. The pattern is used as given.
func (w *Where) ILike(column, pattern string) *Where {
	return w.compare(column, "ILIKE", pattern)
}

// Search matches term as a case-insensitive substring of any of the columns.
func (w *Where) Search(term string, columns ...string) *Where {
	if term == "" || len(columns) == 0 {
		return w
	}
	pattern := "%" + EscapeLike(term) + "%"
	branches := make([]func(*Where), 0, len(columns))
	for _, c := range columns {
		branches = append(branches, func(b *Where) { b.ILike(c, pattern) })
	}
	return w.Or(branches...)
}

// Or adds one predicate that is true when any branch is true. Each branch is itself a
// conjunction. Empty branches are skipped.
func (w *Where) Or(branches ...func(*Where)) *Where {
	var ors []string
	for _, fn := range branches {
		b := w.child()
		fn(b)
		if b.err != nil && w.err == nil {
			w.err = b.err
		}
		switch len(b.parts) {
		case 0:
		case 1:
			ors = append(ors, b.parts[0])
		default:
			ors = append(ors, "("+strings.Join(b.parts, " AND ")+")")
		}
	}
	switch len(ors) {
	case 0:
	case 1:
		w.parts = append(w.parts, ors[0])
	default:
		w.parts = append(w.parts, "("+strings.Join(ors, " OR ")+")")
	}
	return w
}

// Keyset restricts the result to rows after the (orderValue, pk) position in the given
// direction using a row-value comparison.
func (w *Where) Keyset(orderColumn, pkColumn string, orderValue, pk any, direction string, forPrevious bool) *Where {
	qo, ok := w.quote(orderColumn)
	if !ok {
		return w
	}
	qp, ok := w.quote(pkColumn)
	if !ok {
		return w
	}
	op := determineOperator(direction, forPrevious)
	if orderColumn == pkColumn {
		w.parts = append(w.parts, fmt.Sprintf("%s %s %s", qp, op, w.bind(pk)))
		return w
	}
	w.parts = append(w.parts, fmt.Sprintf("(%s, %s) %s (%s, %s)", qo, qp, op, w.bind(orderValue), w.bind(pk)))
	return w
}

// Err reports the first invalid column seen by the builder.
func (w *Where) Err() error {
	return w.err
}

// Empty reports whether no predicate was added.
func (w *Where) Empty() bool {
	return w == nil || len(w.parts) == 0
}

// SQL renders " WHERE ..." or an empty string.
func (w *Where) SQL() string {
	if w.Empty() {
		return ""
	}
	return " WHERE " + strings.Join(w.parts, " AND ")
}

// Args returns the bound arguments. Callers may add their own non-w-prefixed names.
func (w *Where) Args() pgx.NamedArgs {
	if w == nil {
		return pgx.NamedArgs{}
	}
	return w.args
}

func determineOperator(direction string, forPrevious bool) string {
	operator := ">"
	if forPrevious {
		operator = "<"
	}
	if direction == DESC && !forPrevious {
		operator = "<"
	} else if direction == DESC && forPrevious {
		operator = ">"
	}
	return operator
}

// ========================================
// Optional filter helpers
// ========================================

// EqIf adds column = *v when v is set.
func EqIf[V any](w *Where, column string, v *V) {
	if v != nil {
		w.Eq(column, *v)
	}
}

// NeqIf adds column <> *v when v is set.
func NeqIf[V any](w *Where, column string, v *V) {
	if v != nil {
		w.Neq(column, *v)
	}
}

// GteIf adds column >= *v when v is set.
func GteIf[V any](w *Where, column string, v *V) {
	if v != nil {
		w.Gte(column, *v)
	}
}

// LteIf adds column <= *v when v is set.
func LteIf[V any](w *Where, column string, v *V) {
	if v != nil {
		w.Lte(column, *v)
	}
}

// LtIf adds column < *v when v is set.
func LtIf[V any](w *Where, column string, v *V) {
	if v != nil {
		w.Lt(column, *v)
	}
}

// InIf adds column = ANY(vs) when vs is non-empty.
func InIf[V any](w *Where, column string, vs []V) {
	if len(vs) > 0 {
		w.In(column, vs)
	}
}

// NotInIf excludes every element of vs when vs is non-empty.
func NotInIf[V any](w *Where, column string, vs []V) {
	if len(vs) > 0 {
		w.NotIn(column, vs)
	}
}

// NullIf adds IS NOT NULL when *has is true and IS NULL when it is false.
func NullIf(w *Where, column string, has *bool) {
	if has == nil {
		return
	}
	if *has {
		w.NotNull(column)
		return
	}
	w.IsNull(column)
}
