package postgresdb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jrazmi/eventhub/core/scaffolding/fop"
)

// ErrNoFields is returned when a write has nothing to set.
var ErrNoFields = errors.New("no fields to write")

// Table describes a table well enough to build CRUD statements for it.
type Table struct {
	Schema  string
	Name    string
	PK      string
	Columns []string

	// Booleans lists boolean columns. PostgreSQL has no min or max over boolean, so
	// Aggregate uses bool_and and bool_or for them.
	Booleans []string
}

func (t Table) ident() (string, error) {
	name := t.Name
	if t.Schema != "" {
		name = t.Schema + "." + t.Name
	}
	return QuoteIdentifier(name)
}

func (t Table) columnList() (string, error) {
	return quoteList(t.Columns)
}

func quoteList(columns []string) (string, error) {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		q, err := QuoteIdentifier(c)
		if err != nil {
			return "", err
		}
		quoted[i] = q
	}
	return strings.Join(quoted, ", "), nil
}

// Values is an ordered column to value list for inserts and updates.
type Values struct {
	cols []string
	vals []any
}

// Set records a value for column. Setting the same column twice keeps the last value.
func (v *Values) Set(column string, value any) *Values {
	for i, c := range v.cols {
		if c == column {
			v.vals[i] = value
			return v
		}
	}
	v.cols = append(v.cols, column)
	v.vals = append(v.vals, value)
	return v
}

// Len is the number of columns set.
func (v *Values) Len() int {
	return len(v.cols)
}

// Columns returns the columns in the order they were set.
func (v *Values) Columns() []string {
	return v.cols
}

// SetIf records *value when value is not nil.
func SetIf[V any](v *Values, column string, value *V) {
	if value != nil {
		v.Set(column, *value)
	}
}

func (v *Values) bind(prefix string, args pgx.NamedArgs) ([]string, []string, error) {
	cols := make([]string, len(v.cols))
	params := make([]string, len(v.cols))
	for i, c := range v.cols {
		q, err := QuoteIdentifier(c)
		if err != nil {
			return nil, nil, err
		}
		cols[i] = q
		name := prefix + c
		args[name] = v.vals[i]
		params[i] = "@" + name
	}
	return cols, params, nil
}

func (v *Values) setClause(args pgx.NamedArgs) (string, error) {
	cols, params, err := v.bind("s_", args)
	if err != nil {
		return "", err
	}
	sets := make([]string, len(cols))
	for i := range cols {
		sets[i] = cols[i] + " = " + params[i]
	}
	return strings.Join(sets, ", "), nil
}

// Sort directions.
const (
	ASC  = "ASC"
	DESC = "DESC"
)

// orderClause sorts by column and then by pk, so pages are stable when column repeats.
func orderClause(column, pk, direction string) (string, error) {
	if direction != ASC && direction != DESC {
		return "", fmt.Errorf("invalid direction: %q", direction)
	}
	cols := []string{column}
	if column != pk {
		cols = append(cols, pk)
	}
	for i, c := range cols {
		q, err := QuoteIdentifier(c)
		if err != nil {
			return "", fmt.Errorf("order: %w", err)
		}
		cols[i] = q + " " + direction
	}
	return " ORDER BY " + strings.Join(cols, ", "), nil
}

// Query describes a SELECT. A zero OrderBy sorts by primary key. A zero Limit returns
// every match.
type Query struct {
	Where     *Where
	OrderBy   string
	Direction string
	Limit     int
	ForUpdate bool
}

func (t Table) selectSQL(q Query) (string, pgx.NamedArgs, error) {
	table, err := t.ident()
	if err != nil {
		return "", nil, fmt.Errorf("table: %w", err)
	}
	cols, err := t.columnList()
	if err != nil {
		return "", nil, fmt.Errorf("columns: %w", err)
	}
	if q.Where == nil {
		q.Where = NewWhere()
	}
	if err := q.Where.Err(); err != nil {
		return "", nil, err
	}

	data := q.Where.Args()
	buf := bytes.NewBufferString("SELECT " + cols + " FROM " + table)
	buf.WriteString(q.Where.SQL())

	orderBy := q.OrderBy
	if orderBy == "" {
		orderBy = t.PK
	}
	direction := q.Direction
	if direction == "" {
		direction = ASC
	}
	order, err := orderClause(orderBy, t.PK, direction)
	if err != nil {
		return "", nil, err
	}
	buf.WriteString(order)
	if q.Limit > 0 {
		buf.WriteString(" LIMIT @limit")
		data["limit"] = q.Limit
	}
	if q.ForUpdate {
		buf.WriteString(" FOR UPDATE")
	}
	return buf.String(), data, nil
}

// Select returns every row matching q.
func Select[T any](ctx context.Context, db Querier, t Table, q Query) ([]T, error) {
	sql, args, err := t.selectSQL(q)
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(ctx, sql, args)
	if err != nil {
		return nil, HandlePgError(err)
	}
	defer rows.Close()

	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, HandlePgError(err)
	}
	return records, nil
}

// SelectOne returns the first row matching q or ErrDBNotFound.
func SelectOne[T any](ctx context.Context, db Querier, t Table, q Query) (T, error) {
	var zero T
	q.Limit = 1
	sql, args, err := t.selectSQL(q)
	if err != nil {
		return zero, err
	}

	rows, err := db.Query(ctx, sql, args)
	if err != nil {
		return zero, HandlePgError(err)
	}
	defer rows.Close()

	record, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		return zero, HandlePgError(err)
	}
	return record, nil
}

// SelectByPK returns the row with the given primary key.
func SelectByPK[T any](ctx context.Context, db Querier, t Table, pk any) (T, error) {
	return SelectOne[T](ctx, db, t, Query{Where: NewWhere().Eq(t.PK, pk)})
}

func (t Table) insertSQL(v *Values, args pgx.NamedArgs) (string, error) {
	if v.Len() == 0 {
		return "", ErrNoFields
	}
	table, err := t.ident()
	if err != nil {
		return "", fmt.Errorf("table: %w", err)
	}
	cols, params, err := v.bind("v_", args)
	if err != nil {
		return "", err
	}
	return "INSERT INTO " + table + " (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(params, ", ") + ")", nil
}

// Insert inserts one row and returns it as stored.
func Insert[T any](ctx context.Context, db Querier, t Table, v *Values) (T, error) {
	var zero T
	args := pgx.NamedArgs{}
	sql, err := t.insertSQL(v, args)
	if err != nil {
		return zero, err
	}
	cols, err := t.columnList()
	if err != nil {
		return zero, err
	}
	sql += " RETURNING " + cols

	rows, err := db.Query(ctx, sql, args)
	if err != nil {
		return zero, HandlePgError(err)
	}
	defer rows.Close()

	record, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		return zero, HandlePgError(err)
	}
	return record, nil
}

// InsertBatch inserts every row in a single round trip and returns how many rows were
// written. With skipDuplicates, rows that hit a unique constraint are skipped instead of
// failing the batch.
func InsertBatch(ctx context.Context, db Querier, t Table, rows []*Values, skipDuplicates bool) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for i, v := range rows {
		args := pgx.NamedArgs{}
		sql, err := t.insertSQL(v, args)
		if err != nil {
			return 0, fmt.Errorf("row %d: %w", i, err)
		}
		if skipDuplicates {
			sql += " ON CONFLICT DO NOTHING"
		}
		batch.Queue(sql, args)
	}

	br := db.SendBatch(ctx, batch)
	defer br.Close()

	var inserted int64
	for i := range rows {
		tag, err := br.Exec()
		if err != nil {
			return 0, fmt.Errorf("row %d: %w", i, HandlePgError(err))
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}

// Upsert inserts create or, when conflict columns collide, applies update to the existing
// row. The stored row is returned either way.
func Upsert[T any](ctx context.Context, db Querier, t Table, conflict []string, create *Values, update *Values) (T, error) {
	var zero T
	if len(conflict) == 0 {
		return zero, fmt.Errorf("conflict target: %w", ErrNoFields)
	}
	args := pgx.NamedArgs{}
	sql, err := t.insertSQL(create, args)
	if err != nil {
		return zero, err
	}
	target, err := quoteList(conflict)
	if err != nil {
		return zero, fmt.Errorf("conflict target: %w", err)
	}

	var set string
	if update == nil || update.Len() == 0 {
		// A no-op update still locks the row and lets RETURNING see it.
		q, _ := QuoteIdentifier(conflict[0])
		set = q + " = EXCLUDED." + q
	} else {
		set, err = update.setClause(args)
		if err != nil {
			return zero, err
		}
	}

	cols, err := t.columnList()
	if err != nil {
		return zero, err
	}
	sql += " ON CONFLICT (" + target + ") DO UPDATE SET " + set + " RETURNING " + cols

	rows, err := db.Query(ctx, sql, args)
	if err != nil {
		return zero, HandlePgError(err)
	}
	defer rows.Close()

	record, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		return zero, HandlePgError(err)
	}
	return record, nil
}

// UpdateByPK applies v to the row with the given primary key and returns the new row.
// An empty v returns the current row unchanged.
func UpdateByPK[T any](ctx context.Context, db Querier, t Table, pk any, v *Values) (T, error) {
	var zero T
	if v.Len() == 0 {
		return SelectByPK[T](ctx, db, t, pk)
	}

	table, err := t.ident()
	if err != nil {
		return zero, fmt.Errorf("table: %w", err)
	}
	qpk, err := QuoteIdentifier(t.PK)
	if err != nil {
		return zero, fmt.Errorf("pk: %w", err)
	}
	cols, err := t.columnList()
	if err != nil {
		return zero, err
	}

	args := pgx.NamedArgs{"pk": pk}
	set, err := v.setClause(args)
	if err != nil {
		return zero, err
	}

	sql := "UPDATE " + table + " SET " + set + " WHERE " + qpk + " = @pk RETURNING " + cols
	rows, err := db.Query(ctx, sql, args)
	if err != nil {
		return zero, HandlePgError(err)
	}
	defer rows.Close()

	record, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		return zero, HandlePgError(err)
	}
	return record, nil
}

// UpdateWhere applies v to every row matching w and returns the number of rows changed.
func UpdateWhere(ctx context.Context, db Querier, t Table, w *Where, v *Values) (int64, error) {
	if v.Len() == 0 {
		return 0, ErrNoFields
	}
	if w == nil {
		w = NewWhere()
	}
	if err := w.Err(); err != nil {
		return 0, err
	}
	table, err := t.ident()
	if err != nil {
		return 0, fmt.Errorf("table: %w", err)
	}

	args := w.Args()
	set, err := v.setClause(args)
	if err != nil {
		return 0, err
	}

	tag, err := db.Exec(ctx, "UPDATE "+table+" SET "+set+w.SQL(), args)
	if err != nil {
		return 0, HandlePgError(err)
	}
	return tag.RowsAffected(), nil
}

// DeleteByPK deletes one row. ErrDBNotFound is returned when nothing was deleted.
func DeleteByPK(ctx context.Context, db Querier, t Table, pk any) error {
	n, err := DeleteWhere(ctx, db, t, NewWhere().Eq(t.PK, pk))
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrDBNotFound
	}
	return nil
}

// DeleteWhere deletes every row matching w. An empty w is refused with ErrNoPredicate.
func DeleteWhere(ctx context.Context, db Querier, t Table, w *Where) (int64, error) {
	if w.Empty() {
		return 0, ErrNoPredicate
	}
	if err := w.Err(); err != nil {
		return 0, err
	}
	table, err := t.ident()
	if err != nil {
		return 0, fmt.Errorf("table: %w", err)
	}

	tag, err := db.Exec(ctx, "DELETE FROM "+table+w.SQL(), w.Args())
	if err != nil {
		return 0, HandlePgError(err)
	}
	return tag.RowsAffected(), nil
}

// DeleteReturning deletes the single row matching w and returns it.
func DeleteReturning[T any](ctx context.Context, db Querier, t Table, w *Where) (T, error) {
	var zero T
	if w.Empty() {
		return zero, ErrNoPredicate
	}
	if err := w.Err(); err != nil {
		return zero, err
	}
	table, err := t.ident()
	if err != nil {
		return zero, fmt.Errorf("table: %w", err)
	}
	cols, err := t.columnList()
	if err != nil {
		return zero, err
	}

	rows, err := db.Query(ctx, "DELETE FROM "+table+w.SQL()+" RETURNING "+cols, w.Args())
	if err != nil {
		return zero, HandlePgError(err)
	}
	defer rows.Close()

	record, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		return zero, HandlePgError(err)
	}
	return record, nil
}

// Count returns the number of rows matching w.
func Count(ctx context.Context, db Querier, t Table, w *Where) (int64, error) {
	if w == nil {
		w = NewWhere()
	}
	if err := w.Err(); err != nil {
		return 0, err
	}
	table, err := t.ident()
	if err != nil {
		return 0, fmt.Errorf("table: %w", err)
	}

	var n int64
	if err := db.QueryRow(ctx, "SELECT count(*) FROM "+table+w.SQL(), w.Args()).Scan(&n); err != nil {
		return 0, HandlePgError(err)
	}
	return n, nil
}

// Aggregate computes the requested aggregates over rows matching w. spec must already
// be resolved to column names.
func Aggregate(ctx context.Context, db Querier, t Table, w *Where, spec fop.AggregateSpec) (fop.AggregateResult, error) {
	if w == nil {
		w = NewWhere()
	}
	if err := w.Err(); err != nil {
		return fop.AggregateResult{}, err
	}
	table, err := t.ident()
	if err != nil {
		return fop.AggregateResult{}, fmt.Errorf("table: %w", err)
	}

	type slot struct {
		kind   string
		column string
	}
	exprs := []string{"count(*)"}
	slots := []slot{{kind: "count"}}
	add := func(kind, fn string, columns []string, cast string) error {
		for _, c := range columns {
			q, err := QuoteIdentifier(c)
			if err != nil {
				return err
			}
			call := fn
			if slices.Contains(t.Booleans, c) {
				switch kind {
				case "min":
					call = "bool_and"
				case "max":
					call = "bool_or"
				}
			}
			exprs = append(exprs, fmt.Sprintf("%s(%s)%s", call, q, cast))
			slots = append(slots, slot{kind: kind, column: c})
		}
		return nil
	}
	if err := add("min", "min", spec.Min, ""); err != nil {
		return fop.AggregateResult{}, err
	}
	if err := add("max", "max", spec.Max, ""); err != nil {
		return fop.AggregateResult{}, err
	}
	if err := add("avg", "avg", spec.Avg, "::float8"); err != nil {
		return fop.AggregateResult{}, err
	}
	if err := add("sum", "sum", spec.Sum, "::float8"); err != nil {
		return fop.AggregateResult{}, err
	}

	rows, err := db.Query(ctx, "SELECT "+strings.Join(exprs, ", ")+" FROM "+table+w.SQL(), w.Args())
	if err != nil {
		return fop.AggregateResult{}, HandlePgError(err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return fop.AggregateResult{}, HandlePgError(err)
		}
		return fop.AggregateResult{}, ErrDBNotFound
	}
	values, err := rows.Values()
	if err != nil {
		return fop.AggregateResult{}, HandlePgError(err)
	}

	var result fop.AggregateResult
	for i, s := range slots {
		v := values[i]
		switch s.kind {
		case "count":
			result.Count, _ = v.(int64)
		case "min":
			if result.Min == nil {
				result.Min = map[string]any{}
			}
			result.Min[s.column] = v
		case "max":
			if result.Max == nil {
				result.Max = map[string]any{}
			}
			result.Max[s.column] = v
		case "avg":
			if result.Avg == nil {
				result.Avg = map[string]*float64{}
			}
			result.Avg[s.column] = float8(v)
		case "sum":
			if result.Sum == nil {
				result.Sum = map[string]*float64{}
			}
			result.Sum[s.column] = float8(v)
		}
	}
	return result, rows.Err()
}

func float8(v any) *float64 {
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	return &f
}

// GroupCount groups rows matching w by columns and counts each group. Groups are
// returned in key order.
func GroupCount(ctx context.Context, db Querier, t Table, columns []string, w *Where) ([]fop.Group, error) {
	if len(columns) == 0 {
		return nil, ErrNoFields
	}
	if w == nil {
		w = NewWhere()
	}
	if err := w.Err(); err != nil {
		return nil, err
	}
	table, err := t.ident()
	if err != nil {
		return nil, fmt.Errorf("table: %w", err)
	}
	keys, err := quoteList(columns)
	if err != nil {
		return nil, err
	}

	sql := "SELECT " + keys + ", count(*) FROM " + table + w.SQL() + " GROUP BY " + keys + " ORDER BY " + keys
	rows, err := db.Query(ctx, sql, w.Args())
	if err != nil {
		return nil, HandlePgError(err)
	}
	defer rows.Close()

	var groups []fop.Group
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, HandlePgError(err)
		}
		g := fop.Group{Keys: make(map[string]any, len(columns))}
		for i, c := range columns {
			g.Keys[c] = values[i]
		}
		g.Count, _ = values[len(columns)].(int64)
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, HandlePgError(err)
	}
	return groups, nil
}
