// Package postgresdbtest provides an in-memory stand-in for a pool or transaction that
// records every statement and answers from a script, so store SQL can be tested without
// a database.
package postgresdbtest

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotExecuted answers statements the script does not handle.
var ErrNotExecuted = errors.New("statement not executed")

// Transaction markers recorded as statements.
const (
	Commit   = "COMMIT"
	Rollback = "ROLLBACK"
)

// Call is one recorded statement.
type Call struct {
	SQL  string
	Args pgx.NamedArgs
}

// Result is the scripted answer to a statement. Columns name the values of each row.
type Result struct {
	Columns []string
	Rows    [][]any
	Tag     pgconn.CommandTag
	Err     error
}

// Recorder satisfies postgresdb.Querier and postgresdb.Beginner. Transactions begun on it
// record into the same call list.
type Recorder struct {
	// Respond answers a statement. A nil Respond fails every statement with
	// ErrNotExecuted.
	Respond func(sql string) Result

	mu    sync.Mutex
	calls []Call
}

// Calls returns the recorded statements in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// SQL returns the recorded statement texts in order.
func (r *Recorder) SQL() []string {
	calls := r.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.SQL
	}
	return out
}

func (r *Recorder) record(sql string, args []any) Result {
	call := Call{SQL: sql}
	if len(args) == 1 {
		if named, ok := args[0].(pgx.NamedArgs); ok {
			call.Args = named
		}
	}

	r.mu.Lock()
	r.calls = append(r.calls, call)
	r.mu.Unlock()

	if r.Respond == nil {
		return Result{Err: ErrNotExecuted}
	}
	return r.Respond(sql)
}

func (r *Recorder) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	res := r.record(sql, args)
	return res.Tag, res.Err
}

func (r *Recorder) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	res := r.record(sql, args)
	if res.Err != nil {
		return nil, res.Err
	}
	return &rows{res: res}, nil
}

func (r *Recorder) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return row{res: r.record(sql, args)}
}

func (r *Recorder) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	results := make([]Result, len(b.QueuedQueries))
	for i, q := range b.QueuedQueries {
		results[i] = r.record(q.SQL, q.Arguments)
	}
	return &batchResults{results: results}
}

func (r *Recorder) Begin(ctx context.Context) (pgx.Tx, error) {
	return &tx{Recorder: r}, nil
}

// tx records into its Recorder. Methods outside the Querier surface are not supported.
type tx struct {
	pgx.Tx
	*Recorder
	done bool
}

func (t *tx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return t.Recorder.Exec(ctx, sql, args...)
}

func (t *tx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return t.Recorder.Query(ctx, sql, args...)
}

func (t *tx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return t.Recorder.QueryRow(ctx, sql, args...)
}

func (t *tx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	return t.Recorder.SendBatch(ctx, b)
}

func (t *tx) Begin(ctx context.Context) (pgx.Tx, error) {
	return &tx{Recorder: t.Recorder}, nil
}

func (t *tx) Commit(ctx context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.Recorder.record(Commit, nil)
	return nil
}

func (t *tx) Rollback(ctx context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.Recorder.record(Rollback, nil)
	return nil
}

// Recorded reports whether any statement contains every fragment.
func (r *Recorder) Recorded(fragments ...string) bool {
	for _, sql := range r.SQL() {
		ok := true
		for _, f := range fragments {
			if !strings.Contains(sql, f) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

type rows struct {
	res    Result
	i      int
	closed bool
}

func (r *rows) Close()                        { r.closed = true }
func (r *rows) Err() error                    { return nil }
func (r *rows) CommandTag() pgconn.CommandTag { return r.res.Tag }
func (r *rows) Conn() *pgx.Conn               { return nil }
func (r *rows) RawValues() [][]byte           { return nil }

func (r *rows) FieldDescriptions() []pgconn.FieldDescription {
	fds := make([]pgconn.FieldDescription, len(r.res.Columns))
	for i, c := range r.res.Columns {
		fds[i] = pgconn.FieldDescription{Name: c}
	}
	return fds
}

func (r *rows) Next() bool {
	if r.closed || r.i >= len(r.res.Rows) {
		r.closed = true
		return false
	}
	r.i++
	return true
}

func (r *rows) Values() ([]any, error) {
	if r.i == 0 {
		return nil, errors.New("no current row")
	}
	return r.res.Rows[r.i-1], nil
}

func (r *rows) Scan(dest ...any) error {
	if r.i == 0 {
		return errors.New("no current row")
	}
	return assign(r.res.Rows[r.i-1], dest)
}

type row struct {
	res Result
}

func (r row) Scan(dest ...any) error {
	if r.res.Err != nil {
		return r.res.Err
	}
	if len(r.res.Rows) == 0 {
		return pgx.ErrNoRows
	}
	return assign(r.res.Rows[0], dest)
}

type batchResults struct {
	results []Result
	i       int
}

func (b *batchResults) next() (Result, error) {
	if b.i >= len(b.results) {
		return Result{}, errors.New("no more batch results")
	}
	res := b.results[b.i]
	b.i++
	return res, nil
}

func (b *batchResults) Exec() (pgconn.CommandTag, error) {
	res, err := b.next()
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	return res.Tag, res.Err
}

func (b *batchResults) Query() (pgx.Rows, error) {
	res, err := b.next()
	if err != nil {
		return nil, err
	}
	if res.Err != nil {
		return nil, res.Err
	}
	return &rows{res: res}, nil
}

func (b *batchResults) QueryRow() pgx.Row {
	res, err := b.next()
	if err != nil {
		res.Err = err
	}
	return row{res: res}
}

func (b *batchResults) Close() error { return nil }

func assign(values []any, dest []any) error {
	if len(values) != len(dest) {
		return fmt.Errorf("scan: %d values into %d targets", len(values), len(dest))
	}
	for i, d := range dest {
		target := reflect.ValueOf(d)
		if target.Kind() != reflect.Pointer || target.IsNil() {
			return fmt.Errorf("scan: target %d is not a pointer", i)
		}
		elem := target.Elem()
		if values[i] == nil {
			elem.Set(reflect.Zero(elem.Type()))
			continue
		}

		v := reflect.ValueOf(values[i])
		switch {
		case v.Type().AssignableTo(elem.Type()):
			elem.Set(v)
		case elem.Kind() == reflect.Pointer && v.Type().AssignableTo(elem.Type().Elem()):
			p := reflect.New(elem.Type().Elem())
			p.Elem().Set(v)
			elem.Set(p)
		case v.Type().ConvertibleTo(elem.Type()):
			elem.Set(v.Convert(elem.Type()))
		default:
			return fmt.Errorf("scan: cannot assign %s to %s", v.Type(), elem.Type())
		}
	}
	return nil
}
