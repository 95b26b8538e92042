// Package pgxstore is the shared PostgreSQL implementation of the repositories.Storer
// surface. Entity stores embed Store and describe their table with a Mapping.
package pgxstore

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/jrazmi/eventhub/core/repositories"
	"github.com/jrazmi/eventhub/core/scaffolding/fop"
	"github.com/jrazmi/eventhub/infrastructure/postgresdb"
	"github.com/jrazmi/eventhub/sdk/logger"
)

// DB is what a store runs statements against: the pool or a transaction.
type DB interface {
	postgresdb.Querier
	postgresdb.Beginner
}

// Mapping tells Store how an entity maps onto its table.
type Mapping[C any, U any, F any] struct {
	Table postgresdb.Table

	// Conflict is the natural unique key used by Upsert.
	Conflict []string

	// OrderColumns are the columns List and First may sort by. They must be NOT NULL
	// for keyset paging to be exact.
	OrderColumns []string

	// Aggregates maps public field names to columns for Aggregate and GroupBy.
	Aggregates map[string]string
	Numeric    map[string]bool

	Insert func(C) (*postgresdb.Values, error)
	Set    func(U) *postgresdb.Values
	Filter func(*postgresdb.Where, F)
}

// Store implements repositories.Storer for one table.
type Store[T any, C any, U any, F any] struct {
	Log *logger.Logger
	DB  DB
	m   Mapping[C, U, F]
}

// New constructs a Store.
func New[T any, C any, U any, F any](log *logger.Logger, db DB, m Mapping[C, U, F]) Store[T, C, U, F] {
	return Store[T, C, U, F]{
		Log: log,
		DB:  db,
		m:   m,
	}
}

// WithDB returns a copy of the store bound to db, typically a transaction.
func (s Store[T, C, U, F]) WithDB(db DB) Store[T, C, U, F] {
	s.DB = db
	return s
}

// Table returns the table description.
func (s Store[T, C, U, F]) Table() postgresdb.Table {
	return s.m.Table
}

// Where builds the predicate for filter.
func (s Store[T, C, U, F]) Where(filter F) *postgresdb.Where {
	w := postgresdb.NewWhere()
	if s.m.Filter != nil {
		s.m.Filter(w, filter)
	}
	return w
}

func (s Store[T, C, U, F]) order(orderBy fop.By) (string, string, error) {
	column := orderBy.Field
	if column == "" {
		column = s.m.Table.PK
	}
	if column != s.m.Table.PK && !slices.Contains(s.m.OrderColumns, column) {
		return "", "", repositories.Validationf("%s: %s", fop.ErrUnknownOrderField, column)
	}

	direction := orderBy.Direction
	switch direction {
	case "":
		direction = fop.ASC
	case fop.ASC, fop.DESC:
	default:
		return "", "", repositories.Validationf("unknown direction: %s", direction)
	}
	return column, direction, nil
}

func (s Store[T, C, U, F]) Get(ctx context.Context, id string) (T, error) {
	record, err := postgresdb.SelectByPK[T](ctx, s.DB, s.m.Table, id)
	if err != nil {
		return record, StoreError(err)
	}
	return record, nil
}

// GetBy returns the single row where every column equals its value.
func (s Store[T, C, U, F]) GetBy(ctx context.Context, columns map[string]any) (T, error) {
	w := postgresdb.NewWhere()
	keys := make([]string, 0, len(columns))
	for c := range columns {
		keys = append(keys, c)
	}
	slices.Sort(keys)
	for _, c := range keys {
		w.Eq(c, columns[c])
	}

	record, err := postgresdb.SelectOne[T](ctx, s.DB, s.m.Table, postgresdb.Query{Where: w})
	if err != nil {
		return record, StoreError(err)
	}
	return record, nil
}

func (s Store[T, C, U, F]) First(ctx context.Context, filter F, orderBy fop.By) (T, error) {
	var zero T
	column, direction, err := s.order(orderBy)
	if err != nil {
		return zero, err
	}

	record, err := postgresdb.SelectOne[T](ctx, s.DB, s.m.Table, postgresdb.Query{
		Where:     s.Where(filter),
		OrderBy:   column,
		Direction: direction,
	})
	if err != nil {
		return zero, StoreError(err)
	}
	return record, nil
}

func (s Store[T, C, U, F]) List(ctx context.Context, filter F, orderBy fop.By, page fop.PageStringCursor) ([]T, error) {
	column, direction, err := s.order(orderBy)
	if err != nil {
		return nil, err
	}

	w := s.Where(filter)
	cursor, err := fop.DecodeCursor[string, any](page.Cursor)
	if err != nil {
		return nil, repositories.Validationf("cursor: %s", err)
	}
	if cursor != nil {
		w.Keyset(column, s.m.Table.PK, cursor.OrderValue, cursor.PK, direction, false)
	}

	records, err := postgresdb.Select[T](ctx, s.DB, s.m.Table, postgresdb.Query{
		Where:     w,
		OrderBy:   column,
		Direction: direction,
		Limit:     fop.ClampLimit(page.Limit),
	})
	if err != nil {
		return nil, StoreError(err)
	}
	return records, nil
}

// ListAll returns every row matching filter without paging. It backs the foreign key
// list methods used to load relations.
func (s Store[T, C, U, F]) ListAll(ctx context.Context, filter F, orderBy fop.By) ([]T, error) {
	column, direction, err := s.order(orderBy)
	if err != nil {
		return nil, err
	}

	records, err := postgresdb.Select[T](ctx, s.DB, s.m.Table, postgresdb.Query{
		Where:     s.Where(filter),
		OrderBy:   column,
		Direction: direction,
	})
	if err != nil {
		return nil, StoreError(err)
	}
	return records, nil
}

func (s Store[T, C, U, F]) Count(ctx context.Context, filter F) (int64, error) {
	n, err := postgresdb.Count(ctx, s.DB, s.m.Table, s.Where(filter))
	if err != nil {
		return 0, StoreError(err)
	}
	return n, nil
}

func (s Store[T, C, U, F]) Create(ctx context.Context, input C) (T, error) {
	var zero T
	v, err := s.m.Insert(input)
	if err != nil {
		return zero, err
	}

	record, err := postgresdb.Insert[T](ctx, s.DB, s.m.Table, v)
	if err != nil {
		s.Log.ErrorContext(ctx, "insert failed", "table", s.m.Table.Name, "error", err)
		return zero, StoreError(err)
	}
	return record, nil
}

func (s Store[T, C, U, F]) CreateMany(ctx context.Context, inputs []C, skipDuplicates bool) (int64, error) {
	rows := make([]*postgresdb.Values, len(inputs))
	for i, in := range inputs {
		v, err := s.m.Insert(in)
		if err != nil {
			return 0, fmt.Errorf("row %d: %w", i, err)
		}
		rows[i] = v
	}

	n, err := postgresdb.InsertBatch(ctx, s.DB, s.m.Table, rows, skipDuplicates)
	if err != nil {
		return 0, StoreError(err)
	}
	return n, nil
}

func (s Store[T, C, U, F]) Update(ctx context.Context, id string, input U) (T, error) {
	record, err := postgresdb.UpdateByPK[T](ctx, s.DB, s.m.Table, id, s.m.Set(input))
	if err != nil {
		return record, StoreError(err)
	}
	return record, nil
}

func (s Store[T, C, U, F]) UpdateMany(ctx context.Context, filter F, input U) (int64, error) {
	n, err := postgresdb.UpdateWhere(ctx, s.DB, s.m.Table, s.Where(filter), s.m.Set(input))
	if err != nil {
		return 0, StoreError(err)
	}
	return n, nil
}

func (s Store[T, C, U, F]) Upsert(ctx context.Context, create C, update U) (T, error) {
	var zero T
	v, err := s.m.Insert(create)
	if err != nil {
		return zero, err
	}

	record, err := postgresdb.Upsert[T](ctx, s.DB, s.m.Table, s.m.Conflict, v, s.m.Set(update))
	if err != nil {
		return zero, StoreError(err)
	}
	return record, nil
}

func (s Store[T, C, U, F]) Delete(ctx context.Context, id string) error {
	if err := postgresdb.DeleteByPK(ctx, s.DB, s.m.Table, id); err != nil {
		return StoreError(err)
	}
	return nil
}

func (s Store[T, C, U, F]) DeleteMany(ctx context.Context, filter F) (int64, error) {
	n, err := postgresdb.DeleteWhere(ctx, s.DB, s.m.Table, s.Where(filter))
	if err != nil {
		return 0, StoreError(err)
	}
	return n, nil
}

func (s Store[T, C, U, F]) Aggregate(ctx context.Context, filter F, spec fop.AggregateSpec) (fop.AggregateResult, error) {
	resolved, err := spec.Resolve(s.m.Aggregates, s.m.Numeric)
	if err != nil {
		return fop.AggregateResult{}, fmt.Errorf("%w: %w", repositories.ErrValidation, err)
	}

	result, err := postgresdb.Aggregate(ctx, s.DB, s.m.Table, s.Where(filter), resolved)
	if err != nil {
		return fop.AggregateResult{}, StoreError(err)
	}
	return result, nil
}

func (s Store[T, C, U, F]) GroupBy(ctx context.Context, by []string, filter F) ([]fop.Group, error) {
	columns, err := fop.ResolveGroupBy(by, s.m.Aggregates)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", repositories.ErrValidation, err)
	}

	groups, err := postgresdb.GroupCount(ctx, s.DB, s.m.Table, columns, s.Where(filter))
	if err != nil {
		return nil, StoreError(err)
	}
	return groups, nil
}

// StoreError translates postgresdb errors into the repositories error families. The
// original error stays in the chain.
func StoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, postgresdb.ErrDBNotFound):
		return fmt.Errorf("%w: %w", repositories.ErrNotFound, err)
	case errors.Is(err, postgresdb.ErrDBDuplicatedEntry):
		return fmt.Errorf("%w: %w", repositories.ErrDuplicate, err)
	case errors.Is(err, postgresdb.ErrDBForeignKey):
		return fmt.Errorf("%w: %w", repositories.ErrInvalidReference, err)
	case errors.Is(err, postgresdb.ErrDBConstraint),
		errors.Is(err, postgresdb.ErrNoFields),
		errors.Is(err, fop.ErrUnknownOrderField):
		return fmt.Errorf("%w: %w", repositories.ErrValidation, err)
	case errors.Is(err, postgresdb.ErrNoPredicate):
		return fmt.Errorf("%w: %w", repositories.ErrUnboundedDelete, err)
	}
	return err
}
