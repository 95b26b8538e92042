// Package repositories holds what every entity repository shares: the error families
// returned to callers and a generic CRUD repository that entity packages embed.
package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jrazmi/eventhub/core/scaffolding/fop"
	"github.com/jrazmi/eventhub/sdk/logger"
)

// Error families. Store errors are translated into one of these so callers never see
// driver errors.
var (
	ErrNotFound              = errors.New("record not found")
	ErrDuplicate             = errors.New("duplicate record")
	ErrInvalidReference      = errors.New("invalid reference")
	ErrValidation            = errors.New("validation failed")
	ErrUnboundedDelete       = errors.New("delete requires a filter")
	ErrOperationNotSupported = errors.New("operation not supported")
)

// Validationf returns an error in the ErrValidation family.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

type validator interface {
	Validate() error
}

func validate(v any) error {
	if val, ok := v.(validator); ok {
		if err := val.Validate(); err != nil {
			if errors.Is(err, ErrValidation) {
				return err
			}
			return fmt.Errorf("%w: %w", ErrValidation, err)
		}
	}
	return nil
}

// Storer is the CRUD surface every entity store implements. T is the record, C the
// create input, U the partial update input and F the filter.
type Storer[T any, C any, U any, F any] interface {
	Get(ctx context.Context, id string) (T, error)
	First(ctx context.Context, filter F, orderBy fop.By) (T, error)
	List(ctx context.Context, filter F, orderBy fop.By, page fop.PageStringCursor) ([]T, error)
	Count(ctx context.Context, filter F) (int64, error)
	Create(ctx context.Context, input C) (T, error)
	CreateMany(ctx context.Context, inputs []C, skipDuplicates bool) (int64, error)
	Update(ctx context.Context, id string, input U) (T, error)
	UpdateMany(ctx context.Context, filter F, input U) (int64, error)
	Upsert(ctx context.Context, create C, update U) (T, error)
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, filter F) (int64, error)
	Aggregate(ctx context.Context, filter F, spec fop.AggregateSpec) (fop.AggregateResult, error)
	GroupBy(ctx context.Context, by []string, filter F) ([]fop.Group, error)
}

// Repository implements the CRUD surface over a Storer. Inputs implementing
// Validate() error are validated before they reach the store. Entity repositories embed
// it and override methods that need domain rules.
type Repository[T any, C any, U any, F any] struct {
	Log    *logger.Logger
	Entity string
	storer Storer[T, C, U, F]
}

// NewRepository constructs a Repository for the named entity.
func NewRepository[T any, C any, U any, F any](log *logger.Logger, entity string, storer Storer[T, C, U, F]) Repository[T, C, U, F] {
	return Repository[T, C, U, F]{
		Log:    log,
		Entity: entity,
		storer: storer,
	}
}

func (r *Repository[T, C, U, F]) Get(ctx context.Context, id string) (T, error) {
	record, err := r.storer.Get(ctx, id)
	if err != nil {
		return record, fmt.Errorf("get %s %s: %w", r.Entity, id, err)
	}
	return record, nil
}

func (r *Repository[T, C, U, F]) First(ctx context.Context, filter F, orderBy fop.By) (T, error) {
	record, err := r.storer.First(ctx, filter, orderBy)
	if err != nil {
		return record, fmt.Errorf("first %s: %w", r.Entity, err)
	}
	return record, nil
}

func (r *Repository[T, C, U, F]) List(ctx context.Context, filter F, orderBy fop.By, page fop.PageStringCursor) ([]T, error) {
	records, err := r.storer.List(ctx, filter, orderBy, page)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.Entity, err)
	}
	return records, nil
}

func (r *Repository[T, C, U, F]) Count(ctx context.Context, filter F) (int64, error) {
	n, err := r.storer.Count(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", r.Entity, err)
	}
	return n, nil
}

func (r *Repository[T, C, U, F]) Create(ctx context.Context, input C) (T, error) {
	var zero T
	if err := validate(input); err != nil {
		return zero, fmt.Errorf("create %s: %w", r.Entity, err)
	}

	record, err := r.storer.Create(ctx, input)
	if err != nil {
		r.Log.ErrorContext(ctx, "create failed", "entity", r.Entity, "error", err)
		return zero, fmt.Errorf("create %s: %w", r.Entity, err)
	}
	return record, nil
}

func (r *Repository[T, C, U, F]) CreateMany(ctx context.Context, inputs []C, skipDuplicates bool) (int64, error) {
	for i, in := range inputs {
		if err := validate(in); err != nil {
			return 0, fmt.Errorf("create many %s: row %d: %w", r.Entity, i, err)
		}
	}

	n, err := r.storer.CreateMany(ctx, inputs, skipDuplicates)
	if err != nil {
		r.Log.ErrorContext(ctx, "create many failed", "entity", r.Entity, "rows", len(inputs), "error", err)
		return 0, fmt.Errorf("create many %s: %w", r.Entity, err)
	}
	r.Log.InfoContext(ctx, "created many", "entity", r.Entity, "requested", len(inputs), "inserted", n)
	return n, nil
}

func (r *Repository[T, C, U, F]) Update(ctx context.Context, id string, input U) (T, error) {
	var zero T
	if err := validate(input); err != nil {
		return zero, fmt.Errorf("update %s %s: %w", r.Entity, id, err)
	}

	record, err := r.storer.Update(ctx, id, input)
	if err != nil {
		return zero, fmt.Errorf("update %s %s: %w", r.Entity, id, err)
	}
	return record, nil
}

func (r *Repository[T, C, U, F]) UpdateMany(ctx context.Context, filter F, input U) (int64, error) {
	if err := validate(input); err != nil {
		return 0, fmt.Errorf("update many %s: %w", r.Entity, err)
	}

	n, err := r.storer.UpdateMany(ctx, filter, input)
	if err != nil {
		return 0, fmt.Errorf("update many %s: %w", r.Entity, err)
	}
	return n, nil
}

func (r *Repository[T, C, U, F]) Upsert(ctx context.Context, create C, update U) (T, error) {
	var zero T
	if err := validate(create); err != nil {
		return zero, fmt.Errorf("upsert %s: %w", r.Entity, err)
	}
	if err := validate(update); err != nil {
		return zero, fmt.Errorf("upsert %s: %w", r.Entity, err)
	}

	record, err := r.storer.Upsert(ctx, create, update)
	if err != nil {
		r.Log.ErrorContext(ctx, "upsert failed", "entity", r.Entity, "error", err)
		return zero, fmt.Errorf("upsert %s: %w", r.Entity, err)
	}
	return record, nil
}

func (r *Repository[T, C, U, F]) Delete(ctx context.Context, id string) error {
	if err := r.storer.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete %s %s: %w", r.Entity, id, err)
	}
	r.Log.InfoContext(ctx, "deleted", "entity", r.Entity, "id", id)
	return nil
}

func (r *Repository[T, C, U, F]) DeleteMany(ctx context.Context, filter F) (int64, error) {
	n, err := r.storer.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("delete many %s: %w", r.Entity, err)
	}
	r.Log.InfoContext(ctx, "deleted many", "entity", r.Entity, "rows", n)
	return n, nil
}

func (r *Repository[T, C, U, F]) Aggregate(ctx context.Context, filter F, spec fop.AggregateSpec) (fop.AggregateResult, error) {
	result, err := r.storer.Aggregate(ctx, filter, spec)
	if err != nil {
		return fop.AggregateResult{}, fmt.Errorf("aggregate %s: %w", r.Entity, err)
	}
	return result, nil
}

func (r *Repository[T, C, U, F]) GroupBy(ctx context.Context, by []string, filter F) ([]fop.Group, error) {
	groups, err := r.storer.GroupBy(ctx, by, filter)
	if err != nil {
		return nil, fmt.Errorf("group %s: %w", r.Entity, err)
	}
	return groups, nil
}
