// Package crudbridge exposes a repository's CRUD surface over HTTP. Entity bridges
// configure it with their filter parsing and ordering whitelist and add their own
// routes next to the generic ones.
package crudbridge

import (
	"context"
	"net/http"

	"github.com/jrazmi/eventhub/bridge/scaffolding/errs"
	"github.com/jrazmi/eventhub/bridge/scaffolding/fopbridge"
	"github.com/jrazmi/eventhub/core/scaffolding/fop"
	"github.com/jrazmi/eventhub/infrastructure/web"
)

// Repository is the part of a repository the generic routes call.
type Repository[T any, C any, U any, F any] interface {
	Get(ctx context.Context, id string) (T, error)
	List(ctx context.Context, filter F, orderBy fop.By, page fop.PageStringCursor) ([]T, error)
	Count(ctx context.Context, filter F) (int64, error)
	Create(ctx context.Context, input C) (T, error)
	Update(ctx context.Context, id string, input U) (T, error)
	Delete(ctx context.Context, id string) error
	Aggregate(ctx context.Context, filter F, spec fop.AggregateSpec) (fop.AggregateResult, error)
	GroupBy(ctx context.Context, by []string, filter F) ([]fop.Group, error)
}

// Config describes one resource.
type Config[T any, C any, U any, F any] struct {
	Repository Repository[T, C, U, F]

	// Resource is the collection path segment, e.g. "events".
	Resource string

	// IDParam names the record id wildcard, e.g. "event_id".
	IDParam string

	// OrderFields maps public order names to order columns.
	OrderFields  map[string]string
	DefaultOrder fop.By
	PKColumn     string

	// NoCreate leaves out POST on the collection for resources created through their
	// own routes.
	NoCreate bool

	// Filter builds the repository filter from the query string.
	Filter func(q *fopbridge.Query) F

	// Errors maps domain errors. It returns nil for errors it does not know.
	Errors func(err error) *errs.Error
}

// Bridge serves the generic routes for one resource.
type Bridge[T any, C any, U any, F any] struct {
	cfg Config[T, C, U, F]
}

func New[T any, C any, U any, F any](cfg Config[T, C, U, F]) *Bridge[T, C, U, F] {
	if cfg.PKColumn == "" {
		cfg.PKColumn = "id"
	}
	if cfg.Filter == nil {
		cfg.Filter = func(*fopbridge.Query) F {
			var zero F
			return zero
		}
	}
	return &Bridge[T, C, U, F]{cfg: cfg}
}

// AddRoutes registers list, count, aggregate, groups, get, create, update and delete.
// PUT and PATCH both apply a partial update. Create is skipped when NoCreate is set.
func (b *Bridge[T, C, U, F]) AddRoutes(group *web.RouteGroup, middleware ...web.Middleware) {
	base := "/" + b.cfg.Resource
	item := base + "/{" + b.cfg.IDParam + "}"

	group.GET(base, b.List(nil), middleware...)
	group.GET(base+"/count", b.Count, middleware...)
	group.GET(base+"/aggregate", b.Aggregate, middleware...)
	group.GET(base+"/groups", b.Groups, middleware...)
	group.GET(item, b.Get, middleware...)
	if !b.cfg.NoCreate {
		group.POST(base, b.Create, middleware...)
	}
	group.PUT(item, b.Update, middleware...)
	group.PATCH(item, b.Update, middleware...)
	group.DELETE(item, b.Delete, middleware...)
}

// Error maps err through the configured domain mapping and then the repository
// families.
func (b *Bridge[T, C, U, F]) Error(err error) *errs.Error {
	if b.cfg.Errors != nil {
		if appErr := b.cfg.Errors(err); appErr != nil {
			return appErr
		}
	}
	return errs.FromRepository(err)
}

// List returns a handler for the paged list. scope, when set, narrows the filter from
// the path, which is how nested collections such as /events/{event_id}/sessions are
// served.
func (b *Bridge[T, C, U, F]) List(scope func(r *http.Request, filter *F)) web.HandlerFunc {
	return func(ctx context.Context, r *http.Request) web.Encoder {
		q := fopbridge.NewQuery(r)
		filter := b.cfg.Filter(q)
		orderBy := q.Order(b.cfg.OrderFields, b.cfg.DefaultOrder)
		page := q.Page()
		if err := q.Err(); err != nil {
			return err
		}
		if scope != nil {
			scope(r, &filter)
		}

		records, err := b.cfg.Repository.List(ctx, filter, orderBy, page)
		if err != nil {
			return b.Error(err)
		}

		resp, err := fopbridge.NewPaginatedResponse(records, page, orderBy.Field, b.cfg.PKColumn)
		if err != nil {
			return errs.New(errs.Internal, err)
		}
		return resp
	}
}

func (b *Bridge[T, C, U, F]) Count(ctx context.Context, r *http.Request) web.Encoder {
	q := fopbridge.NewQuery(r)
	filter := b.cfg.Filter(q)
	if err := q.Err(); err != nil {
		return err
	}

	n, err := b.cfg.Repository.Count(ctx, filter)
	if err != nil {
		return b.Error(err)
	}
	return fopbridge.CountResponse{Count: n}
}

func (b *Bridge[T, C, U, F]) Aggregate(ctx context.Context, r *http.Request) web.Encoder {
	q := fopbridge.NewQuery(r)
	filter := b.cfg.Filter(q)
	spec := q.Aggregate()
	if err := q.Err(); err != nil {
		return err
	}

	result, err := b.cfg.Repository.Aggregate(ctx, filter, spec)
	if err != nil {
		return b.Error(err)
	}
	return fopbridge.AggregateResponse{AggregateResult: result}
}

func (b *Bridge[T, C, U, F]) Groups(ctx context.Context, r *http.Request) web.Encoder {
	q := fopbridge.NewQuery(r)
	filter := b.cfg.Filter(q)
	by := q.GroupBy()
	if err := q.Err(); err != nil {
		return err
	}

	groups, err := b.cfg.Repository.GroupBy(ctx, by, filter)
	if err != nil {
		return b.Error(err)
	}
	return fopbridge.GroupsResponse{Groups: groups}
}

func (b *Bridge[T, C, U, F]) Get(ctx context.Context, r *http.Request) web.Encoder {
	record, err := b.cfg.Repository.Get(ctx, web.Param(r, b.cfg.IDParam))
	if err != nil {
		return b.Error(err)
	}
	return fopbridge.NewRecordResponse(record)
}

func (b *Bridge[T, C, U, F]) Create(ctx context.Context, r *http.Request) web.Encoder {
	var input C
	if err := web.Decode(r, &input); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	record, err := b.cfg.Repository.Create(ctx, input)
	if err != nil {
		return b.Error(err)
	}
	return fopbridge.NewCreatedResponse(record)
}

func (b *Bridge[T, C, U, F]) Update(ctx context.Context, r *http.Request) web.Encoder {
	var input U
	if err := web.Decode(r, &input); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	record, err := b.cfg.Repository.Update(ctx, web.Param(r, b.cfg.IDParam), input)
	if err != nil {
		return b.Error(err)
	}
	return fopbridge.NewRecordResponse(record)
}

func (b *Bridge[T, C, U, F]) Delete(ctx context.Context, r *http.Request) web.Encoder {
	if err := b.cfg.Repository.Delete(ctx, web.Param(r, b.cfg.IDParam)); err != nil {
		return b.Error(err)
	}
	return nil
}
