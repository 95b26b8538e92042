// Package eventsrepobridge serves events, their detail view and their statistics.
package eventsrepobridge

import (
	"context"
	"net/http"

	"github.com/jrazmi/eventhub/bridge/scaffolding/crudbridge"
	"github.com/jrazmi/eventhub/bridge/scaffolding/errs"
	"github.com/jrazmi/eventhub/bridge/scaffolding/fopbridge"
	"github.com/jrazmi/eventhub/core/repositories/eventsrepo"
	"github.com/jrazmi/eventhub/core/usecases/eventuc"
	"github.com/jrazmi/eventhub/infrastructure/web"
	"github.com/jrazmi/eventhub/sdk/logger"
)

type Config struct {
	Log        *logger.Logger
	Repository *eventsrepo.Repository
	UseCase    *eventuc.UseCase
	Middleware []web.Middleware
}

type bridge struct {
	*crudbridge.Bridge[eventsrepo.Event, eventsrepo.CreateEvent, eventsrepo.UpdateEvent, eventsrepo.EventFilter]
	repository *eventsrepo.Repository
	useCase    *eventuc.UseCase
}

// AddHttpRoutes registers the event routes. /slugs/{slug} resolves a public event page.
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := &bridge{
		Bridge: crudbridge.New(crudbridge.Config[eventsrepo.Event, eventsrepo.CreateEvent, eventsrepo.UpdateEvent, eventsrepo.EventFilter]{
			Repository:   cfg.Repository,
			Resource:     "events",
			IDParam:      "event_id",
			OrderFields:  orderByFields,
			DefaultOrder: eventsrepo.DefaultOrderBy,
			PKColumn:     eventsrepo.PKColumn,
			Filter:       parseFilter,
		}),
		repository: cfg.Repository,
		useCase:    cfg.UseCase,
	}

	mw := cfg.Middleware
	b.AddRoutes(group, mw...)
	group.GET("/events/{event_id}/stats", b.httpStats, mw...)
	group.GET("/events/{event_id}/detail", b.httpDetail, mw...)
	group.GET("/slugs/{slug}", b.httpDetailBySlug, mw...)
	group.GET("/users/{user_id}/events", b.List(func(r *http.Request, f *eventsrepo.EventFilter) {
		userID := web.Param(r, "user_id")
		f.UserID = &userID
	}), mw...)
}

func (b *bridge) httpStats(ctx context.Context, r *http.Request) web.Encoder {
	stats, err := b.repository.Stats(ctx, web.Param(r, "event_id"))
	if err != nil {
		return b.Error(err)
	}
	return fopbridge.NewRecordResponse(stats)
}

func (b *bridge) httpDetail(ctx context.Context, r *http.Request) web.Encoder {
	if b.useCase == nil {
		return errs.Newf(errs.Unimplemented, "event detail is not configured")
	}
	detail, err := b.useCase.EventDetail(ctx, web.Param(r, "event_id"))
	if err != nil {
		return b.Error(err)
	}
	return fopbridge.NewRecordResponse(detail)
}

func (b *bridge) httpDetailBySlug(ctx context.Context, r *http.Request) web.Encoder {
	if b.useCase == nil {
		return errs.Newf(errs.Unimplemented, "event detail is not configured")
	}
	detail, err := b.useCase.EventDetailBySlug(ctx, web.Param(r, "slug"))
	if err != nil {
		return b.Error(err)
	}
	return fopbridge.NewRecordResponse(detail)
}
