// Package eventsessionsrepobridge serves the sessions of an event's agenda.
package eventsessionsrepobridge

import (
	"net/http"

	"github.com/jrazmi/eventhub/bridge/scaffolding/crudbridge"
	"github.com/jrazmi/eventhub/core/repositories/eventsessionsrepo"
	"github.com/jrazmi/eventhub/infrastructure/web"
	"github.com/jrazmi/eventhub/sdk/logger"
)

type Config struct {
	Log        *logger.Logger
	Repository *eventsessionsrepo.Repository
	Middleware []web.Middleware
}

func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := crudbridge.New(crudbridge.Config[eventsessionsrepo.EventSession, eventsessionsrepo.CreateEventSession, eventsessionsrepo.UpdateEventSession, eventsessionsrepo.EventSessionFilter]{
		Repository:   cfg.Repository,
		Resource:     "sessions",
		IDParam:      "session_id",
		OrderFields:  orderByFields,
		DefaultOrder: eventsessionsrepo.DefaultOrderBy,
		PKColumn:     eventsessionsrepo.PKColumn,
		Filter:       parseFilter,
	})

	b.AddRoutes(group, cfg.Middleware...)
	group.GET("/events/{event_id}/sessions", b.List(func(r *http.Request, f *eventsessionsrepo.EventSessionFilter) {
		eventID := web.Param(r, "event_id")
		f.EventID = &eventID
	}), cfg.Middleware...)
}
