// Package sponsorsrepobridge serves event sponsors.
package sponsorsrepobridge

import (
	"context"
	"net/http"

	"github.com/jrazmi/eventhub/bridge/scaffolding/crudbridge"
	"github.com/jrazmi/eventhub/bridge/scaffolding/fopbridge"
	"github.com/jrazmi/eventhub/core/repositories/sponsorsrepo"
	"github.com/jrazmi/eventhub/infrastructure/web"
	"github.com/jrazmi/eventhub/sdk/logger"
)

type Config struct {
	Log        *logger.Logger
	Repository *sponsorsrepo.Repository
	Middleware []web.Middleware
}

type bridge struct {
	*crudbridge.Bridge[sponsorsrepo.Sponsor, sponsorsrepo.CreateSponsor, sponsorsrepo.UpdateSponsor, sponsorsrepo.SponsorFilter]
	repository *sponsorsrepo.Repository
}

// AddHttpRoutes registers the admin CRUD routes and the public per-event list, which
// holds only visible sponsors in display order.
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := &bridge{
		Bridge: crudbridge.New(crudbridge.Config[sponsorsrepo.Sponsor, sponsorsrepo.CreateSponsor, sponsorsrepo.UpdateSponsor, sponsorsrepo.SponsorFilter]{
			Repository:   cfg.Repository,
			Resource:     "sponsors",
			IDParam:      "sponsor_id",
			OrderFields:  orderByFields,
			DefaultOrder: sponsorsrepo.DefaultOrderBy,
			PKColumn:     sponsorsrepo.PKColumn,
			Filter:       parseFilter,
		}),
		repository: cfg.Repository,
	}

	b.AddRoutes(group, cfg.Middleware...)
	group.GET("/events/{event_id}/sponsors", b.httpVisible, cfg.Middleware...)
}

func (b *bridge) httpVisible(ctx context.Context, r *http.Request) web.Encoder {
	sponsors, err := b.repository.ListVisibleByEventID(ctx, web.Param(r, "event_id"))
	if err != nil {
		return b.Error(err)
	}
	return fopbridge.NewRecordsResponse(sponsors)
}
