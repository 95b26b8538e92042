package sponsorsrepobridge

import (
	"github.com/jrazmi/eventhub/bridge/scaffolding/fopbridge"
	"github.com/jrazmi/eventhub/core/repositories/sponsorsrepo"
)

var orderByFields = map[string]string{
	"id":        sponsorsrepo.OrderByPK,
	"name":      sponsorsrepo.OrderByName,
	"level":     sponsorsrepo.OrderByLevel,
	"createdAt": sponsorsrepo.OrderByCreatedAt,
}

func parseFilter(q *fopbridge.Query) sponsorsrepo.SponsorFilter {
	return sponsorsrepo.SponsorFilter{
		EventID:    q.String("eventId"),
		Level:      q.String("level"),
		Levels:     q.Strings("levels"),
		Visible:    q.Bool("visible"),
		SearchTerm: q.String("searchTerm"),
	}
}
