package eventsrepobridge

import (
	"github.com/jrazmi/eventhub/bridge/scaffolding/fopbridge"
	"github.com/jrazmi/eventhub/core/repositories/eventsrepo"
)

var orderByFields = map[string]string{
	"id":        eventsrepo.OrderByPK,
	"title":     eventsrepo.OrderByTitle,
	"slug":      eventsrepo.OrderBySlug,
	"date":      eventsrepo.OrderByDate,
	"createdAt": eventsrepo.OrderByCreatedAt,
	"updatedAt": eventsrepo.OrderByUpdatedAt,
}

func parseFilter(q *fopbridge.Query) eventsrepo.EventFilter {
	return eventsrepo.EventFilter{
		IDs:         q.Strings("ids"),
		ExcludeIDs:  q.Strings("excludeIds"),
		UserID:      q.String("userId"),
		Slug:        q.String("slug"),
		IsPublished: q.Bool("isPublished"),
		SearchTerm:  q.String("searchTerm"),
		DateBefore:  q.Time("dateBefore"),
		DateAfter:   q.Time("dateAfter"),
	}
}
