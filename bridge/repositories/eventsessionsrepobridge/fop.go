package eventsessionsrepobridge

import (
	"github.com/jrazmi/eventhub/bridge/scaffolding/fopbridge"
	"github.com/jrazmi/eventhub/core/repositories/eventsessionsrepo"
)

var orderByFields = map[string]string{
	"id":        eventsessionsrepo.OrderByPK,
	"title":     eventsessionsrepo.OrderByTitle,
	"startTime": eventsessionsrepo.OrderByStartTime,
	"endTime":   eventsessionsrepo.OrderByEndTime,
	"capacity":  eventsessionsrepo.OrderByCapacity,
	"createdAt": eventsessionsrepo.OrderByCreatedAt,
}

func parseFilter(q *fopbridge.Query) eventsessionsrepo.EventSessionFilter {
	return eventsessionsrepo.EventSessionFilter{
		IDs:             q.Strings("ids"),
		EventID:         q.String("eventId"),
		Speaker:         q.String("speaker"),
		SearchTerm:      q.String("searchTerm"),
		StartTimeBefore: q.Time("startTimeBefore"),
		StartTimeAfter:  q.Time("startTimeAfter"),
		MinCapacity:     q.Int32("minCapacity"),
		MaxCapacity:     q.Int32("maxCapacity"),
	}
}
