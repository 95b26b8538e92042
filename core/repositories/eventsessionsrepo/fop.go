package eventsessionsrepo

import (
	"time"

	"github.com/jrazmi/eventhub/core/scaffolding/fop"
)

type EventSessionFilter struct {
	ID              *string
	IDs             []string
	EventID         *string
	Speaker         *string
	SearchTerm      *string
	StartTimeBefore *time.Time
	StartTimeAfter  *time.Time
	MinCapacity     *int32
	MaxCapacity     *int32
}

const (
	OrderByPK        = "id"
	OrderByTitle     = "title"
	OrderByStartTime = "start_time"
	OrderByEndTime   = "end_time"
	OrderByCapacity  = "capacity"
	OrderByCreatedAt = "created_at"
)

var DefaultOrderBy = fop.NewBy(OrderByStartTime, fop.ASC)

const PKColumn = "id"
