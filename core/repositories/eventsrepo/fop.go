package eventsrepo

import (
	"time"

	"github.com/jrazmi/eventhub/core/scaffolding/fop"
)

// EventFilter holds the available fields a query can be filtered on.
type EventFilter struct {
	ID          *string
	IDs         []string
	ExcludeIDs  []string
	UserID      *string
	Slug        *string
	IsPublished *bool
	SearchTerm  *string
	DateBefore  *time.Time
	DateAfter   *time.Time
}

// Order fields.
const (
	OrderByPK        = "id"
	OrderByTitle     = "title"
	OrderBySlug      = "slug"
	OrderByDate      = "date"
	OrderByCreatedAt = "created_at"
	OrderByUpdatedAt = "updated_at"
)

// DefaultOrderBy lists upcoming events first.
var DefaultOrderBy = fop.NewBy(OrderByDate, fop.ASC)

const PKColumn = "id"
