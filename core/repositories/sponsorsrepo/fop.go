package sponsorsrepo

import "github.com/jrazmi/eventhub/core/scaffolding/fop"

type SponsorFilter struct {
	ID         *string
	EventID    *string
	Level      *string
	Levels     []string
	Visible    *bool
	SearchTerm *string
}

const (
	OrderByPK        = "id"
	OrderByName      = "name"
	OrderByLevel     = "level"
	OrderByCreatedAt = "created_at"
)

var DefaultOrderBy = fop.NewBy(OrderByName, fop.ASC)

const PKColumn = "id"
