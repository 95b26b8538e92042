package sessionsrepo

import (
	"time"

	"github.com/jrazmi/eventhub/core/scaffolding/fop"
)

type SessionFilter struct {
	ID            *string
	UserID        *string
	SessionToken  *string
	ExpiresBefore *time.Time
	ExpiresAfter  *time.Time
}

const (
	OrderByPK      = "id"
	OrderByExpires = "expires"
)

var DefaultOrderBy = fop.NewBy(OrderByExpires, fop.DESC)

const PKColumn = "id"
