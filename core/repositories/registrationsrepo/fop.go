package registrationsrepo

import (
	"time"

	"github.com/jrazmi/eventhub/core/scaffolding/fop"
)

// RegistrationFilter holds the available fields a query can be filtered on.
type RegistrationFilter struct {
	ID              *string
	IDs             []string
	EventID         *string
	Email           *string
	QRCode          *string
	ShortCode       *string
	CheckedIn       *bool
	SearchTerm      *string
	CreatedAtBefore *time.Time
	CreatedAtAfter  *time.Time
}

// Order fields.
const (
	OrderByPK        = "id"
	OrderByName      = "name"
	OrderByEmail     = "email"
	OrderByCheckedIn = "checked_in"
	OrderByCreatedAt = "created_at"
)

var DefaultOrderBy = fop.NewBy(OrderByCreatedAt, fop.ASC)

const PKColumn = "id"
