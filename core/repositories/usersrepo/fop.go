package usersrepo

import (
	"time"

	"github.com/jrazmi/eventhub/core/scaffolding/fop"
)

// UserFilter holds the available fields a query can be filtered on.
type UserFilter struct {
	ID               *string
	IDs              []string
	Email            *string
	Role             *string
	Roles            []string
	ExcludeRole      *string
	SearchTerm       *string
	HasEmailVerified *bool
	CreatedAtBefore  *time.Time
	CreatedAtAfter   *time.Time
}

// Order fields.
const (
	OrderByPK        = "id"
	OrderByEmail     = "email"
	OrderByRole      = "role"
	OrderByCreatedAt = "created_at"
	OrderByUpdatedAt = "updated_at"
)

// DefaultOrderBy lists the newest users first.
var DefaultOrderBy = fop.NewBy(OrderByCreatedAt, fop.DESC)

// PKColumn is the primary key column, used as the cursor tie-breaker.
const PKColumn = "id"
