package accountsrepo

import "github.com/jrazmi/eventhub/core/scaffolding/fop"

type AccountFilter struct {
	ID                *string
	UserID            *string
	UserIDs           []string
	Type              *string
	Provider          *string
	ProviderAccountID *string
}

const (
	OrderByPK       = "id"
	OrderByProvider = "provider"
	OrderByUserID   = "user_id"
)

var DefaultOrderBy = fop.NewBy(OrderByProvider, fop.ASC)

const PKColumn = "id"
