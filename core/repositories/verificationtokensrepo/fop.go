package verificationtokensrepo

import (
	"time"

	"github.com/jrazmi/eventhub/core/scaffolding/fop"
)

type VerificationTokenFilter struct {
	Identifier    *string
	Token         *string
	ExpiresBefore *time.Time
	ExpiresAfter  *time.Time
}

const (
	OrderByPK         = "token"
	OrderByIdentifier = "identifier"
	OrderByExpires    = "expires"
)

var DefaultOrderBy = fop.NewBy(OrderByExpires, fop.ASC)

const PKColumn = "token"
