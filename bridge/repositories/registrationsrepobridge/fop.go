package registrationsrepobridge

import (
	"github.com/jrazmi/eventhub/bridge/scaffolding/fopbridge"
	"github.com/jrazmi/eventhub/core/repositories/registrationsrepo"
)

var orderByFields = map[string]string{
	"id":        registrationsrepo.OrderByPK,
	"name":      registrationsrepo.OrderByName,
	"email":     registrationsrepo.OrderByEmail,
	"checkedIn": registrationsrepo.OrderByCheckedIn,
	"createdAt": registrationsrepo.OrderByCreatedAt,
}

func parseFilter(q *fopbridge.Query) registrationsrepo.RegistrationFilter {
	return registrationsrepo.RegistrationFilter{
		IDs:             q.Strings("ids"),
		EventID:         q.String("eventId"),
		Email:           q.String("email"),
		CheckedIn:       q.Bool("checkedIn"),
		SearchTerm:      q.String("searchTerm"),
		CreatedAtBefore: q.Time("createdAtBefore"),
		CreatedAtAfter:  q.Time("createdAtAfter"),
	}
}
