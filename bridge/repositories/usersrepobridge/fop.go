package usersrepobridge

import (
	"github.com/jrazmi/eventhub/bridge/scaffolding/fopbridge"
	"github.com/jrazmi/eventhub/core/repositories/usersrepo"
)

var orderByFields = map[string]string{
	"id":        usersrepo.OrderByPK,
	"email":     usersrepo.OrderByEmail,
	"role":      usersrepo.OrderByRole,
	"createdAt": usersrepo.OrderByCreatedAt,
	"updatedAt": usersrepo.OrderByUpdatedAt,
}

func parseFilter(q *fopbridge.Query) usersrepo.UserFilter {
	return usersrepo.UserFilter{
		IDs:              q.Strings("ids"),
		Email:            q.String("email"),
		Role:             q.String("role"),
		Roles:            q.Strings("roles"),
		ExcludeRole:      q.String("excludeRole"),
		SearchTerm:       q.String("searchTerm"),
		HasEmailVerified: q.Bool("hasEmailVerified"),
		CreatedAtBefore:  q.Time("createdAtBefore"),
		CreatedAtAfter:   q.Time("createdAtAfter"),
	}
}
