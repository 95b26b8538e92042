package sessionparticipantsrepo

import "github.com/jrazmi/eventhub/core/scaffolding/fop"

type SessionParticipantFilter struct {
	ID             *string
	SessionID      *string
	SessionIDs     []string
	ParticipantID  *string
	ParticipantIDs []string
	Attended       *bool
}

const (
	OrderByPK        = "id"
	OrderByAttended  = "attended"
	OrderByCreatedAt = "created_at"
)

var DefaultOrderBy = fop.NewBy(OrderByCreatedAt, fop.ASC)

const PKColumn = "id"
