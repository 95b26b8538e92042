package sessionparticipantsrepobridge

import (
	"github.com/jrazmi/eventhub/bridge/scaffolding/fopbridge"
	"github.com/jrazmi/eventhub/core/repositories/sessionparticipantsrepo"
)

var orderByFields = map[string]string{
	"id":        sessionparticipantsrepo.OrderByPK,
	"attended":  sessionparticipantsrepo.OrderByAttended,
	"createdAt": sessionparticipantsrepo.OrderByCreatedAt,
}

func parseFilter(q *fopbridge.Query) sessionparticipantsrepo.SessionParticipantFilter {
	return sessionparticipantsrepo.SessionParticipantFilter{
		SessionID:      q.String("sessionId"),
		SessionIDs:     q.Strings("sessionIds"),
		ParticipantID:  q.String("participantId"),
		ParticipantIDs: q.Strings("participantIds"),
		Attended:       q.Bool("attended"),
	}
}
