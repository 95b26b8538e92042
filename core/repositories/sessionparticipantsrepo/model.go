package sessionparticipantsrepo

import (
	"fmt"
	"time"
)

// SessionParticipant records that a registration joined an event session.
type SessionParticipant struct {
	ID            string     `db:"id" json:"id"`
	SessionID     string     `db:"session_id" json:"sessionId"`
	ParticipantID string     `db:"participant_id" json:"participantId"`
	Attended      bool       `db:"attended" json:"attended"`
	AttendedAt    *time.Time `db:"attended_at" json:"attendedAt,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
}

type CreateSessionParticipant struct {
	ID            string `json:"id,omitempty"`
	SessionID     string `json:"sessionId"`
	ParticipantID string `json:"participantId"`
}

func (c CreateSessionParticipant) Validate() error {
	switch {
	case c.SessionID == "":
		return fmt.Errorf("sessionId is required")
	case c.ParticipantID == "":
		return fmt.Errorf("participantId is required")
	}
	return nil
}

type UpdateSessionParticipant struct {
	Attended   *bool      `json:"attended,omitempty"`
	AttendedAt *time.Time `json:"attendedAt,omitempty"`
}

// JoinTarget is the locked view of a session that Join decides against.
type JoinTarget struct {
	SessionID string
	EventID   string
	Capacity  int32
	Joined    int64
}
