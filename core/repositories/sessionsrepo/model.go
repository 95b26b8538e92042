package sessionsrepo

import (
	"fmt"
	"time"

	"github.com/jrazmi/eventhub/core/repositories/usersrepo"
)

// Session is a signed-in browser session.
type Session struct {
	ID           string    `db:"id" json:"id"`
	SessionToken string    `db:"session_token" json:"-"`
	UserID       string    `db:"user_id" json:"userId"`
	Expires      time.Time `db:"expires" json:"expires"`
}

// Expired reports whether the session ended before now.
func (s Session) Expired(now time.Time) bool {
	return !s.Expires.After(now)
}

type CreateSession struct {
	ID           string    `json:"id,omitempty"`
	SessionToken string    `json:"sessionToken"`
	UserID       string    `json:"userId"`
	Expires      time.Time `json:"expires"`
}

func (c CreateSession) Validate() error {
	switch {
	case c.SessionToken == "":
		return fmt.Errorf("sessionToken is required")
	case c.UserID == "":
		return fmt.Errorf("userId is required")
	case c.Expires.IsZero():
		return fmt.Errorf("expires is required")
	}
	return nil
}

type UpdateSession struct {
	Expires *time.Time `json:"expires,omitempty"`
}

// SessionAndUser is a session together with the user it belongs to.
type SessionAndUser struct {
	Session Session        `json:"session"`
	User    usersrepo.User `json:"user"`
}
