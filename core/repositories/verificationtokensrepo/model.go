package verificationtokensrepo

import (
	"fmt"
	"time"
)

// VerificationToken is a single-use token sent to an identifier, usually an email
// address, to complete passwordless sign in.
type VerificationToken struct {
	Identifier string    `db:"identifier" json:"identifier"`
	Token      string    `db:"token" json:"-"`
	Expires    time.Time `db:"expires" json:"expires"`
}

type CreateVerificationToken struct {
	Identifier string    `json:"identifier"`
	Token      string    `json:"token"`
	Expires    time.Time `json:"expires"`
}

func (c CreateVerificationToken) Validate() error {
	switch {
	case c.Identifier == "":
		return fmt.Errorf("identifier is required")
	case c.Token == "":
		return fmt.Errorf("token is required")
	case c.Expires.IsZero():
		return fmt.Errorf("expires is required")
	}
	return nil
}

type UpdateVerificationToken struct {
	Expires *time.Time `json:"expires,omitempty"`
}
