package registrationsrepo

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// Registration is one attendee signed up for an event.
type Registration struct {
	ID           string     `db:"id" json:"id"`
	EventID      string     `db:"event_id" json:"eventId"`
	Name         string     `db:"name" json:"name"`
	Email        string     `db:"email" json:"email"`
	Phone        *string    `db:"phone" json:"phone,omitempty"`
	Organization *string    `db:"organization" json:"organization,omitempty"`
	QRCode       string     `db:"qr_code" json:"qrCode"`
	ShortCode    string     `db:"short_code" json:"shortCode"`
	CheckedIn    bool       `db:"checked_in" json:"checkedIn"`
	CheckedInAt  *time.Time `db:"checked_in_at" json:"checkedInAt,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}

// CreateRegistration contains fields for registering for an event. QRCode and ShortCode
// are issued by the repository when empty.
type CreateRegistration struct {
	ID           string  `json:"id,omitempty"`
	EventID      string  `json:"eventId"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Phone        *string `json:"phone,omitempty"`
	Organization *string `json:"organization,omitempty"`
	QRCode       string  `json:"-"`
	ShortCode    string  `json:"-"`
}

func (c CreateRegistration) Validate() error {
	if c.EventID == "" {
		return fmt.Errorf("eventId is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return fmt.Errorf("email %q is invalid", c.Email)
	}
	return nil
}

// UpdateRegistration contains fields for updating an existing registration.
type UpdateRegistration struct {
	Name         *string    `json:"name,omitempty"`
	Email        *string    `json:"email,omitempty"`
	Phone        *string    `json:"phone,omitempty"`
	Organization *string    `json:"organization,omitempty"`
	CheckedIn    *bool      `json:"checkedIn,omitempty"`
	CheckedInAt  *time.Time `json:"checkedInAt,omitempty"`
}

func (u UpdateRegistration) Validate() error {
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if u.Email != nil {
		if _, err := mail.ParseAddress(*u.Email); err != nil {
			return fmt.Errorf("email %q is invalid", *u.Email)
		}
	}
	return nil
}

// NormalizeEmail lower-cases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
