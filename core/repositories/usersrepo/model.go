package usersrepo

import (
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"time"
)

// Roles a user can hold.
const (
	RoleUser      = "USER"
	RoleOrganizer = "ORGANIZER"
	RoleAdmin     = "ADMIN"
)

var Roles = []string{RoleUser, RoleOrganizer, RoleAdmin}

// User is a person who can sign in, organize events and register for them.
type User struct {
	ID            string     `db:"id" json:"id"`
	Name          *string    `db:"name" json:"name,omitempty"`
	Email         string     `db:"email" json:"email"`
	EmailVerified *time.Time `db:"email_verified" json:"emailVerified,omitempty"`
	Image         *string    `db:"image" json:"image,omitempty"`
	Role          string     `db:"role" json:"role"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updatedAt"`
}

// CreateUser contains fields for creating a new user. ID is generated when empty and
// Role defaults to USER.
type CreateUser struct {
	ID            string     `json:"id,omitempty"`
	Name          *string    `json:"name,omitempty"`
	Email         string     `json:"email"`
	EmailVerified *time.Time `json:"emailVerified,omitempty"`
	Image         *string    `json:"image,omitempty"`
	Role          *string    `json:"role,omitempty"`
}

func (c CreateUser) Validate() error {
	if err := validateEmail(c.Email); err != nil {
		return err
	}
	if c.Role != nil {
		return validateRole(*c.Role)
	}
	return nil
}

// UpdateUser contains fields for updating an existing user.
// All fields are optional (pointers) to support partial updates.
type UpdateUser struct {
	Name          *string    `json:"name,omitempty"`
	Email         *string    `json:"email,omitempty"`
	EmailVerified *time.Time `json:"emailVerified,omitempty"`
	Image         *string    `json:"image,omitempty"`
	Role          *string    `json:"role,omitempty"`
}

func (u UpdateUser) Validate() error {
	if u.Email != nil {
		if err := validateEmail(*u.Email); err != nil {
			return err
		}
	}
	if u.Role != nil {
		return validateRole(*u.Role)
	}
	return nil
}

// NormalizeEmail lower-cases and trims an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("email %q is invalid", email)
	}
	return nil
}

func validateRole(role string) error {
	if !slices.Contains(Roles, role) {
		return fmt.Errorf("role %q must be one of %s", role, strings.Join(Roles, ", "))
	}
	return nil
}
