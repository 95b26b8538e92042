package sponsorsrepo

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Sponsor levels, highest first.
const (
	LevelPlatinum = "PLATINUM"
	LevelGold     = "GOLD"
	LevelSilver   = "SILVER"
	LevelBronze   = "BRONZE"
	LevelPartner  = "PARTNER"
)

var Levels = []string{LevelPlatinum, LevelGold, LevelSilver, LevelBronze, LevelPartner}

// Sponsor is an organization backing an event.
type Sponsor struct {
	ID        string    `db:"id" json:"id"`
	EventID   string    `db:"event_id" json:"eventId"`
	Name      string    `db:"name" json:"name"`
	LogoURL   *string   `db:"logo_url" json:"logoUrl,omitempty"`
	Website   *string   `db:"website" json:"website,omitempty"`
	Level     string    `db:"level" json:"level"`
	Visible   bool      `db:"visible" json:"visible"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

type CreateSponsor struct {
	ID      string  `json:"id,omitempty"`
	EventID string  `json:"eventId"`
	Name    string  `json:"name"`
	LogoURL *string `json:"logoUrl,omitempty"`
	Website *string `json:"website,omitempty"`
	Level   *string `json:"level,omitempty"`
	Visible *bool   `json:"visible,omitempty"`
}

func (c CreateSponsor) Validate() error {
	if c.EventID == "" {
		return fmt.Errorf("eventId is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("name is required")
	}
	return validateLevel(c.Level)
}

type UpdateSponsor struct {
	Name    *string `json:"name,omitempty"`
	LogoURL *string `json:"logoUrl,omitempty"`
	Website *string `json:"website,omitempty"`
	Level   *string `json:"level,omitempty"`
	Visible *bool   `json:"visible,omitempty"`
}

func (u UpdateSponsor) Validate() error {
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	return validateLevel(u.Level)
}

func validateLevel(level *string) error {
	if level != nil && !slices.Contains(Levels, *level) {
		return fmt.Errorf("level %q must be one of %s", *level, strings.Join(Levels, ", "))
	}
	return nil
}

// LevelRank orders levels for display; unknown levels sort last.
func LevelRank(level string) int {
	if i := slices.Index(Levels, level); i >= 0 {
		return i
	}
	return len(Levels)
}
