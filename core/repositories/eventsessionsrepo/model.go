package eventsessionsrepo

import (
	"fmt"
	"strings"
	"time"
)

// EventSession is a talk or workshop slot inside an event. Capacity 0 means unlimited.
type EventSession struct {
	ID          string    `db:"id" json:"id"`
	EventID     string    `db:"event_id" json:"eventId"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description,omitempty"`
	Speaker     *string   `db:"speaker" json:"speaker,omitempty"`
	Location    *string   `db:"location" json:"location,omitempty"`
	StartTime   time.Time `db:"start_time" json:"startTime"`
	EndTime     time.Time `db:"end_time" json:"endTime"`
	Capacity    int32     `db:"capacity" json:"capacity"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// Unlimited reports whether the session accepts any number of participants.
func (s EventSession) Unlimited() bool {
	return s.Capacity == 0
}

type CreateEventSession struct {
	ID          string    `json:"id,omitempty"`
	EventID     string    `json:"eventId"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Speaker     *string   `json:"speaker,omitempty"`
	Location    *string   `json:"location,omitempty"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Capacity    *int32    `json:"capacity,omitempty"`
}

func (c CreateEventSession) Validate() error {
	if c.EventID == "" {
		return fmt.Errorf("eventId is required")
	}
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if c.StartTime.IsZero() || c.EndTime.IsZero() {
		return fmt.Errorf("startTime and endTime are required")
	}
	if !c.StartTime.Before(c.EndTime) {
		return fmt.Errorf("startTime must be before endTime")
	}
	return validateCapacity(c.Capacity)
}

type UpdateEventSession struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Speaker     *string    `json:"speaker,omitempty"`
	Location    *string    `json:"location,omitempty"`
	StartTime   *time.Time `json:"startTime,omitempty"`
	EndTime     *time.Time `json:"endTime,omitempty"`
	Capacity    *int32     `json:"capacity,omitempty"`
}

// Validate checks the fields in isolation. A new start or end is checked against the
// stored row by the database.
func (u UpdateEventSession) Validate() error {
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return fmt.Errorf("title cannot be empty")
	}
	if u.StartTime != nil && u.EndTime != nil && !u.StartTime.Before(*u.EndTime) {
		return fmt.Errorf("startTime must be before endTime")
	}
	return validateCapacity(u.Capacity)
}

func validateCapacity(c *int32) error {
	if c != nil && *c < 0 {
		return fmt.Errorf("capacity must be zero or greater")
	}
	return nil
}
