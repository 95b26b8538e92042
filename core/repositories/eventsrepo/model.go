package eventsrepo

import (
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
)

// Event is an organized event that people register for.
type Event struct {
	ID          string     `db:"id" json:"id"`
	UserID      string     `db:"user_id" json:"userId"`
	Title       string     `db:"title" json:"title"`
	Slug        string     `db:"slug" json:"slug"`
	Description *string    `db:"description" json:"description,omitempty"`
	Date        time.Time  `db:"date" json:"date"`
	StartTime   *time.Time `db:"start_time" json:"startTime,omitempty"`
	EndTime     *time.Time `db:"end_time" json:"endTime,omitempty"`
	Location    *string    `db:"location" json:"location,omitempty"`
	BannerImage *string    `db:"banner_image" json:"bannerImage,omitempty"`
	IsPublished bool       `db:"is_published" json:"isPublished"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

// CreateEvent contains fields for creating a new event. A slug is derived from the title
// when none is given.
type CreateEvent struct {
	ID          string     `json:"id,omitempty"`
	UserID      string     `json:"userId"`
	Title       string     `json:"title"`
	Slug        *string    `json:"slug,omitempty"`
	Description *string    `json:"description,omitempty"`
	Date        time.Time  `json:"date"`
	StartTime   *time.Time `json:"startTime,omitempty"`
	EndTime     *time.Time `json:"endTime,omitempty"`
	Location    *string    `json:"location,omitempty"`
	BannerImage *string    `json:"bannerImage,omitempty"`
	IsPublished *bool      `json:"isPublished,omitempty"`
}

func (c CreateEvent) Validate() error {
	if c.UserID == "" {
		return fmt.Errorf("userId is required")
	}
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if c.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if c.Slug != nil && !slug.IsSlug(*c.Slug) {
		return fmt.Errorf("slug %q is invalid", *c.Slug)
	}
	return validateTimes(c.StartTime, c.EndTime)
}

// UpdateEvent contains fields for updating an existing event.
type UpdateEvent struct {
	Title       *string    `json:"title,omitempty"`
	Slug        *string    `json:"slug,omitempty"`
	Description *string    `json:"description,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	StartTime   *time.Time `json:"startTime,omitempty"`
	EndTime     *time.Time `json:"endTime,omitempty"`
	Location    *string    `json:"location,omitempty"`
	BannerImage *string    `json:"bannerImage,omitempty"`
	IsPublished *bool      `json:"isPublished,omitempty"`
}

func (u UpdateEvent) Validate() error {
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return fmt.Errorf("title cannot be empty")
	}
	if u.Slug != nil && !slug.IsSlug(*u.Slug) {
		return fmt.Errorf("slug %q is invalid", *u.Slug)
	}
	return validateTimes(u.StartTime, u.EndTime)
}

func validateTimes(start, end *time.Time) error {
	if start != nil && end != nil && !start.Before(*end) {
		return fmt.Errorf("startTime must be before endTime")
	}
	return nil
}

// EventStats summarizes the activity around one event.
type EventStats struct {
	EventID       string `db:"event_id" json:"eventId"`
	Registrations int64  `db:"registrations" json:"registrations"`
	CheckedIn     int64  `db:"checked_in" json:"checkedIn"`
	Sessions      int64  `db:"sessions" json:"sessions"`
	Sponsors      int64  `db:"sponsors" json:"sponsors"`
}
