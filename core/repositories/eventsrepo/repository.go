package eventsrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/gosimple/slug"
	"github.com/jrazmi/eventhub/core/repositories"
	"github.com/jrazmi/eventhub/sdk/logger"
)

// slugAttempts bounds how often Create retries after losing a slug race.
const slugAttempts = 3

// Storer defines the data storage interface for Event.
type Storer interface {
	repositories.Storer[Event, CreateEvent, UpdateEvent, EventFilter]
	GetBySlug(ctx context.Context, slug string) (Event, error)
	ListByUserID(ctx context.Context, userID string) ([]Event, error)
	SlugsWithPrefix(ctx context.Context, base string) ([]string, error)
	Stats(ctx context.Context, eventID string) (EventStats, error)
}

// Repository provides access to event storage.
type Repository struct {
	repositories.Repository[Event, CreateEvent, UpdateEvent, EventFilter]
	log    *logger.Logger
	storer Storer
}

// NewRepository creates a new Event repository
func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		Repository: repositories.NewRepository(log, "event", storer),
		log:        log,
		storer:     storer,
	}
}

// Create inserts an event. Without an explicit slug one is generated from the title,
// adding -2, -3, ... until it is free.
func (r *Repository) Create(ctx context.Context, input CreateEvent) (Event, error) {
	if input.Slug != nil && *input.Slug != "" {
		return r.Repository.Create(ctx, input)
	}

	var lastErr error
	for range slugAttempts {
		s, err := r.UniqueSlug(ctx, input.Title)
		if err != nil {
			return Event{}, fmt.Errorf("create event: %w", err)
		}
		input.Slug = &s

		event, err := r.Repository.Create(ctx, input)
		if err == nil {
			return event, nil
		}
		if !errors.Is(err, repositories.ErrDuplicate) {
			return Event{}, err
		}
		r.log.WarnContext(ctx, "slug taken, retrying", "slug", s)
		lastErr = err
	}
	return Event{}, lastErr
}

// CreateMany generates slugs for rows without one. Slugs assigned earlier in the batch
// count as taken, so titles repeated within one batch get -2, -3, ...
func (r *Repository) CreateMany(ctx context.Context, inputs []CreateEvent, skipDuplicates bool) (int64, error) {
	rows := make([]CreateEvent, len(inputs))
	copy(rows, inputs)

	var taken []string
	for _, in := range rows {
		if in.Slug != nil && *in.Slug != "" {
			taken = append(taken, *in.Slug)
		}
	}

	loaded := make(map[string]bool)
	for i, in := range rows {
		if in.Slug != nil && *in.Slug != "" {
			continue
		}
		base := baseSlug(in.Title)
		if !loaded[base] {
			existing, err := r.storer.SlugsWithPrefix(ctx, base)
			if err != nil {
				return 0, fmt.Errorf("create many events: row %d: %w", i, err)
			}
			taken = append(taken, existing...)
			loaded[base] = true
		}

		s := NextSlug(base, taken)
		taken = append(taken, s)
		rows[i].Slug = &s
	}
	return r.Repository.CreateMany(ctx, rows, skipDuplicates)
}

// Upsert inserts or updates the event keyed by slug. Without an explicit slug the key is
// the title's base slug, so upserting the same title again updates that event.
func (r *Repository) Upsert(ctx context.Context, create CreateEvent, update UpdateEvent) (Event, error) {
	if create.Slug == nil || *create.Slug == "" {
		s := baseSlug(create.Title)
		create.Slug = &s
	}
	return r.Repository.Upsert(ctx, create, update)
}

func baseSlug(title string) string {
	if base := slug.Make(title); base != "" {
		return base
	}
	return "event"
}

// UniqueSlug returns the first free slug derived from title.
func (r *Repository) UniqueSlug(ctx context.Context, title string) (string, error) {
	base := baseSlug(title)

	existing, err := r.storer.SlugsWithPrefix(ctx, base)
	if err != nil {
		return "", fmt.Errorf("unique slug: %w", err)
	}
	return NextSlug(base, existing), nil
}

// NextSlug returns base, or base-N with the smallest N >= 2 not in taken.
func NextSlug(base string, taken []string) string {
	used := make(map[string]struct{}, len(taken))
	for _, t := range taken {
		used[t] = struct{}{}
	}

	candidate := base
	for n := 2; ; n++ {
		if _, ok := used[candidate]; !ok {
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}

func (r *Repository) GetBySlug(ctx context.Context, s string) (Event, error) {
	event, err := r.storer.GetBySlug(ctx, s)
	if err != nil {
		return Event{}, fmt.Errorf("get event by slug %s: %w", s, err)
	}
	return event, nil
}

func (r *Repository) ListByUserID(ctx context.Context, userID string) ([]Event, error) {
	events, err := r.storer.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list events for user %s: %w", userID, err)
	}
	return events, nil
}

// Stats counts registrations, check-ins, sessions and sponsors for an event.
func (r *Repository) Stats(ctx context.Context, eventID string) (EventStats, error) {
	stats, err := r.storer.Stats(ctx, eventID)
	if err != nil {
		return EventStats{}, fmt.Errorf("event stats %s: %w", eventID, err)
	}
	return stats, nil
}
