package eventsessionsrepo

import (
	"context"
	"fmt"

	"github.com/jrazmi/eventhub/core/repositories"
	"github.com/jrazmi/eventhub/sdk/logger"
)

// Storer defines the data storage interface for EventSession.
type Storer interface {
	repositories.Storer[EventSession, CreateEventSession, UpdateEventSession, EventSessionFilter]
	ListByEventID(ctx context.Context, eventID string) ([]EventSession, error)
}

type Repository struct {
	repositories.Repository[EventSession, CreateEventSession, UpdateEventSession, EventSessionFilter]
	log    *logger.Logger
	storer Storer
}

func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		Repository: repositories.NewRepository(log, "event session", storer),
		log:        log,
		storer:     storer,
	}
}

// ListByEventID returns the event's sessions in start order.
func (r *Repository) ListByEventID(ctx context.Context, eventID string) ([]EventSession, error) {
	sessions, err := r.storer.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list sessions for event %s: %w", eventID, err)
	}
	return sessions, nil
}
