package sponsorsrepo

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/jrazmi/eventhub/core/repositories"
	"github.com/jrazmi/eventhub/sdk/logger"
)

// Storer defines the data storage interface for Sponsor.
type Storer interface {
	repositories.Storer[Sponsor, CreateSponsor, UpdateSponsor, SponsorFilter]
	ListVisibleByEventID(ctx context.Context, eventID string) ([]Sponsor, error)
}

type Repository struct {
	repositories.Repository[Sponsor, CreateSponsor, UpdateSponsor, SponsorFilter]
	log    *logger.Logger
	storer Storer
}

func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		Repository: repositories.NewRepository(log, "sponsor", storer),
		log:        log,
		storer:     storer,
	}
}

// ListVisibleByEventID returns the sponsors shown on an event page, highest level first
// and by name within a level.
func (r *Repository) ListVisibleByEventID(ctx context.Context, eventID string) ([]Sponsor, error) {
	sponsors, err := r.storer.ListVisibleByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list sponsors for event %s: %w", eventID, err)
	}

	slices.SortStableFunc(sponsors, func(a, b Sponsor) int {
		return cmp.Or(
			cmp.Compare(LevelRank(a.Level), LevelRank(b.Level)),
			cmp.Compare(a.Name, b.Name),
		)
	})
	return sponsors, nil
}
