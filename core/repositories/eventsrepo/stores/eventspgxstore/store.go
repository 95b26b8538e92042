package eventspgxstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jrazmi/eventhub/core/repositories/eventsrepo"
	"github.com/jrazmi/eventhub/core/repositories/pgxstore"
	"github.com/jrazmi/eventhub/infrastructure/postgresdb"
	"github.com/jrazmi/eventhub/sdk/logger"
)

var table = postgresdb.Table{
	Schema: "public",
	Name:   "events",
	PK:     eventsrepo.PKColumn,
	Columns: []string{
		"id", "user_id", "title", "slug", "description", "date", "start_time", "end_time",
		"location", "banner_image", "is_published", "created_at", "updated_at",
	},
	Booleans: []string{"is_published"},
}

var mapping = pgxstore.Mapping[eventsrepo.CreateEvent, eventsrepo.UpdateEvent, eventsrepo.EventFilter]{
	Table:    table,
	Conflict: []string{"slug"},
	OrderColumns: []string{
		eventsrepo.OrderByTitle,
		eventsrepo.OrderBySlug,
		eventsrepo.OrderByDate,
		eventsrepo.OrderByCreatedAt,
		eventsrepo.OrderByUpdatedAt,
	},
	Aggregates: map[string]string{
		"userId":      "user_id",
		"isPublished": "is_published",
		"location":    "location",
		"date":        "date",
		"createdAt":   "created_at",
	},
	Insert: insertValues,
	Set:    setValues,
	Filter: applyFilter,
}

func insertValues(in eventsrepo.CreateEvent) (*postgresdb.Values, error) {
	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}

	v := &postgresdb.Values{}
	v.Set("id", id).
		Set("user_id", in.UserID).
		Set("title", in.Title).
		Set("date", in.Date.UTC())
	postgresdb.SetIf(v, "slug", in.Slug)
	postgresdb.SetIf(v, "description", in.Description)
	postgresdb.SetIf(v, "start_time", in.StartTime)
	postgresdb.SetIf(v, "end_time", in.EndTime)
	postgresdb.SetIf(v, "location", in.Location)
	postgresdb.SetIf(v, "banner_image", in.BannerImage)
	postgresdb.SetIf(v, "is_published", in.IsPublished)
	return v, nil
}

func setValues(in eventsrepo.UpdateEvent) *postgresdb.Values {
	v := &postgresdb.Values{}
	postgresdb.SetIf(v, "title", in.Title)
	postgresdb.SetIf(v, "slug", in.Slug)
	postgresdb.SetIf(v, "description", in.Description)
	postgresdb.SetIf(v, "date", in.Date)
	postgresdb.SetIf(v, "start_time", in.StartTime)
	postgresdb.SetIf(v, "end_time", in.EndTime)
	postgresdb.SetIf(v, "location", in.Location)
	postgresdb.SetIf(v, "banner_image", in.BannerImage)
	postgresdb.SetIf(v, "is_published", in.IsPublished)
	v.Set("updated_at", time.Now().UTC())
	return v
}

func applyFilter(w *postgresdb.Where, f eventsrepo.EventFilter) {
	postgresdb.EqIf(w, "id", f.ID)
	postgresdb.InIf(w, "id", f.IDs)
	postgresdb.NotInIf(w, "id", f.ExcludeIDs)
	postgresdb.EqIf(w, "user_id", f.UserID)
	postgresdb.EqIf(w, "slug", f.Slug)
	postgresdb.EqIf(w, "is_published", f.IsPublished)
	if f.SearchTerm != nil {
		w.Search(*f.SearchTerm, "title", "description", "location")
	}
	postgresdb.LtIf(w, "date", f.DateBefore)
	postgresdb.GteIf(w, "date", f.DateAfter)
}

// Store provides database access for Event.
type Store struct {
	pgxstore.Store[eventsrepo.Event, eventsrepo.CreateEvent, eventsrepo.UpdateEvent, eventsrepo.EventFilter]
}

// NewStore creates a new Event store
func NewStore(log *logger.Logger, db pgxstore.DB) *Store {
	return &Store{
		Store: pgxstore.New[eventsrepo.Event](log, db, mapping),
	}
}

func (s *Store) WithTx(tx pgx.Tx) *Store {
	return &Store{Store: s.Store.WithDB(tx)}
}

func (s *Store) GetBySlug(ctx context.Context, slug string) (eventsrepo.Event, error) {
	return s.GetBy(ctx, map[string]any{"slug": slug})
}

func (s *Store) ListByUserID(ctx context.Context, userID string) ([]eventsrepo.Event, error) {
	return s.ListAll(ctx, eventsrepo.EventFilter{UserID: &userID}, eventsrepo.DefaultOrderBy)
}

type slugRow struct {
	Slug string `db:"slug"`
}

// SlugsWithPrefix returns base and every base-<suffix> slug in use.
func (s *Store) SlugsWithPrefix(ctx context.Context, base string) ([]string, error) {
	rows, err := postgresdb.QueryRaw[slugRow](ctx, s.DB,
		`SELECT slug FROM public.events WHERE slug = @base OR slug LIKE @pattern`,
		pgx.NamedArgs{
			"base":    base,
			"pattern": postgresdb.EscapeLike(base) + "-%",
		})
	if err != nil {
		return nil, pgxstore.StoreError(err)
	}

	slugs := make([]string, len(rows))
	for i, r := range rows {
		slugs[i] = r.Slug
	}
	return slugs, nil
}

const statsSQL = `
SELECT e.id AS event_id,
       (SELECT count(*) FROM public.registrations r WHERE r.event_id = e.id) AS registrations,
       (SELECT count(*) FROM public.registrations r WHERE r.event_id = e.id AND r.checked_in) AS checked_in,
       (SELECT count(*) FROM public.event_sessions es WHERE es.event_id = e.id) AS sessions,
       (SELECT count(*) FROM public.sponsors sp WHERE sp.event_id = e.id) AS sponsors
FROM public.events e
WHERE e.id = @id`

func (s *Store) Stats(ctx context.Context, eventID string) (eventsrepo.EventStats, error) {
	stats, err := postgresdb.QueryRawOne[eventsrepo.EventStats](ctx, s.DB, statsSQL, pgx.NamedArgs{"id": eventID})
	if err != nil {
		return stats, pgxstore.StoreError(err)
	}
	return stats, nil
}
