package sponsorspgxstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jrazmi/eventhub/core/repositories/pgxstore"
	"github.com/jrazmi/eventhub/core/repositories/sponsorsrepo"
	"github.com/jrazmi/eventhub/infrastructure/postgresdb"
	"github.com/jrazmi/eventhub/sdk/logger"
)

var table = postgresdb.Table{
	Schema: "public",
	Name:   "sponsors",
	PK:     sponsorsrepo.PKColumn,
	Columns: []string{
		"id", "event_id", "name", "logo_url", "website", "level", "visible", "created_at", "updated_at",
	},
	Booleans: []string{"visible"},
}

var mapping = pgxstore.Mapping[sponsorsrepo.CreateSponsor, sponsorsrepo.UpdateSponsor, sponsorsrepo.SponsorFilter]{
	Table:        table,
	Conflict:     []string{"id"},
	OrderColumns: []string{sponsorsrepo.OrderByName, sponsorsrepo.OrderByLevel, sponsorsrepo.OrderByCreatedAt},
	Aggregates: map[string]string{
		"eventId": "event_id",
		"level":   "level",
		"visible": "visible",
	},
	Insert: func(in sponsorsrepo.CreateSponsor) (*postgresdb.Values, error) {
		id := in.ID
		if id == "" {
			id = uuid.NewString()
		}
		v := &postgresdb.Values{}
		v.Set("id", id).
			Set("event_id", in.EventID).
			Set("name", in.Name)
		postgresdb.SetIf(v, "logo_url", in.LogoURL)
		postgresdb.SetIf(v, "website", in.Website)
		postgresdb.SetIf(v, "level", in.Level)
		postgresdb.SetIf(v, "visible", in.Visible)
		return v, nil
	},
	Set: func(in sponsorsrepo.UpdateSponsor) *postgresdb.Values {
		v := &postgresdb.Values{}
		postgresdb.SetIf(v, "name", in.Name)
		postgresdb.SetIf(v, "logo_url", in.LogoURL)
		postgresdb.SetIf(v, "website", in.Website)
		postgresdb.SetIf(v, "level", in.Level)
		postgresdb.SetIf(v, "visible", in.Visible)
		v.Set("updated_at", time.Now().UTC())
		return v
	},
	Filter: func(w *postgresdb.Where, f sponsorsrepo.SponsorFilter) {
		postgresdb.EqIf(w, "id", f.ID)
		postgresdb.EqIf(w, "event_id", f.EventID)
		postgresdb.EqIf(w, "level", f.Level)
		postgresdb.InIf(w, "level", f.Levels)
		postgresdb.EqIf(w, "visible", f.Visible)
		if f.SearchTerm != nil {
			w.Search(*f.SearchTerm, "name", "website")
		}
	},
}

type Store struct {
	pgxstore.Store[sponsorsrepo.Sponsor, sponsorsrepo.CreateSponsor, sponsorsrepo.UpdateSponsor, sponsorsrepo.SponsorFilter]
}

func NewStore(log *logger.Logger, db pgxstore.DB) *Store {
	return &Store{
		Store: pgxstore.New[sponsorsrepo.Sponsor](log, db, mapping),
	}
}

func (s *Store) WithTx(tx pgx.Tx) *Store {
	return &Store{Store: s.Store.WithDB(tx)}
}

func (s *Store) ListVisibleByEventID(ctx context.Context, eventID string) ([]sponsorsrepo.Sponsor, error) {
	visible := true
	return s.ListAll(ctx, sponsorsrepo.SponsorFilter{EventID: &eventID, Visible: &visible}, sponsorsrepo.DefaultOrderBy)
}
