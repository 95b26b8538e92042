package eventsessionspgxstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jrazmi/eventhub/core/repositories/eventsessionsrepo"
	"github.com/jrazmi/eventhub/core/repositories/pgxstore"
	"github.com/jrazmi/eventhub/infrastructure/postgresdb"
	"github.com/jrazmi/eventhub/sdk/logger"
)

var table = postgresdb.Table{
	Schema: "public",
	Name:   "event_sessions",
	PK:     eventsessionsrepo.PKColumn,
	Columns: []string{
		"id", "event_id", "title", "description", "speaker", "location", "start_time",
		"end_time", "capacity", "created_at", "updated_at",
	},
}

var mapping = pgxstore.Mapping[eventsessionsrepo.CreateEventSession, eventsessionsrepo.UpdateEventSession, eventsessionsrepo.EventSessionFilter]{
	Table:    table,
	Conflict: []string{"id"},
	OrderColumns: []string{
		eventsessionsrepo.OrderByTitle,
		eventsessionsrepo.OrderByStartTime,
		eventsessionsrepo.OrderByEndTime,
		eventsessionsrepo.OrderByCapacity,
		eventsessionsrepo.OrderByCreatedAt,
	},
	Aggregates: map[string]string{
		"eventId":   "event_id",
		"speaker":   "speaker",
		"location":  "location",
		"capacity":  "capacity",
		"startTime": "start_time",
		"endTime":   "end_time",
	},
	Numeric: map[string]bool{"capacity": true},
	Insert:  insertValues,
	Set:     setValues,
	Filter:  applyFilter,
}

func insertValues(in eventsessionsrepo.CreateEventSession) (*postgresdb.Values, error) {
	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}

	v := &postgresdb.Values{}
	v.Set("id", id).
		Set("event_id", in.EventID).
		Set("title", in.Title).
		Set("start_time", in.StartTime.UTC()).
		Set("end_time", in.EndTime.UTC())
	postgresdb.SetIf(v, "description", in.Description)
	postgresdb.SetIf(v, "speaker", in.Speaker)
	postgresdb.SetIf(v, "location", in.Location)
	postgresdb.SetIf(v, "capacity", in.Capacity)
	return v, nil
}

func setValues(in eventsessionsrepo.UpdateEventSession) *postgresdb.Values {
	v := &postgresdb.Values{}
	postgresdb.SetIf(v, "title", in.Title)
	postgresdb.SetIf(v, "description", in.Description)
	postgresdb.SetIf(v, "speaker", in.Speaker)
	postgresdb.SetIf(v, "location", in.Location)
	postgresdb.SetIf(v, "start_time", in.StartTime)
	postgresdb.SetIf(v, "end_time", in.EndTime)
	postgresdb.SetIf(v, "capacity", in.Capacity)
	v.Set("updated_at", time.Now().UTC())
	return v
}

func applyFilter(w *postgresdb.Where, f eventsessionsrepo.EventSessionFilter) {
	postgresdb.EqIf(w, "id", f.ID)
	postgresdb.InIf(w, "id", f.IDs)
	postgresdb.EqIf(w, "event_id", f.EventID)
	postgresdb.EqIf(w, "speaker", f.Speaker)
	if f.SearchTerm != nil {
		w.Search(*f.SearchTerm, "title", "description", "speaker")
	}
	postgresdb.LtIf(w, "start_time", f.StartTimeBefore)
	postgresdb.GteIf(w, "start_time", f.StartTimeAfter)
	postgresdb.GteIf(w, "capacity", f.MinCapacity)
	postgresdb.LteIf(w, "capacity", f.MaxCapacity)
}

// Store provides database access for EventSession.
type Store struct {
	pgxstore.Store[eventsessionsrepo.EventSession, eventsessionsrepo.CreateEventSession, eventsessionsrepo.UpdateEventSession, eventsessionsrepo.EventSessionFilter]
}

func NewStore(log *logger.Logger, db pgxstore.DB) *Store {
	return &Store{
		Store: pgxstore.New[eventsessionsrepo.EventSession](log, db, mapping),
	}
}

func (s *Store) WithTx(tx pgx.Tx) *Store {
	return &Store{Store: s.Store.WithDB(tx)}
}

func (s *Store) ListByEventID(ctx context.Context, eventID string) ([]eventsessionsrepo.EventSession, error) {
	return s.ListAll(ctx, eventsessionsrepo.EventSessionFilter{EventID: &eventID}, eventsessionsrepo.DefaultOrderBy)
}
