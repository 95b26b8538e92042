package sessionparticipantspgxstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jrazmi/eventhub/core/repositories"
	"github.com/jrazmi/eventhub/core/repositories/pgxstore"
	"github.com/jrazmi/eventhub/core/repositories/sessionparticipantsrepo"
	"github.com/jrazmi/eventhub/infrastructure/postgresdb"
	"github.com/jrazmi/eventhub/sdk/logger"
)

var table = postgresdb.Table{
	Schema:   "public",
	Name:     "session_participants",
	PK:       sessionparticipantsrepo.PKColumn,
	Columns:  []string{"id", "session_id", "participant_id", "attended", "attended_at", "created_at"},
	Booleans: []string{"attended"},
}

// Narrow views of the neighbouring tables read by Join.
var (
	sessionsTable = postgresdb.Table{
		Schema:  "public",
		Name:    "event_sessions",
		PK:      "id",
		Columns: []string{"id", "event_id", "capacity"},
	}
	registrationsTable = postgresdb.Table{
		Schema:  "public",
		Name:    "registrations",
		PK:      "id",
		Columns: []string{"id", "event_id"},
	}
)

type sessionRow struct {
	ID       string `db:"id"`
	EventID  string `db:"event_id"`
	Capacity int32  `db:"capacity"`
}

type registrationRow struct {
	ID      string `db:"id"`
	EventID string `db:"event_id"`
}

var mapping = pgxstore.Mapping[sessionparticipantsrepo.CreateSessionParticipant, sessionparticipantsrepo.UpdateSessionParticipant, sessionparticipantsrepo.SessionParticipantFilter]{
	Table:        table,
	Conflict:     []string{"session_id", "participant_id"},
	OrderColumns: []string{sessionparticipantsrepo.OrderByAttended, sessionparticipantsrepo.OrderByCreatedAt},
	Aggregates: map[string]string{
		"sessionId":     "session_id",
		"participantId": "participant_id",
		"attended":      "attended",
		"attendedAt":    "attended_at",
	},
	Insert: func(in sessionparticipantsrepo.CreateSessionParticipant) (*postgresdb.Values, error) {
		id := in.ID
		if id == "" {
			id = uuid.NewString()
		}
		v := &postgresdb.Values{}
		v.Set("id", id).
			Set("session_id", in.SessionID).
			Set("participant_id", in.ParticipantID)
		return v, nil
	},
	Set: func(in sessionparticipantsrepo.UpdateSessionParticipant) *postgresdb.Values {
		v := &postgresdb.Values{}
		postgresdb.SetIf(v, "attended", in.Attended)
		postgresdb.SetIf(v, "attended_at", in.AttendedAt)
		return v
	},
	Filter: func(w *postgresdb.Where, f sessionparticipantsrepo.SessionParticipantFilter) {
		postgresdb.EqIf(w, "id", f.ID)
		postgresdb.EqIf(w, "session_id", f.SessionID)
		postgresdb.InIf(w, "session_id", f.SessionIDs)
		postgresdb.EqIf(w, "participant_id", f.ParticipantID)
		postgresdb.InIf(w, "participant_id", f.ParticipantIDs)
		postgresdb.EqIf(w, "attended", f.Attended)
	},
}

type Store struct {
	pgxstore.Store[sessionparticipantsrepo.SessionParticipant, sessionparticipantsrepo.CreateSessionParticipant, sessionparticipantsrepo.UpdateSessionParticipant, sessionparticipantsrepo.SessionParticipantFilter]
}

func NewStore(log *logger.Logger, db pgxstore.DB) *Store {
	return &Store{
		Store: pgxstore.New[sessionparticipantsrepo.SessionParticipant](log, db, mapping),
	}
}

func (s *Store) WithTx(tx pgx.Tx) *Store {
	return &Store{Store: s.Store.WithDB(tx)}
}

func (s *Store) GetBySessionParticipant(ctx context.Context, sessionID, participantID string) (sessionparticipantsrepo.SessionParticipant, error) {
	return s.GetBy(ctx, map[string]any{
		"session_id":     sessionID,
		"participant_id": participantID,
	})
}

// Join locks the session row so concurrent joins see each other's inserts before the
// capacity check.
func (s *Store) Join(ctx context.Context, sessionID, registrationID string) (sessionparticipantsrepo.SessionParticipant, error) {
	var joined sessionparticipantsrepo.SessionParticipant

	err := postgresdb.WithinTran(ctx, s.DB, func(tx pgx.Tx) error {
		session, err := postgresdb.SelectOne[sessionRow](ctx, tx, sessionsTable, postgresdb.Query{
			Where:     postgresdb.NewWhere().Eq("id", sessionID),
			ForUpdate: true,
		})
		if err != nil {
			return fmt.Errorf("lock session: %w", pgxstore.StoreError(err))
		}

		reg, err := postgresdb.SelectByPK[registrationRow](ctx, tx, registrationsTable, registrationID)
		if err != nil {
			return fmt.Errorf("registration: %w", pgxstore.StoreError(err))
		}

		txStore := s.WithTx(tx)
		exists := true
		if _, err := txStore.GetBySessionParticipant(ctx, sessionID, registrationID); err != nil {
			if !errors.Is(err, repositories.ErrNotFound) {
				return err
			}
			exists = false
		}

		count, err := txStore.Count(ctx, sessionparticipantsrepo.SessionParticipantFilter{SessionID: &sessionID})
		if err != nil {
			return err
		}

		target := sessionparticipantsrepo.JoinTarget{
			SessionID: session.ID,
			EventID:   session.EventID,
			Capacity:  session.Capacity,
			Joined:    count,
		}
		if err := sessionparticipantsrepo.CheckJoin(target, reg.EventID, exists); err != nil {
			return err
		}

		joined, err = txStore.Create(ctx, sessionparticipantsrepo.CreateSessionParticipant{
			SessionID:     sessionID,
			ParticipantID: registrationID,
		})
		return err
	})
	if err != nil {
		return sessionparticipantsrepo.SessionParticipant{}, err
	}
	return joined, nil
}

const attendanceSQL = `
UPDATE public.session_participants
SET attended = @attended,
    attended_at = CASE WHEN @attended THEN now() ELSE NULL END
WHERE session_id = @session_id AND participant_id = @participant_id
RETURNING id, session_id, participant_id, attended, attended_at, created_at`

func (s *Store) SetAttendance(ctx context.Context, sessionID, participantID string, attended bool) (sessionparticipantsrepo.SessionParticipant, error) {
	sp, err := postgresdb.QueryRawOne[sessionparticipantsrepo.SessionParticipant](ctx, s.DB, attendanceSQL, pgx.NamedArgs{
		"attended":       attended,
		"session_id":     sessionID,
		"participant_id": participantID,
	})
	if err != nil {
		return sp, pgxstore.StoreError(err)
	}
	return sp, nil
}

func (s *Store) ListBySessionID(ctx context.Context, sessionID string) ([]sessionparticipantsrepo.SessionParticipant, error) {
	return s.ListAll(ctx, sessionparticipantsrepo.SessionParticipantFilter{SessionID: &sessionID}, sessionparticipantsrepo.DefaultOrderBy)
}

func (s *Store) ListByParticipantID(ctx context.Context, participantID string) ([]sessionparticipantsrepo.SessionParticipant, error) {
	return s.ListAll(ctx, sessionparticipantsrepo.SessionParticipantFilter{ParticipantID: &participantID}, sessionparticipantsrepo.DefaultOrderBy)
}
