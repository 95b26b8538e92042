package sessionspgxstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jrazmi/eventhub/core/repositories/pgxstore"
	"github.com/jrazmi/eventhub/core/repositories/sessionsrepo"
	"github.com/jrazmi/eventhub/core/repositories/usersrepo"
	"github.com/jrazmi/eventhub/infrastructure/postgresdb"
	"github.com/jrazmi/eventhub/sdk/logger"
)

var table = postgresdb.Table{
	Schema:  "public",
	Name:    "sessions",
	PK:      sessionsrepo.PKColumn,
	Columns: []string{"id", "session_token", "user_id", "expires"},
}

var mapping = pgxstore.Mapping[sessionsrepo.CreateSession, sessionsrepo.UpdateSession, sessionsrepo.SessionFilter]{
	Table:        table,
	Conflict:     []string{"session_token"},
	OrderColumns: []string{sessionsrepo.OrderByExpires},
	Aggregates: map[string]string{
		"userId":  "user_id",
		"expires": "expires",
	},
	Insert: func(in sessionsrepo.CreateSession) (*postgresdb.Values, error) {
		id := in.ID
		if id == "" {
			id = uuid.NewString()
		}
		v := &postgresdb.Values{}
		v.Set("id", id).
			Set("session_token", in.SessionToken).
			Set("user_id", in.UserID).
			Set("expires", in.Expires.UTC())
		return v, nil
	},
	Set: func(in sessionsrepo.UpdateSession) *postgresdb.Values {
		v := &postgresdb.Values{}
		postgresdb.SetIf(v, "expires", in.Expires)
		return v
	},
	Filter: func(w *postgresdb.Where, f sessionsrepo.SessionFilter) {
		postgresdb.EqIf(w, "id", f.ID)
		postgresdb.EqIf(w, "user_id", f.UserID)
		postgresdb.EqIf(w, "session_token", f.SessionToken)
		postgresdb.LtIf(w, "expires", f.ExpiresBefore)
		postgresdb.GteIf(w, "expires", f.ExpiresAfter)
	},
}

type Store struct {
	pgxstore.Store[sessionsrepo.Session, sessionsrepo.CreateSession, sessionsrepo.UpdateSession, sessionsrepo.SessionFilter]
}

func NewStore(log *logger.Logger, db pgxstore.DB) *Store {
	return &Store{
		Store: pgxstore.New[sessionsrepo.Session](log, db, mapping),
	}
}

func (s *Store) WithTx(tx pgx.Tx) *Store {
	return &Store{Store: s.Store.WithDB(tx)}
}

func (s *Store) GetBySessionToken(ctx context.Context, token string) (sessionsrepo.Session, error) {
	return s.GetBy(ctx, map[string]any{"session_token": token})
}

type sessionUserRow struct {
	ID            string     `db:"id"`
	SessionToken  string     `db:"session_token"`
	UserID        string     `db:"user_id"`
	Expires       time.Time  `db:"expires"`
	Name          *string    `db:"name"`
	Email         string     `db:"email"`
	EmailVerified *time.Time `db:"email_verified"`
	Image         *string    `db:"image"`
	Role          string     `db:"role"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

const sessionAndUserSQL = `
SELECT s.id, s.session_token, s.user_id, s.expires,
       u.name, u.email, u.email_verified, u.image, u.role, u.created_at, u.updated_at
FROM public.sessions s
JOIN public.users u ON u.id = s.user_id
WHERE s.session_token = $1`

func (s *Store) GetSessionAndUser(ctx context.Context, token string) (sessionsrepo.SessionAndUser, error) {
	row, err := postgresdb.QueryRawOne[sessionUserRow](ctx, s.DB, sessionAndUserSQL, token)
	if err != nil {
		return sessionsrepo.SessionAndUser{}, pgxstore.StoreError(err)
	}

	return sessionsrepo.SessionAndUser{
		Session: sessionsrepo.Session{
			ID:           row.ID,
			SessionToken: row.SessionToken,
			UserID:       row.UserID,
			Expires:      row.Expires,
		},
		User: usersrepo.User{
			ID:            row.UserID,
			Name:          row.Name,
			Email:         row.Email,
			EmailVerified: row.EmailVerified,
			Image:         row.Image,
			Role:          row.Role,
			CreatedAt:     row.CreatedAt,
			UpdatedAt:     row.UpdatedAt,
		},
	}, nil
}
