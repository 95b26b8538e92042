package userspgxstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jrazmi/eventhub/core/repositories/pgxstore"
	"github.com/jrazmi/eventhub/core/repositories/usersrepo"
	"github.com/jrazmi/eventhub/infrastructure/postgresdb"
	"github.com/jrazmi/eventhub/sdk/logger"
)

var table = postgresdb.Table{
	Schema: "public",
	Name:   "users",
	PK:     usersrepo.PKColumn,
	Columns: []string{
		"id", "name", "email", "email_verified", "image", "role", "created_at", "updated_at",
	},
}

var mapping = pgxstore.Mapping[usersrepo.CreateUser, usersrepo.UpdateUser, usersrepo.UserFilter]{
	Table:    table,
	Conflict: []string{"email"},
	OrderColumns: []string{
		usersrepo.OrderByEmail,
		usersrepo.OrderByRole,
		usersrepo.OrderByCreatedAt,
		usersrepo.OrderByUpdatedAt,
	},
	Aggregates: map[string]string{
		"role":          "role",
		"createdAt":     "created_at",
		"updatedAt":     "updated_at",
		"emailVerified": "email_verified",
	},
	Insert: insertValues,
	Set:    setValues,
	Filter: applyFilter,
}

func insertValues(in usersrepo.CreateUser) (*postgresdb.Values, error) {
	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}
	role := usersrepo.RoleUser
	if in.Role != nil {
		role = *in.Role
	}

	v := &postgresdb.Values{}
	v.Set("id", id).
		Set("email", usersrepo.NormalizeEmail(in.Email)).
		Set("role", role)
	postgresdb.SetIf(v, "name", in.Name)
	postgresdb.SetIf(v, "email_verified", in.EmailVerified)
	postgresdb.SetIf(v, "image", in.Image)
	return v, nil
}

func setValues(in usersrepo.UpdateUser) *postgresdb.Values {
	v := &postgresdb.Values{}
	postgresdb.SetIf(v, "name", in.Name)
	if in.Email != nil {
		v.Set("email", usersrepo.NormalizeEmail(*in.Email))
	}
	postgresdb.SetIf(v, "email_verified", in.EmailVerified)
	postgresdb.SetIf(v, "image", in.Image)
	postgresdb.SetIf(v, "role", in.Role)
	v.Set("updated_at", time.Now().UTC())
	return v
}

func applyFilter(w *postgresdb.Where, f usersrepo.UserFilter) {
	postgresdb.EqIf(w, "id", f.ID)
	postgresdb.InIf(w, "id", f.IDs)
	if f.Email != nil {
		w.Eq("email", usersrepo.NormalizeEmail(*f.Email))
	}
	postgresdb.EqIf(w, "role", f.Role)
	postgresdb.InIf(w, "role", f.Roles)
	postgresdb.NeqIf(w, "role", f.ExcludeRole)
	if f.SearchTerm != nil {
		w.Search(*f.SearchTerm, "name", "email")
	}
	postgresdb.NullIf(w, "email_verified", f.HasEmailVerified)
	postgresdb.LtIf(w, "created_at", f.CreatedAtBefore)
	postgresdb.GteIf(w, "created_at", f.CreatedAtAfter)
}

// Store provides database access for User.
type Store struct {
	pgxstore.Store[usersrepo.User, usersrepo.CreateUser, usersrepo.UpdateUser, usersrepo.UserFilter]
}

// NewStore creates a new User store
func NewStore(log *logger.Logger, db pgxstore.DB) *Store {
	return &Store{
		Store: pgxstore.New[usersrepo.User](log, db, mapping),
	}
}

// WithTx returns a store that runs every statement in tx.
func (s *Store) WithTx(tx pgx.Tx) *Store {
	return &Store{Store: s.Store.WithDB(tx)}
}

func (s *Store) GetByEmail(ctx context.Context, email string) (usersrepo.User, error) {
	return s.GetBy(ctx, map[string]any{"email": email})
}
