package verificationtokenspgxstore

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jrazmi/eventhub/core/repositories/pgxstore"
	"github.com/jrazmi/eventhub/core/repositories/verificationtokensrepo"
	"github.com/jrazmi/eventhub/infrastructure/postgresdb"
	"github.com/jrazmi/eventhub/sdk/logger"
)

var table = postgresdb.Table{
	Schema:  "public",
	Name:    "verification_tokens",
	PK:      verificationtokensrepo.PKColumn,
	Columns: []string{"identifier", "token", "expires"},
}

var mapping = pgxstore.Mapping[verificationtokensrepo.CreateVerificationToken, verificationtokensrepo.UpdateVerificationToken, verificationtokensrepo.VerificationTokenFilter]{
	Table:        table,
	Conflict:     []string{"token"},
	OrderColumns: []string{verificationtokensrepo.OrderByIdentifier, verificationtokensrepo.OrderByExpires},
	Aggregates: map[string]string{
		"identifier": "identifier",
		"expires":    "expires",
	},
	Insert: func(in verificationtokensrepo.CreateVerificationToken) (*postgresdb.Values, error) {
		v := &postgresdb.Values{}
		v.Set("identifier", in.Identifier).
			Set("token", in.Token).
			Set("expires", in.Expires.UTC())
		return v, nil
	},
	Set: func(in verificationtokensrepo.UpdateVerificationToken) *postgresdb.Values {
		v := &postgresdb.Values{}
		postgresdb.SetIf(v, "expires", in.Expires)
		return v
	},
	Filter: func(w *postgresdb.Where, f verificationtokensrepo.VerificationTokenFilter) {
		postgresdb.EqIf(w, "identifier", f.Identifier)
		postgresdb.EqIf(w, "token", f.Token)
		postgresdb.LtIf(w, "expires", f.ExpiresBefore)
		postgresdb.GteIf(w, "expires", f.ExpiresAfter)
	},
}

type Store struct {
	pgxstore.Store[verificationtokensrepo.VerificationToken, verificationtokensrepo.CreateVerificationToken, verificationtokensrepo.UpdateVerificationToken, verificationtokensrepo.VerificationTokenFilter]
}

func NewStore(log *logger.Logger, db pgxstore.DB) *Store {
	return &Store{
		Store: pgxstore.New[verificationtokensrepo.VerificationToken](log, db, mapping),
	}
}

func (s *Store) WithTx(tx pgx.Tx) *Store {
	return &Store{Store: s.Store.WithDB(tx)}
}

func (s *Store) GetByIdentifierToken(ctx context.Context, identifier, token string) (verificationtokensrepo.VerificationToken, error) {
	return s.GetBy(ctx, map[string]any{
		"identifier": identifier,
		"token":      token,
	})
}

func (s *Store) DeleteByIdentifierToken(ctx context.Context, identifier, token string) (verificationtokensrepo.VerificationToken, error) {
	w := postgresdb.NewWhere().
		Eq("identifier", identifier).
		Eq("token", token)

	vt, err := postgresdb.DeleteReturning[verificationtokensrepo.VerificationToken](ctx, s.DB, table, w)
	if err != nil {
		return vt, pgxstore.StoreError(err)
	}
	return vt, nil
}
