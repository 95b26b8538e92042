package accountspgxstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jrazmi/eventhub/core/repositories/accountsrepo"
	"github.com/jrazmi/eventhub/core/repositories/pgxstore"
	"github.com/jrazmi/eventhub/infrastructure/postgresdb"
	"github.com/jrazmi/eventhub/sdk/logger"
)

var table = postgresdb.Table{
	Schema: "public",
	Name:   "accounts",
	PK:     accountsrepo.PKColumn,
	Columns: []string{
		"id", "user_id", "type", "provider", "provider_account_id", "refresh_token",
		"access_token", "expires_at", "token_type", "scope", "id_token", "session_state",
	},
}

var mapping = pgxstore.Mapping[accountsrepo.CreateAccount, accountsrepo.UpdateAccount, accountsrepo.AccountFilter]{
	Table:        table,
	Conflict:     []string{"provider", "provider_account_id"},
	OrderColumns: []string{accountsrepo.OrderByProvider, accountsrepo.OrderByUserID},
	Aggregates: map[string]string{
		"provider":  "provider",
		"type":      "type",
		"userId":    "user_id",
		"expiresAt": "expires_at",
	},
	Numeric: map[string]bool{"expiresAt": true},
	Insert: func(in accountsrepo.CreateAccount) (*postgresdb.Values, error) {
		id := in.ID
		if id == "" {
			id = uuid.NewString()
		}
		v := &postgresdb.Values{}
		v.Set("id", id).
			Set("user_id", in.UserID).
			Set("type", in.Type).
			Set("provider", in.Provider).
			Set("provider_account_id", in.ProviderAccountID)
		postgresdb.SetIf(v, "refresh_token", in.RefreshToken)
		postgresdb.SetIf(v, "access_token", in.AccessToken)
		postgresdb.SetIf(v, "expires_at", in.ExpiresAt)
		postgresdb.SetIf(v, "token_type", in.TokenType)
		postgresdb.SetIf(v, "scope", in.Scope)
		postgresdb.SetIf(v, "id_token", in.IDToken)
		postgresdb.SetIf(v, "session_state", in.SessionState)
		return v, nil
	},
	Set: func(in accountsrepo.UpdateAccount) *postgresdb.Values {
		v := &postgresdb.Values{}
		postgresdb.SetIf(v, "refresh_token", in.RefreshToken)
		postgresdb.SetIf(v, "access_token", in.AccessToken)
		postgresdb.SetIf(v, "expires_at", in.ExpiresAt)
		postgresdb.SetIf(v, "token_type", in.TokenType)
		postgresdb.SetIf(v, "scope", in.Scope)
		postgresdb.SetIf(v, "id_token", in.IDToken)
		postgresdb.SetIf(v, "session_state", in.SessionState)
		return v
	},
	Filter: func(w *postgresdb.Where, f accountsrepo.AccountFilter) {
		postgresdb.EqIf(w, "id", f.ID)
		postgresdb.EqIf(w, "user_id", f.UserID)
		postgresdb.InIf(w, "user_id", f.UserIDs)
		postgresdb.EqIf(w, "type", f.Type)
		postgresdb.EqIf(w, "provider", f.Provider)
		postgresdb.EqIf(w, "provider_account_id", f.ProviderAccountID)
	},
}

type Store struct {
	pgxstore.Store[accountsrepo.Account, accountsrepo.CreateAccount, accountsrepo.UpdateAccount, accountsrepo.AccountFilter]
}

func NewStore(log *logger.Logger, db pgxstore.DB) *Store {
	return &Store{
		Store: pgxstore.New[accountsrepo.Account](log, db, mapping),
	}
}

func (s *Store) WithTx(tx pgx.Tx) *Store {
	return &Store{Store: s.Store.WithDB(tx)}
}

func (s *Store) GetByProviderAccount(ctx context.Context, provider, providerAccountID string) (accountsrepo.Account, error) {
	return s.GetBy(ctx, map[string]any{
		"provider":            provider,
		"provider_account_id": providerAccountID,
	})
}

func (s *Store) ListByUserID(ctx context.Context, userID string) ([]accountsrepo.Account, error) {
	return s.ListAll(ctx, accountsrepo.AccountFilter{UserID: &userID}, accountsrepo.DefaultOrderBy)
}

func (s *Store) DeleteByProviderAccount(ctx context.Context, provider, providerAccountID string) (accountsrepo.Account, error) {
	w := postgresdb.NewWhere().
		Eq("provider", provider).
		Eq("provider_account_id", providerAccountID)

	account, err := postgresdb.DeleteReturning[accountsrepo.Account](ctx, s.DB, table, w)
	if err != nil {
		return account, pgxstore.StoreError(err)
	}
	return account, nil
}
