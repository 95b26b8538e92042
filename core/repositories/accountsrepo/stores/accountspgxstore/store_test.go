package accountspgxstore_test

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrazmi/eventhub/core/repositories"
	"github.com/jrazmi/eventhub/core/repositories/accountsrepo"
	"github.com/jrazmi/eventhub/core/repositories/accountsrepo/stores/accountspgxstore"
	"github.com/jrazmi/eventhub/infrastructure/postgresdb/postgresdbtest"
	"github.com/jrazmi/eventhub/sdk/logger"
)

func TestFilterSQL(t *testing.T) {
	db := &postgresdbtest.Recorder{}
	store := accountspgxstore.NewStore(logger.Discard(), db)

	provider := "github"
	_, err := store.Count(context.Background(), accountsrepo.AccountFilter{
		UserIDs:  []string{"u1", "u2"},
		Provider: &provider,
	})
	require.ErrorIs(t, err, postgresdbtest.ErrNotExecuted)

	call := db.Calls()[0]
	assert.Equal(t, `SELECT count(*) FROM "public"."accounts" WHERE "user_id" = ANY(@w1) AND "provider" = @w2`, call.SQL)
	assert.Equal(t, pgx.NamedArgs{"w1": []string{"u1", "u2"}, "w2": "github"}, call.Args)
}

func TestInsertValues(t *testing.T) {
	db := &postgresdbtest.Recorder{}
	store := accountspgxstore.NewStore(logger.Discard(), db)

	expires := int64(1767225600)
	_, err := store.Create(context.Background(), accountsrepo.CreateAccount{
		ID:                "a1",
		UserID:            "u1",
		Type:              "oauth",
		Provider:          "github",
		ProviderAccountID: "42",
		ExpiresAt:         &expires,
	})
	require.ErrorIs(t, err, postgresdbtest.ErrNotExecuted)

	call := db.Calls()[0]
	assert.True(t, strings.HasPrefix(call.SQL,
		`INSERT INTO "public"."accounts" ("id", "user_id", "type", "provider", "provider_account_id", "expires_at") VALUES (@v_id, @v_user_id, @v_type, @v_provider, @v_provider_account_id, @v_expires_at) RETURNING `))
	assert.Equal(t, expires, call.Args["v_expires_at"])
}

func TestDeleteByProviderAccountMissing(t *testing.T) {
	db := &postgresdbtest.Recorder{
		Respond: func(sql string) postgresdbtest.Result { return postgresdbtest.Result{} },
	}
	store := accountspgxstore.NewStore(logger.Discard(), db)

	_, err := store.DeleteByProviderAccount(context.Background(), "github", "42")
	require.ErrorIs(t, err, repositories.ErrNotFound)
	assert.True(t, strings.HasPrefix(db.SQL()[0],
		`DELETE FROM "public"."accounts" WHERE "provider" = @w1 AND "provider_account_id" = @w2 RETURNING "id", `))
}
