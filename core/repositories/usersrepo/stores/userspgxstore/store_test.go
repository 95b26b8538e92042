package userspgxstore_test

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrazmi/eventhub/core/repositories/usersrepo"
	"github.com/jrazmi/eventhub/core/repositories/usersrepo/stores/userspgxstore"
	"github.com/jrazmi/eventhub/infrastructure/postgresdb/postgresdbtest"
	"github.com/jrazmi/eventhub/sdk/logger"
)

func TestFilterSQL(t *testing.T) {
	db := &postgresdbtest.Recorder{}
	store := userspgxstore.NewStore(logger.Discard(), db)

	email := "Ada@Example.com"
	admin := usersrepo.RoleAdmin
	verified := false
	_, err := store.Count(context.Background(), usersrepo.UserFilter{
		Email:            &email,
		ExcludeRole:      &admin,
		HasEmailVerified: &verified,
	})
	require.ErrorIs(t, err, postgresdbtest.ErrNotExecuted)

	call := db.Calls()[0]
	assert.Equal(t, `SELECT count(*) FROM "public"."users" WHERE "email" = @w1 AND "role" <> @w2 AND "email_verified" IS NULL`, call.SQL)
	assert.Equal(t, pgx.NamedArgs{"w1": "ada@example.com", "w2": usersrepo.RoleAdmin}, call.Args)
}

func TestInsertDefaultsRole(t *testing.T) {
	db := &postgresdbtest.Recorder{}
	store := userspgxstore.NewStore(logger.Discard(), db)

	_, err := store.Create(context.Background(), usersrepo.CreateUser{ID: "u1", Email: " Ada@Example.com"})
	require.ErrorIs(t, err, postgresdbtest.ErrNotExecuted)

	call := db.Calls()[0]
	assert.True(t, strings.HasPrefix(call.SQL,
		`INSERT INTO "public"."users" ("id", "email", "role") VALUES (@v_id, @v_email, @v_role) RETURNING `))
	assert.Equal(t, pgx.NamedArgs{"v_id": "u1", "v_email": "ada@example.com", "v_role": usersrepo.RoleUser}, call.Args)
}

func TestUpsertConflictsOnEmail(t *testing.T) {
	db := &postgresdbtest.Recorder{}
	store := userspgxstore.NewStore(logger.Discard(), db)

	name := "Ada"
	_, err := store.Upsert(context.Background(),
		usersrepo.CreateUser{ID: "u1", Email: "ada@example.com"},
		usersrepo.UpdateUser{Name: &name})
	require.ErrorIs(t, err, postgresdbtest.ErrNotExecuted)
	assert.True(t, db.Recorded(`ON CONFLICT ("email") DO UPDATE SET "name" = @s_name, "updated_at" = @s_updated_at`))
}
