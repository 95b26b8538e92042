package usersrepo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrazmi/eventhub/core/repositories"
	"github.com/jrazmi/eventhub/core/repositories/usersrepo"
	"github.com/jrazmi/eventhub/sdk/logger"
)

type store struct {
	usersrepo.Storer
	lookedUp string
}

func (s *store) GetByEmail(ctx context.Context, email string) (usersrepo.User, error) {
	s.lookedUp = email
	if email != "ada@example.com" {
		return usersrepo.User{}, repositories.ErrNotFound
	}
	return usersrepo.User{ID: "u1", Email: email, Role: usersrepo.RoleUser}, nil
}

func TestGetByEmailNormalizes(t *testing.T) {
	s := &store{}
	repo := usersrepo.NewRepository(logger.Discard(), s)

	user, err := repo.GetByEmail(context.Background(), "  Ada@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "ada@example.com", s.lookedUp)

	_, err = repo.GetByEmail(context.Background(), "grace@example.com")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestCreateValidate(t *testing.T) {
	admin := usersrepo.RoleAdmin
	superuser := "SUPERUSER"

	tests := []struct {
		name  string
		input usersrepo.CreateUser
		want  string
	}{
		{"missing email", usersrepo.CreateUser{}, "email is required"},
		{"bad email", usersrepo.CreateUser{Email: "not-an-address"}, `email "not-an-address" is invalid`},
		{"unknown role", usersrepo.CreateUser{Email: "ada@example.com", Role: &superuser}, `role "SUPERUSER" must be one of USER, ORGANIZER, ADMIN`},
	}

	repo := usersrepo.NewRepository(logger.Discard(), &store{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.Create(context.Background(), tt.input)
			require.ErrorIs(t, err, repositories.ErrValidation)
			assert.ErrorContains(t, err, tt.want)
		})
	}

	assert.NoError(t, usersrepo.CreateUser{Email: "ada@example.com", Role: &admin}.Validate())
}

func TestUpdateValidate(t *testing.T) {
	bad := "nope"
	organizer := usersrepo.RoleOrganizer

	assert.ErrorContains(t, usersrepo.UpdateUser{Email: &bad}.Validate(), "is invalid")
	assert.NoError(t, usersrepo.UpdateUser{Role: &organizer}.Validate())
	assert.NoError(t, usersrepo.UpdateUser{}.Validate())
}
