package sessionsrepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrazmi/eventhub/core/repositories"
	"github.com/jrazmi/eventhub/core/repositories/sessionsrepo"
	"github.com/jrazmi/eventhub/core/repositories/usersrepo"
	"github.com/jrazmi/eventhub/sdk/logger"
)

type store struct {
	sessionsrepo.Storer
	su sessionsrepo.SessionAndUser
}

func (s *store) GetSessionAndUser(ctx context.Context, token string) (sessionsrepo.SessionAndUser, error) {
	return s.su, nil
}

func TestGetSessionAndUser(t *testing.T) {
	s := &store{su: sessionsrepo.SessionAndUser{
		Session: sessionsrepo.Session{ID: "s1", UserID: "u1", Expires: time.Now().Add(time.Hour)},
		User:    usersrepo.User{ID: "u1"},
	}}
	repo := sessionsrepo.NewRepository(logger.Discard(), s)

	su, err := repo.GetSessionAndUser(context.Background(), "tok")
	require.NoError(t, err)
	require.Equal(t, "u1", su.User.ID)
}

func TestGetSessionAndUserExpired(t *testing.T) {
	s := &store{su: sessionsrepo.SessionAndUser{
		Session: sessionsrepo.Session{ID: "s1", Expires: time.Now().Add(-time.Minute)},
	}}
	repo := sessionsrepo.NewRepository(logger.Discard(), s)

	_, err := repo.GetSessionAndUser(context.Background(), "tok")
	require.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestSessionExpired(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	require.True(t, sessionsrepo.Session{Expires: now}.Expired(now))
	require.False(t, sessionsrepo.Session{Expires: now.Add(time.Second)}.Expired(now))
}
