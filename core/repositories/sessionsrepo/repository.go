package sessionsrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/jrazmi/eventhub/core/repositories"
	"github.com/jrazmi/eventhub/sdk/logger"
)

// Storer defines the data storage interface for Session.
type Storer interface {
	repositories.Storer[Session, CreateSession, UpdateSession, SessionFilter]
	GetBySessionToken(ctx context.Context, token string) (Session, error)
	GetSessionAndUser(ctx context.Context, token string) (SessionAndUser, error)
}

type Repository struct {
	repositories.Repository[Session, CreateSession, UpdateSession, SessionFilter]
	log    *logger.Logger
	storer Storer
}

func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		Repository: repositories.NewRepository(log, "session", storer),
		log:        log,
		storer:     storer,
	}
}

func (r *Repository) GetBySessionToken(ctx context.Context, token string) (Session, error) {
	session, err := r.storer.GetBySessionToken(ctx, token)
	if err != nil {
		return Session{}, fmt.Errorf("get session by token: %w", err)
	}
	return session, nil
}

// GetSessionAndUser loads the session for token with its user. An expired session is
// reported as not found.
func (r *Repository) GetSessionAndUser(ctx context.Context, token string) (SessionAndUser, error) {
	su, err := r.storer.GetSessionAndUser(ctx, token)
	if err != nil {
		return SessionAndUser{}, fmt.Errorf("get session and user: %w", err)
	}
	if su.Session.Expired(time.Now()) {
		return SessionAndUser{}, fmt.Errorf("get session and user: session expired: %w", repositories.ErrNotFound)
	}
	return su, nil
}

// DeleteExpired removes every session that expired before the given time.
func (r *Repository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	n, err := r.storer.DeleteMany(ctx, SessionFilter{ExpiresBefore: &before})
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	if n > 0 {
		r.log.InfoContext(ctx, "expired sessions deleted", "rows", n, "before", before)
	}
	return n, nil
}
