package verificationtokensrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jrazmi/eventhub/core/repositories"
	"github.com/jrazmi/eventhub/sdk/logger"
)

// ErrTokenNotFound is returned by UseToken when the token does not exist, was already
// used or has expired.
var ErrTokenNotFound = errors.New("verification token not found")

// Storer defines the data storage interface for VerificationToken.
type Storer interface {
	repositories.Storer[VerificationToken, CreateVerificationToken, UpdateVerificationToken, VerificationTokenFilter]
	GetByIdentifierToken(ctx context.Context, identifier, token string) (VerificationToken, error)
	DeleteByIdentifierToken(ctx context.Context, identifier, token string) (VerificationToken, error)
}

type Repository struct {
	repositories.Repository[VerificationToken, CreateVerificationToken, UpdateVerificationToken, VerificationTokenFilter]
	log    *logger.Logger
	storer Storer
}

func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		Repository: repositories.NewRepository(log, "verification token", storer),
		log:        log,
		storer:     storer,
	}
}

func (r *Repository) GetByIdentifierToken(ctx context.Context, identifier, token string) (VerificationToken, error) {
	vt, err := r.storer.GetByIdentifierToken(ctx, identifier, token)
	if err != nil {
		return VerificationToken{}, fmt.Errorf("get verification token for %s: %w", identifier, err)
	}
	return vt, nil
}

// UseToken consumes a token. The row is deleted whether or not it has expired, so a
// token can never be used twice.
func (r *Repository) UseToken(ctx context.Context, identifier, token string) (VerificationToken, error) {
	vt, err := r.storer.DeleteByIdentifierToken(ctx, identifier, token)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return VerificationToken{}, fmt.Errorf("use token for %s: %w: %w", identifier, ErrTokenNotFound, err)
		}
		return VerificationToken{}, fmt.Errorf("use token for %s: %w", identifier, err)
	}
	if !vt.Expires.After(time.Now()) {
		return VerificationToken{}, fmt.Errorf("use token for %s: expired: %w", identifier, ErrTokenNotFound)
	}
	return vt, nil
}

// DeleteExpired removes every token that expired before the given time.
func (r *Repository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	n, err := r.storer.DeleteMany(ctx, VerificationTokenFilter{ExpiresBefore: &before})
	if err != nil {
		return 0, fmt.Errorf("delete expired verification tokens: %w", err)
	}
	if n > 0 {
		r.log.InfoContext(ctx, "expired verification tokens deleted", "rows", n, "before", before)
	}
	return n, nil
}
