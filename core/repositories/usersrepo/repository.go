package usersrepo

import (
	"context"
	"fmt"

	"github.com/jrazmi/eventhub/core/repositories"
	"github.com/jrazmi/eventhub/sdk/logger"
)

// Storer defines the data storage interface for User.
type Storer interface {
	repositories.Storer[User, CreateUser, UpdateUser, UserFilter]
	GetByEmail(ctx context.Context, email string) (User, error)
}

// Repository provides access to user storage.
type Repository struct {
	repositories.Repository[User, CreateUser, UpdateUser, UserFilter]
	log    *logger.Logger
	storer Storer
}

// NewRepository creates a new User repository
func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		Repository: repositories.NewRepository(log, "user", storer),
		log:        log,
		storer:     storer,
	}
}

// GetByEmail finds a user by address, ignoring case.
func (r *Repository) GetByEmail(ctx context.Context, email string) (User, error) {
	user, err := r.storer.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return User{}, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}
