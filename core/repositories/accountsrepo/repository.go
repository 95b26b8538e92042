package accountsrepo

import (
	"context"
	"fmt"

	"github.com/jrazmi/eventhub/core/repositories"
	"github.com/jrazmi/eventhub/sdk/logger"
)

// Storer defines the data storage interface for Account.
type Storer interface {
	repositories.Storer[Account, CreateAccount, UpdateAccount, AccountFilter]
	GetByProviderAccount(ctx context.Context, provider, providerAccountID string) (Account, error)
	ListByUserID(ctx context.Context, userID string) ([]Account, error)
	DeleteByProviderAccount(ctx context.Context, provider, providerAccountID string) (Account, error)
}

type Repository struct {
	repositories.Repository[Account, CreateAccount, UpdateAccount, AccountFilter]
	log    *logger.Logger
	storer Storer
}

func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		Repository: repositories.NewRepository(log, "account", storer),
		log:        log,
		storer:     storer,
	}
}

// GetByProviderAccount finds an account by its provider identity.
func (r *Repository) GetByProviderAccount(ctx context.Context, provider, providerAccountID string) (Account, error) {
	account, err := r.storer.GetByProviderAccount(ctx, provider, providerAccountID)
	if err != nil {
		return Account{}, fmt.Errorf("get account %s/%s: %w", provider, providerAccountID, err)
	}
	return account, nil
}

func (r *Repository) ListByUserID(ctx context.Context, userID string) ([]Account, error) {
	accounts, err := r.storer.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts for user %s: %w", userID, err)
	}
	return accounts, nil
}

// UnlinkAccount removes a provider identity from its user and returns what was removed.
func (r *Repository) UnlinkAccount(ctx context.Context, provider, providerAccountID string) (Account, error) {
	account, err := r.storer.DeleteByProviderAccount(ctx, provider, providerAccountID)
	if err != nil {
		return Account{}, fmt.Errorf("unlink account %s/%s: %w", provider, providerAccountID, err)
	}
	r.log.InfoContext(ctx, "account unlinked", "provider", provider, "user_id", account.UserID)
	return account, nil
}
