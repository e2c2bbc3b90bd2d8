package repositories

import (
	"context"
	"time"

	"github.com/easyfibu/kassenbuch-service/internal/core/domain"
)

// AccountReader defines read operations for the chart of accounts.
// Lookups must resolve inactive accounts too: historical postings reference
// them and deactivation only blocks new postings.
type AccountReader interface {
	// FindAccountByNumber retrieves an account by its number.
	FindAccountByNumber(ctx context.Context, number string) (*domain.Account, error)

	// FindAccountsByNumbers retrieves several accounts at once, keyed by number.
	FindAccountsByNumbers(ctx context.Context, numbers []string) (map[string]domain.Account, error)

	// ListAccounts retrieves the chart of accounts in sort order, optionally
	// restricted to active accounts.
	ListAccounts(ctx context.Context, onlyActive bool) ([]domain.Account, error)
}

// AccountWriter defines write operations for the chart of accounts.
type AccountWriter interface {
	// SaveAccount persists a new account. Returns ErrDuplicateAccount when the
	// number is already registered.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates name, category, kind and sort order of an account.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount flips the active flag off. The account row remains
	// resolvable for historical postings.
	DeactivateAccount(ctx context.Context, number string, actor string, at time.Time) error
}

// AccountRepositoryFacade combines all chart-of-accounts repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
