package services

import (
	"context"

	"github.com/easyfibu/kassenbuch-service/internal/core/domain"
	"github.com/easyfibu/kassenbuch-service/internal/dto"
)

// AccountReaderSvc defines read operations for the chart of accounts
type AccountReaderSvc interface {
	// GetAccountByNumber retrieves a specific account by its posting number.
	GetAccountByNumber(ctx context.Context, number string) (*domain.Account, error)

	// GetAccountsByNumbers retrieves several accounts in one lookup, keyed by
	// number. Unknown numbers are simply absent from the result.
	GetAccountsByNumbers(ctx context.Context, numbers []string) (map[string]domain.Account, error)

	// ListAccounts retrieves the chart of accounts, ordered by sort order then number.
	ListAccounts(ctx context.Context, onlyActive bool) ([]domain.Account, error)

	// ValidateForPosting returns the account if it exists, is active and matches
	// the required kind; the zero kind skips the kind check.
	ValidateForPosting(ctx context.Context, number string, requiredKind domain.AccountKind) (*domain.Account, error)
}

// AccountWriterSvc defines write operations for the chart of accounts
type AccountWriterSvc interface {
	// RegisterAccount persists a new posting account.
	RegisterAccount(ctx context.Context, req dto.RegisterAccountRequest, userID string) (*domain.Account, error)

	// UpdateAccount updates the mutable details of an account.
	UpdateAccount(ctx context.Context, number string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// DeactivateAccount marks an account as inactive, blocking new postings.
	// With refuseIfUsed set, accounts that carry ledger entries are refused.
	DeactivateAccount(ctx context.Context, number string, refuseIfUsed bool, userID string) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
