package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/easyfibu/kassenbuch-service/internal/apperrors"
	"github.com/easyfibu/kassenbuch-service/internal/core/domain"
	portsrepo "github.com/easyfibu/kassenbuch-service/internal/core/ports/repositories"
	"github.com/easyfibu/kassenbuch-service/internal/dto"
	"github.com/easyfibu/kassenbuch-service/internal/middleware"
)

// AccountService manages the chart of accounts.
type AccountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	entryRepo   portsrepo.EntryReader
}

func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, entryRepo portsrepo.EntryReader) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
	}
}

// RegisterAccount persists a new posting account after validating its shape.
func (s *AccountService) RegisterAccount(ctx context.Context, req dto.RegisterAccountRequest, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now()

	account := domain.Account{
		Number:      req.Number,
		Name:        req.Name,
		Category:    req.Category,
		Kind:        req.Kind,
		SortOrder:   req.SortOrder,
		IsActive:    true,
		AuditFields: domain.NewAuditFields(userID, now),
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicateAccount) {
			logger.Error("Failed to save account in repository", slog.String("error", err.Error()), slog.String("account_number", account.Number))
		}
		return nil, err
	}

	logger.Info("Account registered", slog.String("account_number", account.Number), slog.String("kind", string(account.Kind)))
	return &account, nil
}

// GetAccountByNumber retrieves one account from the chart.
func (s *AccountService) GetAccountByNumber(ctx context.Context, number string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	account, err := s.accountRepo.FindAccountByNumber(ctx, number)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find account by number", slog.String("error", err.Error()), slog.String("account_number", number))
		}
		return nil, err
	}
	return account, nil
}

// GetAccountsByNumbers retrieves several accounts in one lookup, keyed by
// number. Unknown numbers are simply absent from the result.
func (s *AccountService) GetAccountsByNumbers(ctx context.Context, numbers []string) (map[string]domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	accounts, err := s.accountRepo.FindAccountsByNumbers(ctx, numbers)
	if err != nil {
		logger.Error("Failed to find accounts by numbers", slog.String("error", err.Error()))
		return nil, err
	}
	if accounts == nil {
		return map[string]domain.Account{}, nil
	}
	return accounts, nil
}

// ListAccounts retrieves the chart of accounts.
func (s *AccountService) ListAccounts(ctx context.Context, onlyActive bool) ([]domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	accounts, err := s.accountRepo.ListAccounts(ctx, onlyActive)
	if err != nil {
		logger.Error("Failed to list accounts from repository", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

// ValidateForPosting resolves the account and ensures it may take the posting.
func (s *AccountService) ValidateForPosting(ctx context.Context, number string, requiredKind domain.AccountKind) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrUnknownAccount, number)
		}
		return nil, err
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrAccountNotPostable, number)
	}
	if requiredKind != "" && account.Kind != requiredKind {
		return nil, fmt.Errorf("%w: account %s is %s, expected %s", apperrors.ErrAccountKindMismatch, number, account.Kind, requiredKind)
	}
	return account, nil
}

// UpdateAccount changes the mutable fields of an account.
func (s *AccountService) UpdateAccount(ctx context.Context, number string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil && *req.Name != account.Name {
		account.Name = *req.Name
		updated = true
	}
	if req.SortOrder != nil && *req.SortOrder != account.SortOrder {
		account.SortOrder = *req.SortOrder
		updated = true
	}
	if !updated {
		return account, nil
	}

	account.Touch(userID, time.Now())
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update account in repository", slog.String("error", err.Error()), slog.String("account_number", number))
		return nil, err
	}

	logger.Info("Account updated", slog.String("account_number", number))
	return account, nil
}

// DeactivateAccount marks an account inactive. Deactivation blocks new
// postings only; historical entries keep resolving against the account.
func (s *AccountService) DeactivateAccount(ctx context.Context, number string, refuseIfUsed bool, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByNumber(ctx, number)
	if err != nil {
		return err
	}
	if !account.IsActive {
		return fmt.Errorf("%w: account %s is already inactive", apperrors.ErrValidation, number)
	}

	if refuseIfUsed {
		used, err := s.entryRepo.HasEntriesForAccount(ctx, number)
		if err != nil {
			logger.Error("Failed to check account usage", slog.String("error", err.Error()), slog.String("account_number", number))
			return err
		}
		if used {
			return fmt.Errorf("%w: account %s has ledger entries", apperrors.ErrAccountInUse, number)
		}
	}

	if err := s.accountRepo.DeactivateAccount(ctx, number, userID, time.Now()); err != nil {
		logger.Error("Failed to deactivate account in repository", slog.String("error", err.Error()), slog.String("account_number", number))
		return err
	}

	logger.Info("Account deactivated", slog.String("account_number", number))
	return nil
}
