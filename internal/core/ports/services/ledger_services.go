package services

import (
	"context"
	"time"

	"github.com/easyfibu/kassenbuch-service/internal/core/domain"
	"github.com/easyfibu/kassenbuch-service/internal/dto"
)

// LedgerReaderSvc defines read operations over the cash book
type LedgerReaderSvc interface {
	// GetEntry retrieves one entry by its voucher number within a fiscal year.
	GetEntry(ctx context.Context, orgID string, year int, voucherNo int) (*domain.LedgerEntry, error)

	// ListEntriesByYear retrieves all entries of a fiscal year in voucher order.
	ListEntriesByYear(ctx context.Context, orgID string, year int) ([]domain.LedgerEntry, error)

	// ListEntriesByAccount retrieves the statement of one account for a fiscal year.
	ListEntriesByAccount(ctx context.Context, orgID string, year int, accountNumber string) ([]domain.LedgerEntry, error)

	// ListEntriesByDateRange retrieves entries posted within [from, to].
	ListEntriesByDateRange(ctx context.Context, orgID string, from, to time.Time) ([]domain.LedgerEntry, error)

	// NextVoucherNumber previews the voucher number the next posting would take.
	NextVoucherNumber(ctx context.Context, orgID string, year int) (int, error)
}

// LedgerWriterSvc defines write operations over the cash book
type LedgerWriterSvc interface {
	// PostEntry validates and appends a new entry, assigning the next voucher number.
	PostEntry(ctx context.Context, orgID string, req dto.CreatePostingRequest, userID string) (*domain.LedgerEntry, error)

	// ReverseEntry appends a mirror entry for the given voucher and marks the
	// original as reversed. Reversals cannot themselves be reversed.
	ReverseEntry(ctx context.Context, orgID string, year int, voucherNo int, req dto.ReverseEntryRequest, userID string) (*domain.LedgerEntry, error)
}

// LedgerCalculatorSvc defines derivation operations over the cash book
type LedgerCalculatorSvc interface {
	// CalculateBalances derives running cash and bank balances for a fiscal
	// year, including the opening balances carried from the prior closing.
	CalculateBalances(ctx context.Context, orgID string, year int) (domain.YearBalances, error)

	// AccountSummary aggregates income and expense per account for a fiscal year.
	AccountSummary(ctx context.Context, orgID string, year int) ([]domain.AccountSummary, error)
}

// LedgerSvcFacade combines all ledger-related service interfaces
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
	LedgerCalculatorSvc
}
