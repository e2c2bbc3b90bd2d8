package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/easyfibu/kassenbuch-service/internal/apperrors"
	"github.com/easyfibu/kassenbuch-service/internal/core/domain"
	portsrepo "github.com/easyfibu/kassenbuch-service/internal/core/ports/repositories"
	portssvc "github.com/easyfibu/kassenbuch-service/internal/core/ports/services"
	"github.com/easyfibu/kassenbuch-service/internal/dto"
	"github.com/easyfibu/kassenbuch-service/internal/middleware"
)

// LedgerService implements the cash book: append-only postings with gapless
// voucher numbers, reversals and derived balances.
type LedgerService struct {
	entryRepo   portsrepo.EntryRepositoryFacade
	closingRepo portsrepo.ClosingReader
	accountSvc  portssvc.AccountReaderSvc
	publisher   portssvc.EventPublisherSvc // optional, may be nil
}

func NewLedgerService(entryRepo portsrepo.EntryRepositoryFacade, closingRepo portsrepo.ClosingReader, accountSvc portssvc.AccountReaderSvc, publisher portssvc.EventPublisherSvc) *LedgerService {
	return &LedgerService{
		entryRepo:   entryRepo,
		closingRepo: closingRepo,
		accountSvc:  accountSvc,
		publisher:   publisher,
	}
}

// PostEntry validates and appends a new entry. The voucher number is assigned
// by the repository inside the insert transaction, never by the caller.
func (s *LedgerService) PostEntry(ctx context.Context, orgID string, req dto.CreatePostingRequest, userID string) (*domain.LedgerEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now()

	entry := domain.LedgerEntry{
		OrganizationID: orgID,
		FiscalYear:     req.FiscalYear,
		PostingDate:    req.PostingDate,
		AccountNumber:  req.AccountNumber,
		Text:           req.Text,
		CashIn:         req.CashIn,
		CashOut:        req.CashOut,
		BankIn:         req.BankIn,
		BankOut:        req.BankOut,
		PaymentMethod:  req.PaymentMethod,
		Note:           req.Note,
		AuditFields:    domain.NewAuditFields(userID, now),
	}

	if err := entry.ValidateShape(); err != nil {
		return nil, fmt.Errorf("%w: amounts must be non-negative and move either cash or bank", err)
	}
	if err := entry.ValidateDate(); err != nil {
		return nil, fmt.Errorf("%w: posting date %s is outside fiscal year %d", err, req.PostingDate.Format("2006-01-02"), req.FiscalYear)
	}

	account, err := s.accountSvc.ValidateForPosting(ctx, req.AccountNumber, "")
	if err != nil {
		return nil, err
	}
	if err := entry.ValidateAgainstAccount(*account); err != nil {
		return nil, fmt.Errorf("%w: account %s is %s", err, account.Number, account.Kind)
	}

	saved, err := s.entryRepo.SaveEntry(ctx, entry)
	if err != nil {
		if !errors.Is(err, apperrors.ErrYearClosed) {
			logger.Error("Failed to save ledger entry", slog.String("error", err.Error()), slog.String("organization_id", orgID), slog.Int("fiscal_year", req.FiscalYear))
		}
		return nil, err
	}

	logger.Info("Ledger entry posted", slog.String("organization_id", orgID), slog.Int("fiscal_year", saved.FiscalYear), slog.Int("voucher_no", saved.VoucherNo))

	if s.publisher != nil {
		if err := s.publisher.PublishEntryPosted(ctx, saved); err != nil {
			// Publishing is best effort, the entry is already committed.
			logger.Warn("Failed to publish entry posted event", slog.String("error", err.Error()), slog.Int("voucher_no", saved.VoucherNo))
		}
	}
	return saved, nil
}

// ReverseEntry appends a mirror entry for the given voucher and marks the
// original reversed. The original keeps its voucher number.
func (s *LedgerService) ReverseEntry(ctx context.Context, orgID string, year int, voucherNo int, req dto.ReverseEntryRequest, userID string) (*domain.LedgerEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.entryRepo.FindEntryByVoucher(ctx, orgID, year, voucherNo)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to load entry for reversal", slog.String("error", err.Error()), slog.Int("voucher_no", voucherNo))
		}
		return nil, err
	}
	if original.Reversed {
		return nil, fmt.Errorf("%w: voucher %d", apperrors.ErrAlreadyReversed, voucherNo)
	}
	if original.IsReversal() {
		return nil, fmt.Errorf("%w: voucher %d is itself a reversal", apperrors.ErrConflict, voucherNo)
	}

	reversal := original.Reversal(req.ReversalDate, userID, time.Now())

	saved, err := s.entryRepo.SaveReversal(ctx, *original, reversal)
	if err != nil {
		if !errors.Is(err, apperrors.ErrYearClosed) && !errors.Is(err, apperrors.ErrAlreadyReversed) {
			logger.Error("Failed to save reversal", slog.String("error", err.Error()), slog.Int("voucher_no", voucherNo))
		}
		return nil, err
	}

	logger.Info("Ledger entry reversed", slog.String("organization_id", orgID), slog.Int("original_voucher_no", voucherNo), slog.Int("reversal_voucher_no", saved.VoucherNo))

	if s.publisher != nil {
		if err := s.publisher.PublishEntryReversed(ctx, original, saved); err != nil {
			logger.Warn("Failed to publish entry reversed event", slog.String("error", err.Error()), slog.Int("voucher_no", saved.VoucherNo))
		}
	}
	return saved, nil
}

// GetEntry retrieves one entry by voucher number.
func (s *LedgerService) GetEntry(ctx context.Context, orgID string, year int, voucherNo int) (*domain.LedgerEntry, error) {
	return s.entryRepo.FindEntryByVoucher(ctx, orgID, year, voucherNo)
}

// ListEntriesByYear retrieves a fiscal year's entries in voucher order.
func (s *LedgerService) ListEntriesByYear(ctx context.Context, orgID string, year int) ([]domain.LedgerEntry, error) {
	entries, err := s.entryRepo.ListEntriesByYear(ctx, orgID, year)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		return []domain.LedgerEntry{}, nil
	}
	return entries, nil
}

// ListEntriesByAccount retrieves the statement of one account for a year.
func (s *LedgerService) ListEntriesByAccount(ctx context.Context, orgID string, year int, accountNumber string) ([]domain.LedgerEntry, error) {
	if _, err := s.accountSvc.GetAccountByNumber(ctx, accountNumber); err != nil {
		return nil, err
	}
	entries, err := s.entryRepo.ListEntriesByAccount(ctx, orgID, year, accountNumber)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		return []domain.LedgerEntry{}, nil
	}
	return entries, nil
}

// ListEntriesByDateRange retrieves entries posted within [from, to].
func (s *LedgerService) ListEntriesByDateRange(ctx context.Context, orgID string, from, to time.Time) ([]domain.LedgerEntry, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: date range end precedes start", apperrors.ErrValidation)
	}
	entries, err := s.entryRepo.ListEntriesByDateRange(ctx, orgID, from, to)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		return []domain.LedgerEntry{}, nil
	}
	return entries, nil
}

// NextVoucherNumber previews the number the next posting would take.
func (s *LedgerService) NextVoucherNumber(ctx context.Context, orgID string, year int) (int, error) {
	return s.entryRepo.NextVoucherNo(ctx, orgID, year)
}

// CalculateBalances derives the year's running balances by folding over all
// entries in voucher order. Opening balances carry over from the prior year's
// closing.
func (s *LedgerService) CalculateBalances(ctx context.Context, orgID string, year int) (domain.YearBalances, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	openingCash := decimal.Zero
	openingBank := decimal.Zero
	prior, err := s.closingRepo.FindClosingByYear(ctx, orgID, year-1)
	switch {
	case err == nil:
		openingCash = prior.ClosingCash
		openingBank = prior.ClosingBank
	case errors.Is(err, apperrors.ErrNotFound):
		// First tracked year, opening stays zero.
	default:
		logger.Error("Failed to load prior closing", slog.String("error", err.Error()), slog.Int("year", year-1))
		return domain.YearBalances{}, err
	}

	entries, err := s.entryRepo.ListEntriesByYear(ctx, orgID, year)
	if err != nil {
		logger.Error("Failed to list entries for balance fold", slog.String("error", err.Error()), slog.Int("year", year))
		return domain.YearBalances{}, err
	}

	return domain.DeriveBalances(orgID, year, openingCash, openingBank, entries), nil
}

// AccountSummary aggregates income and expense per posted account for a year.
func (s *LedgerService) AccountSummary(ctx context.Context, orgID string, year int) ([]domain.AccountSummary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entries, err := s.entryRepo.ListEntriesByYear(ctx, orgID, year)
	if err != nil {
		logger.Error("Failed to list entries for account summary", slog.String("error", err.Error()), slog.Int("year", year))
		return nil, err
	}

	byAccount := make(map[string]*domain.AccountSummary)
	numbers := make([]string, 0)
	for _, e := range entries {
		if e.Reversed || e.IsReversal() {
			continue
		}
		sum, ok := byAccount[e.AccountNumber]
		if !ok {
			sum = &domain.AccountSummary{AccountNumber: e.AccountNumber}
			byAccount[e.AccountNumber] = sum
			numbers = append(numbers, e.AccountNumber)
		}
		sum.TotalIncome = sum.TotalIncome.Add(e.IncomeAmount())
		sum.TotalExpense = sum.TotalExpense.Add(e.ExpenseAmount())
		sum.EntryCount++
	}

	if len(numbers) == 0 {
		return []domain.AccountSummary{}, nil
	}

	accounts, err := s.accountSvc.GetAccountsByNumbers(ctx, numbers)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.AccountSummary, 0, len(byAccount))
	for _, number := range numbers {
		sum := byAccount[number]
		sum.Net = sum.TotalIncome.Sub(sum.TotalExpense)
		if acc, ok := accounts[number]; ok {
			sum.AccountName = acc.Name
		}
		summaries = append(summaries, *sum)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].AccountNumber < summaries[j].AccountNumber
	})
	return summaries, nil
}
