package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/easyfibu/kassenbuch-service/internal/apperrors"
	"github.com/easyfibu/kassenbuch-service/internal/core/domain"
	portsrepo "github.com/easyfibu/kassenbuch-service/internal/core/ports/repositories"
	portssvc "github.com/easyfibu/kassenbuch-service/internal/core/ports/services"
	"github.com/easyfibu/kassenbuch-service/internal/dto"
	"github.com/easyfibu/kassenbuch-service/internal/middleware"
)

// TransitService manages the register of pass-through items: money held for a
// third party, outside income and expense.
type TransitService struct {
	transitRepo portsrepo.TransitRepositoryFacade
	accountSvc  portssvc.AccountReaderSvc
}

func NewTransitService(transitRepo portsrepo.TransitRepositoryFacade, accountSvc portssvc.AccountReaderSvc) *TransitService {
	return &TransitService{
		transitRepo: transitRepo,
		accountSvc:  accountSvc,
	}
}

// ReceiveItem records a pass-through amount taken in for a beneficiary.
func (s *TransitService) ReceiveItem(ctx context.Context, orgID string, req dto.ReceiveTransitRequest, userID string) (*domain.TransitItem, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: received amount must be positive", apperrors.ErrInvalidAmount)
	}

	account, err := s.accountSvc.GetAccountByNumber(ctx, req.AccountNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrUnknownAccount, req.AccountNumber)
		}
		return nil, err
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrAccountNotPostable, req.AccountNumber)
	}
	if account.Kind != domain.KindTransit {
		return nil, fmt.Errorf("%w: account %s is %s", apperrors.ErrAccountNotTransit, req.AccountNumber, account.Kind)
	}

	item := domain.TransitItem{
		ItemID:         uuid.NewString(),
		OrganizationID: orgID,
		AccountNumber:  req.AccountNumber,
		Description:    req.Description,
		Beneficiary:    req.Beneficiary,
		ReceivedDate:   req.ReceivedDate,
		ReceivedAmount: req.Amount,
		Status:         domain.TransitOpen,
		Reference:      req.Reference,
		Note:           req.Note,
		AuditFields:    domain.NewAuditFields(userID, time.Now()),
	}

	if err := s.transitRepo.SaveItem(ctx, item); err != nil {
		logger.Error("Failed to save transit item", slog.String("error", err.Error()), slog.String("beneficiary", req.Beneficiary))
		return nil, err
	}

	logger.Info("Transit item received", slog.String("item_id", item.ItemID), slog.String("beneficiary", item.Beneficiary))
	return &item, nil
}

// DisburseItem records a forwarding of funds to the beneficiary. Disbursements
// accumulate; the status follows the amounts. With PostToLedger set, the
// matching ledger entry is written in the same transaction and linked back.
// The repository re-applies the disbursement against the row it locks, so the
// returned item reflects concurrent disbursements this call never saw.
func (s *TransitService) DisburseItem(ctx context.Context, orgID string, itemID string, req dto.DisburseTransitRequest, userID string) (*domain.TransitItem, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	item, err := s.getOwnedItem(ctx, orgID, itemID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	disbursement := domain.Disbursement{
		Amount:    req.Amount,
		Date:      req.Date,
		Reference: req.Reference,
	}

	// Fast fail on a snapshot copy; the locked row inside the repository has
	// the final say.
	check := *item
	if err := check.ApplyDisbursement(disbursement, userID, now); err != nil {
		return nil, fmt.Errorf("%w: item %s", err, itemID)
	}

	var entry *domain.LedgerEntry
	if req.PostToLedger {
		entry, err = s.buildDisbursementEntry(orgID, item, req, userID, now)
		if err != nil {
			return nil, err
		}
	}

	updated, _, err := s.transitRepo.UpdateDisbursement(ctx, itemID, disbursement, userID, now, entry)
	if err != nil {
		if !errors.Is(err, apperrors.ErrYearClosed) && !errors.Is(err, apperrors.ErrOverDisbursement) && !errors.Is(err, apperrors.ErrItemAlreadySettled) {
			logger.Error("Failed to update disbursement", slog.String("error", err.Error()), slog.String("item_id", itemID))
		}
		return nil, err
	}

	logger.Info("Transit item disbursed", slog.String("item_id", itemID), slog.String("status", string(updated.Status)), slog.String("amount", req.Amount.String()))
	return updated, nil
}

// buildDisbursementEntry posts on the item's stored account without resolving
// it again. Deactivating a transit account blocks new receipts, not the return
// of money already held for a beneficiary.
func (s *TransitService) buildDisbursementEntry(orgID string, item *domain.TransitItem, req dto.DisburseTransitRequest, userID string, now time.Time) (*domain.LedgerEntry, error) {
	year := req.FiscalYear
	if year == 0 {
		year = req.Date.Year()
	}
	text := req.Text
	if text == "" {
		text = "Durchlaufender Posten: " + item.Beneficiary
	}

	entry := domain.LedgerEntry{
		OrganizationID: orgID,
		FiscalYear:     year,
		PostingDate:    req.Date,
		AccountNumber:  item.AccountNumber,
		Text:           text,
		PaymentMethod:  req.PaymentMethod,
		Note:           req.Reference,
		AuditFields:    domain.NewAuditFields(userID, now),
	}
	switch req.Movement {
	case domain.MovementBank:
		entry.BankOut = req.Amount
	default:
		entry.CashOut = req.Amount
	}

	if err := entry.ValidateShape(); err != nil {
		return nil, err
	}
	if err := entry.ValidateDate(); err != nil {
		return nil, fmt.Errorf("%w: disbursement date %s is outside fiscal year %d", err, req.Date.Format("2006-01-02"), year)
	}
	return &entry, nil
}

// GetItem retrieves one transit item owned by the organization.
func (s *TransitService) GetItem(ctx context.Context, orgID string, itemID string) (*domain.TransitItem, error) {
	return s.getOwnedItem(ctx, orgID, itemID)
}

// ListItems retrieves transit items, optionally filtered by status.
func (s *TransitService) ListItems(ctx context.Context, orgID string, status domain.TransitStatus) ([]domain.TransitItem, error) {
	var (
		items []domain.TransitItem
		err   error
	)
	if status == "" {
		items, err = s.transitRepo.ListItems(ctx, orgID)
	} else {
		items, err = s.transitRepo.ListItemsByStatus(ctx, orgID, status)
	}
	if err != nil {
		return nil, err
	}
	if items == nil {
		return []domain.TransitItem{}, nil
	}
	return items, nil
}

// ListItemsByAccount retrieves items booked on one transit account.
func (s *TransitService) ListItemsByAccount(ctx context.Context, orgID string, accountNumber string) ([]domain.TransitItem, error) {
	items, err := s.transitRepo.ListItemsByAccount(ctx, orgID, accountNumber)
	if err != nil {
		return nil, err
	}
	if items == nil {
		return []domain.TransitItem{}, nil
	}
	return items, nil
}

// OpenBalance sums the outstanding amount over all not yet settled items.
func (s *TransitService) OpenBalance(ctx context.Context, orgID string) (decimal.Decimal, int, error) {
	items, err := s.transitRepo.ListOpenItems(ctx, orgID)
	if err != nil {
		return decimal.Zero, 0, err
	}
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Outstanding())
	}
	return total, len(items), nil
}

// SummaryByBeneficiary aggregates items per beneficiary, largest outstanding
// first, name as tie-break.
func (s *TransitService) SummaryByBeneficiary(ctx context.Context, orgID string) ([]domain.BeneficiarySummary, error) {
	items, err := s.transitRepo.ListItems(ctx, orgID)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*domain.BeneficiarySummary)
	names := make([]string, 0)
	for _, item := range items {
		sum, ok := byName[item.Beneficiary]
		if !ok {
			sum = &domain.BeneficiarySummary{Beneficiary: item.Beneficiary}
			byName[item.Beneficiary] = sum
			names = append(names, item.Beneficiary)
		}
		sum.TotalReceived = sum.TotalReceived.Add(item.ReceivedAmount)
		sum.TotalDisbursed = sum.TotalDisbursed.Add(item.DisbursedAmount)
		sum.Outstanding = sum.Outstanding.Add(item.Outstanding())
		sum.ItemCount++
	}

	summaries := make([]domain.BeneficiarySummary, 0, len(names))
	for _, name := range names {
		summaries = append(summaries, *byName[name])
	}
	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].Outstanding.Equal(summaries[j].Outstanding) {
			return summaries[i].Outstanding.GreaterThan(summaries[j].Outstanding)
		}
		return summaries[i].Beneficiary < summaries[j].Beneficiary
	})
	return summaries, nil
}

// getOwnedItem loads an item and hides it when it belongs to another
// organization.
func (s *TransitService) getOwnedItem(ctx context.Context, orgID string, itemID string) (*domain.TransitItem, error) {
	item, err := s.transitRepo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OrganizationID != orgID {
		return nil, apperrors.ErrNotFound
	}
	return item, nil
}
