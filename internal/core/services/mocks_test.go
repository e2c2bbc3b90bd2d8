package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/easyfibu/kassenbuch-service/internal/core/domain"
	portsrepo "github.com/easyfibu/kassenbuch-service/internal/core/ports/repositories"
	portssvc "github.com/easyfibu/kassenbuch-service/internal/core/ports/services"
)

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByNumber(ctx context.Context, number string) (*domain.Account, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByNumbers(ctx context.Context, numbers []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, numbers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, onlyActive bool) ([]domain.Account, error) {
	args := m.Called(ctx, onlyActive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, number string, actor string, at time.Time) error {
	args := m.Called(ctx, number, actor, at)
	return args.Error(0)
}

// --- Mock EntryRepository ---

type MockEntryRepository struct {
	mock.Mock
}

var _ portsrepo.EntryRepositoryFacade = (*MockEntryRepository)(nil)

func (m *MockEntryRepository) FindEntryByVoucher(ctx context.Context, orgID string, year int, voucherNo int) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, orgID, year, voucherNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockEntryRepository) ListEntriesByYear(ctx context.Context, orgID string, year int) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, orgID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockEntryRepository) ListEntriesByAccount(ctx context.Context, orgID string, year int, accountNumber string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, orgID, year, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockEntryRepository) ListEntriesByDateRange(ctx context.Context, orgID string, from, to time.Time) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, orgID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockEntryRepository) NextVoucherNo(ctx context.Context, orgID string, year int) (int, error) {
	args := m.Called(ctx, orgID, year)
	return args.Int(0), args.Error(1)
}

func (m *MockEntryRepository) HasEntriesForAccount(ctx context.Context, accountNumber string) (bool, error) {
	args := m.Called(ctx, accountNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockEntryRepository) SaveEntry(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockEntryRepository) SaveReversal(ctx context.Context, original domain.LedgerEntry, reversal domain.LedgerEntry) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, original, reversal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

// --- Mock ClosingRepository ---

type MockClosingRepository struct {
	mock.Mock
}

var _ portsrepo.ClosingRepositoryFacade = (*MockClosingRepository)(nil)

func (m *MockClosingRepository) FindClosingByID(ctx context.Context, closingID string) (*domain.YearClosing, error) {
	args := m.Called(ctx, closingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.YearClosing), args.Error(1)
}

func (m *MockClosingRepository) FindClosingByYear(ctx context.Context, orgID string, year int) (*domain.YearClosing, error) {
	args := m.Called(ctx, orgID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.YearClosing), args.Error(1)
}

func (m *MockClosingRepository) FindLatestClosing(ctx context.Context, orgID string) (*domain.YearClosing, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.YearClosing), args.Error(1)
}

func (m *MockClosingRepository) ListClosings(ctx context.Context, orgID string) ([]domain.YearClosing, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.YearClosing), args.Error(1)
}

func (m *MockClosingRepository) SaveClosing(ctx context.Context, closing domain.YearClosing, derive func(entries []domain.LedgerEntry) domain.YearBalances) (*domain.YearClosing, error) {
	args := m.Called(ctx, closing, derive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.YearClosing), args.Error(1)
}

func (m *MockClosingRepository) MarkAudited(ctx context.Context, closingID string, auditorName string, actor string, at time.Time) error {
	args := m.Called(ctx, closingID, auditorName, actor, at)
	return args.Error(0)
}

func (m *MockClosingRepository) UpdateRemarks(ctx context.Context, closingID string, remarks string, actor string, at time.Time) error {
	args := m.Called(ctx, closingID, remarks, actor, at)
	return args.Error(0)
}

// --- Mock TransitRepository ---

type MockTransitRepository struct {
	mock.Mock
}

var _ portsrepo.TransitRepositoryFacade = (*MockTransitRepository)(nil)

func (m *MockTransitRepository) FindItemByID(ctx context.Context, itemID string) (*domain.TransitItem, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransitItem), args.Error(1)
}

func (m *MockTransitRepository) ListItems(ctx context.Context, orgID string) ([]domain.TransitItem, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransitItem), args.Error(1)
}

func (m *MockTransitRepository) ListItemsByStatus(ctx context.Context, orgID string, status domain.TransitStatus) ([]domain.TransitItem, error) {
	args := m.Called(ctx, orgID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransitItem), args.Error(1)
}

func (m *MockTransitRepository) ListOpenItems(ctx context.Context, orgID string) ([]domain.TransitItem, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransitItem), args.Error(1)
}

func (m *MockTransitRepository) ListItemsByAccount(ctx context.Context, orgID string, accountNumber string) ([]domain.TransitItem, error) {
	args := m.Called(ctx, orgID, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransitItem), args.Error(1)
}

func (m *MockTransitRepository) SaveItem(ctx context.Context, item domain.TransitItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockTransitRepository) UpdateDisbursement(ctx context.Context, itemID string, d domain.Disbursement, actor string, at time.Time, entry *domain.LedgerEntry) (*domain.TransitItem, *domain.LedgerEntry, error) {
	args := m.Called(ctx, itemID, d, actor, at, entry)
	var item *domain.TransitItem
	if args.Get(0) != nil {
		item = args.Get(0).(*domain.TransitItem)
	}
	var saved *domain.LedgerEntry
	if args.Get(1) != nil {
		saved = args.Get(1).(*domain.LedgerEntry)
	}
	return item, saved, args.Error(2)
}

// --- Mock DonationRepository ---

type MockDonationRepository struct {
	mock.Mock
}

var _ portsrepo.DonationRepositoryFacade = (*MockDonationRepository)(nil)

func (m *MockDonationRepository) FindProtocolByID(ctx context.Context, protocolID string) (*domain.DonationProtocol, error) {
	args := m.Called(ctx, protocolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DonationProtocol), args.Error(1)
}

func (m *MockDonationRepository) ListProtocols(ctx context.Context, orgID string) ([]domain.DonationProtocol, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DonationProtocol), args.Error(1)
}

func (m *MockDonationRepository) ListProtocolsByDateRange(ctx context.Context, orgID string, from, to time.Time) ([]domain.DonationProtocol, error) {
	args := m.Called(ctx, orgID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DonationProtocol), args.Error(1)
}

func (m *MockDonationRepository) SaveProtocol(ctx context.Context, protocol domain.DonationProtocol) error {
	args := m.Called(ctx, protocol)
	return args.Error(0)
}

// --- Mock EventPublisher ---

type MockEventPublisher struct {
	mock.Mock
}

var _ portssvc.EventPublisherSvc = (*MockEventPublisher)(nil)

func (m *MockEventPublisher) PublishEntryPosted(ctx context.Context, entry *domain.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishEntryReversed(ctx context.Context, original, reversal *domain.LedgerEntry) error {
	args := m.Called(ctx, original, reversal)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishYearClosed(ctx context.Context, closing *domain.YearClosing) error {
	args := m.Called(ctx, closing)
	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}
