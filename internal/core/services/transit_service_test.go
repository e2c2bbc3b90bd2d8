package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/easyfibu/kassenbuch-service/internal/apperrors"
	"github.com/easyfibu/kassenbuch-service/internal/core/domain"
	"github.com/easyfibu/kassenbuch-service/internal/core/services"
	"github.com/easyfibu/kassenbuch-service/internal/dto"
)

type TransitServiceTestSuite struct {
	suite.Suite
	mockTransitRepo *MockTransitRepository
	mockAccountRepo *MockAccountRepository
	mockEntryRepo   *MockEntryRepository
	service         *services.TransitService
	ctx             context.Context

	orgID          string
	userID         string
	transitAccount domain.Account
}

func (s *TransitServiceTestSuite) SetupTest() {
	s.mockTransitRepo = new(MockTransitRepository)
	s.mockAccountRepo = new(MockAccountRepository)
	s.mockEntryRepo = new(MockEntryRepository)
	accountSvc := services.NewAccountService(s.mockAccountRepo, s.mockEntryRepo)
	s.service = services.NewTransitService(s.mockTransitRepo, accountSvc)
	s.ctx = context.Background()

	s.orgID = "org-berlin-ev"
	s.userID = "user-kassenwart"
	s.transitAccount = domain.Account{
		Number:   "5000",
		Name:     "Durchlaufende Spenden",
		Category: domain.CategoryTransit,
		Kind:     domain.KindTransit,
		IsActive: true,
	}
}

func (s *TransitServiceTestSuite) openItem(received int64) *domain.TransitItem {
	return &domain.TransitItem{
		ItemID:         uuid.NewString(),
		OrganizationID: s.orgID,
		AccountNumber:  s.transitAccount.Number,
		Description:    "Kurban Sammlung",
		Beneficiary:    "Hilfswerk e.V.",
		ReceivedDate:   time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC),
		ReceivedAmount: decimal.NewFromInt(received),
		Status:         domain.TransitOpen,
	}
}

// disbursed derives the row state the repository would hand back after
// applying the disbursement under its lock.
func (s *TransitServiceTestSuite) disbursed(item domain.TransitItem, amount int64, date time.Time) *domain.TransitItem {
	s.Require().NoError(item.ApplyDisbursement(domain.Disbursement{
		Amount: decimal.NewFromInt(amount),
		Date:   date,
	}, s.userID, time.Now()))
	return &item
}

func (s *TransitServiceTestSuite) TestReceiveItem_Success() {
	req := dto.ReceiveTransitRequest{
		AccountNumber: s.transitAccount.Number,
		Description:   "Kurban Sammlung",
		Beneficiary:   "Hilfswerk e.V.",
		ReceivedDate:  time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC),
		Amount:        decimal.NewFromInt(500),
		Reference:     "Q-2025-017",
	}

	s.mockAccountRepo.On("FindAccountByNumber", s.ctx, req.AccountNumber).Return(&s.transitAccount, nil).Once()
	s.mockTransitRepo.On("SaveItem", s.ctx, mock.AnythingOfType("domain.TransitItem")).Return(nil).Once()

	item, err := s.service.ReceiveItem(s.ctx, s.orgID, req, s.userID)

	s.NoError(err)
	s.Require().NotNil(item)
	s.NotEmpty(item.ItemID)
	s.Equal(domain.TransitOpen, item.Status)
	s.True(item.ReceivedAmount.Equal(decimal.NewFromInt(500)))
	s.True(item.DisbursedAmount.IsZero())
	s.mockTransitRepo.AssertExpectations(s.T())
}

func (s *TransitServiceTestSuite) TestReceiveItem_NonPositiveAmount() {
	req := dto.ReceiveTransitRequest{
		AccountNumber: s.transitAccount.Number,
		Beneficiary:   "Hilfswerk e.V.",
		Amount:        decimal.Zero,
	}

	item, err := s.service.ReceiveItem(s.ctx, s.orgID, req, s.userID)

	s.Nil(item)
	s.ErrorIs(err, apperrors.ErrInvalidAmount)
	s.mockTransitRepo.AssertNotCalled(s.T(), "SaveItem", mock.Anything, mock.Anything)
}

func (s *TransitServiceTestSuite) TestReceiveItem_NonTransitAccountRejected() {
	incomeAccount := domain.Account{
		Number:   "1100",
		Name:     "Mitgliedsbeitraege",
		Category: domain.CategoryIdealPurpose,
		Kind:     domain.KindIncome,
		IsActive: true,
	}
	req := dto.ReceiveTransitRequest{
		AccountNumber: "1100",
		Beneficiary:   "Hilfswerk e.V.",
		Amount:        decimal.NewFromInt(100),
	}

	s.mockAccountRepo.On("FindAccountByNumber", s.ctx, "1100").Return(&incomeAccount, nil).Once()

	item, err := s.service.ReceiveItem(s.ctx, s.orgID, req, s.userID)

	s.Nil(item)
	s.ErrorIs(err, apperrors.ErrAccountNotTransit)
}

func (s *TransitServiceTestSuite) TestReceiveItem_UnknownAccount() {
	req := dto.ReceiveTransitRequest{
		AccountNumber: "9999",
		Beneficiary:   "Hilfswerk e.V.",
		Amount:        decimal.NewFromInt(100),
	}

	s.mockAccountRepo.On("FindAccountByNumber", s.ctx, "9999").Return(nil, apperrors.ErrNotFound).Once()

	item, err := s.service.ReceiveItem(s.ctx, s.orgID, req, s.userID)

	s.Nil(item)
	s.ErrorIs(err, apperrors.ErrUnknownAccount)
}

func (s *TransitServiceTestSuite) TestDisburseItem_PartialThenSettled() {
	item := s.openItem(500)
	req := dto.DisburseTransitRequest{
		Date:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Amount: decimal.NewFromInt(200),
	}
	partial := s.disbursed(*item, 200, req.Date)

	s.mockTransitRepo.On("FindItemByID", s.ctx, item.ItemID).Return(item, nil).Once()
	s.mockTransitRepo.On("UpdateDisbursement", s.ctx, item.ItemID, mock.AnythingOfType("domain.Disbursement"), s.userID, mock.AnythingOfType("time.Time"), (*domain.LedgerEntry)(nil)).
		Return(partial, nil, nil).Once()

	updated, err := s.service.DisburseItem(s.ctx, s.orgID, item.ItemID, req, s.userID)

	s.NoError(err)
	s.Require().NotNil(updated)
	s.Equal(domain.TransitPartiallySettled, updated.Status)
	s.True(updated.DisbursedAmount.Equal(decimal.NewFromInt(200)))
	s.True(updated.Outstanding().Equal(decimal.NewFromInt(300)))

	// Forward the rest; the item settles.
	req2 := dto.DisburseTransitRequest{
		Date:   time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Amount: decimal.NewFromInt(300),
	}
	final := s.disbursed(*partial, 300, req2.Date)
	s.mockTransitRepo.On("FindItemByID", s.ctx, item.ItemID).Return(partial, nil).Once()
	s.mockTransitRepo.On("UpdateDisbursement", s.ctx, item.ItemID, mock.AnythingOfType("domain.Disbursement"), s.userID, mock.AnythingOfType("time.Time"), (*domain.LedgerEntry)(nil)).
		Return(final, nil, nil).Once()

	settled, err := s.service.DisburseItem(s.ctx, s.orgID, item.ItemID, req2, s.userID)

	s.NoError(err)
	s.Require().NotNil(settled)
	s.Equal(domain.TransitSettled, settled.Status)
	s.True(settled.Outstanding().IsZero())
}

func (s *TransitServiceTestSuite) TestDisburseItem_SettledItemRejected() {
	item := s.openItem(500)
	item.DisbursedAmount = decimal.NewFromInt(500)
	item.Status = domain.TransitSettled

	s.mockTransitRepo.On("FindItemByID", s.ctx, item.ItemID).Return(item, nil).Once()

	updated, err := s.service.DisburseItem(s.ctx, s.orgID, item.ItemID, dto.DisburseTransitRequest{
		Date:   time.Now(),
		Amount: decimal.NewFromInt(1),
	}, s.userID)

	s.Nil(updated)
	s.ErrorIs(err, apperrors.ErrItemAlreadySettled)
	s.mockTransitRepo.AssertNotCalled(s.T(), "UpdateDisbursement", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *TransitServiceTestSuite) TestDisburseItem_OverDisbursementRejected() {
	item := s.openItem(500)
	item.DisbursedAmount = decimal.NewFromInt(400)
	item.Status = domain.TransitPartiallySettled

	s.mockTransitRepo.On("FindItemByID", s.ctx, item.ItemID).Return(item, nil).Once()

	updated, err := s.service.DisburseItem(s.ctx, s.orgID, item.ItemID, dto.DisburseTransitRequest{
		Date:   time.Now(),
		Amount: decimal.NewFromInt(101),
	}, s.userID)

	s.Nil(updated)
	s.ErrorIs(err, apperrors.ErrOverDisbursement)
	s.mockTransitRepo.AssertNotCalled(s.T(), "UpdateDisbursement", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *TransitServiceTestSuite) TestDisburseItem_ConcurrentDisbursementLosesOnRow() {
	// The snapshot still shows nothing disbursed, so the pre-check passes. By
	// the time the repository holds the row lock another disbursement has
	// landed and 300 no longer fits into the 500 received.
	item := s.openItem(500)
	req := dto.DisburseTransitRequest{
		Date:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Amount: decimal.NewFromInt(300),
	}

	s.mockTransitRepo.On("FindItemByID", s.ctx, item.ItemID).Return(item, nil).Once()
	s.mockTransitRepo.On("UpdateDisbursement", s.ctx, item.ItemID, mock.AnythingOfType("domain.Disbursement"), s.userID, mock.AnythingOfType("time.Time"), (*domain.LedgerEntry)(nil)).
		Return(nil, nil, apperrors.ErrOverDisbursement).Once()

	updated, err := s.service.DisburseItem(s.ctx, s.orgID, item.ItemID, req, s.userID)

	s.Nil(updated)
	s.ErrorIs(err, apperrors.ErrOverDisbursement)
}

func (s *TransitServiceTestSuite) TestDisburseItem_ReturnsRowStateNotSnapshot() {
	// A concurrent 200 landed first; this 300 still fits. The caller must see
	// the accumulated row state, not its own stale snapshot.
	item := s.openItem(500)
	req := dto.DisburseTransitRequest{
		Date:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Amount: decimal.NewFromInt(300),
	}
	rowState := s.disbursed(*s.disbursed(*item, 200, req.Date), 300, req.Date)

	s.mockTransitRepo.On("FindItemByID", s.ctx, item.ItemID).Return(item, nil).Once()
	s.mockTransitRepo.On("UpdateDisbursement", s.ctx, item.ItemID, mock.AnythingOfType("domain.Disbursement"), s.userID, mock.AnythingOfType("time.Time"), (*domain.LedgerEntry)(nil)).
		Return(rowState, nil, nil).Once()

	updated, err := s.service.DisburseItem(s.ctx, s.orgID, item.ItemID, req, s.userID)

	s.NoError(err)
	s.Require().NotNil(updated)
	s.True(updated.DisbursedAmount.Equal(decimal.NewFromInt(500)))
	s.Equal(domain.TransitSettled, updated.Status)
}

func (s *TransitServiceTestSuite) TestDisburseItem_PostToLedgerLinksVoucher() {
	item := s.openItem(500)
	req := dto.DisburseTransitRequest{
		Date:         time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Amount:       decimal.NewFromInt(500),
		PostToLedger: true,
		Movement:     domain.MovementBank,
		Reference:    "SEPA-0042",
	}
	savedEntry := domain.LedgerEntry{
		OrganizationID: s.orgID,
		FiscalYear:     2025,
		VoucherNo:      14,
		AccountNumber:  item.AccountNumber,
		BankOut:        req.Amount,
	}
	linked := s.disbursed(*item, 500, req.Date)
	linked.LinkedFiscalYear = &savedEntry.FiscalYear
	linked.LinkedVoucherNo = &savedEntry.VoucherNo

	s.mockTransitRepo.On("FindItemByID", s.ctx, item.ItemID).Return(item, nil).Once()
	s.mockTransitRepo.On("UpdateDisbursement", s.ctx, item.ItemID, mock.AnythingOfType("domain.Disbursement"), s.userID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("*domain.LedgerEntry")).
		Return(linked, &savedEntry, nil).Once()

	updated, err := s.service.DisburseItem(s.ctx, s.orgID, item.ItemID, req, s.userID)

	s.NoError(err)
	s.Require().NotNil(updated)
	s.Equal(domain.TransitSettled, updated.Status)
	s.Require().NotNil(updated.LinkedFiscalYear)
	s.Equal(2025, *updated.LinkedFiscalYear)
	s.Require().NotNil(updated.LinkedVoucherNo)
	s.Equal(14, *updated.LinkedVoucherNo)
}

func (s *TransitServiceTestSuite) TestDisburseItem_DeactivatedAccountStillDisbursable() {
	// Deactivation blocks new receipts; money already held must still flow back
	// out, so the disbursement never re-resolves the account.
	item := s.openItem(500)
	req := dto.DisburseTransitRequest{
		Date:         time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Amount:       decimal.NewFromInt(500),
		PostToLedger: true,
	}
	final := s.disbursed(*item, 500, req.Date)

	s.mockTransitRepo.On("FindItemByID", s.ctx, item.ItemID).Return(item, nil).Once()
	s.mockTransitRepo.On("UpdateDisbursement", s.ctx, item.ItemID, mock.AnythingOfType("domain.Disbursement"), s.userID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("*domain.LedgerEntry")).
		Return(final, nil, nil).Once()

	updated, err := s.service.DisburseItem(s.ctx, s.orgID, item.ItemID, req, s.userID)

	s.NoError(err)
	s.Require().NotNil(updated)
	s.mockAccountRepo.AssertNotCalled(s.T(), "FindAccountByNumber", mock.Anything, mock.Anything)
}

func (s *TransitServiceTestSuite) TestDisburseItem_ClosedYearRollsBack() {
	item := s.openItem(500)
	req := dto.DisburseTransitRequest{
		Date:         time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Amount:       decimal.NewFromInt(500),
		PostToLedger: true,
	}

	s.mockTransitRepo.On("FindItemByID", s.ctx, item.ItemID).Return(item, nil).Once()
	s.mockTransitRepo.On("UpdateDisbursement", s.ctx, item.ItemID, mock.AnythingOfType("domain.Disbursement"), s.userID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("*domain.LedgerEntry")).
		Return(nil, nil, apperrors.ErrYearClosed).Once()

	updated, err := s.service.DisburseItem(s.ctx, s.orgID, item.ItemID, req, s.userID)

	s.Nil(updated)
	s.ErrorIs(err, apperrors.ErrYearClosed)
}

func (s *TransitServiceTestSuite) TestDisburseItem_OtherOrganizationHidden() {
	item := s.openItem(500)
	item.OrganizationID = "org-hamburg-ev"

	s.mockTransitRepo.On("FindItemByID", s.ctx, item.ItemID).Return(item, nil).Once()

	updated, err := s.service.DisburseItem(s.ctx, s.orgID, item.ItemID, dto.DisburseTransitRequest{
		Date:   time.Now(),
		Amount: decimal.NewFromInt(100),
	}, s.userID)

	s.Nil(updated)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *TransitServiceTestSuite) TestOpenBalance_SumsOutstanding() {
	first := s.openItem(500)
	second := s.openItem(300)
	second.DisbursedAmount = decimal.NewFromInt(120)
	second.Status = domain.TransitPartiallySettled

	s.mockTransitRepo.On("ListOpenItems", s.ctx, s.orgID).Return([]domain.TransitItem{*first, *second}, nil).Once()

	total, count, err := s.service.OpenBalance(s.ctx, s.orgID)

	s.NoError(err)
	s.Equal(2, count)
	s.True(total.Equal(decimal.NewFromInt(680)), "500 + 180 outstanding")
}

func (s *TransitServiceTestSuite) TestSummaryByBeneficiary_SortedByOutstanding() {
	a := s.openItem(100)
	a.Beneficiary = "Aachen Hilfe"
	b := s.openItem(400)
	b.Beneficiary = "Zukunft Stiftung"
	c := s.openItem(100)
	c.Beneficiary = "Aachen Hilfe"

	s.mockTransitRepo.On("ListItems", s.ctx, s.orgID).Return([]domain.TransitItem{*a, *b, *c}, nil).Once()

	summaries, err := s.service.SummaryByBeneficiary(s.ctx, s.orgID)

	s.NoError(err)
	s.Require().Len(summaries, 2)
	s.Equal("Zukunft Stiftung", summaries[0].Beneficiary)
	s.True(summaries[0].Outstanding.Equal(decimal.NewFromInt(400)))
	s.Equal("Aachen Hilfe", summaries[1].Beneficiary)
	s.True(summaries[1].TotalReceived.Equal(decimal.NewFromInt(200)))
	s.Equal(2, summaries[1].ItemCount)
}

func TestTransitService(t *testing.T) {
	suite.Run(t, new(TransitServiceTestSuite))
}
