package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/easyfibu/kassenbuch-service/internal/apperrors"
	"github.com/easyfibu/kassenbuch-service/internal/core/domain"
	"github.com/easyfibu/kassenbuch-service/internal/core/services"
	"github.com/easyfibu/kassenbuch-service/internal/dto"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockEntryRepo   *MockEntryRepository
	service         *services.AccountService
	ctx             context.Context

	userID         string
	incomeAccount  domain.Account
	transitAccount domain.Account
}

func (s *AccountServiceTestSuite) SetupTest() {
	s.mockAccountRepo = new(MockAccountRepository)
	s.mockEntryRepo = new(MockEntryRepository)
	s.service = services.NewAccountService(s.mockAccountRepo, s.mockEntryRepo)
	s.ctx = context.Background()

	s.userID = "user-kassenwart"
	s.incomeAccount = domain.Account{
		Number:   "1100",
		Name:     "Mitgliedsbeitraege",
		Category: domain.CategoryIdealPurpose,
		Kind:     domain.KindIncome,
		IsActive: true,
	}
	s.transitAccount = domain.Account{
		Number:   "5000",
		Name:     "Durchlaufende Spenden",
		Category: domain.CategoryTransit,
		Kind:     domain.KindTransit,
		IsActive: true,
	}
}

func (s *AccountServiceTestSuite) TestRegisterAccount_Success() {
	req := dto.RegisterAccountRequest{
		Number:   "1200",
		Name:     "Spenden allgemein",
		Category: domain.CategoryIdealPurpose,
		Kind:     domain.KindIncome,
	}

	s.mockAccountRepo.On("SaveAccount", s.ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := s.service.RegisterAccount(s.ctx, req, s.userID)

	s.NoError(err)
	s.Require().NotNil(account)
	s.Equal("1200", account.Number)
	s.True(account.IsActive)
	s.Equal(s.userID, account.CreatedBy)
	s.mockAccountRepo.AssertExpectations(s.T())
}

func (s *AccountServiceTestSuite) TestRegisterAccount_DuplicateNumber() {
	req := dto.RegisterAccountRequest{
		Number:   s.incomeAccount.Number,
		Name:     "Doppelt",
		Category: domain.CategoryIdealPurpose,
		Kind:     domain.KindIncome,
	}

	s.mockAccountRepo.On("SaveAccount", s.ctx, mock.AnythingOfType("domain.Account")).
		Return(apperrors.ErrDuplicateAccount).Once()

	account, err := s.service.RegisterAccount(s.ctx, req, s.userID)

	s.Nil(account)
	s.ErrorIs(err, apperrors.ErrDuplicateAccount)
	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *AccountServiceTestSuite) TestRegisterAccount_TransitKindOutsideTransitCategory() {
	req := dto.RegisterAccountRequest{
		Number:   "5100",
		Name:     "Falsch eingeordnet",
		Category: domain.CategoryIdealPurpose,
		Kind:     domain.KindTransit,
	}

	account, err := s.service.RegisterAccount(s.ctx, req, s.userID)

	s.Nil(account)
	s.ErrorIs(err, apperrors.ErrAccountKindMismatch)
	s.mockAccountRepo.AssertNotCalled(s.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (s *AccountServiceTestSuite) TestValidateForPosting_Success() {
	s.mockAccountRepo.On("FindAccountByNumber", s.ctx, "1100").Return(&s.incomeAccount, nil).Once()

	account, err := s.service.ValidateForPosting(s.ctx, "1100", "")

	s.NoError(err)
	s.Require().NotNil(account)
	s.Equal("1100", account.Number)
}

func (s *AccountServiceTestSuite) TestValidateForPosting_UnknownAccount() {
	s.mockAccountRepo.On("FindAccountByNumber", s.ctx, "9999").Return(nil, apperrors.ErrNotFound).Once()

	account, err := s.service.ValidateForPosting(s.ctx, "9999", "")

	s.Nil(account)
	s.ErrorIs(err, apperrors.ErrUnknownAccount)
}

func (s *AccountServiceTestSuite) TestValidateForPosting_InactiveAccount() {
	inactive := s.incomeAccount
	inactive.IsActive = false
	s.mockAccountRepo.On("FindAccountByNumber", s.ctx, "1100").Return(&inactive, nil).Once()

	account, err := s.service.ValidateForPosting(s.ctx, "1100", "")

	s.Nil(account)
	s.ErrorIs(err, apperrors.ErrAccountNotPostable)
}

func (s *AccountServiceTestSuite) TestValidateForPosting_RequiredKindMismatch() {
	s.mockAccountRepo.On("FindAccountByNumber", s.ctx, "1100").Return(&s.incomeAccount, nil).Once()

	account, err := s.service.ValidateForPosting(s.ctx, "1100", domain.KindTransit)

	s.Nil(account)
	s.ErrorIs(err, apperrors.ErrAccountKindMismatch)
}

func (s *AccountServiceTestSuite) TestUpdateAccount_RenamePersisted() {
	newName := "Mitgliedsbeitraege 2025"
	req := dto.UpdateAccountRequest{Name: &newName}

	s.mockAccountRepo.On("FindAccountByNumber", s.ctx, "1100").Return(&s.incomeAccount, nil).Once()
	s.mockAccountRepo.On("UpdateAccount", s.ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := s.service.UpdateAccount(s.ctx, "1100", req, s.userID)

	s.NoError(err)
	s.Require().NotNil(account)
	s.Equal(newName, account.Name)
	s.mockAccountRepo.AssertExpectations(s.T())
}

func (s *AccountServiceTestSuite) TestUpdateAccount_NoChangeSkipsRepository() {
	sameName := s.incomeAccount.Name
	req := dto.UpdateAccountRequest{Name: &sameName}

	s.mockAccountRepo.On("FindAccountByNumber", s.ctx, "1100").Return(&s.incomeAccount, nil).Once()

	account, err := s.service.UpdateAccount(s.ctx, "1100", req, s.userID)

	s.NoError(err)
	s.Require().NotNil(account)
	s.mockAccountRepo.AssertNotCalled(s.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (s *AccountServiceTestSuite) TestDeactivateAccount_Success() {
	s.mockAccountRepo.On("FindAccountByNumber", s.ctx, "1100").Return(&s.incomeAccount, nil).Once()
	s.mockAccountRepo.On("DeactivateAccount", s.ctx, "1100", s.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := s.service.DeactivateAccount(s.ctx, "1100", false, s.userID)

	s.NoError(err)
	s.mockEntryRepo.AssertNotCalled(s.T(), "HasEntriesForAccount", mock.Anything, mock.Anything)
}

func (s *AccountServiceTestSuite) TestDeactivateAccount_RefusedWhenUsed() {
	s.mockAccountRepo.On("FindAccountByNumber", s.ctx, "1100").Return(&s.incomeAccount, nil).Once()
	s.mockEntryRepo.On("HasEntriesForAccount", s.ctx, "1100").Return(true, nil).Once()

	err := s.service.DeactivateAccount(s.ctx, "1100", true, s.userID)

	s.ErrorIs(err, apperrors.ErrAccountInUse)
	s.mockAccountRepo.AssertNotCalled(s.T(), "DeactivateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *AccountServiceTestSuite) TestDeactivateAccount_UsedButNotRefused() {
	s.mockAccountRepo.On("FindAccountByNumber", s.ctx, "1100").Return(&s.incomeAccount, nil).Once()
	s.mockAccountRepo.On("DeactivateAccount", s.ctx, "1100", s.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := s.service.DeactivateAccount(s.ctx, "1100", false, s.userID)

	s.NoError(err)
	s.mockAccountRepo.AssertExpectations(s.T())
}

func (s *AccountServiceTestSuite) TestDeactivateAccount_AlreadyInactive() {
	inactive := s.incomeAccount
	inactive.IsActive = false
	s.mockAccountRepo.On("FindAccountByNumber", s.ctx, "1100").Return(&inactive, nil).Once()

	err := s.service.DeactivateAccount(s.ctx, "1100", false, s.userID)

	s.ErrorIs(err, apperrors.ErrValidation)
}

func TestAccountService(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
