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

type DonationServiceTestSuite struct {
	suite.Suite
	mockDonationRepo *MockDonationRepository
	service          *services.DonationService
	ctx              context.Context

	orgID  string
	userID string
}

func (s *DonationServiceTestSuite) SetupTest() {
	s.mockDonationRepo = new(MockDonationRepository)
	s.service = services.NewDonationService(s.mockDonationRepo)
	s.ctx = context.Background()

	s.orgID = "org-berlin-ev"
	s.userID = "user-kassenwart"
}

func (s *DonationServiceTestSuite) TestCreateProtocol_TotalsDerivedFromDetails() {
	req := dto.CreateDonationRequest{
		Date:            time.Date(2025, 4, 18, 0, 0, 0, 0, time.UTC),
		Purpose:         "Freitagssammlung",
		PurposeCategory: domain.DonationGeneral,
		Recorder:        "Herr Demir",
		Details: []dto.DonationDetailRequest{
			{Value: decimal.NewFromInt(50), Count: 3},
			{Value: decimal.NewFromInt(20), Count: 10},
		},
		Witnesses: []dto.DonationWitnessRequest{
			{Name: "Frau Schmidt", Signed: true},
			{Name: "Herr Yilmaz", Signed: true},
		},
	}

	s.mockDonationRepo.On("SaveProtocol", s.ctx, mock.AnythingOfType("domain.DonationProtocol")).Return(nil).Once()

	protocol, err := s.service.CreateProtocol(s.ctx, s.orgID, req, s.userID)

	s.NoError(err)
	s.Require().NotNil(protocol)
	s.NotEmpty(protocol.ProtocolID)
	s.True(protocol.Amount.Equal(decimal.NewFromInt(350)), "50x3 + 20x10")
	s.Require().Len(protocol.Details, 2)
	s.True(protocol.Details[0].Sum.Equal(decimal.NewFromInt(150)))
	s.True(protocol.Details[1].Sum.Equal(decimal.NewFromInt(200)))
	s.Len(protocol.Witnesses, 2)
	s.Equal(s.userID, protocol.CreatedBy)
	s.mockDonationRepo.AssertExpectations(s.T())
}

func (s *DonationServiceTestSuite) TestCreateProtocol_NonPositiveValueRejected() {
	req := dto.CreateDonationRequest{
		Date:     time.Now(),
		Purpose:  "Freitagssammlung",
		Recorder: "Herr Demir",
		Details: []dto.DonationDetailRequest{
			{Value: decimal.Zero, Count: 3},
		},
	}

	protocol, err := s.service.CreateProtocol(s.ctx, s.orgID, req, s.userID)

	s.Nil(protocol)
	s.ErrorIs(err, apperrors.ErrInvalidAmount)
	s.mockDonationRepo.AssertNotCalled(s.T(), "SaveProtocol", mock.Anything, mock.Anything)
}

func (s *DonationServiceTestSuite) TestCreateProtocol_NonPositiveCountRejected() {
	req := dto.CreateDonationRequest{
		Date:     time.Now(),
		Purpose:  "Freitagssammlung",
		Recorder: "Herr Demir",
		Details: []dto.DonationDetailRequest{
			{Value: decimal.NewFromInt(10), Count: 0},
		},
	}

	protocol, err := s.service.CreateProtocol(s.ctx, s.orgID, req, s.userID)

	s.Nil(protocol)
	s.ErrorIs(err, apperrors.ErrInvalidAmount)
}

func (s *DonationServiceTestSuite) TestGetProtocol_OtherOrganizationHidden() {
	protocolID := uuid.NewString()
	protocol := domain.DonationProtocol{
		ProtocolID:     protocolID,
		OrganizationID: "org-hamburg-ev",
	}

	s.mockDonationRepo.On("FindProtocolByID", s.ctx, protocolID).Return(&protocol, nil).Once()

	got, err := s.service.GetProtocol(s.ctx, s.orgID, protocolID)

	s.Nil(got)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *DonationServiceTestSuite) TestListProtocolsByDateRange_InvertedRangeRejected() {
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	protocols, err := s.service.ListProtocolsByDateRange(s.ctx, s.orgID, from, to)

	s.Nil(protocols)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *DonationServiceTestSuite) TestListProtocols_EmptyListNotNil() {
	s.mockDonationRepo.On("ListProtocols", s.ctx, s.orgID).Return(nil, nil).Once()

	protocols, err := s.service.ListProtocols(s.ctx, s.orgID)

	s.NoError(err)
	s.NotNil(protocols)
	s.Empty(protocols)
}

func TestDonationService(t *testing.T) {
	suite.Run(t, new(DonationServiceTestSuite))
}
