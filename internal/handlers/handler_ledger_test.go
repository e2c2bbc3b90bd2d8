package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/easyfibu/kassenbuch-service/internal/apperrors"
	"github.com/easyfibu/kassenbuch-service/internal/core/domain"
	portssvc "github.com/easyfibu/kassenbuch-service/internal/core/ports/services"
	"github.com/easyfibu/kassenbuch-service/internal/dto"
	"github.com/easyfibu/kassenbuch-service/internal/handlers"
	"github.com/easyfibu/kassenbuch-service/internal/middleware"
)

// --- Mock LedgerService ---

type MockLedgerService struct {
	mock.Mock
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

func (m *MockLedgerService) PostEntry(ctx context.Context, orgID string, req dto.CreatePostingRequest, userID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, orgID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerService) ReverseEntry(ctx context.Context, orgID string, year int, voucherNo int, req dto.ReverseEntryRequest, userID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, orgID, year, voucherNo, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerService) GetEntry(ctx context.Context, orgID string, year int, voucherNo int) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, orgID, year, voucherNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerService) ListEntriesByYear(ctx context.Context, orgID string, year int) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, orgID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerService) ListEntriesByAccount(ctx context.Context, orgID string, year int, accountNumber string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, orgID, year, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerService) ListEntriesByDateRange(ctx context.Context, orgID string, from, to time.Time) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, orgID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerService) NextVoucherNumber(ctx context.Context, orgID string, year int) (int, error) {
	args := m.Called(ctx, orgID, year)
	return args.Int(0), args.Error(1)
}

func (m *MockLedgerService) CalculateBalances(ctx context.Context, orgID string, year int) (domain.YearBalances, error) {
	args := m.Called(ctx, orgID, year)
	return args.Get(0).(domain.YearBalances), args.Error(1)
}

func (m *MockLedgerService) AccountSummary(ctx context.Context, orgID string, year int) ([]domain.AccountSummary, error) {
	args := m.Called(ctx, orgID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountSummary), args.Error(1)
}

// --- Test Suite ---

type LedgerHandlerTestSuite struct {
	suite.Suite
	router            *gin.Engine
	mockLedgerService *MockLedgerService
	jwtSecret         string

	orgID  string
	userID string
}

func (suite *LedgerHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "kassenbuch-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *LedgerHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockLedgerService = new(MockLedgerService)

	org := suite.router.Group("/api/v1/organizations/:orgID")
	handlers.RegisterLedgerRoutes(org, suite.mockLedgerService)

	suite.orgID = "org-berlin-ev"
	suite.userID = "user-kassenwart"
}

func (suite *LedgerHandlerTestSuite) authedRequest(method, url string, body any) *http.Request {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.userID))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func (suite *LedgerHandlerTestSuite) TestPostEntry_Success() {
	reqBody := dto.CreatePostingRequest{
		FiscalYear:    2025,
		PostingDate:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		AccountNumber: "1100",
		Text:          "Beitrag Maerz",
		CashIn:        decimal.NewFromInt(100),
		PaymentMethod: domain.PaymentCash,
	}
	saved := &domain.LedgerEntry{
		OrganizationID: suite.orgID,
		FiscalYear:     2025,
		VoucherNo:      1,
		PostingDate:    reqBody.PostingDate,
		AccountNumber:  "1100",
		Text:           "Beitrag Maerz",
		CashIn:         decimal.NewFromInt(100),
	}

	suite.mockLedgerService.On("PostEntry",
		mock.Anything,
		suite.orgID,
		mock.AnythingOfType("dto.CreatePostingRequest"),
		suite.userID,
	).Return(saved, nil).Once()

	url := fmt.Sprintf("/api/v1/organizations/%s/entries", suite.orgID)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodPost, url, reqBody))

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.EntryResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(1, resp.VoucherNo)
	suite.Equal("1100", resp.AccountNumber)
	suite.True(resp.CashIn.Equal(decimal.NewFromInt(100)))
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestPostEntry_ClosedYearConflict() {
	reqBody := dto.CreatePostingRequest{
		FiscalYear:    2024,
		PostingDate:   time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
		AccountNumber: "1100",
		Text:          "Nachbuchung",
		CashIn:        decimal.NewFromInt(10),
	}

	suite.mockLedgerService.On("PostEntry",
		mock.Anything,
		suite.orgID,
		mock.AnythingOfType("dto.CreatePostingRequest"),
		suite.userID,
	).Return(nil, apperrors.ErrYearClosed).Once()

	url := fmt.Sprintf("/api/v1/organizations/%s/entries", suite.orgID)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodPost, url, reqBody))

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestPostEntry_MissingTokenUnauthorized() {
	url := fmt.Sprintf("/api/v1/organizations/%s/entries", suite.orgID)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader([]byte("{}")))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockLedgerService.AssertNotCalled(suite.T(), "PostEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerHandlerTestSuite) TestReverseEntry_NotFound() {
	reqBody := dto.ReverseEntryRequest{ReversalDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)}

	suite.mockLedgerService.On("ReverseEntry",
		mock.Anything,
		suite.orgID,
		2025,
		42,
		mock.AnythingOfType("dto.ReverseEntryRequest"),
		suite.userID,
	).Return(nil, apperrors.ErrNotFound).Once()

	url := fmt.Sprintf("/api/v1/organizations/%s/entries/2025/42/reverse", suite.orgID)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodPost, url, reqBody))

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestGetBalances_Success() {
	balances := domain.YearBalances{
		OrganizationID: suite.orgID,
		Year:           2025,
		OpeningCash:    decimal.NewFromInt(500),
		CashBalance:    decimal.NewFromInt(560),
		BankBalance:    decimal.NewFromInt(1200),
		TotalIncome:    decimal.NewFromInt(100),
		TotalExpense:   decimal.NewFromInt(40),
	}

	suite.mockLedgerService.On("CalculateBalances", mock.Anything, suite.orgID, 2025).Return(balances, nil).Once()

	url := fmt.Sprintf("/api/v1/organizations/%s/balances?year=2025", suite.orgID)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodGet, url, nil))

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.BalancesResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(2025, resp.Year)
	suite.True(resp.CashBalance.Equal(decimal.NewFromInt(560)))
	suite.True(resp.OpeningCash.Equal(decimal.NewFromInt(500)))
}

func (suite *LedgerHandlerTestSuite) TestGetBalances_MissingYearBadRequest() {
	url := fmt.Sprintf("/api/v1/organizations/%s/balances", suite.orgID)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodGet, url, nil))

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLedgerService.AssertNotCalled(suite.T(), "CalculateBalances", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerHandlerTestSuite) TestListEntries_ByYear() {
	entries := []domain.LedgerEntry{
		{OrganizationID: suite.orgID, FiscalYear: 2025, VoucherNo: 1, AccountNumber: "1100", CashIn: decimal.NewFromInt(100)},
		{OrganizationID: suite.orgID, FiscalYear: 2025, VoucherNo: 2, AccountNumber: "2200", CashOut: decimal.NewFromInt(40)},
	}

	suite.mockLedgerService.On("ListEntriesByYear", mock.Anything, suite.orgID, 2025).Return(entries, nil).Once()

	url := fmt.Sprintf("/api/v1/organizations/%s/entries?year=2025", suite.orgID)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodGet, url, nil))

	suite.Equal(http.StatusOK, w.Code)

	var resp []dto.EntryResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp, 2)
	suite.Equal(1, resp[0].VoucherNo)
	suite.Equal(2, resp[1].VoucherNo)
}

func (suite *LedgerHandlerTestSuite) TestNextVoucherNumber_Success() {
	suite.mockLedgerService.On("NextVoucherNumber", mock.Anything, suite.orgID, 2025).Return(3, nil).Once()

	url := fmt.Sprintf("/api/v1/organizations/%s/entries/next-voucher?year=2025", suite.orgID)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodGet, url, nil))

	suite.Equal(http.StatusOK, w.Code)

	var resp map[string]int
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(3, resp["nextVoucherNo"])
	suite.Equal(2025, resp["fiscalYear"])
}

func TestLedgerHandler(t *testing.T) {
	suite.Run(t, new(LedgerHandlerTestSuite))
}
