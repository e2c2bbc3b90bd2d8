package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/easyfibu/kassenbuch-service/internal/core/domain"
)

// CreatePostingRequest defines the data needed to post a ledger entry.
// Exactly one movement direction (cash or bank) must carry a positive amount;
// the shape is fully validated by the service.
type CreatePostingRequest struct {
	FiscalYear    int                  `json:"fiscalYear" binding:"required"`
	PostingDate   time.Time            `json:"postingDate" binding:"required"`
	AccountNumber string               `json:"accountNumber" binding:"required"`
	Text          string               `json:"text" binding:"required,max=500"`
	CashIn        decimal.Decimal      `json:"cashIn"`
	CashOut       decimal.Decimal      `json:"cashOut"`
	BankIn        decimal.Decimal      `json:"bankIn"`
	BankOut       decimal.Decimal      `json:"bankOut"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod" binding:"omitempty,oneof=BAR UEBERWEISUNG LASTSCHRIFT EC_KARTE SCHECK"`
	Note          string               `json:"note" binding:"max=500"`
}

// ReverseEntryRequest defines the data needed to reverse a posted entry.
type ReverseEntryRequest struct {
	ReversalDate time.Time `json:"reversalDate" binding:"required"`
}

// EntryResponse mirrors domain.LedgerEntry for API output.
type EntryResponse struct {
	OrganizationID string               `json:"organizationID"`
	FiscalYear     int                  `json:"fiscalYear"`
	VoucherNo      int                  `json:"voucherNo"`
	PostingDate    time.Time            `json:"postingDate"`
	AccountNumber  string               `json:"accountNumber"`
	Text           string               `json:"text"`
	CashIn         decimal.Decimal      `json:"cashIn"`
	CashOut        decimal.Decimal      `json:"cashOut"`
	BankIn         decimal.Decimal      `json:"bankIn"`
	BankOut        decimal.Decimal      `json:"bankOut"`
	PaymentMethod  domain.PaymentMethod `json:"paymentMethod,omitempty"`
	Reversed       bool                 `json:"reversed"`
	ReversalOf     *int                 `json:"reversalOf,omitempty"`
	Note           string               `json:"note,omitempty"`
	CreatedAt      time.Time            `json:"createdAt"`
	CreatedBy      string               `json:"createdBy"`
}

// ToEntryResponse converts a domain.LedgerEntry to its response DTO.
func ToEntryResponse(e *domain.LedgerEntry) EntryResponse {
	return EntryResponse{
		OrganizationID: e.OrganizationID,
		FiscalYear:     e.FiscalYear,
		VoucherNo:      e.VoucherNo,
		PostingDate:    e.PostingDate,
		AccountNumber:  e.AccountNumber,
		Text:           e.Text,
		CashIn:         e.CashIn,
		CashOut:        e.CashOut,
		BankIn:         e.BankIn,
		BankOut:        e.BankOut,
		PaymentMethod:  e.PaymentMethod,
		Reversed:       e.Reversed,
		ReversalOf:     e.ReversalOf,
		Note:           e.Note,
		CreatedAt:      e.CreatedAt,
		CreatedBy:      e.CreatedBy,
	}
}

// ToEntryResponses converts a slice of entries.
func ToEntryResponses(entries []domain.LedgerEntry) []EntryResponse {
	res := make([]EntryResponse, len(entries))
	for i := range entries {
		res[i] = ToEntryResponse(&entries[i])
	}
	return res
}

// BalancesResponse mirrors domain.YearBalances for API output.
type BalancesResponse struct {
	OrganizationID string          `json:"organizationID"`
	Year           int             `json:"year"`
	OpeningCash    decimal.Decimal `json:"openingCash"`
	OpeningBank    decimal.Decimal `json:"openingBank"`
	TotalIncome    decimal.Decimal `json:"totalIncome"`
	TotalExpense   decimal.Decimal `json:"totalExpense"`
	CashBalance    decimal.Decimal `json:"cashBalance"`
	BankBalance    decimal.Decimal `json:"bankBalance"`
}

// ToBalancesResponse converts domain.YearBalances to its response DTO.
func ToBalancesResponse(b domain.YearBalances) BalancesResponse {
	return BalancesResponse(b)
}
