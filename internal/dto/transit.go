package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/easyfibu/kassenbuch-service/internal/core/domain"
)

// ReceiveTransitRequest records a pass-through amount taken in on behalf of a beneficiary.
type ReceiveTransitRequest struct {
	AccountNumber string          `json:"accountNumber" binding:"required"`
	Description   string          `json:"description" binding:"required,max=500"`
	Beneficiary   string          `json:"beneficiary" binding:"required,max=200"`
	ReceivedDate  time.Time       `json:"receivedDate" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Reference     string          `json:"reference" binding:"max=100"`
	Note          string          `json:"note" binding:"max=500"`
}

// DisburseTransitRequest records a forwarding of transit funds to the beneficiary.
// With PostToLedger set, a matching ledger entry is written in the same transaction.
type DisburseTransitRequest struct {
	Date         time.Time       `json:"date" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Reference    string          `json:"reference" binding:"max=100"`
	PostToLedger bool            `json:"postToLedger"`

	// Posting details, required when PostToLedger is set.
	FiscalYear    int                  `json:"fiscalYear"`
	Movement      domain.Movement      `json:"movement" binding:"omitempty,oneof=CASH BANK"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod" binding:"omitempty,oneof=BAR UEBERWEISUNG LASTSCHRIFT EC_KARTE SCHECK"`
	Text          string               `json:"text" binding:"max=500"`
}

// TransitItemResponse mirrors domain.TransitItem for API output.
type TransitItemResponse struct {
	ItemID           string               `json:"itemID"`
	OrganizationID   string               `json:"organizationID"`
	AccountNumber    string               `json:"accountNumber"`
	Description      string               `json:"description"`
	Beneficiary      string               `json:"beneficiary"`
	ReceivedDate     time.Time            `json:"receivedDate"`
	ReceivedAmount   decimal.Decimal      `json:"receivedAmount"`
	DisbursedDate    *time.Time           `json:"disbursedDate,omitempty"`
	DisbursedAmount  decimal.Decimal      `json:"disbursedAmount"`
	Outstanding      decimal.Decimal      `json:"outstanding"`
	Status           domain.TransitStatus `json:"status"`
	Reference        string               `json:"reference,omitempty"`
	LinkedFiscalYear *int                 `json:"linkedFiscalYear,omitempty"`
	LinkedVoucherNo  *int                 `json:"linkedVoucherNo,omitempty"`
	Note             string               `json:"note,omitempty"`
	CreatedAt        time.Time            `json:"createdAt"`
	CreatedBy        string               `json:"createdBy"`
}

// ToTransitItemResponse converts a domain.TransitItem to its response DTO.
func ToTransitItemResponse(item *domain.TransitItem) TransitItemResponse {
	return TransitItemResponse{
		ItemID:           item.ItemID,
		OrganizationID:   item.OrganizationID,
		AccountNumber:    item.AccountNumber,
		Description:      item.Description,
		Beneficiary:      item.Beneficiary,
		ReceivedDate:     item.ReceivedDate,
		ReceivedAmount:   item.ReceivedAmount,
		DisbursedDate:    item.DisbursedDate,
		DisbursedAmount:  item.DisbursedAmount,
		Outstanding:      item.Outstanding(),
		Status:           item.Status,
		Reference:        item.Reference,
		LinkedFiscalYear: item.LinkedFiscalYear,
		LinkedVoucherNo:  item.LinkedVoucherNo,
		Note:             item.Note,
		CreatedAt:        item.CreatedAt,
		CreatedBy:        item.CreatedBy,
	}
}

// ToTransitItemResponses converts a slice of transit items.
func ToTransitItemResponses(items []domain.TransitItem) []TransitItemResponse {
	res := make([]TransitItemResponse, len(items))
	for i := range items {
		res[i] = ToTransitItemResponse(&items[i])
	}
	return res
}

// OpenTransitBalanceResponse reports the total still owed to beneficiaries.
type OpenTransitBalanceResponse struct {
	OrganizationID string          `json:"organizationID"`
	OpenBalance    decimal.Decimal `json:"openBalance"`
	OpenItems      int             `json:"openItems"`
}

// BeneficiarySummaryResponse mirrors domain.BeneficiarySummary for API output.
type BeneficiarySummaryResponse struct {
	Beneficiary    string          `json:"beneficiary"`
	TotalReceived  decimal.Decimal `json:"totalReceived"`
	TotalDisbursed decimal.Decimal `json:"totalDisbursed"`
	Outstanding    decimal.Decimal `json:"outstanding"`
	ItemCount      int             `json:"itemCount"`
}

// ToBeneficiarySummaryResponses converts a slice of beneficiary summaries.
func ToBeneficiarySummaryResponses(summaries []domain.BeneficiarySummary) []BeneficiarySummaryResponse {
	res := make([]BeneficiarySummaryResponse, len(summaries))
	for i, s := range summaries {
		res[i] = BeneficiarySummaryResponse(s)
	}
	return res
}
