package dto

import (
	"github.com/shopspring/decimal"

	"github.com/easyfibu/kassenbuch-service/internal/core/domain"
)

// AccountSummaryResponse mirrors domain.AccountSummary for API output.
type AccountSummaryResponse struct {
	AccountNumber string          `json:"accountNumber"`
	AccountName   string          `json:"accountName"`
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TotalExpense  decimal.Decimal `json:"totalExpense"`
	Net           decimal.Decimal `json:"net"`
	EntryCount    int             `json:"entryCount"`
}

// ToAccountSummaryResponses converts a slice of account summaries.
func ToAccountSummaryResponses(summaries []domain.AccountSummary) []AccountSummaryResponse {
	res := make([]AccountSummaryResponse, len(summaries))
	for i, s := range summaries {
		res[i] = AccountSummaryResponse(s)
	}
	return res
}
