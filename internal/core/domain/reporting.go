package domain

import "github.com/shopspring/decimal"

// YearBalances is the derived financial position of one (organization, year)
// scope. Balances include the opening carried forward from the prior year's
// closing; income/expense totals cover the year only.
type YearBalances struct {
	OrganizationID string          `json:"organizationID"`
	Year           int             `json:"year"`
	OpeningCash    decimal.Decimal `json:"openingCash"`
	OpeningBank    decimal.Decimal `json:"openingBank"`
	TotalIncome    decimal.Decimal `json:"totalIncome"`
	TotalExpense   decimal.Decimal `json:"totalExpense"`
	CashBalance    decimal.Decimal `json:"cashBalance"`
	BankBalance    decimal.Decimal `json:"bankBalance"`
}

// DeriveBalances folds a year's entries into its financial position. Balances
// are never stored per entry; a reversed entry and its counterpart cancel out
// in the fold. The caller supplies the opening balances carried from the prior
// year's closing.
func DeriveBalances(orgID string, year int, openingCash, openingBank decimal.Decimal, entries []LedgerEntry) YearBalances {
	balances := YearBalances{
		OrganizationID: orgID,
		Year:           year,
		OpeningCash:    openingCash,
		OpeningBank:    openingBank,
	}

	cash := openingCash
	bank := openingBank
	for _, e := range entries {
		if e.Reversed || e.IsReversal() {
			// The pair nets to zero; skipping both keeps the totals honest.
			continue
		}
		cash = cash.Add(e.CashEffect())
		bank = bank.Add(e.BankEffect())
		balances.TotalIncome = balances.TotalIncome.Add(e.IncomeAmount())
		balances.TotalExpense = balances.TotalExpense.Add(e.ExpenseAmount())
	}
	balances.CashBalance = cash
	balances.BankBalance = bank
	return balances
}

// AccountSummary aggregates one account's postings within a year.
type AccountSummary struct {
	AccountNumber string          `json:"accountNumber"`
	AccountName   string          `json:"accountName"`
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TotalExpense  decimal.Decimal `json:"totalExpense"`
	Net           decimal.Decimal `json:"net"`
	EntryCount    int             `json:"entryCount"`
}

// BeneficiarySummary aggregates transit items per beneficiary for reporting.
type BeneficiarySummary struct {
	Beneficiary    string          `json:"beneficiary"`
	TotalReceived  decimal.Decimal `json:"totalReceived"`
	TotalDisbursed decimal.Decimal `json:"totalDisbursed"`
	Outstanding    decimal.Decimal `json:"outstanding"`
	ItemCount      int             `json:"itemCount"`
}
