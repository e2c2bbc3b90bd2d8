package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/easyfibu/kassenbuch-service/internal/apperrors"
)

// PaymentMethod records how money moved for an entry.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "BAR"
	PaymentBankTransfer PaymentMethod = "UEBERWEISUNG"
	PaymentDirectDebit  PaymentMethod = "LASTSCHRIFT"
	PaymentDebitCard    PaymentMethod = "EC_KARTE"
	PaymentCheque       PaymentMethod = "SCHECK"
)

// Movement distinguishes the cash drawer from the bank account.
type Movement string

const (
	MovementCash Movement = "CASH"
	MovementBank Movement = "BANK"
)

// LedgerEntry is one dated posting in the cash book. Entries are append-only:
// they are never updated or deleted, and the only mutation ever applied is the
// reversed flag flip performed together with the insert of the reversal entry.
type LedgerEntry struct {
	OrganizationID string `json:"organizationID"`
	FiscalYear     int    `json:"fiscalYear"`
	// VoucherNo is assigned by the ledger on insert: gapless and strictly
	// increasing within (OrganizationID, FiscalYear).
	VoucherNo     int             `json:"voucherNo"`
	PostingDate   time.Time       `json:"postingDate"`
	AccountNumber string          `json:"accountNumber"`
	Text          string          `json:"text"`
	CashIn        decimal.Decimal `json:"cashIn"`
	CashOut       decimal.Decimal `json:"cashOut"`
	BankIn        decimal.Decimal `json:"bankIn"`
	BankOut       decimal.Decimal `json:"bankOut"`
	PaymentMethod PaymentMethod   `json:"paymentMethod,omitempty"`
	Reversed      bool            `json:"reversed"`
	// ReversalOf carries the voucher number of the original entry when this
	// entry is a reversal; nil otherwise.
	ReversalOf *int   `json:"reversalOf,omitempty"`
	Note       string `json:"note,omitempty"`
	AuditFields
}

// Movement reports whether the entry moves cash or bank money. Only meaningful
// for entries that passed ValidateShape.
func (e LedgerEntry) Movement() Movement {
	if e.CashIn.IsPositive() || e.CashOut.IsPositive() {
		return MovementCash
	}
	return MovementBank
}

// CashEffect is the entry's signed effect on the cash balance.
func (e LedgerEntry) CashEffect() decimal.Decimal {
	return e.CashIn.Sub(e.CashOut)
}

// BankEffect is the entry's signed effect on the bank balance.
func (e LedgerEntry) BankEffect() decimal.Decimal {
	return e.BankIn.Sub(e.BankOut)
}

// IncomeAmount is the entry's contribution to total income (cash plus bank).
func (e LedgerEntry) IncomeAmount() decimal.Decimal {
	return e.CashIn.Add(e.BankIn)
}

// ExpenseAmount is the entry's contribution to total expense (cash plus bank).
func (e LedgerEntry) ExpenseAmount() decimal.Decimal {
	return e.CashOut.Add(e.BankOut)
}

// IsReversal reports whether the entry is the counter-entry of a reversal.
func (e LedgerEntry) IsReversal() bool {
	return e.ReversalOf != nil
}

// ValidateShape checks the monetary shape of an entry: all four fields
// non-negative, at least one non-zero, and no mixing of cash and bank movement.
// A cash pair (in and out) or a bank pair is allowed.
func (e LedgerEntry) ValidateShape() error {
	for _, amt := range []decimal.Decimal{e.CashIn, e.CashOut, e.BankIn, e.BankOut} {
		if amt.IsNegative() {
			return apperrors.ErrInvalidPosting
		}
	}
	cash := e.CashIn.IsPositive() || e.CashOut.IsPositive()
	bank := e.BankIn.IsPositive() || e.BankOut.IsPositive()
	if cash == bank {
		// Both set (mixed movement) or neither set (zero entry).
		return apperrors.ErrInvalidPosting
	}
	return nil
}

// ValidateDate checks that the posting date falls inside the declared fiscal
// year. Reversal entries are exempt: they keep the original's fiscal year even
// when the reversal happens after year end (but before closing).
func (e LedgerEntry) ValidateDate() error {
	if e.IsReversal() {
		return nil
	}
	if e.PostingDate.Year() != e.FiscalYear {
		return apperrors.ErrInvalidPosting
	}
	return nil
}

// ValidateAgainstAccount checks that the posting direction fits the account.
// Income accounts take only *In fields, expense accounts only *Out fields, and
// transit accounts take either direction. Inactive accounts take nothing.
func (e LedgerEntry) ValidateAgainstAccount(acc Account) error {
	if !acc.IsActive {
		return apperrors.ErrAccountNotPostable
	}
	hasIn := e.CashIn.IsPositive() || e.BankIn.IsPositive()
	hasOut := e.CashOut.IsPositive() || e.BankOut.IsPositive()
	switch acc.Kind {
	case KindIncome:
		if hasOut {
			return apperrors.ErrAccountKindMismatch
		}
	case KindExpense:
		if hasIn {
			return apperrors.ErrAccountKindMismatch
		}
	case KindTransit:
		// Pass-through money moves both ways.
	default:
		return apperrors.ErrAccountNotPostable
	}
	return nil
}

// Reversal builds the counter-entry for this entry: every monetary field is
// swapped with its counterpart so the pair's net effect is zero. The voucher
// number is left for the ledger to assign.
func (e LedgerEntry) Reversal(date time.Time, actor string, at time.Time) LedgerEntry {
	orig := e.VoucherNo
	return LedgerEntry{
		OrganizationID: e.OrganizationID,
		FiscalYear:     e.FiscalYear,
		PostingDate:    date,
		AccountNumber:  e.AccountNumber,
		Text:           "Storno: " + e.Text,
		CashIn:         e.CashOut,
		CashOut:        e.CashIn,
		BankIn:         e.BankOut,
		BankOut:        e.BankIn,
		PaymentMethod:  e.PaymentMethod,
		ReversalOf:     &orig,
		AuditFields:    NewAuditFields(actor, at),
	}
}
