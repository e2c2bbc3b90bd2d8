package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/easyfibu/kassenbuch-service/internal/apperrors"
)

// TransitStatus tracks reconciliation of a pass-through item.
type TransitStatus string

const (
	TransitOpen             TransitStatus = "OPEN"
	TransitPartiallySettled TransitStatus = "PARTIALLY_SETTLED"
	TransitSettled          TransitStatus = "SETTLED"
)

// TransitItem is money received on behalf of a third party and held until it is
// disbursed back out. It is tracked independently of income/expense.
type TransitItem struct {
	ItemID         string          `json:"itemID"`
	OrganizationID string          `json:"organizationID"`
	AccountNumber  string          `json:"accountNumber"`
	Description    string          `json:"description"`
	Beneficiary    string          `json:"beneficiary"`
	ReceivedDate   time.Time       `json:"receivedDate"`
	ReceivedAmount decimal.Decimal `json:"receivedAmount"`
	DisbursedDate  *time.Time      `json:"disbursedDate,omitempty"`
	// DisbursedAmount accumulates across partial disbursements.
	DisbursedAmount decimal.Decimal `json:"disbursedAmount"`
	Status          TransitStatus   `json:"status"`
	Reference       string          `json:"reference,omitempty"`
	// LinkedFiscalYear/LinkedVoucherNo reference the ledger entry posted for the
	// disbursement, when the caller requested one.
	LinkedFiscalYear *int   `json:"linkedFiscalYear,omitempty"`
	LinkedVoucherNo  *int   `json:"linkedVoucherNo,omitempty"`
	Note             string `json:"note,omitempty"`
	AuditFields
}

// TransitStatusFor derives the status from the two amounts. Status is a pure
// function of received vs. disbursed: Open iff nothing disbursed, Settled iff
// fully disbursed, PartiallySettled otherwise.
func TransitStatusFor(received, disbursed decimal.Decimal) TransitStatus {
	switch {
	case !disbursed.IsPositive():
		return TransitOpen
	case disbursed.GreaterThanOrEqual(received):
		return TransitSettled
	default:
		return TransitPartiallySettled
	}
}

// Outstanding is the amount still owed to the beneficiary.
func (t TransitItem) Outstanding() decimal.Decimal {
	return t.ReceivedAmount.Sub(t.DisbursedAmount)
}

// Disbursement is one forwarding of funds against a transit item.
type Disbursement struct {
	Amount    decimal.Decimal
	Date      time.Time
	Reference string
}

// ApplyDisbursement accumulates the disbursement onto the item and moves the
// status along. The item is only mutated when every check passes, so a failed
// application leaves it untouched.
func (t *TransitItem) ApplyDisbursement(d Disbursement, actor string, at time.Time) error {
	if !d.Amount.IsPositive() {
		return apperrors.ErrInvalidAmount
	}
	if t.Status == TransitSettled {
		return apperrors.ErrItemAlreadySettled
	}
	newTotal := t.DisbursedAmount.Add(d.Amount)
	if newTotal.GreaterThan(t.ReceivedAmount) {
		return apperrors.ErrOverDisbursement
	}

	date := d.Date
	t.DisbursedAmount = newTotal
	t.DisbursedDate = &date
	t.Status = TransitStatusFor(t.ReceivedAmount, t.DisbursedAmount)
	if d.Reference != "" {
		t.Reference = d.Reference
	}
	t.Touch(actor, at)
	return nil
}
