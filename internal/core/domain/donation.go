package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DonationPurposeCategory classifies what a cash collection was held for.
type DonationPurposeCategory string

const (
	DonationGeneral    DonationPurposeCategory = "GENEL"
	DonationSacrifice  DonationPurposeCategory = "KURBAN"
	DonationZakat      DonationPurposeCategory = "ZEKAT"
	DonationFitre      DonationPurposeCategory = "FITRE"
	DonationEarthquake DonationPurposeCategory = "DEPREM"
	DonationMosque     DonationPurposeCategory = "CAMI"
	DonationEducation  DonationPurposeCategory = "EGITIM"
)

// DonationDetail is one counted denomination line of a donation protocol:
// Count notes/coins of Value each, Sum = Value * Count.
type DonationDetail struct {
	Value decimal.Decimal `json:"value"`
	Count int             `json:"count"`
	Sum   decimal.Decimal `json:"sum"`
}

// DonationWitness is one of up to three witnesses countersigning a protocol.
type DonationWitness struct {
	Name   string `json:"name"`
	Signed bool   `json:"signed"`
}

// DonationProtocol records a witnessed counting of collected cash donations.
// Amount is always the sum of the detail lines. A protocol may reference the
// ledger entry that booked the collected amount.
type DonationProtocol struct {
	ProtocolID      string                  `json:"protocolID"`
	OrganizationID  string                  `json:"organizationID"`
	Date            time.Time               `json:"date"`
	Purpose         string                  `json:"purpose"`
	PurposeCategory DonationPurposeCategory `json:"purposeCategory,omitempty"`
	Amount          decimal.Decimal         `json:"amount"`
	Recorder        string                  `json:"recorder"`
	Witnesses       []DonationWitness       `json:"witnesses,omitempty"`
	Details         []DonationDetail        `json:"details"`
	// LinkedFiscalYear/LinkedVoucherNo reference the ledger entry that booked
	// the collected amount, if any.
	LinkedFiscalYear *int   `json:"linkedFiscalYear,omitempty"`
	LinkedVoucherNo  *int   `json:"linkedVoucherNo,omitempty"`
	Note             string `json:"note,omitempty"`
	AuditFields
}
