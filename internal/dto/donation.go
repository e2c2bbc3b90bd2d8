package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/easyfibu/kassenbuch-service/internal/core/domain"
)

// DonationDetailRequest is one counted denomination line of a collection.
type DonationDetailRequest struct {
	Value decimal.Decimal `json:"value" binding:"required"`
	Count int             `json:"count" binding:"required,min=1"`
}

// DonationWitnessRequest names one witness of the count.
type DonationWitnessRequest struct {
	Name   string `json:"name" binding:"required,max=200"`
	Signed bool   `json:"signed"`
}

// CreateDonationRequest defines the data needed to record a donation protocol.
// The total is derived from the detail lines, never taken from the client.
type CreateDonationRequest struct {
	Date            time.Time                      `json:"date" binding:"required"`
	Purpose         string                         `json:"purpose" binding:"required,max=500"`
	PurposeCategory domain.DonationPurposeCategory `json:"purposeCategory" binding:"required,oneof=GENEL KURBAN ZEKAT FITRE DEPREM CAMI EGITIM"`
	Recorder        string                         `json:"recorder" binding:"required,max=200"`
	Details         []DonationDetailRequest        `json:"details" binding:"required,min=1,dive"`
	Witnesses       []DonationWitnessRequest       `json:"witnesses" binding:"max=3,dive"`
	Note            string                         `json:"note" binding:"max=500"`
}

// DonationDetailResponse mirrors domain.DonationDetail for API output.
type DonationDetailResponse struct {
	Value decimal.Decimal `json:"value"`
	Count int             `json:"count"`
	Sum   decimal.Decimal `json:"sum"`
}

// DonationWitnessResponse mirrors domain.DonationWitness for API output.
type DonationWitnessResponse struct {
	Name   string `json:"name"`
	Signed bool   `json:"signed"`
}

// DonationResponse mirrors domain.DonationProtocol for API output.
type DonationResponse struct {
	ProtocolID       string                         `json:"protocolID"`
	OrganizationID   string                         `json:"organizationID"`
	Date             time.Time                      `json:"date"`
	Purpose          string                         `json:"purpose"`
	PurposeCategory  domain.DonationPurposeCategory `json:"purposeCategory"`
	Amount           decimal.Decimal                `json:"amount"`
	Recorder         string                         `json:"recorder"`
	Witnesses        []DonationWitnessResponse      `json:"witnesses"`
	Details          []DonationDetailResponse       `json:"details"`
	LinkedFiscalYear *int                           `json:"linkedFiscalYear,omitempty"`
	LinkedVoucherNo  *int                           `json:"linkedVoucherNo,omitempty"`
	Note             string                         `json:"note,omitempty"`
	CreatedAt        time.Time                      `json:"createdAt"`
	CreatedBy        string                         `json:"createdBy"`
}

// ToDonationResponse converts a domain.DonationProtocol to its response DTO.
func ToDonationResponse(p *domain.DonationProtocol) DonationResponse {
	details := make([]DonationDetailResponse, len(p.Details))
	for i, d := range p.Details {
		details[i] = DonationDetailResponse(d)
	}
	witnesses := make([]DonationWitnessResponse, len(p.Witnesses))
	for i, w := range p.Witnesses {
		witnesses[i] = DonationWitnessResponse(w)
	}
	return DonationResponse{
		ProtocolID:       p.ProtocolID,
		OrganizationID:   p.OrganizationID,
		Date:             p.Date,
		Purpose:          p.Purpose,
		PurposeCategory:  p.PurposeCategory,
		Amount:           p.Amount,
		Recorder:         p.Recorder,
		Witnesses:        witnesses,
		Details:          details,
		LinkedFiscalYear: p.LinkedFiscalYear,
		LinkedVoucherNo:  p.LinkedVoucherNo,
		Note:             p.Note,
		CreatedAt:        p.CreatedAt,
		CreatedBy:        p.CreatedBy,
	}
}

// ToDonationResponses converts a slice of protocols.
func ToDonationResponses(protocols []domain.DonationProtocol) []DonationResponse {
	res := make([]DonationResponse, len(protocols))
	for i := range protocols {
		res[i] = ToDonationResponse(&protocols[i])
	}
	return res
}
