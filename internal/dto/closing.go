package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/easyfibu/kassenbuch-service/internal/core/domain"
)

// CalculateClosingRequest asks for a year-end closing of one fiscal year.
type CalculateClosingRequest struct {
	Year    int    `json:"year" binding:"required"`
	Remarks string `json:"remarks" binding:"max=500"`
}

// AuditClosingRequest performs the one-way audited transition.
type AuditClosingRequest struct {
	AuditorName string `json:"auditorName" binding:"required,max=200"`
}

// UpdateClosingRemarksRequest replaces the remarks text of a closing.
type UpdateClosingRemarksRequest struct {
	Remarks string `json:"remarks" binding:"max=500"`
}

// ClosingResponse mirrors domain.YearClosing for API output.
type ClosingResponse struct {
	ClosingID      string          `json:"closingID"`
	OrganizationID string          `json:"organizationID"`
	Year           int             `json:"year"`
	OpeningCash    decimal.Decimal `json:"openingCash"`
	OpeningBank    decimal.Decimal `json:"openingBank"`
	TotalIncome    decimal.Decimal `json:"totalIncome"`
	TotalExpense   decimal.Decimal `json:"totalExpense"`
	ClosingCash    decimal.Decimal `json:"closingCash"`
	ClosingBank    decimal.Decimal `json:"closingBank"`
	ClosingDate    time.Time       `json:"closingDate"`
	Audited        bool            `json:"audited"`
	AuditedBy      string          `json:"auditedBy,omitempty"`
	AuditedAt      *time.Time      `json:"auditedAt,omitempty"`
	Remarks        string          `json:"remarks,omitempty"`
}

// ToClosingResponse converts a domain.YearClosing to its response DTO.
func ToClosingResponse(c *domain.YearClosing) ClosingResponse {
	return ClosingResponse{
		ClosingID:      c.ClosingID,
		OrganizationID: c.OrganizationID,
		Year:           c.Year,
		OpeningCash:    c.OpeningCash,
		OpeningBank:    c.OpeningBank,
		TotalIncome:    c.TotalIncome,
		TotalExpense:   c.TotalExpense,
		ClosingCash:    c.ClosingCash,
		ClosingBank:    c.ClosingBank,
		ClosingDate:    c.ClosingDate,
		Audited:        c.Audited,
		AuditedBy:      c.AuditedBy,
		AuditedAt:      c.AuditedAt,
		Remarks:        c.Remarks,
	}
}

// ToClosingResponses converts a slice of closings.
func ToClosingResponses(closings []domain.YearClosing) []ClosingResponse {
	res := make([]ClosingResponse, len(closings))
	for i := range closings {
		res[i] = ToClosingResponse(&closings[i])
	}
	return res
}
