package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// YearClosing freezes one fiscal year of one organization. At most one closing
// exists per (organization, year); once audited it is immutable except for the
// remarks text.
type YearClosing struct {
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
	AuditFields
}
