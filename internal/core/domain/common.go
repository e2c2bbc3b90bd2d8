package domain

import "time"

// AuditFields holds standard audit information for domain entities.
// The actor is always passed explicitly into mutating operations; it is never
// read from ambient state.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// NewAuditFields returns audit fields stamped with the given actor and time.
func NewAuditFields(actor string, at time.Time) AuditFields {
	return AuditFields{
		CreatedAt:     at,
		CreatedBy:     actor,
		LastUpdatedAt: at,
		LastUpdatedBy: actor,
	}
}

// Touch updates the last-updated audit fields.
func (a *AuditFields) Touch(actor string, at time.Time) {
	a.LastUpdatedAt = at
	a.LastUpdatedBy = actor
}
