package domain

import "github.com/easyfibu/kassenbuch-service/internal/apperrors"

// AccountKind defines how an account participates in postings.
type AccountKind string

const (
	KindIncome  AccountKind = "INCOME"
	KindExpense AccountKind = "EXPENSE"
	KindTransit AccountKind = "TRANSIT"
)

// AccountCategory is the business sphere an account belongs to, following the
// SKR-49 split used for German non-profit organizations.
type AccountCategory string

const (
	CategoryIdealPurpose        AccountCategory = "IDEAL_PURPOSE"
	CategoryAssetManagement     AccountCategory = "ASSET_MANAGEMENT"
	CategoryPurposeOperation    AccountCategory = "PURPOSE_OPERATION"
	CategoryCommercialOperation AccountCategory = "COMMERCIAL_OPERATION"
	CategoryTransit             AccountCategory = "TRANSIT"
)

// Account is a posting target in the chart of accounts. Numbers are unique per
// deployment and immutable once any entry references them.
type Account struct {
	Number    string          `json:"number"`
	Name      string          `json:"name"`
	Category  AccountCategory `json:"category"`
	Kind      AccountKind     `json:"kind"`
	SortOrder int             `json:"sortOrder"`
	IsActive  bool            `json:"isActive"`
	AuditFields
}

// Validate checks the kind/category coherence invariants: kind is single-valued,
// and transit accounts live in the transit category (and only there).
func (a Account) Validate() error {
	switch a.Kind {
	case KindIncome, KindExpense, KindTransit:
	default:
		return apperrors.ErrValidation
	}
	switch a.Category {
	case CategoryIdealPurpose, CategoryAssetManagement, CategoryPurposeOperation, CategoryCommercialOperation, CategoryTransit:
	default:
		return apperrors.ErrValidation
	}
	if (a.Kind == KindTransit) != (a.Category == CategoryTransit) {
		return apperrors.ErrAccountKindMismatch
	}
	return nil
}
