package dto

import (
	"time"

	"github.com/easyfibu/kassenbuch-service/internal/core/domain"
)

// RegisterAccountRequest defines the data needed to register a posting account.
type RegisterAccountRequest struct {
	Number    string                 `json:"number" binding:"required,max=10"`
	Name      string                 `json:"name" binding:"required,max=200"`
	Category  domain.AccountCategory `json:"category" binding:"required,oneof=IDEAL_PURPOSE ASSET_MANAGEMENT PURPOSE_OPERATION COMMERCIAL_OPERATION TRANSIT"`
	Kind      domain.AccountKind     `json:"kind" binding:"required,oneof=INCOME EXPENSE TRANSIT"`
	SortOrder int                    `json:"sortOrder"`
}

// UpdateAccountRequest defines the fields that may change on an account.
// Pointers distinguish zero-value updates from fields not provided.
type UpdateAccountRequest struct {
	Name      *string `json:"name"`
	SortOrder *int    `json:"sortOrder"`
}

// AccountResponse mirrors domain.Account for API output.
type AccountResponse struct {
	Number    string                 `json:"number"`
	Name      string                 `json:"name"`
	Category  domain.AccountCategory `json:"category"`
	Kind      domain.AccountKind     `json:"kind"`
	SortOrder int                    `json:"sortOrder"`
	IsActive  bool                   `json:"isActive"`
	CreatedAt time.Time              `json:"createdAt"`
	CreatedBy string                 `json:"createdBy"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		Number:    acc.Number,
		Name:      acc.Name,
		Category:  acc.Category,
		Kind:      acc.Kind,
		SortOrder: acc.SortOrder,
		IsActive:  acc.IsActive,
		CreatedAt: acc.CreatedAt,
		CreatedBy: acc.CreatedBy,
	}
}

// ToAccountResponses converts a slice of accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}
