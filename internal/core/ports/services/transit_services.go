package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/easyfibu/kassenbuch-service/internal/core/domain"
	"github.com/easyfibu/kassenbuch-service/internal/dto"
)

// TransitReaderSvc defines read operations for the transit item register
type TransitReaderSvc interface {
	// GetItem retrieves one transit item by its identifier.
	GetItem(ctx context.Context, orgID string, itemID string) (*domain.TransitItem, error)

	// ListItems retrieves transit items, optionally filtered by status.
	ListItems(ctx context.Context, orgID string, status domain.TransitStatus) ([]domain.TransitItem, error)

	// ListItemsByAccount retrieves transit items booked on a given account.
	ListItemsByAccount(ctx context.Context, orgID string, accountNumber string) ([]domain.TransitItem, error)

	// OpenBalance sums the outstanding amount over all not yet settled items.
	OpenBalance(ctx context.Context, orgID string) (decimal.Decimal, int, error)

	// SummaryByBeneficiary aggregates items per beneficiary, largest
	// outstanding first.
	SummaryByBeneficiary(ctx context.Context, orgID string) ([]domain.BeneficiarySummary, error)
}

// TransitWriterSvc defines write operations for the transit item register
type TransitWriterSvc interface {
	// ReceiveItem records a pass-through amount taken in for a beneficiary.
	ReceiveItem(ctx context.Context, orgID string, req dto.ReceiveTransitRequest, userID string) (*domain.TransitItem, error)

	// DisburseItem records a forwarding of funds, moving the item towards
	// settled. With PostToLedger set, a matching ledger entry is written
	// atomically and linked to the item.
	DisburseItem(ctx context.Context, orgID string, itemID string, req dto.DisburseTransitRequest, userID string) (*domain.TransitItem, error)
}

// TransitSvcFacade combines all transit-related service interfaces
type TransitSvcFacade interface {
	TransitReaderSvc
	TransitWriterSvc
}
