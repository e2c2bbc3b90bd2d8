package repositories

import (
	"context"
	"time"

	"github.com/easyfibu/kassenbuch-service/internal/core/domain"
)

// TransitReader defines read operations for transit items.
type TransitReader interface {
	// FindItemByID retrieves a transit item by its identifier.
	FindItemByID(ctx context.Context, itemID string) (*domain.TransitItem, error)

	// ListItems retrieves all transit items of an organization, newest received first.
	ListItems(ctx context.Context, orgID string) ([]domain.TransitItem, error)

	// ListItemsByStatus retrieves an organization's items in one status.
	ListItemsByStatus(ctx context.Context, orgID string, status domain.TransitStatus) ([]domain.TransitItem, error)

	// ListOpenItems retrieves all items that are not yet settled.
	ListOpenItems(ctx context.Context, orgID string) ([]domain.TransitItem, error)

	// ListItemsByAccount retrieves an organization's items for one transit account.
	ListItemsByAccount(ctx context.Context, orgID string, accountNumber string) ([]domain.TransitItem, error)
}

// TransitWriter defines write operations for transit items.
type TransitWriter interface {
	// SaveItem persists a newly received transit item.
	SaveItem(ctx context.Context, item domain.TransitItem) error

	// UpdateDisbursement applies the disbursement to the item under a row lock,
	// so concurrent disbursements accumulate instead of overwriting each other;
	// the over-disbursement and settled checks run against the locked row. When
	// entry is non-nil, the linked ledger entry is inserted in the same
	// transaction (assigning its voucher number); if that insert fails the item
	// update is rolled back too. Returns the stored item and entry, the latter
	// nil when no entry was requested.
	UpdateDisbursement(ctx context.Context, itemID string, d domain.Disbursement, actor string, at time.Time, entry *domain.LedgerEntry) (*domain.TransitItem, *domain.LedgerEntry, error)
}

// TransitRepositoryFacade combines all transit repository interfaces.
type TransitRepositoryFacade interface {
	TransitReader
	TransitWriter
}
