package repositories

import (
	"context"
	"time"

	"github.com/easyfibu/kassenbuch-service/internal/core/domain"
)

// ClosingReader defines read operations for year-end closings.
type ClosingReader interface {
	// FindClosingByID retrieves a closing by its identifier.
	FindClosingByID(ctx context.Context, closingID string) (*domain.YearClosing, error)

	// FindClosingByYear retrieves the closing of one (organization, year) scope.
	FindClosingByYear(ctx context.Context, orgID string, year int) (*domain.YearClosing, error)

	// FindLatestClosing retrieves the organization's most recent closing by year.
	FindLatestClosing(ctx context.Context, orgID string) (*domain.YearClosing, error)

	// ListClosings retrieves all closings of an organization, newest year first.
	ListClosings(ctx context.Context, orgID string) ([]domain.YearClosing, error)
}

// ClosingWriter defines write operations for year-end closings.
type ClosingWriter interface {
	// SaveClosing persists a new closing. The repository takes the scope lock
	// shared with entry inserts, re-reads the year's entries inside that
	// transaction and calls derive on them to obtain the final totals, so no
	// posting can commit between the fold and the freeze. Returns the stored
	// closing, or ErrAlreadyClosed when one exists for the (organization, year)
	// scope.
	SaveClosing(ctx context.Context, closing domain.YearClosing, derive func(entries []domain.LedgerEntry) domain.YearBalances) (*domain.YearClosing, error)

	// MarkAudited performs the one-way audited transition, stamping auditor and
	// time. Returns ErrAlreadyAudited if the closing is already audited.
	MarkAudited(ctx context.Context, closingID string, auditorName string, actor string, at time.Time) error

	// UpdateRemarks replaces the free-text remarks. Allowed even after audit.
	UpdateRemarks(ctx context.Context, closingID string, remarks string, actor string, at time.Time) error
}

// ClosingRepositoryFacade combines all closing repository interfaces.
type ClosingRepositoryFacade interface {
	ClosingReader
	ClosingWriter
}
