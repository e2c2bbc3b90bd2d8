package repositories

import (
	"context"
	"time"

	"github.com/easyfibu/kassenbuch-service/internal/core/domain"
)

// EntryReader defines read operations for ledger entries. Reads never take the
// scope lock; they see a consistent snapshot.
type EntryReader interface {
	// FindEntryByVoucher retrieves one entry by its (organization, year, voucher) key.
	FindEntryByVoucher(ctx context.Context, orgID string, year int, voucherNo int) (*domain.LedgerEntry, error)

	// ListEntriesByYear retrieves all entries of a scope in voucher-number order.
	ListEntriesByYear(ctx context.Context, orgID string, year int) ([]domain.LedgerEntry, error)

	// ListEntriesByAccount retrieves a scope's entries for one account, oldest first.
	ListEntriesByAccount(ctx context.Context, orgID string, year int, accountNumber string) ([]domain.LedgerEntry, error)

	// ListEntriesByDateRange retrieves an organization's entries with posting
	// dates in [from, to], ordered by date then voucher number.
	ListEntriesByDateRange(ctx context.Context, orgID string, from, to time.Time) ([]domain.LedgerEntry, error)

	// NextVoucherNo previews the next voucher number for a scope. The value is
	// advisory; the binding assignment happens inside SaveEntry.
	NextVoucherNo(ctx context.Context, orgID string, year int) (int, error)

	// HasEntriesForAccount reports whether any entry references the account.
	HasEntriesForAccount(ctx context.Context, accountNumber string) (bool, error)
}

// EntryWriter defines the two atomic write operations of the ledger.
type EntryWriter interface {
	// SaveEntry atomically assigns the next voucher number in the entry's
	// (organization, fiscal year) scope and inserts the entry, holding the scope
	// lock for the duration. Returns the stored entry with its voucher number,
	// or ErrYearClosed when the scope already has a year-end closing.
	SaveEntry(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, error)

	// SaveReversal atomically inserts the reversal entry (assigning its voucher
	// number) and marks the original entry reversed. Returns the stored reversal.
	// Fails with ErrYearClosed or, if the original was reversed concurrently,
	// ErrAlreadyReversed; in either case nothing is applied.
	SaveReversal(ctx context.Context, original domain.LedgerEntry, reversal domain.LedgerEntry) (*domain.LedgerEntry, error)
}

// EntryRepositoryFacade combines all ledger-entry repository interfaces.
type EntryRepositoryFacade interface {
	EntryReader
	EntryWriter
}
