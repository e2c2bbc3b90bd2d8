package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/easyfibu/kassenbuch-service/internal/apperrors"
	"github.com/easyfibu/kassenbuch-service/internal/core/domain"
	portsrepo "github.com/easyfibu/kassenbuch-service/internal/core/ports/repositories"
)

type PgxEntryRepository struct {
	BaseRepository
}

var _ portsrepo.EntryRepositoryFacade = (*PgxEntryRepository)(nil)

const entryColumns = `organization_id, fiscal_year, voucher_no, posting_date, account_number, text, cash_in, cash_out, bank_in, bank_out, payment_method, reversed, reversal_of, note, created_at, created_by, last_updated_at, last_updated_by`

func scanEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var e domain.LedgerEntry
	err := row.Scan(
		&e.OrganizationID,
		&e.FiscalYear,
		&e.VoucherNo,
		&e.PostingDate,
		&e.AccountNumber,
		&e.Text,
		&e.CashIn,
		&e.CashOut,
		&e.BankIn,
		&e.BankOut,
		&e.PaymentMethod,
		&e.Reversed,
		&e.ReversalOf,
		&e.Note,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *PgxEntryRepository) queryEntries(ctx context.Context, query string, args ...any) ([]domain.LedgerEntry, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	return collectEntries(rows)
}

func collectEntries(rows pgx.Rows) ([]domain.LedgerEntry, error) {
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry row: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// FindEntryByVoucher retrieves one entry by its composite key.
func (r *PgxEntryRepository) FindEntryByVoucher(ctx context.Context, orgID string, year int, voucherNo int) (*domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE organization_id = $1 AND fiscal_year = $2 AND voucher_no = $3;`
	e, err := scanEntry(r.Pool.QueryRow(ctx, query, orgID, year, voucherNo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entry %d/%d: %w", year, voucherNo, err)
	}
	return e, nil
}

// ListEntriesByYear retrieves a scope's entries in voucher order.
func (r *PgxEntryRepository) ListEntriesByYear(ctx context.Context, orgID string, year int) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE organization_id = $1 AND fiscal_year = $2 ORDER BY voucher_no;`
	return r.queryEntries(ctx, query, orgID, year)
}

// listEntriesByYearTx reads a scope's entries inside a caller-held transaction.
// Shared with the closing repository, which folds the year's totals under the
// scope lock before freezing them.
func (r *PgxEntryRepository) listEntriesByYearTx(ctx context.Context, tx pgx.Tx, orgID string, year int) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE organization_id = $1 AND fiscal_year = $2 ORDER BY voucher_no;`
	rows, err := tx.Query(ctx, query, orgID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	return collectEntries(rows)
}

// ListEntriesByAccount retrieves one account's entries for a year.
func (r *PgxEntryRepository) ListEntriesByAccount(ctx context.Context, orgID string, year int, accountNumber string) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE organization_id = $1 AND fiscal_year = $2 AND account_number = $3 ORDER BY voucher_no;`
	return r.queryEntries(ctx, query, orgID, year, accountNumber)
}

// ListEntriesByDateRange retrieves entries posted within [from, to].
func (r *PgxEntryRepository) ListEntriesByDateRange(ctx context.Context, orgID string, from, to time.Time) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE organization_id = $1 AND posting_date >= $2 AND posting_date <= $3 ORDER BY posting_date, voucher_no;`
	return r.queryEntries(ctx, query, orgID, from, to)
}

// NextVoucherNo previews the next voucher number without taking the scope lock.
func (r *PgxEntryRepository) NextVoucherNo(ctx context.Context, orgID string, year int) (int, error) {
	var next int
	query := `SELECT COALESCE(MAX(voucher_no), 0) + 1 FROM ledger_entries WHERE organization_id = $1 AND fiscal_year = $2;`
	if err := r.Pool.QueryRow(ctx, query, orgID, year).Scan(&next); err != nil {
		return 0, fmt.Errorf("failed to derive next voucher number: %w", err)
	}
	return next, nil
}

// HasEntriesForAccount reports whether any entry references the account.
func (r *PgxEntryRepository) HasEntriesForAccount(ctx context.Context, accountNumber string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM ledger_entries WHERE account_number = $1);`
	if err := r.Pool.QueryRow(ctx, query, accountNumber).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check account usage: %w", err)
	}
	return exists, nil
}

// SaveEntry assigns the next voucher number and inserts the entry inside one
// transaction. The scope lock serializes concurrent writers so the sequence
// stays gapless; the closed-year check runs under the same lock.
func (r *PgxEntryRepository) SaveEntry(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	saved, err := r.insertEntryTx(ctx, tx, entry)
	if err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return saved, nil
}

// SaveReversal inserts the reversal entry and flips the original's reversed
// flag in one transaction. The reversed-flag check runs after the scope lock
// is held, so concurrent double reversals lose cleanly.
func (r *PgxEntryRepository) SaveReversal(ctx context.Context, original domain.LedgerEntry, reversal domain.LedgerEntry) (*domain.LedgerEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	if err := lockLedgerScope(ctx, tx, original.OrganizationID, original.FiscalYear); err != nil {
		return nil, err
	}

	var reversed bool
	checkQuery := `SELECT reversed FROM ledger_entries WHERE organization_id = $1 AND fiscal_year = $2 AND voucher_no = $3;`
	if err := tx.QueryRow(ctx, checkQuery, original.OrganizationID, original.FiscalYear, original.VoucherNo).Scan(&reversed); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to recheck original entry: %w", err)
	}
	if reversed {
		return nil, fmt.Errorf("%w: voucher %d", apperrors.ErrAlreadyReversed, original.VoucherNo)
	}

	saved, err := r.insertEntryLocked(ctx, tx, reversal)
	if err != nil {
		return nil, err
	}

	flipQuery := `UPDATE ledger_entries SET reversed = TRUE, last_updated_at = $4, last_updated_by = $5 WHERE organization_id = $1 AND fiscal_year = $2 AND voucher_no = $3;`
	if _, err := tx.Exec(ctx, flipQuery, original.OrganizationID, original.FiscalYear, original.VoucherNo, reversal.CreatedAt, reversal.CreatedBy); err != nil {
		return nil, fmt.Errorf("failed to mark original entry reversed: %w", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return saved, nil
}

// insertEntryTx takes the scope lock and inserts. Shared with the transit
// repository, which links an entry to a disbursement in its own transaction.
func (r *PgxEntryRepository) insertEntryTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) (*domain.LedgerEntry, error) {
	if err := lockLedgerScope(ctx, tx, entry.OrganizationID, entry.FiscalYear); err != nil {
		return nil, err
	}
	return r.insertEntryLocked(ctx, tx, entry)
}

func (r *PgxEntryRepository) insertEntryLocked(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) (*domain.LedgerEntry, error) {
	var closed bool
	closedQuery := `SELECT EXISTS (SELECT 1 FROM year_closings WHERE organization_id = $1 AND year = $2);`
	if err := tx.QueryRow(ctx, closedQuery, entry.OrganizationID, entry.FiscalYear).Scan(&closed); err != nil {
		return nil, fmt.Errorf("failed to check year closing: %w", err)
	}
	if closed {
		return nil, fmt.Errorf("%w: year %d", apperrors.ErrYearClosed, entry.FiscalYear)
	}

	nextQuery := `SELECT COALESCE(MAX(voucher_no), 0) + 1 FROM ledger_entries WHERE organization_id = $1 AND fiscal_year = $2;`
	if err := tx.QueryRow(ctx, nextQuery, entry.OrganizationID, entry.FiscalYear).Scan(&entry.VoucherNo); err != nil {
		return nil, fmt.Errorf("failed to assign voucher number: %w", err)
	}

	insertQuery := `
		INSERT INTO ledger_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err := tx.Exec(ctx, insertQuery,
		entry.OrganizationID,
		entry.FiscalYear,
		entry.VoucherNo,
		entry.PostingDate,
		entry.AccountNumber,
		entry.Text,
		entry.CashIn,
		entry.CashOut,
		entry.BankIn,
		entry.BankOut,
		entry.PaymentMethod,
		entry.Reversed,
		entry.ReversalOf,
		entry.Note,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert ledger entry: %w", err)
	}
	return &entry, nil
}
