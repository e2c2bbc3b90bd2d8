package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/easyfibu/kassenbuch-service/internal/apperrors"
	"github.com/easyfibu/kassenbuch-service/internal/core/domain"
	portsrepo "github.com/easyfibu/kassenbuch-service/internal/core/ports/repositories"
)

type PgxTransitRepository struct {
	BaseRepository
	entryRepo *PgxEntryRepository
}

func newPgxTransitRepository(pool *pgxpool.Pool, entryRepo *PgxEntryRepository) portsrepo.TransitRepositoryFacade {
	return &PgxTransitRepository{
		BaseRepository: BaseRepository{Pool: pool},
		entryRepo:      entryRepo,
	}
}

var _ portsrepo.TransitRepositoryFacade = (*PgxTransitRepository)(nil)

const transitColumns = `item_id, organization_id, account_number, description, beneficiary, received_date, received_amount, disbursed_date, disbursed_amount, status, reference, linked_fiscal_year, linked_voucher_no, note, created_at, created_by, last_updated_at, last_updated_by`

func scanTransitItem(row pgx.Row) (*domain.TransitItem, error) {
	var t domain.TransitItem
	err := row.Scan(
		&t.ItemID,
		&t.OrganizationID,
		&t.AccountNumber,
		&t.Description,
		&t.Beneficiary,
		&t.ReceivedDate,
		&t.ReceivedAmount,
		&t.DisbursedDate,
		&t.DisbursedAmount,
		&t.Status,
		&t.Reference,
		&t.LinkedFiscalYear,
		&t.LinkedVoucherNo,
		&t.Note,
		&t.CreatedAt,
		&t.CreatedBy,
		&t.LastUpdatedAt,
		&t.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PgxTransitRepository) queryItems(ctx context.Context, query string, args ...any) ([]domain.TransitItem, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transit items: %w", err)
	}
	defer rows.Close()

	var items []domain.TransitItem
	for rows.Next() {
		t, err := scanTransitItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transit item row: %w", err)
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

// SaveItem inserts a newly received transit item.
func (r *PgxTransitRepository) SaveItem(ctx context.Context, item domain.TransitItem) error {
	query := `
		INSERT INTO transit_items (` + transitColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err := r.Pool.Exec(ctx, query,
		item.ItemID,
		item.OrganizationID,
		item.AccountNumber,
		item.Description,
		item.Beneficiary,
		item.ReceivedDate,
		item.ReceivedAmount,
		item.DisbursedDate,
		item.DisbursedAmount,
		item.Status,
		item.Reference,
		item.LinkedFiscalYear,
		item.LinkedVoucherNo,
		item.Note,
		item.CreatedAt,
		item.CreatedBy,
		item.LastUpdatedAt,
		item.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transit item: %w", err)
	}
	return nil
}

// FindItemByID retrieves a transit item by identifier.
func (r *PgxTransitRepository) FindItemByID(ctx context.Context, itemID string) (*domain.TransitItem, error) {
	query := `SELECT ` + transitColumns + ` FROM transit_items WHERE item_id = $1;`
	t, err := scanTransitItem(r.Pool.QueryRow(ctx, query, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transit item %s: %w", itemID, err)
	}
	return t, nil
}

// ListItems retrieves all items of an organization, newest received first.
func (r *PgxTransitRepository) ListItems(ctx context.Context, orgID string) ([]domain.TransitItem, error) {
	query := `SELECT ` + transitColumns + ` FROM transit_items WHERE organization_id = $1 ORDER BY received_date DESC, item_id;`
	return r.queryItems(ctx, query, orgID)
}

// ListItemsByStatus retrieves items in one status.
func (r *PgxTransitRepository) ListItemsByStatus(ctx context.Context, orgID string, status domain.TransitStatus) ([]domain.TransitItem, error) {
	query := `SELECT ` + transitColumns + ` FROM transit_items WHERE organization_id = $1 AND status = $2 ORDER BY received_date DESC, item_id;`
	return r.queryItems(ctx, query, orgID, status)
}

// ListOpenItems retrieves items not yet fully settled.
func (r *PgxTransitRepository) ListOpenItems(ctx context.Context, orgID string) ([]domain.TransitItem, error) {
	query := `SELECT ` + transitColumns + ` FROM transit_items WHERE organization_id = $1 AND status <> $2 ORDER BY received_date, item_id;`
	return r.queryItems(ctx, query, orgID, domain.TransitSettled)
}

// ListItemsByAccount retrieves items booked on one transit account.
func (r *PgxTransitRepository) ListItemsByAccount(ctx context.Context, orgID string, accountNumber string) ([]domain.TransitItem, error) {
	query := `SELECT ` + transitColumns + ` FROM transit_items WHERE organization_id = $1 AND account_number = $2 ORDER BY received_date DESC, item_id;`
	return r.queryItems(ctx, query, orgID, accountNumber)
}

// UpdateDisbursement applies the disbursement under a row lock and, when entry
// is non-nil, inserts the linked ledger entry in the same transaction. The
// item state read under the lock is authoritative: concurrent disbursements
// serialize on the row and accumulate instead of overwriting each other. A
// failed entry insert (closed year included) rolls back the item update too.
func (r *PgxTransitRepository) UpdateDisbursement(ctx context.Context, itemID string, d domain.Disbursement, actor string, at time.Time, entry *domain.LedgerEntry) (*domain.TransitItem, *domain.LedgerEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer r.Rollback(ctx, tx)

	lockQuery := `SELECT ` + transitColumns + ` FROM transit_items WHERE item_id = $1 FOR UPDATE;`
	item, err := scanTransitItem(tx.QueryRow(ctx, lockQuery, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to lock transit item %s: %w", itemID, err)
	}

	if err := item.ApplyDisbursement(d, actor, at); err != nil {
		return nil, nil, fmt.Errorf("%w: item %s", err, itemID)
	}

	var saved *domain.LedgerEntry
	if entry != nil {
		saved, err = r.entryRepo.insertEntryTx(ctx, tx, *entry)
		if err != nil {
			return nil, nil, err
		}
		item.LinkedFiscalYear = &saved.FiscalYear
		item.LinkedVoucherNo = &saved.VoucherNo
	}

	query := `
		UPDATE transit_items
		SET disbursed_date = $2, disbursed_amount = $3, status = $4, reference = $5,
		    linked_fiscal_year = $6, linked_voucher_no = $7, last_updated_at = $8, last_updated_by = $9
		WHERE item_id = $1;
	`
	if _, err := tx.Exec(ctx, query,
		item.ItemID,
		item.DisbursedDate,
		item.DisbursedAmount,
		item.Status,
		item.Reference,
		item.LinkedFiscalYear,
		item.LinkedVoucherNo,
		item.LastUpdatedAt,
		item.LastUpdatedBy,
	); err != nil {
		return nil, nil, fmt.Errorf("failed to update transit item: %w", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, nil, err
	}
	return item, saved, nil
}
