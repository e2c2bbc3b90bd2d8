package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/easyfibu/kassenbuch-service/internal/apperrors"
	"github.com/easyfibu/kassenbuch-service/internal/core/domain"
	portsrepo "github.com/easyfibu/kassenbuch-service/internal/core/ports/repositories"
)

type PgxClosingRepository struct {
	BaseRepository
	entryRepo *PgxEntryRepository
}

func newPgxClosingRepository(pool *pgxpool.Pool, entryRepo *PgxEntryRepository) portsrepo.ClosingRepositoryFacade {
	return &PgxClosingRepository{
		BaseRepository: BaseRepository{Pool: pool},
		entryRepo:      entryRepo,
	}
}

var _ portsrepo.ClosingRepositoryFacade = (*PgxClosingRepository)(nil)

const closingColumns = `closing_id, organization_id, year, opening_cash, opening_bank, total_income, total_expense, closing_cash, closing_bank, closing_date, audited, audited_by, audited_at, remarks, created_at, created_by, last_updated_at, last_updated_by`

func scanClosing(row pgx.Row) (*domain.YearClosing, error) {
	var c domain.YearClosing
	err := row.Scan(
		&c.ClosingID,
		&c.OrganizationID,
		&c.Year,
		&c.OpeningCash,
		&c.OpeningBank,
		&c.TotalIncome,
		&c.TotalExpense,
		&c.ClosingCash,
		&c.ClosingBank,
		&c.ClosingDate,
		&c.Audited,
		&c.AuditedBy,
		&c.AuditedAt,
		&c.Remarks,
		&c.CreatedAt,
		&c.CreatedBy,
		&c.LastUpdatedAt,
		&c.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// SaveClosing persists a new closing under the scope lock shared with entry
// inserts. The year's totals are folded from the entries visible inside the
// locked transaction, never from figures computed beforehand, so no posting
// can slip in between the fold and the freeze.
func (r *PgxClosingRepository) SaveClosing(ctx context.Context, closing domain.YearClosing, derive func(entries []domain.LedgerEntry) domain.YearBalances) (*domain.YearClosing, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	if err := lockLedgerScope(ctx, tx, closing.OrganizationID, closing.Year); err != nil {
		return nil, err
	}

	entries, err := r.entryRepo.listEntriesByYearTx(ctx, tx, closing.OrganizationID, closing.Year)
	if err != nil {
		return nil, err
	}
	balances := derive(entries)
	closing.TotalIncome = balances.TotalIncome
	closing.TotalExpense = balances.TotalExpense
	closing.ClosingCash = balances.CashBalance
	closing.ClosingBank = balances.BankBalance

	query := `
		INSERT INTO year_closings (` + closingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err = tx.Exec(ctx, query,
		closing.ClosingID,
		closing.OrganizationID,
		closing.Year,
		closing.OpeningCash,
		closing.OpeningBank,
		closing.TotalIncome,
		closing.TotalExpense,
		closing.ClosingCash,
		closing.ClosingBank,
		closing.ClosingDate,
		closing.Audited,
		closing.AuditedBy,
		closing.AuditedAt,
		closing.Remarks,
		closing.CreatedAt,
		closing.CreatedBy,
		closing.LastUpdatedAt,
		closing.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return nil, fmt.Errorf("%w: year %d", apperrors.ErrAlreadyClosed, closing.Year)
		}
		return nil, fmt.Errorf("failed to insert closing: %w", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &closing, nil
}

// FindClosingByID retrieves a closing by identifier.
func (r *PgxClosingRepository) FindClosingByID(ctx context.Context, closingID string) (*domain.YearClosing, error) {
	query := `SELECT ` + closingColumns + ` FROM year_closings WHERE closing_id = $1;`
	c, err := scanClosing(r.Pool.QueryRow(ctx, query, closingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find closing %s: %w", closingID, err)
	}
	return c, nil
}

// FindClosingByYear retrieves the closing of one scope.
func (r *PgxClosingRepository) FindClosingByYear(ctx context.Context, orgID string, year int) (*domain.YearClosing, error) {
	query := `SELECT ` + closingColumns + ` FROM year_closings WHERE organization_id = $1 AND year = $2;`
	c, err := scanClosing(r.Pool.QueryRow(ctx, query, orgID, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find closing for year %d: %w", year, err)
	}
	return c, nil
}

// FindLatestClosing retrieves the most recent closing by year.
func (r *PgxClosingRepository) FindLatestClosing(ctx context.Context, orgID string) (*domain.YearClosing, error) {
	query := `SELECT ` + closingColumns + ` FROM year_closings WHERE organization_id = $1 ORDER BY year DESC LIMIT 1;`
	c, err := scanClosing(r.Pool.QueryRow(ctx, query, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find latest closing: %w", err)
	}
	return c, nil
}

// ListClosings retrieves all closings, newest year first.
func (r *PgxClosingRepository) ListClosings(ctx context.Context, orgID string) ([]domain.YearClosing, error) {
	query := `SELECT ` + closingColumns + ` FROM year_closings WHERE organization_id = $1 ORDER BY year DESC;`
	rows, err := r.Pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to query closings: %w", err)
	}
	defer rows.Close()

	var closings []domain.YearClosing
	for rows.Next() {
		c, err := scanClosing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan closing row: %w", err)
		}
		closings = append(closings, *c)
	}
	return closings, rows.Err()
}

// MarkAudited performs the one-way audited transition.
func (r *PgxClosingRepository) MarkAudited(ctx context.Context, closingID string, auditorName string, actor string, at time.Time) error {
	query := `
		UPDATE year_closings
		SET audited = TRUE, audited_by = $2, audited_at = $3, last_updated_at = $3, last_updated_by = $4
		WHERE closing_id = $1 AND NOT audited;
	`
	tag, err := r.Pool.Exec(ctx, query, closingID, auditorName, at, actor)
	if err != nil {
		return fmt.Errorf("failed to mark closing audited: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either missing or already audited; disambiguate for the caller.
		if _, err := r.FindClosingByID(ctx, closingID); err != nil {
			return err
		}
		return fmt.Errorf("%w: closing %s", apperrors.ErrAlreadyAudited, closingID)
	}
	return nil
}

// UpdateRemarks replaces the free-text remarks, audit state notwithstanding.
func (r *PgxClosingRepository) UpdateRemarks(ctx context.Context, closingID string, remarks string, actor string, at time.Time) error {
	query := `
		UPDATE year_closings
		SET remarks = $2, last_updated_at = $3, last_updated_by = $4
		WHERE closing_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, closingID, remarks, at, actor)
	if err != nil {
		return fmt.Errorf("failed to update closing remarks: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
