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

type PgxDonationRepository struct {
	BaseRepository
}

func newPgxDonationRepository(pool *pgxpool.Pool) portsrepo.DonationRepositoryFacade {
	return &PgxDonationRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.DonationRepositoryFacade = (*PgxDonationRepository)(nil)

const protocolColumns = `protocol_id, organization_id, date, purpose, purpose_category, amount, recorder, linked_fiscal_year, linked_voucher_no, note, created_at, created_by, last_updated_at, last_updated_by`

func scanProtocol(row pgx.Row) (*domain.DonationProtocol, error) {
	var p domain.DonationProtocol
	err := row.Scan(
		&p.ProtocolID,
		&p.OrganizationID,
		&p.Date,
		&p.Purpose,
		&p.PurposeCategory,
		&p.Amount,
		&p.Recorder,
		&p.LinkedFiscalYear,
		&p.LinkedVoucherNo,
		&p.Note,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SaveProtocol persists a protocol with its detail and witness lines in one
// transaction.
func (r *PgxDonationRepository) SaveProtocol(ctx context.Context, protocol domain.DonationProtocol) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	insertProtocol := `
		INSERT INTO donation_protocols (` + protocolColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = tx.Exec(ctx, insertProtocol,
		protocol.ProtocolID,
		protocol.OrganizationID,
		protocol.Date,
		protocol.Purpose,
		protocol.PurposeCategory,
		protocol.Amount,
		protocol.Recorder,
		protocol.LinkedFiscalYear,
		protocol.LinkedVoucherNo,
		protocol.Note,
		protocol.CreatedAt,
		protocol.CreatedBy,
		protocol.LastUpdatedAt,
		protocol.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert donation protocol: %w", err)
	}

	insertDetail := `
		INSERT INTO donation_details (protocol_id, position, value, count, sum)
		VALUES ($1, $2, $3, $4, $5);
	`
	for i, d := range protocol.Details {
		if _, err := tx.Exec(ctx, insertDetail, protocol.ProtocolID, i, d.Value, d.Count, d.Sum); err != nil {
			return fmt.Errorf("failed to insert donation detail line: %w", err)
		}
	}

	insertWitness := `
		INSERT INTO donation_witnesses (protocol_id, position, name, signed)
		VALUES ($1, $2, $3, $4);
	`
	for i, w := range protocol.Witnesses {
		if _, err := tx.Exec(ctx, insertWitness, protocol.ProtocolID, i, w.Name, w.Signed); err != nil {
			return fmt.Errorf("failed to insert donation witness: %w", err)
		}
	}

	return r.Commit(ctx, tx)
}

// FindProtocolByID retrieves a protocol with its detail and witness lines.
func (r *PgxDonationRepository) FindProtocolByID(ctx context.Context, protocolID string) (*domain.DonationProtocol, error) {
	query := `SELECT ` + protocolColumns + ` FROM donation_protocols WHERE protocol_id = $1;`
	p, err := scanProtocol(r.Pool.QueryRow(ctx, query, protocolID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find donation protocol %s: %w", protocolID, err)
	}
	if err := r.loadLines(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ListProtocols retrieves all protocols of an organization, newest first.
func (r *PgxDonationRepository) ListProtocols(ctx context.Context, orgID string) ([]domain.DonationProtocol, error) {
	query := `SELECT ` + protocolColumns + ` FROM donation_protocols WHERE organization_id = $1 ORDER BY date DESC, protocol_id;`
	return r.queryProtocols(ctx, query, orgID)
}

// ListProtocolsByDateRange retrieves protocols dated within [from, to].
func (r *PgxDonationRepository) ListProtocolsByDateRange(ctx context.Context, orgID string, from, to time.Time) ([]domain.DonationProtocol, error) {
	query := `SELECT ` + protocolColumns + ` FROM donation_protocols WHERE organization_id = $1 AND date >= $2 AND date <= $3 ORDER BY date DESC, protocol_id;`
	return r.queryProtocols(ctx, query, orgID, from, to)
}

func (r *PgxDonationRepository) queryProtocols(ctx context.Context, query string, args ...any) ([]domain.DonationProtocol, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query donation protocols: %w", err)
	}
	defer rows.Close()

	var protocols []domain.DonationProtocol
	for rows.Next() {
		p, err := scanProtocol(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan donation protocol row: %w", err)
		}
		protocols = append(protocols, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range protocols {
		if err := r.loadLines(ctx, &protocols[i]); err != nil {
			return nil, err
		}
	}
	return protocols, nil
}

func (r *PgxDonationRepository) loadLines(ctx context.Context, p *domain.DonationProtocol) error {
	detailRows, err := r.Pool.Query(ctx, `SELECT value, count, sum FROM donation_details WHERE protocol_id = $1 ORDER BY position;`, p.ProtocolID)
	if err != nil {
		return fmt.Errorf("failed to query donation details: %w", err)
	}
	defer detailRows.Close()
	for detailRows.Next() {
		var d domain.DonationDetail
		if err := detailRows.Scan(&d.Value, &d.Count, &d.Sum); err != nil {
			return fmt.Errorf("failed to scan donation detail row: %w", err)
		}
		p.Details = append(p.Details, d)
	}
	if err := detailRows.Err(); err != nil {
		return err
	}

	witnessRows, err := r.Pool.Query(ctx, `SELECT name, signed FROM donation_witnesses WHERE protocol_id = $1 ORDER BY position;`, p.ProtocolID)
	if err != nil {
		return fmt.Errorf("failed to query donation witnesses: %w", err)
	}
	defer witnessRows.Close()
	for witnessRows.Next() {
		var w domain.DonationWitness
		if err := witnessRows.Scan(&w.Name, &w.Signed); err != nil {
			return fmt.Errorf("failed to scan donation witness row: %w", err)
		}
		p.Witnesses = append(p.Witnesses, w)
	}
	return witnessRows.Err()
}
