package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/easyfibu/kassenbuch-service/internal/apperrors"
	"github.com/easyfibu/kassenbuch-service/internal/core/domain"
	portsrepo "github.com/easyfibu/kassenbuch-service/internal/core/ports/repositories"
	portssvc "github.com/easyfibu/kassenbuch-service/internal/core/ports/services"
	"github.com/easyfibu/kassenbuch-service/internal/dto"
	"github.com/easyfibu/kassenbuch-service/internal/middleware"
)

// ClosingService manages year-end closings. A closing freezes a fiscal year:
// once it exists, no entry can be posted into that year anymore.
type ClosingService struct {
	closingRepo portsrepo.ClosingRepositoryFacade
	publisher   portssvc.EventPublisherSvc // optional, may be nil
}

func NewClosingService(closingRepo portsrepo.ClosingRepositoryFacade, publisher portssvc.EventPublisherSvc) *ClosingService {
	return &ClosingService{
		closingRepo: closingRepo,
		publisher:   publisher,
	}
}

// CloseYear freezes a fiscal year. Opening balances chain from the prior
// year's closing, which is itself frozen. The totals are not computed here:
// the repository folds them from the entries it sees under the scope lock, so
// a posting that commits while the closing is prepared still counts.
func (s *ClosingService) CloseYear(ctx context.Context, orgID string, req dto.CalculateClosingRequest, userID string) (*domain.YearClosing, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.closingRepo.FindClosingByYear(ctx, orgID, req.Year)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Failed to check for existing closing", slog.String("error", err.Error()), slog.Int("year", req.Year))
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: year %d", apperrors.ErrAlreadyClosed, req.Year)
	}

	openingCash := decimal.Zero
	openingBank := decimal.Zero
	prior, err := s.closingRepo.FindClosingByYear(ctx, orgID, req.Year-1)
	switch {
	case err == nil:
		openingCash = prior.ClosingCash
		openingBank = prior.ClosingBank
	case errors.Is(err, apperrors.ErrNotFound):
		// First tracked year, opening stays zero.
	default:
		logger.Error("Failed to load prior closing", slog.String("error", err.Error()), slog.Int("year", req.Year-1))
		return nil, err
	}

	now := time.Now()
	closing := domain.YearClosing{
		ClosingID:      uuid.NewString(),
		OrganizationID: orgID,
		Year:           req.Year,
		OpeningCash:    openingCash,
		OpeningBank:    openingBank,
		ClosingDate:    now,
		Remarks:        req.Remarks,
		AuditFields:    domain.NewAuditFields(userID, now),
	}

	saved, err := s.closingRepo.SaveClosing(ctx, closing, func(entries []domain.LedgerEntry) domain.YearBalances {
		return domain.DeriveBalances(orgID, req.Year, openingCash, openingBank, entries)
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrAlreadyClosed) {
			logger.Error("Failed to save closing", slog.String("error", err.Error()), slog.Int("year", req.Year))
		}
		return nil, err
	}

	logger.Info("Fiscal year closed", slog.String("organization_id", orgID), slog.Int("year", req.Year), slog.String("closing_id", saved.ClosingID))

	if s.publisher != nil {
		if err := s.publisher.PublishYearClosed(ctx, saved); err != nil {
			logger.Warn("Failed to publish year closed event", slog.String("error", err.Error()), slog.Int("year", req.Year))
		}
	}
	return saved, nil
}

// AuditClosing performs the one-way audited transition.
func (s *ClosingService) AuditClosing(ctx context.Context, orgID string, closingID string, req dto.AuditClosingRequest, userID string) (*domain.YearClosing, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	closing, err := s.getOwnedClosing(ctx, orgID, closingID)
	if err != nil {
		return nil, err
	}
	if closing.Audited {
		return nil, fmt.Errorf("%w: closing %s", apperrors.ErrAlreadyAudited, closingID)
	}

	now := time.Now()
	if err := s.closingRepo.MarkAudited(ctx, closingID, req.AuditorName, userID, now); err != nil {
		if !errors.Is(err, apperrors.ErrAlreadyAudited) {
			logger.Error("Failed to mark closing audited", slog.String("error", err.Error()), slog.String("closing_id", closingID))
		}
		return nil, err
	}

	closing.Audited = true
	closing.AuditedBy = req.AuditorName
	closing.AuditedAt = &now
	closing.Touch(userID, now)

	logger.Info("Closing audited", slog.String("closing_id", closingID), slog.String("auditor", req.AuditorName))
	return closing, nil
}

// UpdateRemarks replaces the remarks text. Remarks stay editable after the
// audit; the figures do not.
func (s *ClosingService) UpdateRemarks(ctx context.Context, orgID string, closingID string, req dto.UpdateClosingRemarksRequest, userID string) (*domain.YearClosing, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	closing, err := s.getOwnedClosing(ctx, orgID, closingID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.closingRepo.UpdateRemarks(ctx, closingID, req.Remarks, userID, now); err != nil {
		logger.Error("Failed to update closing remarks", slog.String("error", err.Error()), slog.String("closing_id", closingID))
		return nil, err
	}

	closing.Remarks = req.Remarks
	closing.Touch(userID, now)
	return closing, nil
}

// GetClosingByID retrieves a closing owned by the organization.
func (s *ClosingService) GetClosingByID(ctx context.Context, orgID string, closingID string) (*domain.YearClosing, error) {
	return s.getOwnedClosing(ctx, orgID, closingID)
}

// GetClosingByYear retrieves the closing of a fiscal year.
func (s *ClosingService) GetClosingByYear(ctx context.Context, orgID string, year int) (*domain.YearClosing, error) {
	return s.closingRepo.FindClosingByYear(ctx, orgID, year)
}

// GetLatestClosing retrieves the most recent closing.
func (s *ClosingService) GetLatestClosing(ctx context.Context, orgID string) (*domain.YearClosing, error) {
	return s.closingRepo.FindLatestClosing(ctx, orgID)
}

// ListClosings retrieves all closings, newest year first.
func (s *ClosingService) ListClosings(ctx context.Context, orgID string) ([]domain.YearClosing, error) {
	closings, err := s.closingRepo.ListClosings(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if closings == nil {
		return []domain.YearClosing{}, nil
	}
	return closings, nil
}

// getOwnedClosing loads a closing and hides it when it belongs to another
// organization.
func (s *ClosingService) getOwnedClosing(ctx context.Context, orgID string, closingID string) (*domain.YearClosing, error) {
	closing, err := s.closingRepo.FindClosingByID(ctx, closingID)
	if err != nil {
		return nil, err
	}
	if closing.OrganizationID != orgID {
		return nil, apperrors.ErrNotFound
	}
	return closing, nil
}
