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
	"github.com/easyfibu/kassenbuch-service/internal/dto"
	"github.com/easyfibu/kassenbuch-service/internal/middleware"
)

// DonationService manages counted-collection protocols.
type DonationService struct {
	donationRepo portsrepo.DonationRepositoryFacade
}

func NewDonationService(donationRepo portsrepo.DonationRepositoryFacade) *DonationService {
	return &DonationService{donationRepo: donationRepo}
}

// CreateProtocol records a counted collection. Each line sum and the protocol
// total are derived from the denomination details, never taken from the client.
func (s *DonationService) CreateProtocol(ctx context.Context, orgID string, req dto.CreateDonationRequest, userID string) (*domain.DonationProtocol, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	details := make([]domain.DonationDetail, len(req.Details))
	total := decimal.Zero
	for i, d := range req.Details {
		if !d.Value.IsPositive() || d.Count <= 0 {
			return nil, fmt.Errorf("%w: denomination lines need a positive value and count", apperrors.ErrInvalidAmount)
		}
		sum := d.Value.Mul(decimal.NewFromInt(int64(d.Count)))
		details[i] = domain.DonationDetail{
			Value: d.Value,
			Count: d.Count,
			Sum:   sum,
		}
		total = total.Add(sum)
	}

	witnesses := make([]domain.DonationWitness, len(req.Witnesses))
	for i, w := range req.Witnesses {
		witnesses[i] = domain.DonationWitness{Name: w.Name, Signed: w.Signed}
	}

	protocol := domain.DonationProtocol{
		ProtocolID:      uuid.NewString(),
		OrganizationID:  orgID,
		Date:            req.Date,
		Purpose:         req.Purpose,
		PurposeCategory: req.PurposeCategory,
		Amount:          total,
		Recorder:        req.Recorder,
		Witnesses:       witnesses,
		Details:         details,
		Note:            req.Note,
		AuditFields:     domain.NewAuditFields(userID, time.Now()),
	}

	if err := s.donationRepo.SaveProtocol(ctx, protocol); err != nil {
		logger.Error("Failed to save donation protocol", slog.String("error", err.Error()), slog.String("purpose", req.Purpose))
		return nil, err
	}

	logger.Info("Donation protocol recorded", slog.String("protocol_id", protocol.ProtocolID), slog.String("amount", total.String()), slog.String("category", string(req.PurposeCategory)))
	return &protocol, nil
}

// GetProtocol retrieves one protocol owned by the organization.
func (s *DonationService) GetProtocol(ctx context.Context, orgID string, protocolID string) (*domain.DonationProtocol, error) {
	protocol, err := s.donationRepo.FindProtocolByID(ctx, protocolID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger := middleware.GetLoggerFromCtx(ctx)
			logger.Error("Failed to find donation protocol", slog.String("error", err.Error()), slog.String("protocol_id", protocolID))
		}
		return nil, err
	}
	if protocol.OrganizationID != orgID {
		return nil, apperrors.ErrNotFound
	}
	return protocol, nil
}

// ListProtocols retrieves all protocols of the organization, newest first.
func (s *DonationService) ListProtocols(ctx context.Context, orgID string) ([]domain.DonationProtocol, error) {
	protocols, err := s.donationRepo.ListProtocols(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if protocols == nil {
		return []domain.DonationProtocol{}, nil
	}
	return protocols, nil
}

// ListProtocolsByDateRange retrieves protocols dated within [from, to].
func (s *DonationService) ListProtocolsByDateRange(ctx context.Context, orgID string, from, to time.Time) ([]domain.DonationProtocol, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: date range end precedes start", apperrors.ErrValidation)
	}
	protocols, err := s.donationRepo.ListProtocolsByDateRange(ctx, orgID, from, to)
	if err != nil {
		return nil, err
	}
	if protocols == nil {
		return []domain.DonationProtocol{}, nil
	}
	return protocols, nil
}
