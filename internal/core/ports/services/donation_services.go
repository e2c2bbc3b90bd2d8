package services

import (
	"context"
	"time"

	"github.com/easyfibu/kassenbuch-service/internal/core/domain"
	"github.com/easyfibu/kassenbuch-service/internal/dto"
)

// DonationReaderSvc defines read operations for donation protocols
type DonationReaderSvc interface {
	// GetProtocol retrieves one protocol with its detail lines.
	GetProtocol(ctx context.Context, orgID string, protocolID string) (*domain.DonationProtocol, error)

	// ListProtocols retrieves all protocols of the organization, newest first.
	ListProtocols(ctx context.Context, orgID string) ([]domain.DonationProtocol, error)

	// ListProtocolsByDateRange retrieves protocols dated within [from, to].
	ListProtocolsByDateRange(ctx context.Context, orgID string, from, to time.Time) ([]domain.DonationProtocol, error)
}

// DonationWriterSvc defines write operations for donation protocols
type DonationWriterSvc interface {
	// CreateProtocol records a counted collection. Line sums and the protocol
	// total are derived server-side from the denomination details.
	CreateProtocol(ctx context.Context, orgID string, req dto.CreateDonationRequest, userID string) (*domain.DonationProtocol, error)
}

// DonationSvcFacade combines all donation-related service interfaces
type DonationSvcFacade interface {
	DonationReaderSvc
	DonationWriterSvc
}
