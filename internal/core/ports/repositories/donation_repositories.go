package repositories

import (
	"context"
	"time"

	"github.com/easyfibu/kassenbuch-service/internal/core/domain"
)

// DonationReader defines read operations for donation protocols.
type DonationReader interface {
	// FindProtocolByID retrieves a protocol with its detail lines.
	FindProtocolByID(ctx context.Context, protocolID string) (*domain.DonationProtocol, error)

	// ListProtocols retrieves all protocols of an organization, newest first.
	ListProtocols(ctx context.Context, orgID string) ([]domain.DonationProtocol, error)

	// ListProtocolsByDateRange retrieves protocols dated within [from, to].
	ListProtocolsByDateRange(ctx context.Context, orgID string, from, to time.Time) ([]domain.DonationProtocol, error)
}

// DonationWriter defines write operations for donation protocols.
type DonationWriter interface {
	// SaveProtocol persists a protocol together with its detail lines.
	SaveProtocol(ctx context.Context, protocol domain.DonationProtocol) error
}

// DonationRepositoryFacade combines all donation repository interfaces.
type DonationRepositoryFacade interface {
	DonationReader
	DonationWriter
}
