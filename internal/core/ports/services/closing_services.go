package services

import (
	"context"

	"github.com/easyfibu/kassenbuch-service/internal/core/domain"
	"github.com/easyfibu/kassenbuch-service/internal/dto"
)

// ClosingReaderSvc defines read operations for year-end closings
type ClosingReaderSvc interface {
	// GetClosingByID retrieves a closing by its identifier.
	GetClosingByID(ctx context.Context, orgID string, closingID string) (*domain.YearClosing, error)

	// GetClosingByYear retrieves the closing of a given fiscal year.
	GetClosingByYear(ctx context.Context, orgID string, year int) (*domain.YearClosing, error)

	// GetLatestClosing retrieves the most recent closing of the organization.
	GetLatestClosing(ctx context.Context, orgID string) (*domain.YearClosing, error)

	// ListClosings retrieves all closings of the organization, newest first.
	ListClosings(ctx context.Context, orgID string) ([]domain.YearClosing, error)
}

// ClosingWriterSvc defines write operations for year-end closings
type ClosingWriterSvc interface {
	// CloseYear derives the year totals, chains the opening balances from the
	// prior closing and persists the result. A year can only be closed once.
	CloseYear(ctx context.Context, orgID string, req dto.CalculateClosingRequest, userID string) (*domain.YearClosing, error)

	// AuditClosing marks a closing as audited. The transition is one-way.
	AuditClosing(ctx context.Context, orgID string, closingID string, req dto.AuditClosingRequest, userID string) (*domain.YearClosing, error)

	// UpdateRemarks replaces the remarks of a closing. Remarks stay editable
	// after the audit; all figures do not.
	UpdateRemarks(ctx context.Context, orgID string, closingID string, req dto.UpdateClosingRemarksRequest, userID string) (*domain.YearClosing, error)
}

// ClosingSvcFacade combines all closing-related service interfaces
type ClosingSvcFacade interface {
	ClosingReaderSvc
	ClosingWriterSvc
}
