package services

import (
	"context"

	"github.com/easyfibu/kassenbuch-service/internal/core/domain"
)

// EventPublisherSvc publishes ledger lifecycle events for downstream
// consumers. Implementations must be safe for concurrent use.
type EventPublisherSvc interface {
	// PublishEntryPosted emits an event after an entry was committed.
	PublishEntryPosted(ctx context.Context, entry *domain.LedgerEntry) error

	// PublishEntryReversed emits an event after a reversal was committed.
	PublishEntryReversed(ctx context.Context, original, reversal *domain.LedgerEntry) error

	// PublishYearClosed emits an event after a fiscal year was closed.
	PublishYearClosed(ctx context.Context, closing *domain.YearClosing) error

	// Close flushes and releases the underlying transport.
	Close() error
}
