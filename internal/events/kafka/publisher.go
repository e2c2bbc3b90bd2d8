package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/easyfibu/kassenbuch-service/internal/core/domain"
)

// Event types emitted on the ledger topic.
const (
	EventEntryPosted   = "ledger.entry_posted"
	EventEntryReversed = "ledger.entry_reversed"
	EventYearClosed    = "ledger.year_closed"
)

// envelope is the wire format of every published event.
type envelope struct {
	Type           string    `json:"type"`
	OrganizationID string    `json:"organizationID"`
	OccurredAt     time.Time `json:"occurredAt"`
	Payload        any       `json:"payload"`
}

type reversalPayload struct {
	Original *domain.LedgerEntry `json:"original"`
	Reversal *domain.LedgerEntry `json:"reversal"`
}

// Publisher emits ledger lifecycle events to a Kafka topic. Messages are keyed
// by organization ID so one organization's events stay ordered.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// PublishEntryPosted emits an event after an entry was committed.
func (p *Publisher) PublishEntryPosted(ctx context.Context, entry *domain.LedgerEntry) error {
	return p.publish(ctx, EventEntryPosted, entry.OrganizationID, entry)
}

// PublishEntryReversed emits an event after a reversal was committed.
func (p *Publisher) PublishEntryReversed(ctx context.Context, original, reversal *domain.LedgerEntry) error {
	return p.publish(ctx, EventEntryReversed, original.OrganizationID, reversalPayload{
		Original: original,
		Reversal: reversal,
	})
}

// PublishYearClosed emits an event after a fiscal year was closed.
func (p *Publisher) PublishYearClosed(ctx context.Context, closing *domain.YearClosing) error {
	return p.publish(ctx, EventYearClosed, closing.OrganizationID, closing)
}

func (p *Publisher) publish(ctx context.Context, eventType string, orgID string, payload any) error {
	data, err := json.Marshal(envelope{
		Type:           eventType,
		OrganizationID: orgID,
		OccurredAt:     time.Now().UTC(),
		Payload:        payload,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(orgID),
		Value: data,
	})
}

// Close flushes and releases the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
