// Package evidence handles Kafka event production for evidence ingestion events.
package evidence

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/attestia/assurance-backend/model"
)

// IngestProducer handles sending evidence ingestion events to Kafka.
// A nil IngestProducer is valid and drops events, so ingestion still works
// when no brokers are configured.
type IngestProducer struct {
	Writer *kafka.Writer
}

// NewIngestProducer initializes a new Kafka writer for evidence events
func NewIngestProducer(brokers []string, topic string) *IngestProducer {
	return &IngestProducer{
		Writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// PublishEvidenceIngested sends the event to the Kafka topic
func (p *IngestProducer) PublishEvidenceIngested(ctx context.Context, key string, evidenceType model.EvidenceType, contentSha string) error {
	if p == nil || p.Writer == nil {
		return nil
	}

	event := EvidenceIngestedEvent{
		EventType:     IngestedEventType,
		EventID:       uuid.New().String(),
		EventTime:     time.Now().UTC(),
		SchemaVersion: "v1",
		Evidence: EvidenceReference{
			Key:        key,
			Type:       evidenceType,
			ContentSha: contentSha,
			IngestedAt: time.Now().UTC(),
		},
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
	})
}

// Close cleans up the Kafka writer
func (p *IngestProducer) Close() error {
	if p == nil || p.Writer == nil {
		return nil
	}
	return p.Writer.Close()
}
