// Package evidence defines types for Kafka event processing of evidence
// ingestion events.
package evidence

import (
	"time"

	"github.com/attestia/assurance-backend/model"
)

// IngestedEventType is the event_type value of EvidenceIngestedEvent.
const IngestedEventType = "evidence.ingested"

// EvidenceIngestedEvent is published whenever a log or document lands in the
// vault; the worker consumes it to run control mapping asynchronously.
type EvidenceIngestedEvent struct {
	EventType     string    `json:"event_type"`
	EventID       string    `json:"event_id"`
	EventTime     time.Time `json:"event_time"`
	SchemaVersion string    `json:"schema_version"`

	Evidence EvidenceReference `json:"evidence"`
}

// EvidenceReference identifies the ingested vault record.
type EvidenceReference struct {
	Key  string             `json:"key"`
	Type model.EvidenceType `json:"type"`

	// Integrity metadata
	ContentSha string `json:"content_sha,omitempty"`

	// Timestamp when the record was persisted
	IngestedAt time.Time `json:"ingested_at"`
}
