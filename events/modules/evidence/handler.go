// Package evidence handles Kafka event processing for evidence ingestion events.
package evidence

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/attestia/assurance-backend/model"
)

// ContentFetcher defines the interface for fetching vault record content.
type ContentFetcher interface {
	FetchContent(ctx context.Context, key string, evidenceType model.EvidenceType) (string, error)
}

// ControlMapper defines the interface for linking a vault record to controls.
type ControlMapper interface {
	MapEvidence(ctx context.Context, key string, evidenceType model.EvidenceType, content string) ([]model.EvidenceLink, error)
}

// HandleEvidenceIngested processes evidence ingestion events from Kafka:
// it fetches the record content and runs control mapping over it.
func HandleEvidenceIngested(
	ctx context.Context,
	msg []byte,
	fetcher ContentFetcher,
	mapper ControlMapper,
) error {
	var event EvidenceIngestedEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		return fmt.Errorf("failed to unmarshal EvidenceIngestedEvent: %w", err)
	}

	if event.Evidence.Key == "" || event.Evidence.Type == "" {
		return fmt.Errorf("invalid event: missing required fields")
	}

	log.Printf("Processing ingested evidence %s (%s)", event.Evidence.Key, event.Evidence.Type)

	content, err := fetcher.FetchContent(ctx, event.Evidence.Key, event.Evidence.Type)
	if err != nil {
		return fmt.Errorf("failed to fetch content for evidence %s: %w", event.Evidence.Key, err)
	}

	links, err := mapper.MapEvidence(ctx, event.Evidence.Key, event.Evidence.Type, content)
	if err != nil {
		return fmt.Errorf("internal mapper error: %w", err)
	}

	log.Printf("Successfully mapped evidence %s to %d control(s)", event.Evidence.Key, len(links))
	return nil
}
