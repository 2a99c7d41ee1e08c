// Package services provides internal service implementations for the
// assurance backend worker.
package services

import (
	"context"
	"log"

	evidenceevents "github.com/attestia/assurance-backend/events/modules/evidence"

	"github.com/attestia/assurance-backend/catalog"
	"github.com/attestia/assurance-backend/database"
	"github.com/attestia/assurance-backend/evidence"
	"github.com/attestia/assurance-backend/model"
)

// MapperServiceWrapper implements evidence.ControlMapper by delegating to the
// shared mapper in the evidence package, so Kafka-driven mapping applies the
// same keyword scoring and link dedup as inline auto-mapping over the REST API.
type MapperServiceWrapper struct {
	DB  database.DBConnection
	Lib *catalog.Library
}

// MapEvidence links one vault record to the controls its content matches.
func (w *MapperServiceWrapper) MapEvidence(ctx context.Context, key string, evidenceType model.EvidenceType, content string) ([]model.EvidenceLink, error) {
	log.Printf("Worker: mapping evidence %s (%s)", key, evidenceType)

	mapper := evidence.NewMapper(w.DB, w.Lib, nil)
	return mapper.MapEvidence(ctx, key, evidenceType, content)
}

// Ensure compile-time interface check
var _ evidenceevents.ControlMapper = (*MapperServiceWrapper)(nil)
