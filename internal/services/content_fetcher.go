// Package services provides internal service implementations for the
// assurance backend worker.
package services

import (
	"context"
	"fmt"

	evidenceevents "github.com/attestia/assurance-backend/events/modules/evidence"

	"github.com/attestia/assurance-backend/database"
	"github.com/attestia/assurance-backend/model"
)

// VaultContentFetcher implements evidence.ContentFetcher against the vault
// collections.
type VaultContentFetcher struct {
	DB database.DBConnection
}

// FetchContent retrieves the raw content of a vault record by key and type.
func (f *VaultContentFetcher) FetchContent(ctx context.Context, key string, evidenceType model.EvidenceType) (string, error) {
	switch evidenceType {
	case model.EvidenceTypeLog:
		var log model.EvidenceLog
		if _, err := f.DB.Collections["evidence_log"].ReadDocument(ctx, key, &log); err != nil {
			return "", err
		}
		return log.Content, nil
	case model.EvidenceTypeDocument:
		var doc model.EvidenceDocument
		if _, err := f.DB.Collections["evidence_document"].ReadDocument(ctx, key, &doc); err != nil {
			return "", err
		}
		return doc.Content, nil
	default:
		return "", fmt.Errorf("unknown evidence type %q", evidenceType)
	}
}

// Ensure compile-time interface check
var _ evidenceevents.ContentFetcher = (*VaultContentFetcher)(nil)
