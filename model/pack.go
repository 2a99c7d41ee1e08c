// Package model - generated assurance pack metadata.
package model

import "time"

// AssurancePack records a generated evidence pack: where the archive lives,
// its integrity hash, and what went into it.
type AssurancePack struct {
	Key           string       `json:"_key,omitempty"`
	ObjType       string       `json:"objtype,omitempty"`
	PackID        string       `json:"pack_id"` // e.g. "PACK-20260827-153000-1a2b3c4d"
	AssessmentKey string       `json:"assessment_key"`
	Framework     Framework    `json:"framework"`
	Architecture  Architecture `json:"architecture,omitempty"`
	FileName      string       `json:"file_name"`
	FilePath      string       `json:"file_path"`
	PackSha       string       `json:"pack_sha"` // SHA-256 of the zip archive.
	SizeBytes     int64        `json:"size_bytes"`
	LogCount      int          `json:"log_count"`
	DocumentCount int          `json:"document_count"`
	AnswerCount   int          `json:"answer_count"`
	GapCount      int          `json:"gap_count"`
	PeriodStart   *time.Time   `json:"period_start,omitempty"`
	PeriodEnd     *time.Time   `json:"period_end,omitempty"`
	GeneratedAt   time.Time    `json:"generated_at"`
}

// NewAssurancePack creates pack metadata with the generation timestamp set.
func NewAssurancePack(packID, assessmentKey string, framework Framework, architecture Architecture) *AssurancePack {
	return &AssurancePack{
		ObjType:       "AssurancePack",
		PackID:        packID,
		AssessmentKey: assessmentKey,
		Framework:     framework,
		Architecture:  architecture,
		GeneratedAt:   time.Now().UTC(),
	}
}
