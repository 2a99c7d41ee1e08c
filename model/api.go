// Package model - API types for combining models in API requests/responses
package model

import "time"

// CreateAssessmentRequest starts a new assessment session.
type CreateAssessmentRequest struct {
	Framework    Framework    `json:"framework"`
	Architecture Architecture `json:"architecture,omitempty"`
}

// ManualAnswerRequest records or overwrites a manual answer for one question.
type ManualAnswerRequest struct {
	Answer   AnswerValue    `json:"answer"`
	Notes    string         `json:"notes,omitempty"`
	Evidence []EvidenceItem `json:"evidence,omitempty"`
}

// AutoAnswerRequest starts a bulk auto-answer run. Force re-answers questions
// that already carry an auto answer; manual answers are never overwritten.
type AutoAnswerRequest struct {
	Force bool `json:"force,omitempty"`
}

// IngestLogRequest submits a raw log record to the evidence vault.
type IngestLogRequest struct {
	Source    string     `json:"source"`
	Content   string     `json:"content"`
	EventTime *time.Time `json:"event_time,omitempty"`
	AutoMap   bool       `json:"auto_map,omitempty"`
}

// IngestDocumentRequest submits a document to the evidence vault.
type IngestDocumentRequest struct {
	Filename string `json:"filename"`
	DocType  string `json:"doc_type"`
	Content  string `json:"content"`
	AutoMap  bool   `json:"auto_map,omitempty"`
}

// GeneratePackRequest assembles an assurance pack from an assessment plus an
// optional explicit evidence selection and reporting period.
type GeneratePackRequest struct {
	AssessmentKey string     `json:"assessment_key"`
	EvidenceIDs   []string   `json:"evidence_ids,omitempty"`
	PeriodStart   *time.Time `json:"period_start,omitempty"`
	PeriodEnd     *time.Time `json:"period_end,omitempty"`
}
