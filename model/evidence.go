// Package model - evidence vault records and the evidence items consumed by
// the assessment engine.
package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// EvidenceType distinguishes the two kinds of vault records.
type EvidenceType string

const (
	// EvidenceTypeLog represents an ingested machine log entry.
	EvidenceTypeLog EvidenceType = "Log"
	// EvidenceTypeDocument represents an uploaded policy or report document.
	EvidenceTypeDocument EvidenceType = "Document"
)

// EvidenceLog represents a raw log record stored in the vault.
type EvidenceLog struct {
	Key        string    `json:"_key,omitempty"`
	ObjType    string    `json:"objtype,omitempty"`
	Source     string    `json:"source"`      // Originating system (e.g. "siem", "firewall").
	Content    string    `json:"content"`     // Raw log payload.
	ContentSha string    `json:"content_sha"` // SHA-256 of Content for tamper evidence.
	EventTime  time.Time `json:"event_time"`
	IngestedAt time.Time `json:"ingested_at"`
}

// NewEvidenceLog creates an EvidenceLog with its content hash computed.
func NewEvidenceLog(source, content string, eventTime time.Time) *EvidenceLog {
	return &EvidenceLog{
		ObjType:    "EvidenceLog",
		Source:     source,
		Content:    content,
		ContentSha: HashContent(content),
		EventTime:  eventTime,
		IngestedAt: time.Now().UTC(),
	}
}

// EvidenceDocument represents an uploaded document stored in the vault.
type EvidenceDocument struct {
	Key        string    `json:"_key,omitempty"`
	ObjType    string    `json:"objtype,omitempty"`
	Filename   string    `json:"filename"`
	DocType    string    `json:"doc_type"` // e.g. "policy", "report", "certificate".
	Content    string    `json:"content"`
	ContentSha string    `json:"content_sha"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// NewEvidenceDocument creates an EvidenceDocument with its content hash computed.
func NewEvidenceDocument(filename, docType, content string) *EvidenceDocument {
	return &EvidenceDocument{
		ObjType:    "EvidenceDocument",
		Filename:   filename,
		DocType:    docType,
		Content:    content,
		ContentSha: HashContent(content),
		UploadedAt: time.Now().UTC(),
	}
}

// EvidenceLink records a keyword-derived association between a vault record
// and a framework control.
type EvidenceLink struct {
	Key          string       `json:"_key,omitempty"`
	ObjType      string       `json:"objtype,omitempty"`
	EvidenceKey  string       `json:"evidence_key"`
	EvidenceType EvidenceType `json:"evidence_type"`
	Framework    Framework    `json:"framework"`
	ControlID    string       `json:"control_id"`
	ControlName  string       `json:"control_name"`
	Score        float64      `json:"score"` // Matched keyword share, 0..1.
	Reason       string       `json:"reason"`
	MappedAt     time.Time    `json:"mapped_at"`
}

// EvidenceItem is the read-only projection of a vault record handed to the
// classifier: a preview, a relevance score, and freshness metadata.
type EvidenceItem struct {
	ID        string       `json:"id"`
	Type      EvidenceType `json:"type"`
	Filename  string       `json:"filename"`
	Preview   string       `json:"preview"`
	Relevance int          `json:"relevance"` // 0..100
	ControlID string       `json:"control_id,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// HashContent returns the hex-encoded SHA-256 digest of content.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
