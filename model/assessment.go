// Package model - assessment sessions and their answers.
package model

import "time"

// AnswerValue is the compliance verdict for a single question. The empty
// string means unanswered (serialized as null on the wire).
type AnswerValue string

const (
	AnswerYes     AnswerValue = "yes"
	AnswerNo      AnswerValue = "no"
	AnswerPartial AnswerValue = "partial"
)

// GapType classifies why a question fell short of a clean "yes". The empty
// string means no gap.
type GapType string

const (
	GapOutdated     GapType = "outdated"
	GapMissing      GapType = "missing"
	GapInsufficient GapType = "insufficient"
)

// AssessmentStatus tracks the lifecycle of an assessment session.
type AssessmentStatus string

const (
	AssessmentInProgress AssessmentStatus = "in_progress"
	AssessmentComplete   AssessmentStatus = "complete"
)

// Assessment is one framework assessment session. The question list is
// snapshotted at creation time, after applicability filtering, so the
// answerable set stays stable for the life of the session.
type Assessment struct {
	Key          string           `json:"_key,omitempty"`
	ObjType      string           `json:"objtype,omitempty"`
	Framework    Framework        `json:"framework"`
	Architecture Architecture     `json:"architecture,omitempty"`
	Status       AssessmentStatus `json:"status"`
	Questions    []Question       `json:"questions"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// NewAssessment creates an in-progress Assessment over a filtered question set.
func NewAssessment(framework Framework, architecture Architecture, questions []Question) *Assessment {
	now := time.Now().UTC()
	return &Assessment{
		ObjType:      "Assessment",
		Framework:    framework,
		Architecture: architecture,
		Status:       AssessmentInProgress,
		Questions:    questions,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// AssessmentAnswer is the stored verdict for one question of one assessment.
// Answer "" with AutoAnswered false marks a question that needs manual review.
type AssessmentAnswer struct {
	Key           string         `json:"_key,omitempty"`
	ObjType       string         `json:"objtype,omitempty"`
	AssessmentKey string         `json:"assessment_key"`
	QuestionID    string         `json:"questionId"`
	Question      string         `json:"question"`
	Answer        AnswerValue    `json:"answer,omitempty"`
	Evidence      []EvidenceItem `json:"evidence"`
	Notes         string         `json:"notes,omitempty"`
	Reason        string         `json:"reason,omitempty"`
	GapType       GapType        `json:"gapType,omitempty"`
	GapReason     string         `json:"gapReason,omitempty"`
	AutoAnswered  bool           `json:"autoAnswered"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// NewAssessmentAnswer creates an unanswered AssessmentAnswer for a question.
func NewAssessmentAnswer(assessmentKey string, q Question) *AssessmentAnswer {
	return &AssessmentAnswer{
		ObjType:       "AssessmentAnswer",
		AssessmentKey: assessmentKey,
		QuestionID:    q.ID,
		Question:      q.Question,
		Evidence:      []EvidenceItem{},
		UpdatedAt:     time.Now().UTC(),
	}
}
