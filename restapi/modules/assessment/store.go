// Package assessment exposes assessment sessions, manual answers, and bulk
// auto-answering over the REST API.
package assessment

import (
	"context"
	"sync"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"

	"github.com/attestia/assurance-backend/assess"
	"github.com/attestia/assurance-backend/database"
	"github.com/attestia/assurance-backend/evidence"
	"github.com/attestia/assurance-backend/model"
)

// answerStore persists answers for one assessment. The unique
// (assessment_key, questionId) index plus UPSERT keeps each write atomic:
// a question either has its previous answer or its new one, never a mix.
type answerStore struct {
	db            database.DBConnection
	assessmentKey string
}

func (s *answerStore) Get(ctx context.Context, questionID string) (*model.AssessmentAnswer, error) {
	query := `
		FOR a IN assessment_answer
			FILTER a.assessment_key == @assessment && a.questionId == @question
			LIMIT 1
			RETURN a`

	cursor, err := s.db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"assessment": s.assessmentKey, "question": questionID},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	if cursor.HasMore() {
		var answer model.AssessmentAnswer
		if _, err := cursor.ReadDocument(ctx, &answer); err != nil {
			return nil, err
		}
		return &answer, nil
	}
	return nil, nil
}

func (s *answerStore) Put(ctx context.Context, answer *model.AssessmentAnswer) error {
	answer.AssessmentKey = s.assessmentKey
	answer.UpdatedAt = time.Now().UTC()

	query := `
		UPSERT { assessment_key: @answer.assessment_key, questionId: @answer.questionId }
		INSERT @answer
		UPDATE @answer
		IN assessment_answer`

	cursor, err := s.db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"answer": answer},
	})
	if err != nil {
		return err
	}
	return cursor.Close()
}

// listAnswers returns all answers of an assessment keyed by question id.
func listAnswers(ctx context.Context, db database.DBConnection, assessmentKey string) (map[string]model.AssessmentAnswer, error) {
	query := `
		FOR a IN assessment_answer
			FILTER a.assessment_key == @assessment
			RETURN a`

	cursor, err := db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"assessment": assessmentKey},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	answers := map[string]model.AssessmentAnswer{}
	for cursor.HasMore() {
		var answer model.AssessmentAnswer
		if _, err := cursor.ReadDocument(ctx, &answer); err != nil {
			return nil, err
		}
		answers[answer.QuestionID] = answer
	}
	return answers, nil
}

// vaultSource adapts the evidence store to the runner: each question is
// searched by its text, scoped to its derived control.
type vaultSource struct {
	store     *evidence.Store
	framework model.Framework
}

func (s *vaultSource) Evidence(ctx context.Context, q model.Question) ([]model.EvidenceItem, error) {
	return s.store.Search(ctx, evidence.SearchParams{
		Query:     q.Question,
		Framework: s.framework,
		ControlID: model.ControlIDForQuestion(q.ID),
		Limit:     10,
	})
}

// memoryPackList is the shared deduplicated evidence list built up during an
// auto-answer run. Dedup key is evidence id plus type.
type memoryPackList struct {
	mu    sync.Mutex
	items map[string]model.EvidenceItem
}

func newMemoryPackList() *memoryPackList {
	return &memoryPackList{items: map[string]model.EvidenceItem{}}
}

func (p *memoryPackList) Add(items ...model.EvidenceItem) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, item := range items {
		p.items[item.ID+"|"+string(item.Type)] = item
	}
}

func (p *memoryPackList) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}

var _ assess.PackList = (*memoryPackList)(nil)
var _ assess.AnswerStore = (*answerStore)(nil)
var _ assess.EvidenceSource = (*vaultSource)(nil)
