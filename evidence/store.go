// Package evidence implements the vault: ingestion of logs and documents
// with content hashing, keyword relevance search, and keyword-based control
// linkage. Search results are projected into the read-only items the
// assessment engine consumes.
package evidence

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"go.uber.org/zap"

	"github.com/attestia/assurance-backend/catalog"
	"github.com/attestia/assurance-backend/database"
	"github.com/attestia/assurance-backend/model"
	"github.com/attestia/assurance-backend/util"
)

const (
	previewRunes  = 200
	candidateCap  = 500
	minRelevance  = 30
	defaultLimit  = 20
	relevanceBase = 40
	relevanceStep = 10
)

// Store is the vault access layer.
type Store struct {
	DB     database.DBConnection
	Lib    *catalog.Library
	Logger *zap.SugaredLogger
}

// NewStore creates a vault store over an initialized database connection.
func NewStore(db database.DBConnection, lib *catalog.Library, logger *zap.SugaredLogger) *Store {
	return &Store{DB: db, Lib: lib, Logger: logger}
}

// IngestLog stores a raw log record. Re-submitting identical content returns
// the existing record; the second return value reports whether a new record
// was created.
func (s *Store) IngestLog(ctx context.Context, req model.IngestLogRequest) (*model.EvidenceLog, bool, error) {
	eventTime := time.Now().UTC()
	if req.EventTime != nil {
		eventTime = req.EventTime.UTC()
	}

	log := model.NewEvidenceLog(req.Source, req.Content, eventTime)

	existing, err := database.FindLogByContentSha(ctx, s.DB, log.ContentSha)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	meta, err := s.DB.Collections["evidence_log"].CreateDocument(ctx, log)
	if err != nil {
		return nil, false, err
	}
	log.Key = meta.Key

	return log, true, nil
}

// IngestDocument stores an uploaded document, deduplicated by content hash.
func (s *Store) IngestDocument(ctx context.Context, req model.IngestDocumentRequest) (*model.EvidenceDocument, bool, error) {
	doc := model.NewEvidenceDocument(req.Filename, req.DocType, req.Content)

	existing, err := database.FindDocumentByContentSha(ctx, s.DB, doc.ContentSha)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	meta, err := s.DB.Collections["evidence_document"].CreateDocument(ctx, doc)
	if err != nil {
		return nil, false, err
	}
	doc.Key = meta.Key

	return doc, true, nil
}

// SearchParams narrows a vault search.
type SearchParams struct {
	Query     string
	Framework model.Framework
	ControlID string
	Since     *time.Time
	Until     *time.Time
	Limit     int
}

// Search returns evidence items relevant to a free-text query, optionally
// scoped to a control. Candidates are fetched by time window from both vault
// collections; relevance is scored in Go from keyword matches, boosted by any
// stored control link, and results below the relevance floor are dropped.
func (s *Store) Search(ctx context.Context, p SearchParams) ([]model.EvidenceItem, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	terms := util.Tokenize(p.Query)
	if p.ControlID != "" && s.Lib != nil {
		for _, kw := range s.Lib.ControlKeywords(p.Framework)[p.ControlID] {
			terms = append(terms, strings.ToLower(kw))
		}
	}

	linkScores, err := s.linkScores(ctx, p.Framework, p.ControlID)
	if err != nil {
		return nil, err
	}

	items := []model.EvidenceItem{}

	logs, err := s.fetchLogs(ctx, p.Since, p.Until)
	if err != nil {
		return nil, err
	}
	for _, log := range logs {
		item := model.EvidenceItem{
			ID:        log.Key,
			Type:      model.EvidenceTypeLog,
			Filename:  log.Source,
			Preview:   util.TruncateRunes(log.Content, previewRunes),
			Relevance: ScoreContent(log.Content, terms),
			Timestamp: log.EventTime,
		}
		if boost, ok := linkScores[log.Key]; ok {
			item.ControlID = p.ControlID
			if boost > item.Relevance {
				item.Relevance = boost
			}
		}
		items = append(items, item)
	}

	docs, err := s.fetchDocuments(ctx, p.Since, p.Until)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		item := model.EvidenceItem{
			ID:        doc.Key,
			Type:      model.EvidenceTypeDocument,
			Filename:  doc.Filename,
			Preview:   util.TruncateRunes(doc.Content, previewRunes),
			Relevance: ScoreContent(doc.Content+" "+doc.Filename, terms),
			Timestamp: doc.UploadedAt,
		}
		if boost, ok := linkScores[doc.Key]; ok {
			item.ControlID = p.ControlID
			if boost > item.Relevance {
				item.Relevance = boost
			}
		}
		items = append(items, item)
	}

	filtered := items[:0]
	for _, item := range items {
		if item.Relevance >= minRelevance {
			filtered = append(filtered, item)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].Relevance != filtered[j].Relevance {
			return filtered[i].Relevance > filtered[j].Relevance
		}
		return filtered[i].Timestamp.After(filtered[j].Timestamp)
	})

	if len(filtered) > limit {
		filtered = filtered[:limit]
	}

	return filtered, nil
}

// ScoreContent rates content against search terms on the 0..100 relevance
// scale: 40 for the first distinct matched term plus 10 per additional one.
// Content matching no terms scores zero.
func ScoreContent(content string, terms []string) int {
	if len(terms) == 0 {
		return 0
	}

	lower := strings.ToLower(content)
	matched := 0
	for _, term := range terms {
		if strings.Contains(lower, term) {
			matched++
		}
	}

	if matched == 0 {
		return 0
	}
	score := relevanceBase + relevanceStep*matched
	if score > 100 {
		score = 100
	}
	return score
}

func (s *Store) fetchLogs(ctx context.Context, since, until *time.Time) ([]model.EvidenceLog, error) {
	query := `
		FOR log IN evidence_log
			FILTER @since == null || log.event_time >= @since
			FILTER @until == null || log.event_time <= @until
			SORT log.event_time DESC
			LIMIT @cap
			RETURN log`

	cursor, err := s.DB.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"since": timeBind(since), "until": timeBind(until), "cap": candidateCap},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	logs := []model.EvidenceLog{}
	for cursor.HasMore() {
		var log model.EvidenceLog
		meta, err := cursor.ReadDocument(ctx, &log)
		if err != nil {
			return nil, err
		}
		log.Key = meta.Key
		logs = append(logs, log)
	}
	return logs, nil
}

func (s *Store) fetchDocuments(ctx context.Context, since, until *time.Time) ([]model.EvidenceDocument, error) {
	query := `
		FOR doc IN evidence_document
			FILTER @since == null || doc.uploaded_at >= @since
			FILTER @until == null || doc.uploaded_at <= @until
			SORT doc.uploaded_at DESC
			LIMIT @cap
			RETURN doc`

	cursor, err := s.DB.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"since": timeBind(since), "until": timeBind(until), "cap": candidateCap},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	docs := []model.EvidenceDocument{}
	for cursor.HasMore() {
		var doc model.EvidenceDocument
		meta, err := cursor.ReadDocument(ctx, &doc)
		if err != nil {
			return nil, err
		}
		doc.Key = meta.Key
		docs = append(docs, doc)
	}
	return docs, nil
}

// linkScores returns evidence_key -> relevance boost (link score scaled to
// 0..100) for the stored links of one control.
func (s *Store) linkScores(ctx context.Context, framework model.Framework, controlID string) (map[string]int, error) {
	if controlID == "" {
		return map[string]int{}, nil
	}

	query := `
		FOR link IN evidence_link
			FILTER link.framework == @framework && link.control_id == @control
			RETURN link`

	cursor, err := s.DB.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"framework": framework, "control": controlID},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	scores := map[string]int{}
	for cursor.HasMore() {
		var link model.EvidenceLink
		if _, err := cursor.ReadDocument(ctx, &link); err != nil {
			return nil, err
		}
		scores[link.EvidenceKey] = int(link.Score * 100)
	}
	return scores, nil
}

func timeBind(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}
