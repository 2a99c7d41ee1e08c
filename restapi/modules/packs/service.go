// Package packs assembles downloadable assurance packs: a zip archive holding
// the manifest, the assessment report, and the selected evidence, hashed for
// integrity and tracked in the database.
package packs

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/attestia/assurance-backend/database"
	"github.com/attestia/assurance-backend/model"
	"github.com/attestia/assurance-backend/util"
)

// Disclaimer is included in every manifest and report.
const Disclaimer = "This assurance pack was generated automatically from the evidence vault. " +
	"It represents a point-in-time snapshot of collected evidence and assessment answers " +
	"and is not a certification of compliance."

// Generator builds pack archives under Dir.
type Generator struct {
	DB     database.DBConnection
	Dir    string
	Logger *zap.SugaredLogger
}

type manifestEntry struct {
	Key        string    `json:"key"`
	Type       string    `json:"type"`
	Filename   string    `json:"filename"`
	ContentSha string    `json:"content_sha"`
	Timestamp  time.Time `json:"timestamp"`
}

type manifest struct {
	PackID        string          `json:"pack_id"`
	AssessmentKey string          `json:"assessment_key"`
	Framework     model.Framework `json:"framework"`
	Architecture  string          `json:"architecture,omitempty"`
	GeneratedAt   time.Time       `json:"generated_at"`
	PeriodStart   *time.Time      `json:"period_start,omitempty"`
	PeriodEnd     *time.Time      `json:"period_end,omitempty"`
	AnswerCount   int             `json:"answer_count"`
	Logs          []manifestEntry `json:"logs"`
	Documents     []manifestEntry `json:"documents"`
	Disclaimer    string          `json:"disclaimer"`
}

// Generate assembles a pack for an assessment. Evidence is the deduplicated
// union of every answer's attached items and the explicitly requested ids,
// restricted to the reporting period when one is given.
func (g *Generator) Generate(ctx context.Context, req model.GeneratePackRequest) (*model.AssurancePack, error) {
	assessment, err := database.FindAssessmentByKey(ctx, g.DB, req.AssessmentKey)
	if err != nil {
		return nil, fmt.Errorf("loading assessment %s: %w", req.AssessmentKey, err)
	}

	answers, err := g.fetchAnswers(ctx, assessment.Key)
	if err != nil {
		return nil, err
	}

	// Deduplicated evidence selection, keyed by id + type.
	selected := map[string]model.EvidenceItem{}
	for _, answer := range answers {
		for _, item := range answer.Evidence {
			selected[item.ID+"|"+string(item.Type)] = item
		}
	}
	for _, id := range req.EvidenceIDs {
		if item, ok := g.lookupEvidence(ctx, id); ok {
			selected[item.ID+"|"+string(item.Type)] = item
		}
	}

	items := make([]model.EvidenceItem, 0, len(selected))
	for _, item := range selected {
		if req.PeriodStart != nil && item.Timestamp.Before(*req.PeriodStart) {
			continue
		}
		if req.PeriodEnd != nil && item.Timestamp.After(*req.PeriodEnd) {
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	packID := fmt.Sprintf("PACK-%s-%s",
		time.Now().UTC().Format("20060102-150405"),
		strings.Split(uuid.New().String(), "-")[0])

	archive, mf, err := g.buildArchive(ctx, packID, assessment, answers, items, req)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(archive)
	packSha := hex.EncodeToString(sum[:])

	fileName := packID + ".zip"
	filePath := filepath.Join(g.Dir, fileName)
	if err := os.MkdirAll(g.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating pack directory: %w", err)
	}
	if err := os.WriteFile(filePath, archive, 0o600); err != nil {
		return nil, fmt.Errorf("writing pack archive: %w", err)
	}

	pack := model.NewAssurancePack(packID, assessment.Key, assessment.Framework, assessment.Architecture)
	pack.FileName = fileName
	pack.FilePath = filePath
	pack.PackSha = packSha
	pack.SizeBytes = int64(len(archive))
	pack.LogCount = len(mf.Logs)
	pack.DocumentCount = len(mf.Documents)
	pack.AnswerCount = len(answers)
	pack.PeriodStart = req.PeriodStart
	pack.PeriodEnd = req.PeriodEnd
	for _, answer := range answers {
		if answer.GapType != "" {
			pack.GapCount++
		}
	}

	meta, err := g.DB.Collections["assurance_pack"].CreateDocument(ctx, pack)
	if err != nil {
		return nil, fmt.Errorf("storing pack metadata: %w", err)
	}
	pack.Key = meta.Key

	if g.Logger != nil {
		g.Logger.Infof("generated pack %s (%d logs, %d documents, %d answers, sha %s)",
			packID, pack.LogCount, pack.DocumentCount, pack.AnswerCount, packSha[:12])
	}

	return pack, nil
}

func (g *Generator) buildArchive(ctx context.Context, packID string, assessment *model.Assessment,
	answers []model.AssessmentAnswer, items []model.EvidenceItem, req model.GeneratePackRequest) ([]byte, *manifest, error) {

	mf := &manifest{
		PackID:        packID,
		AssessmentKey: assessment.Key,
		Framework:     assessment.Framework,
		Architecture:  string(assessment.Architecture),
		GeneratedAt:   time.Now().UTC(),
		PeriodStart:   req.PeriodStart,
		PeriodEnd:     req.PeriodEnd,
		AnswerCount:   len(answers),
		Logs:          []manifestEntry{},
		Documents:     []manifestEntry{},
		Disclaimer:    Disclaimer,
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, item := range items {
		switch item.Type {
		case model.EvidenceTypeLog:
			var log model.EvidenceLog
			if _, err := g.DB.Collections["evidence_log"].ReadDocument(ctx, item.ID, &log); err != nil {
				continue // Evidence removed since answering; skip rather than fail the pack.
			}
			log.Key = item.ID
			payload, err := json.MarshalIndent(log, "", "  ")
			if err != nil {
				return nil, nil, err
			}
			if err := writeZipFile(zw, "logs/"+util.SanitizeKey(item.ID)+".json", payload); err != nil {
				return nil, nil, err
			}
			mf.Logs = append(mf.Logs, manifestEntry{
				Key: item.ID, Type: string(item.Type), Filename: log.Source,
				ContentSha: log.ContentSha, Timestamp: log.EventTime,
			})
		case model.EvidenceTypeDocument:
			var doc model.EvidenceDocument
			if _, err := g.DB.Collections["evidence_document"].ReadDocument(ctx, item.ID, &doc); err != nil {
				continue
			}
			name := "documents/" + util.SanitizeKey(doc.Filename)
			if err := writeZipFile(zw, name, []byte(doc.Content)); err != nil {
				return nil, nil, err
			}
			mf.Documents = append(mf.Documents, manifestEntry{
				Key: item.ID, Type: string(item.Type), Filename: doc.Filename,
				ContentSha: doc.ContentSha, Timestamp: doc.UploadedAt,
			})
		}
	}

	report := BuildReport(assessment, answers, packID)
	if err := writeZipFile(zw, "report.md", []byte(report)); err != nil {
		return nil, nil, err
	}

	manifestJSON, err := json.MarshalIndent(mf, "", "  ")
	if err != nil {
		return nil, nil, err
	}
	if err := writeZipFile(zw, "manifest.json", manifestJSON); err != nil {
		return nil, nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, nil, err
	}

	return buf.Bytes(), mf, nil
}

func writeZipFile(zw *zip.Writer, name string, content []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(content)
	return err
}

// BuildReport renders the human-readable assessment report included in every
// pack.
func BuildReport(assessment *model.Assessment, answers []model.AssessmentAnswer, packID string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Assurance Pack Report\n\n")
	fmt.Fprintf(&b, "- Pack: %s\n", packID)
	fmt.Fprintf(&b, "- Framework: %s\n", assessment.Framework)
	if assessment.Architecture != "" {
		fmt.Fprintf(&b, "- Architecture: %s\n", assessment.Architecture)
	}
	fmt.Fprintf(&b, "- Questions in scope: %d\n", len(assessment.Questions))
	fmt.Fprintf(&b, "- Questions answered: %d\n\n", len(answers))

	byQuestion := map[string]model.AssessmentAnswer{}
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}

	fmt.Fprintf(&b, "## Answers\n\n")
	for _, q := range assessment.Questions {
		answer, ok := byQuestion[q.ID]
		fmt.Fprintf(&b, "### %s\n\n%s\n\n", q.ID, q.Question)
		if !ok || answer.Answer == "" {
			fmt.Fprintf(&b, "- Answer: pending\n")
			if ok && answer.Notes != "" {
				fmt.Fprintf(&b, "- Notes: %s\n", answer.Notes)
			}
			b.WriteString("\n")
			continue
		}

		fmt.Fprintf(&b, "- Answer: %s\n", answer.Answer)
		if answer.AutoAnswered {
			fmt.Fprintf(&b, "- Source: auto-answered\n")
		} else {
			fmt.Fprintf(&b, "- Source: manual\n")
		}
		if answer.Reason != "" {
			fmt.Fprintf(&b, "- Reason: %s\n", answer.Reason)
		}
		if answer.GapType != "" {
			fmt.Fprintf(&b, "- Gap: %s", answer.GapType)
			if answer.GapReason != "" {
				fmt.Fprintf(&b, " (%s)", answer.GapReason)
			}
			b.WriteString("\n")
		}
		if len(answer.Evidence) > 0 {
			fmt.Fprintf(&b, "- Evidence: %d item(s)\n", len(answer.Evidence))
		}
		if answer.Notes != "" {
			fmt.Fprintf(&b, "- Notes: %s\n", answer.Notes)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "---\n\n%s\n", Disclaimer)

	return b.String()
}

func (g *Generator) fetchAnswers(ctx context.Context, assessmentKey string) ([]model.AssessmentAnswer, error) {
	query := `
		FOR a IN assessment_answer
			FILTER a.assessment_key == @assessment
			SORT a.questionId
			RETURN a`

	cursor, err := g.DB.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"assessment": assessmentKey},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	answers := []model.AssessmentAnswer{}
	for cursor.HasMore() {
		var answer model.AssessmentAnswer
		if _, err := cursor.ReadDocument(ctx, &answer); err != nil {
			return nil, err
		}
		answers = append(answers, answer)
	}
	return answers, nil
}

// lookupEvidence resolves an explicit evidence id against both vault
// collections.
func (g *Generator) lookupEvidence(ctx context.Context, id string) (model.EvidenceItem, bool) {
	var log model.EvidenceLog
	if _, err := g.DB.Collections["evidence_log"].ReadDocument(ctx, id, &log); err == nil {
		return model.EvidenceItem{
			ID: id, Type: model.EvidenceTypeLog, Filename: log.Source, Timestamp: log.EventTime,
		}, true
	}

	var doc model.EvidenceDocument
	if _, err := g.DB.Collections["evidence_document"].ReadDocument(ctx, id, &doc); err == nil {
		return model.EvidenceItem{
			ID: id, Type: model.EvidenceTypeDocument, Filename: doc.Filename, Timestamp: doc.UploadedAt,
		}, true
	}

	return model.EvidenceItem{}, false
}
