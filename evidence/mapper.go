package evidence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"go.uber.org/zap"

	"github.com/attestia/assurance-backend/catalog"
	"github.com/attestia/assurance-backend/database"
	"github.com/attestia/assurance-backend/model"
)

// MinLinkScore is the keyword-match share below which no control link is
// recorded.
const MinLinkScore = 0.3

// Mapper links vault records to framework controls by keyword match.
type Mapper struct {
	DB     database.DBConnection
	Lib    *catalog.Library
	Logger *zap.SugaredLogger
}

// NewMapper creates a Mapper over the loaded catalogs.
func NewMapper(db database.DBConnection, lib *catalog.Library, logger *zap.SugaredLogger) *Mapper {
	return &Mapper{DB: db, Lib: lib, Logger: logger}
}

// MapEvidence scores the content of one vault record against every control of
// every loaded framework and upserts a link for each control scoring at or
// above MinLinkScore. Re-mapping the same record is idempotent.
func (m *Mapper) MapEvidence(ctx context.Context, evidenceKey string, evidenceType model.EvidenceType, content string) ([]model.EvidenceLink, error) {
	links := []model.EvidenceLink{}

	for _, framework := range m.Lib.Frameworks() {
		matrix := m.Lib.Matrix(framework)
		for _, domain := range matrix.Domains {
			for _, control := range domain.Controls {
				score, matched := ScoreKeywords(content, control.Keywords)
				if score < MinLinkScore {
					continue
				}

				link := model.EvidenceLink{
					ObjType:      "EvidenceLink",
					EvidenceKey:  evidenceKey,
					EvidenceType: evidenceType,
					Framework:    framework,
					ControlID:    control.ControlID,
					ControlName:  control.Name,
					Score:        score,
					Reason:       fmt.Sprintf("matched keywords: %s", strings.Join(matched, ", ")),
					MappedAt:     time.Now().UTC(),
				}

				if err := m.upsertLink(ctx, link); err != nil {
					return links, err
				}
				links = append(links, link)
			}
		}
	}

	if m.Logger != nil && len(links) > 0 {
		m.Logger.Infof("mapped evidence %s to %d control(s)", evidenceKey, len(links))
	}

	return links, nil
}

// ScoreKeywords returns the share of keywords found in content (0..1) and the
// matched keywords. Matching is case-insensitive substring.
func ScoreKeywords(content string, keywords []string) (float64, []string) {
	if len(keywords) == 0 {
		return 0, nil
	}

	lower := strings.ToLower(content)
	matched := []string{}
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			matched = append(matched, kw)
		}
	}

	return float64(len(matched)) / float64(len(keywords)), matched
}

func (m *Mapper) upsertLink(ctx context.Context, link model.EvidenceLink) error {
	query := `
		UPSERT { evidence_key: @link.evidence_key, framework: @link.framework, control_id: @link.control_id }
		INSERT @link
		UPDATE { score: @link.score, reason: @link.reason, mapped_at: @link.mapped_at }
		IN evidence_link`

	cursor, err := m.DB.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"link": link},
	})
	if err != nil {
		return err
	}
	return cursor.Close()
}
