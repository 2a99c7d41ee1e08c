package assess

import (
	"reflect"
	"testing"
	"time"

	"github.com/attestia/assurance-backend/model"
)

var classifyNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func item(relevance int, ageDays int, preview string) model.EvidenceItem {
	return model.EvidenceItem{
		ID:        "ev-1",
		Type:      model.EvidenceTypeLog,
		Preview:   preview,
		Relevance: relevance,
		Timestamp: classifyNow.Add(-time.Duration(ageDays) * 24 * time.Hour),
	}
}

func TestClassifyNoEvidence(t *testing.T) {
	got := Classify(nil, classifyNow, DefaultPolicy())
	if got.Answer != model.AnswerPartial {
		t.Fatalf("expected partial, got %q", got.Answer)
	}
	if got.GapType != model.GapMissing {
		t.Fatalf("expected missing gap, got %q", got.GapType)
	}
}

func TestClassifyRecentHighRelevance(t *testing.T) {
	got := Classify([]model.EvidenceItem{item(95, 10, "firewall segmentation confirmed")}, classifyNow, DefaultPolicy())
	if got.Answer != model.AnswerYes {
		t.Fatalf("expected yes, got %q (%s)", got.Answer, got.Reason)
	}
	if got.GapType != "" {
		t.Fatalf("expected no gap, got %q", got.GapType)
	}
}

func TestClassifyStalenessOnly(t *testing.T) {
	got := Classify([]model.EvidenceItem{item(95, 120, "segmentation review passed")}, classifyNow, DefaultPolicy())
	if got.Answer != model.AnswerPartial {
		t.Fatalf("expected partial, got %q", got.Answer)
	}
	if got.GapType != model.GapOutdated {
		t.Fatalf("expected outdated gap, got %q", got.GapType)
	}
	if got.GapReason == "" {
		t.Fatal("outdated gap must carry an age-bearing gap reason")
	}
}

func TestClassifyRecentNonCompliantOverridesCompliant(t *testing.T) {
	items := []model.EvidenceItem{
		item(90, 5, "access review completed successfully"),
		item(30, 3, "host reported non-compliant configuration"),
	}
	got := Classify(items, classifyNow, DefaultPolicy())
	if got.Answer != model.AnswerNo {
		t.Fatalf("recent non-compliance must win: expected no, got %q (%s)", got.Answer, got.Reason)
	}
	if got.GapType != "" {
		t.Fatalf("expected no gap on a definitive no, got %q", got.GapType)
	}
}

func TestClassifyNegativeKeywordCaseInsensitive(t *testing.T) {
	got := Classify([]model.EvidenceItem{item(85, 5, "patch status: UNPATCHED hosts remain")}, classifyNow, DefaultPolicy())
	if got.Answer != model.AnswerNo {
		t.Fatalf("expected no, got %q", got.Answer)
	}
}

func TestClassifyInsufficientRelevance(t *testing.T) {
	got := Classify([]model.EvidenceItem{item(55, 5, "quarterly summary")}, classifyNow, DefaultPolicy())
	if got.Answer != model.AnswerPartial {
		t.Fatalf("expected partial, got %q", got.Answer)
	}
	if got.GapType != model.GapInsufficient {
		t.Fatalf("expected insufficient gap, got %q", got.GapType)
	}
}

func TestClassifyStaleNonCompliantDoesNotForceNo(t *testing.T) {
	// A non-compliance signal only forces "no" when the item is recent.
	got := Classify([]model.EvidenceItem{item(95, 120, "audit failed")}, classifyNow, DefaultPolicy())
	if got.Answer != model.AnswerPartial || got.GapType != model.GapOutdated {
		t.Fatalf("stale failure signal should classify as outdated partial, got %q/%q", got.Answer, got.GapType)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	items := []model.EvidenceItem{
		item(80, 10, "control operating"),
		item(45, 200, "old report"),
		item(60, 20, "partial coverage"),
	}
	first := Classify(items, classifyNow, DefaultPolicy())
	second := Classify(items, classifyNow, DefaultPolicy())
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("classification not deterministic: %+v vs %+v", first, second)
	}
}

func TestClassifyTotality(t *testing.T) {
	// Sweep relevance/age combinations; every input must land in exactly one
	// answer with a non-empty reason.
	for _, relevance := range []int{0, 39, 40, 49, 50, 69, 70, 100} {
		for _, ageDays := range []int{0, 89, 90, 91, 400} {
			for _, preview := range []string{"", "all good", "gaps identified"} {
				got := Classify([]model.EvidenceItem{item(relevance, ageDays, preview)}, classifyNow, DefaultPolicy())
				switch got.Answer {
				case model.AnswerYes, model.AnswerNo, model.AnswerPartial:
				default:
					t.Fatalf("relevance=%d age=%d preview=%q: unexpected answer %q", relevance, ageDays, preview, got.Answer)
				}
				if got.Reason == "" {
					t.Fatalf("relevance=%d age=%d preview=%q: empty reason", relevance, ageDays, preview)
				}
			}
		}
	}
}

func TestClassifyCustomPolicy(t *testing.T) {
	p := DefaultPolicy()
	p.FreshnessWindow = 30 * 24 * time.Hour

	got := Classify([]model.EvidenceItem{item(95, 45, "segmentation confirmed")}, classifyNow, p)
	if got.GapType != model.GapOutdated {
		t.Fatalf("45-day-old item must be outdated under a 30-day window, got %q", got.GapType)
	}
}

func TestPolicyFromEnvOverrides(t *testing.T) {
	t.Setenv("ASSESS_FRESHNESS_DAYS", "30")
	t.Setenv("ASSESS_NEGATIVE_KEYWORDS", "revoked, lapsed")

	p := PolicyFromEnv()
	if p.FreshnessWindow != 30*24*time.Hour {
		t.Fatalf("expected 30-day window, got %v", p.FreshnessWindow)
	}
	if len(p.NegativeKeywords) != 2 || p.NegativeKeywords[0] != "revoked" || p.NegativeKeywords[1] != "lapsed" {
		t.Fatalf("unexpected keywords: %v", p.NegativeKeywords)
	}
}
