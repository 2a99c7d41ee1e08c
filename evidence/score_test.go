package evidence

import (
	"testing"
)

func TestScoreContent(t *testing.T) {
	terms := []string{"firewall", "segmentation", "zone"}

	if got := ScoreContent("unrelated text", terms); got != 0 {
		t.Fatalf("no match must score 0, got %d", got)
	}
	if got := ScoreContent("firewall rules reviewed", terms); got != 50 {
		t.Fatalf("single match = 50, got %d", got)
	}
	if got := ScoreContent("Firewall segmentation per zone verified", terms); got != 70 {
		t.Fatalf("three matches = 70, got %d", got)
	}
	if got := ScoreContent("anything", nil); got != 0 {
		t.Fatalf("no terms must score 0, got %d", got)
	}
}

func TestScoreContentMonotonic(t *testing.T) {
	terms := []string{"patch", "update", "hotfix", "bulletin", "deploy", "rollout", "cve"}
	prev := -1
	content := ""
	for _, term := range terms {
		content += " " + term
		score := ScoreContent(content, terms)
		if score < prev {
			t.Fatalf("score decreased from %d to %d at %q", prev, score, content)
		}
		prev = score
	}
	if prev > 100 {
		t.Fatalf("score exceeds cap: %d", prev)
	}
}

func TestScoreKeywords(t *testing.T) {
	keywords := []string{"segmentation", "firewall", "network zone"}

	score, matched := ScoreKeywords("Firewall audit: network zone layout attached", keywords)
	if len(matched) != 2 {
		t.Fatalf("expected 2 matched keywords, got %v", matched)
	}
	if score < 0.66 || score > 0.67 {
		t.Fatalf("expected score 2/3, got %f", score)
	}

	score, matched = ScoreKeywords("nothing relevant", keywords)
	if score != 0 || len(matched) != 0 {
		t.Fatalf("expected no match, got %f %v", score, matched)
	}

	if score, _ := ScoreKeywords("content", nil); score != 0 {
		t.Fatalf("no keywords must score 0, got %f", score)
	}
}
