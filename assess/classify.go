package assess

import (
	"fmt"
	"strings"
	"time"

	"github.com/attestia/assurance-backend/model"
)

// Classification is the classifier's verdict for one question: an answer, a
// human-readable reason, and an optional gap.
type Classification struct {
	Answer    model.AnswerValue `json:"answer"`
	Reason    string            `json:"reason"`
	GapType   model.GapType     `json:"gapType,omitempty"`
	GapReason string            `json:"gapReason,omitempty"`
}

// Classify derives a compliance answer from the evidence attached to a single
// question. It is a pure function of its inputs: no I/O, no clock reads (the
// caller supplies now), and the same evidence always yields the same verdict.
//
// The rules are evaluated in order, first match wins:
//
//  1. no evidence                        -> partial, missing gap
//  2. recent non-compliant item exists   -> no, no gap
//  3. only outdated evidence             -> partial, outdated gap
//  4. nothing high-relevance             -> partial, insufficient gap
//  5. recent high-relevance evidence     -> yes
//  6. anything else                      -> partial, insufficient gap
//
// Absence of evidence is never treated as proof of absence of a control
// (rule 1 flags a gap instead of guessing "no"), and a fresh failure signal
// overrides any amount of stale or passing material (rule 2 precedes rule 5).
func Classify(items []model.EvidenceItem, now time.Time, p Policy) Classification {
	if len(items) == 0 {
		return Classification{
			Answer:    model.AnswerPartial,
			Reason:    "No evidence found for this question.",
			GapType:   model.GapMissing,
			GapReason: "No evidence has been collected for this control. Gather supporting logs or documents before sign-off.",
		}
	}

	var recent, outdated []model.EvidenceItem
	var high, medium, low, recentNonCompliant int

	for _, item := range items {
		isRecent := now.Sub(item.Timestamp) <= p.FreshnessWindow
		if isRecent {
			recent = append(recent, item)
		} else {
			outdated = append(outdated, item)
		}

		switch {
		case item.Relevance >= p.HighRelevance:
			high++
		case item.Relevance >= p.MediumRelevance:
			medium++
		default:
			low++
		}

		if isRecent && (item.Relevance < p.NonCompliantRelevance || containsNegativeKeyword(item.Preview, p.NegativeKeywords)) {
			recentNonCompliant++
		}
	}

	switch {
	case recentNonCompliant > 0:
		return Classification{
			Answer: model.AnswerNo,
			Reason: fmt.Sprintf("Found %d recent evidence item(s) indicating non-compliance with this control.", recentNonCompliant),
		}

	case len(recent) == 0 && len(outdated) > 0:
		age := ageInDays(now, outdated[0].Timestamp)
		return Classification{
			Answer:    model.AnswerPartial,
			Reason:    fmt.Sprintf("All %d evidence item(s) are older than the %d-day freshness window; the first is %d days old.", len(outdated), p.FreshnessDays(), age),
			GapType:   model.GapOutdated,
			GapReason: fmt.Sprintf("Evidence is %d days old. Collect current evidence to confirm the control still operates.", age),
		}

	case high == 0 && (medium > 0 || low > 0):
		return Classification{
			Answer:    model.AnswerPartial,
			Reason:    fmt.Sprintf("Found %d evidence item(s), but none with high relevance to this question.", len(items)),
			GapType:   model.GapInsufficient,
			GapReason: fmt.Sprintf("The available evidence scores below the %d%% relevance threshold and is not dispositive either way.", p.HighRelevance),
		}

	case len(recent) > 0 && high > 0:
		return Classification{
			Answer: model.AnswerYes,
			Reason: fmt.Sprintf("Found %d recent evidence item(s) with high relevance supporting this control.", len(recent)),
		}

	default:
		return Classification{
			Answer:    model.AnswerPartial,
			Reason:    fmt.Sprintf("Found %d evidence item(s) with mixed freshness and relevance; review recommended.", len(items)),
			GapType:   model.GapInsufficient,
			GapReason: "Evidence is inconclusive. Review the items manually and confirm the answer.",
		}
	}
}

func containsNegativeKeyword(preview string, keywords []string) bool {
	lower := strings.ToLower(preview)
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func ageInDays(now, ts time.Time) int {
	return int(now.Sub(ts).Hours() / 24)
}
