// Package assess implements the compliance inference engine: the control
// applicability filter, the evidence classifier, and the auto-answer runner
// that drives them over an assessment session.
package assess

import (
	"strconv"
	"strings"
	"time"

	"github.com/attestia/assurance-backend/util"
)

// DefaultNegativeKeywords are the preview substrings treated as explicit
// non-compliance signals. Matching is case-insensitive.
var DefaultNegativeKeywords = []string{
	"missing",
	"failed",
	"failure",
	"gaps",
	"gap identified",
	"not implemented",
	"unpatched",
	"deficient",
	"non-compliant",
	"noncompliant",
	"vulnerability",
	"expired",
	"breach",
	"incomplete",
}

// Policy holds the classifier thresholds. The defaults encode the 90-day
// evidence freshness window and the 70/50/40 relevance bands; auditors may
// tune them per deployment, so every value is overridable.
type Policy struct {
	FreshnessWindow       time.Duration // Evidence older than this is outdated.
	HighRelevance         int           // Relevance >= this is high.
	MediumRelevance       int           // Relevance >= this (and < high) is medium.
	NonCompliantRelevance int           // Relevance < this marks an item non-compliant.
	NegativeKeywords      []string
}

// DefaultPolicy returns the standard classifier thresholds.
func DefaultPolicy() Policy {
	return Policy{
		FreshnessWindow:       90 * 24 * time.Hour,
		HighRelevance:         70,
		MediumRelevance:       50,
		NonCompliantRelevance: 40,
		NegativeKeywords:      DefaultNegativeKeywords,
	}
}

// PolicyFromEnv builds a Policy from environment overrides, falling back to
// the defaults for anything unset or unparsable.
func PolicyFromEnv() Policy {
	p := DefaultPolicy()

	if days, err := strconv.Atoi(util.GetEnvDefault("ASSESS_FRESHNESS_DAYS", "90")); err == nil && days > 0 {
		p.FreshnessWindow = time.Duration(days) * 24 * time.Hour
	}
	if v, err := strconv.Atoi(util.GetEnvDefault("ASSESS_HIGH_RELEVANCE", "70")); err == nil {
		p.HighRelevance = v
	}
	if v, err := strconv.Atoi(util.GetEnvDefault("ASSESS_MEDIUM_RELEVANCE", "50")); err == nil {
		p.MediumRelevance = v
	}
	if v, err := strconv.Atoi(util.GetEnvDefault("ASSESS_NONCOMPLIANT_RELEVANCE", "40")); err == nil {
		p.NonCompliantRelevance = v
	}
	if raw := util.GetEnvDefault("ASSESS_NEGATIVE_KEYWORDS", ""); raw != "" {
		keywords := []string{}
		for _, kw := range strings.Split(raw, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				keywords = append(keywords, kw)
			}
		}
		if len(keywords) > 0 {
			p.NegativeKeywords = keywords
		}
	}

	return p
}

// FreshnessDays returns the freshness window in whole days, for reason text.
func (p Policy) FreshnessDays() int {
	return int(p.FreshnessWindow / (24 * time.Hour))
}
