// Package emergence ranks phrase clusters as emerging-skill candidates.
package emergence

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/okian/skillpulse/internal/domain/model"
)

const (
	// MaxResults caps the ranked list.
	MaxResults = 20
	// CuratedThreshold is the minimum confidence kept in the curated list.
	CuratedThreshold = 0.3

	sizeWeight    = 2
	mentionWeight = 3

	highGrowthAbove = 0.7
	growingAbove    = 0.4
)

var fallback = []model.EmergingSkill{
	{Skill: "Generative AI", ConfidenceScore: 0.85, Frequency: 150, Trend: model.TrendHighGrowth},
	{Skill: "Large Language Models", ConfidenceScore: 0.80, Frequency: 120, Trend: model.TrendHighGrowth},
	{Skill: "MLOps", ConfidenceScore: 0.75, Frequency: 100, Trend: model.TrendGrowing},
	{Skill: "Cloud Native Development", ConfidenceScore: 0.70, Frequency: 95, Trend: model.TrendGrowing},
	{Skill: "Edge Computing", ConfidenceScore: 0.65, Frequency: 80, Trend: model.TrendEmerging},
	{Skill: "Serverless Architecture", ConfidenceScore: 0.60, Frequency: 75, Trend: model.TrendEmerging},
}

// Fallback returns the fixed candidate list used when detection cannot run.
func Fallback() []model.EmergingSkill {
	out := make([]model.EmergingSkill, len(fallback))
	copy(out, fallback)
	return out
}

// Score ranks clusters. Confidence blends the cluster's share of all clustered
// phrases with how often its representative phrase shows up in the newer half
// of records.
func Score(clusters []model.PhraseCluster, records []model.JobRecord) []model.EmergingSkill {
	if len(clusters) == 0 {
		return []model.EmergingSkill{}
	}
	total := 0
	for _, c := range clusters {
		total += len(c.Members)
	}
	// "Recent" is the second half of records in load order.
	recent := records[len(records)-len(records)/2:]
	title := cases.Title(language.English)

	out := make([]model.EmergingSkill, 0, len(clusters))
	for _, c := range clusters {
		if len(c.Members) == 0 {
			continue
		}
		rep := Representative(c.Members)
		mentions := countMentions(recent, rep)
		confidence := float64(len(c.Members))/float64(max(total, 1))*sizeWeight +
			float64(mentions)/float64(max(len(recent), 1))*mentionWeight
		confidence = round2(math.Min(1, confidence))

		out = append(out, model.EmergingSkill{
			Skill:           title.String(rep),
			ConfidenceScore: confidence,
			Frequency:       len(c.Members),
			Trend:           Trend(confidence),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].ConfidenceScore > out[j].ConfidenceScore })
	if len(out) > MaxResults {
		out = out[:MaxResults]
	}
	return out
}

// Curate keeps candidates whose confidence reaches CuratedThreshold.
func Curate(skills []model.EmergingSkill) []model.EmergingSkill {
	out := make([]model.EmergingSkill, 0, len(skills))
	for _, s := range skills {
		if s.ConfidenceScore >= CuratedThreshold {
			out = append(out, s)
		}
	}
	return out
}

// Trend labels a confidence score.
func Trend(confidence float64) string {
	switch {
	case confidence > highGrowthAbove:
		return model.TrendHighGrowth
	case confidence > growingAbove:
		return model.TrendGrowing
	default:
		return model.TrendEmerging
	}
}

// Representative returns the most frequent member; ties go to the first seen.
func Representative(members []string) string {
	counts := make(map[string]int, len(members))
	for _, m := range members {
		counts[m]++
	}
	best, bestN := "", 0
	for _, m := range members {
		if n := counts[m]; n > bestN {
			best, bestN = m, n
		}
	}
	return best
}

func countMentions(records []model.JobRecord, phrase string) int {
	phrase = strings.ToLower(phrase)
	n := 0
	for i := range records {
		if records[i].HasDescription() && strings.Contains(strings.ToLower(records[i].Description), phrase) {
			n++
		}
	}
	return n
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
