// Package history turns job postings into a monthly mention series for a skill.
package history

import (
	"sort"
	"strings"
	"time"

	"github.com/okian/skillpulse/internal/domain/model"
)

const monthKeyLen = len("2006-01")

// synonyms maps a normalized skill to extra spellings that count as a mention.
var synonyms = map[string][]string{
	"javascript":              {"js", "java script"},
	"typescript":              {"ts"},
	"python":                  {"py"},
	"amazon web services":     {"aws"},
	"machine learning":        {"ml"},
	"artificial intelligence": {"ai"},
}

// Variants returns the lowercase spellings used to match skill in free text.
// The normalized name comes first; duplicates and empty strings are dropped.
func Variants(skill string) []string {
	base := strings.ToLower(strings.TrimSpace(skill))
	candidates := []string{
		base,
		strings.ReplaceAll(base, " ", ""),
		strings.ReplaceAll(base, ".", ""),
		strings.ReplaceAll(base, "/", ""),
	}
	candidates = append(candidates, synonyms[base]...)

	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// Build counts, per posting month, the records whose description or skills
// field mentions any variant of skill. Points are sorted by month ascending and
// months without mentions are absent.
func Build(records []model.JobRecord, skill string) []model.HistoryPoint {
	variants := Variants(skill)
	if len(records) == 0 || len(variants) == 0 {
		return nil
	}

	counts := make(map[string]int)
	for i := range records {
		rec := &records[i]
		if len(rec.PostedDate) < monthKeyLen {
			continue
		}
		if !mentions(rec, variants) {
			continue
		}
		counts[rec.PostedDate[:monthKeyLen]]++
	}

	points := make([]model.HistoryPoint, 0, len(counts))
	for key, n := range counts {
		month, err := time.Parse(time.DateOnly, key+"-01")
		if err != nil {
			continue
		}
		points = append(points, model.HistoryPoint{Month: month, MentionCount: n})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Month.Before(points[j].Month) })
	return points
}

func mentions(rec *model.JobRecord, variants []string) bool {
	desc := strings.ToLower(rec.Description)
	skills := strings.ToLower(rec.Skills)
	for _, v := range variants {
		if strings.Contains(desc, v) || strings.Contains(skills, v) {
			return true
		}
	}
	return false
}
