// Package model contains domain models passed between layers.
package model

import "strings"

// JobRecord is a single job posting from the dataset. Every field is optional;
// an empty string means the value was absent in the source.
type JobRecord struct {
	Title       string // role title
	Location    string // free-form location
	Skills      string // comma-delimited skills list
	Description string // free text
	PostedDate  string // expected YYYY-MM-DD, may be garbage
}

// nullMarkers are spellings that tabular exports use for missing cells.
var nullMarkers = map[string]struct{}{
	"nan":  {},
	"NaN":  {},
	"None": {},
	"null": {},
	"NULL": {},
}

// NormalizeField trims a raw cell and maps null markers to the empty string.
func NormalizeField(raw string) string {
	v := strings.TrimSpace(raw)
	if _, ok := nullMarkers[v]; ok {
		return ""
	}
	return v
}

// NewJobRecord builds a JobRecord from raw cell values, normalizing each one.
func NewJobRecord(title, location, skills, description, postedDate string) JobRecord {
	return JobRecord{
		Title:       NormalizeField(title),
		Location:    NormalizeField(location),
		Skills:      NormalizeField(skills),
		Description: NormalizeField(description),
		PostedDate:  NormalizeField(postedDate),
	}
}

// HasDescription reports whether the record carries description text.
func (r JobRecord) HasDescription() bool { return r.Description != "" }

// SkillList splits the comma-delimited skills field into trimmed, non-empty names.
func (r JobRecord) SkillList() []string {
	if r.Skills == "" {
		return nil
	}
	parts := strings.Split(r.Skills, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
