// Package repository persists emerging-skill candidate lists.
//
// Sinks are write-only. Each write replaces the previous content of the
// artifact, so the last writer wins.
package repository

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/okian/skillpulse/internal/domain/model"
)

// Artifact names.
const (
	ArtifactRaw     = "raw"
	ArtifactCurated = "curated"
)

var csvHeader = []string{"skill", "confidence_score", "frequency", "trend"}

// Sink stores one artifact's rows.
type Sink interface {
	Name() string
	Write(ctx context.Context, artifact string, rows []model.EmergingSkill) error
}

func checkArtifact(artifact string) error {
	switch artifact {
	case ArtifactRaw, ArtifactCurated:
		return nil
	default:
		return fmt.Errorf("%q: %w", artifact, ErrUnknownArtifact)
	}
}

// objectName is the file/object base name for an artifact.
func objectName(artifact string) string {
	return "emerging_skills_" + artifact + ".csv"
}

// EncodeCSV renders rows with a header line.
func EncodeCSV(rows []model.EmergingSkill) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, r := range rows {
		rec := []string{
			r.Skill,
			strconv.FormatFloat(r.ConfidenceScore, 'f', -1, 64),
			strconv.Itoa(r.Frequency),
			r.Trend,
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
