package model

import "time"

// Trend labels for emerging skills.
const (
	TrendHighGrowth = "High Growth"
	TrendGrowing    = "Growing"
	TrendEmerging   = "Emerging"
)

// PhraseCluster groups phrases whose embeddings landed on the same centroid.
type PhraseCluster struct {
	ID      int
	Members []string
}

// EmergingSkill is a ranked emerging-skill candidate.
type EmergingSkill struct {
	Skill           string  `json:"skill"`
	ConfidenceScore float64 `json:"confidence_score"`
	Frequency       int     `json:"frequency"`
	Trend           string  `json:"trend"`
}

// EmergingSkills is the response envelope for emerging-skill detection.
type EmergingSkills struct {
	EmergingSkills  []EmergingSkill `json:"emerging_skills"`
	TotalCandidates int             `json:"total_candidates"`
}

// ClusterJob asks a worker to embed and cluster a phrase list.
type ClusterJob struct {
	ID             string
	Phrases        []string
	MinClusterSize int
	// Deadline bounds the work; zero means none.
	Deadline time.Time
	// Result receives exactly one value; it must be buffered by the submitter.
	Result chan ClusterResult
}

// ClusterResult is what a worker sends back for a ClusterJob.
type ClusterResult struct {
	JobID    string
	Clusters []PhraseCluster
	Err      error
}
