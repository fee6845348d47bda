package model

// SkillCount is a skill with its absolute and relative frequency.
type SkillCount struct {
	Skill      string  `json:"skill"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// LocationSkills lists the most frequent skills for one location.
type LocationSkills struct {
	Location string       `json:"location"`
	Skills   []SkillCount `json:"skills"`
}
