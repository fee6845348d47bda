package model

import "time"

// HistoryPoint is the number of postings mentioning a skill in one calendar month.
type HistoryPoint struct {
	Month        time.Time // first day of the month, UTC
	MentionCount int
}

// ForecastPoint is one projected day.
type ForecastPoint struct {
	Date       string  `json:"date"`
	Predicted  float64 `json:"predicted"`
	LowerBound float64 `json:"lower_bound"`
	UpperBound float64 `json:"upper_bound"`
}

// ForecastResult is the demand projection returned for a skill.
type ForecastResult struct {
	Skill            string          `json:"skill"`
	ForecastData     []ForecastPoint `json:"forecast_data"`
	Trend            string          `json:"trend"`
	CurrentDemand    float64         `json:"current_demand"`
	PredictedDemand  float64         `json:"predicted_demand"`
	ChangePercentage float64         `json:"change_percentage"`
}
