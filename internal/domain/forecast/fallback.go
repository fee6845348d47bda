package forecast

import (
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/okian/skillpulse/internal/domain/model"
)

const (
	fallbackBaseMin   = 30
	fallbackBaseRange = 40
	fallbackGrowthMin = 0.1
	fallbackGrowthMod = 20
	fallbackLowerMul  = 0.8
	fallbackUpperMul  = 1.2
)

// Seed is the stable per-skill hash behind synthetic projections.
func Seed(skill string) uint64 {
	return xxhash.Sum64String(strings.ToLower(skill))
}

// synthetic builds a linear projection whose base and slope derive from the
// skill name. Dates start at today.
func synthetic(skill string, months int, today time.Time) model.ForecastResult {
	seed := Seed(skill)
	base := fallbackBaseMin + float64(seed%fallbackBaseRange)
	growth := fallbackGrowthMin + float64(seed%fallbackGrowthMod)/100

	days := months * daysPerMonth
	data := make([]model.ForecastPoint, days)
	for i := 0; i < days; i++ {
		v := base + float64(i)*growth
		data[i] = newPoint(today.AddDate(0, 0, i), v, v*fallbackLowerMul, v*fallbackUpperMul)
	}
	predicted := base + float64(days-1)*growth
	change := changePercent(base, predicted)

	return model.ForecastResult{
		Skill:            skill,
		ForecastData:     data,
		Trend:            "For " + skill + ": " + Narrative(change, ""),
		CurrentDemand:    round2(base),
		PredictedDemand:  round2(predicted),
		ChangePercentage: round2(change),
	}
}
