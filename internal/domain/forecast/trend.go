package forecast

import (
	"fmt"
	"math"
)

// Narrative describes a change percentage in plain English. When skill is
// non-empty the headline reads "... for <skill>:".
func Narrative(changePct float64, skill string) string {
	name := ""
	if skill != "" {
		name = " for " + skill
	}
	abs := math.Abs(changePct)
	switch {
	case changePct > 20:
		return fmt.Sprintf("Strong upward trend%s: Demand is expected to increase by %.1f%%. This skill is becoming highly sought after in the job market.", name, abs)
	case changePct > 5:
		return fmt.Sprintf("Moderate growth%s: Demand is expected to grow by %.1f%%. Good time to invest in learning this skill.", name, abs)
	case changePct > -5:
		return fmt.Sprintf("Stable demand%s: Expected change of %.1f%%. Demand remains relatively constant.", name, changePct)
	case changePct > -20:
		return fmt.Sprintf("Declining trend%s: Demand may decrease by %.1f%%. Consider upskilling to related technologies.", name, abs)
	default:
		return fmt.Sprintf("Significant decline%s: Demand expected to drop by %.1f%%. Explore emerging alternatives.", name, abs)
	}
}

func changePercent(current, predicted float64) float64 {
	if current == 0 {
		return 0
	}
	return (predicted - current) / current * 100
}

// round2 rounds half away from zero to two decimals.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
