package games

import "math"

// clampScore floors a raw score at zero and truncates to an integer.
// A pathological pile of penalties never drives a score negative.
func clampScore(raw float64) int {
	if raw <= 0 || math.IsNaN(raw) {
		return 0
	}
	return int(raw)
}

// timePenalty converts elapsed milliseconds into a score penalty at the
// given rate per second. Less elapsed time always means a smaller
// penalty.
func timePenalty(elapsedMs int64, perSecond float64) float64 {
	if elapsedMs <= 0 {
		return 0
	}
	return float64(elapsedMs) / 1000.0 * perSecond
}

// excessPenalty penalizes actions beyond an expected baseline at the
// given rate. Counts at or below the baseline cost nothing.
func excessPenalty(count, baseline int, perExcess float64) float64 {
	if count <= baseline {
		return 0
	}
	return float64(count-baseline) * perExcess
}
