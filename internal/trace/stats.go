package trace

import "math"

// Overshoot returns the largest excursion past the goal in the direction of
// travel, as a fraction of the total distance. Zero for a monotonic approach.
func Overshoot(samples []Sample, channel int, from, goal float64) float64 {
	dist := math.Abs(goal - from)
	if dist == 0 {
		return 0
	}

	max := 0.0
	for _, s := range samples {
		if channel >= len(s.Values) {
			continue
		}
		v := s.Values[channel]
		var excess float64
		if goal > from {
			excess = v - goal
		} else {
			excess = goal - v
		}
		if excess > max {
			max = excess
		}
	}
	return max / dist
}

// SettleTime returns the earliest time after which every later sample stays
// within tolerance of the goal, or -1 if the run never settles.
func SettleTime(samples []Sample, channel int, goal, tolerance float64) float64 {
	settled := -1.0
	for _, s := range samples {
		if channel >= len(s.Values) {
			continue
		}
		if math.Abs(s.Values[channel]-goal) <= tolerance {
			if settled < 0 {
				settled = s.T
			}
		} else {
			settled = -1
		}
	}
	return settled
}

func FinalValue(samples []Sample, channel int) float64 {
	for i := len(samples) - 1; i >= 0; i-- {
		if channel < len(samples[i].Values) {
			return samples[i].Values[channel]
		}
	}
	return math.NaN()
}

// Monotonic reports whether the channel approaches the goal without ever
// moving away from it between consecutive samples.
func Monotonic(samples []Sample, channel int, goal float64) bool {
	prev := math.Inf(1)
	for _, s := range samples {
		if channel >= len(s.Values) {
			continue
		}
		d := math.Abs(goal - s.Values[channel])
		if d > prev+1e-9 {
			return false
		}
		prev = d
	}
	return true
}
