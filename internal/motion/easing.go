package motion

import "math"

// Easing maps normalized progress in [0,1] to an eased fraction.
type Easing func(t float64) float64

func Linear(t float64) float64 { return t }

func EaseOutQuad(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

var Easings = map[string]Easing{
	"linear":        Linear,
	"ease-out-quad": EaseOutQuad,
	"ease-out":      EaseOutCubic,
	"ease-in-out":   EaseInOutCubic,
}
