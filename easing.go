package twisty

import "fmt"

// Easing maps linear progress in [0,1] to eased progress in [0,1].
type Easing func(t float64) float64

// Linear progresses at a constant rate.
func Linear(t float64) float64 {
	return t
}

// QuadInOut accelerates through the first half and decelerates through the second.
func QuadInOut(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	t = 2*t - 2
	return 1 - t*t/2
}

// CubicInOut is a steeper variant of QuadInOut.
func CubicInOut(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	t = 2*t - 2
	return 1 + t*t*t/2
}

// ParseEasing resolves an easing by name: linear, quad or cubic.
func ParseEasing(name string) (Easing, error) {
	switch name {
	case "linear":
		return Linear, nil
	case "", "quad", "quad-in-out":
		return QuadInOut, nil
	case "cubic", "cubic-in-out":
		return CubicInOut, nil
	default:
		return nil, fmt.Errorf("unknown easing %q", name)
	}
}
