package sim

import (
	"errors"
	"math"
)

var (
	// ErrInvalidConfiguration is wrapped by every Config.Validate failure.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidDuration is returned when a negative or non-finite delay is scheduled.
	ErrInvalidDuration = errors.New("invalid duration")
)

// MinDuration is the strictly positive floor applied to every sampled
// processing, failure and repair interval (minutes).
const MinDuration = 0.01

// ClampDuration maps non-positive and non-finite samples to MinDuration.
// Finite samples at or above the floor are returned unchanged.
func ClampDuration(d float64) float64 {
	if math.IsNaN(d) || math.IsInf(d, 0) || d < MinDuration {
		return MinDuration
	}
	return d
}

// validDelay reports whether d may be handed to the scheduler verbatim.
func validDelay(d float64) bool {
	return !math.IsNaN(d) && !math.IsInf(d, 0) && d >= 0
}
