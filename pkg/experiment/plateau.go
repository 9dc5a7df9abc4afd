package experiment

import (
	"fmt"
)

// PlateauConfig controls windowed plateau detection over a score trajectory.
type PlateauConfig struct {
	// Window is how many trailing scores the spread check covers.
	Window int
	// Tolerance is the largest max-minus-min spread that still reads as flat.
	Tolerance float64
	// MinSteps is how many scores must exist before detection engages.
	MinSteps int
}

// DefaultPlateauConfig returns the settings the Runner uses when
// StopOnPlateau is set without an explicit config.
func DefaultPlateauConfig() PlateauConfig {
	return PlateauConfig{
		Window:    5,
		Tolerance: 0.001,
		MinSteps:  3,
	}
}

// normalized fills zero or invalid fields from the defaults.
func (c PlateauConfig) normalized() PlateauConfig {
	d := DefaultPlateauConfig()
	if c.Window < 1 {
		c.Window = d.Window
	}
	if c.Tolerance <= 0 {
		c.Tolerance = d.Tolerance
	}
	if c.MinSteps < 1 {
		c.MinSteps = d.MinSteps
	}
	return c
}

// Plateaued reports whether the trailing Window scores sit within Tolerance
// of each other, with a human-readable reason when they do. A zero-value
// config selects the defaults.
func Plateaued(scores []float64, cfg PlateauConfig) (bool, string) {
	cfg = cfg.normalized()
	if len(scores) < cfg.MinSteps || len(scores) < cfg.Window {
		return false, ""
	}

	recent := scores[len(scores)-cfg.Window:]
	lo, hi := recent[0], recent[0]
	for _, s := range recent[1:] {
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}

	if spread := hi - lo; spread <= cfg.Tolerance {
		return true, fmt.Sprintf("score plateaued over %d steps (spread %.6f)", cfg.Window, spread)
	}
	return false, ""
}

// PlateauStep returns the earliest index at which the trajectory reads as
// plateaued, or -1 when it never does.
func PlateauStep(scores []float64, cfg PlateauConfig) int {
	for i := range scores {
		if ok, _ := Plateaued(scores[:i+1], cfg); ok {
			return i
		}
	}
	return -1
}
