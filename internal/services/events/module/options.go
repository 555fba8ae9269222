package module

import (
	"time"

	"astrograph/internal/platform/config"
	"astrograph/internal/services/events/service"
)

// Options controls the event detection engine
type Options struct {
	Step                time.Duration
	Tolerance           time.Duration
	HorizonStep         time.Duration
	HorizonTolerance    time.Duration
	CombustThresholdDeg float64
	MaxIterations       int
	MaxRangeDays        int
	CacheTTL            time.Duration
}

// FromConfig reads with SCAN_ prefix
func FromConfig(cfg config.Conf) Options {
	c := service.FromConfig(cfg)
	return Options{
		Step:                c.Step,
		Tolerance:           c.Tolerance,
		HorizonStep:         c.HorizonStep,
		HorizonTolerance:    c.HorizonTolerance,
		CombustThresholdDeg: c.CombustThresholdDeg,
		MaxIterations:       c.MaxIterations,
		MaxRangeDays:        c.MaxRangeDays,
		CacheTTL:            c.CacheTTL,
	}
}
