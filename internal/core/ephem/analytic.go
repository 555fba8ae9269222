package ephem

import (
	"context"
	"math"
	"time"

	"astrograph/internal/core/astro"
)

// elements describes one body's stylized geocentric motion: a mean longitude
// advancing at rate n, modulated by a single synodic oscillation. The
// amplitudes are tuned so each planet's speed behaves qualitatively like the
// real geocentric quantity (inner planets and the superior planets
// retrograde, Sun and Moon never do); they are not positionally accurate.
// Production deployments plug a real provider behind the Provider contract,
// this model exists so the engine runs and tests stay deterministic
type elements struct {
	epochLon float64 // mean longitude at J2000, degrees
	n        float64 // mean daily motion, degrees/day
	amp      float64 // synodic oscillation amplitude, degrees
	period   float64 // synodic oscillation period, days
	phase    float64 // oscillation phase at J2000, radians
}

var meanElements = map[Body]elements{
	Sun:     {epochLon: 280.46, n: 0.98564736, amp: 1.915, period: 365.2596, phase: 0},
	Moon:    {epochLon: 218.32, n: 13.17639648, amp: 6.289, period: 27.5545, phase: 0.9},
	Mercury: {epochLon: 252.25, n: 0.98564736, amp: 23.4, period: 115.8775, phase: 2.1},
	Venus:   {epochLon: 181.98, n: 0.98564736, amp: 105.0, period: 583.9214, phase: 4.2},
	Mars:    {epochLon: 355.43, n: 0.52402068, amp: 75.0, period: 779.9361, phase: 1.3},
	Jupiter: {epochLon: 34.35, n: 0.08308529, amp: 11.0, period: 398.884, phase: 5.0},
	Saturn:  {epochLon: 50.08, n: 0.03344414, amp: 6.5, period: 378.0919, phase: 3.4},
}

// ayanamsa offsets at J2000 plus a common precession drift, degrees and
// degrees/day. Applied by subtraction from the tropical longitude
const precessionDriftPerDay = 50.29 / 3600 / 365.25

var ayanamsaJ2000 = map[Mode]float64{
	ModeTropical:     0,
	ModeLahiri:       23.85,
	ModeFaganBradley: 24.74,
}

// AyanamsaDeg returns the ayanamsa for mode at the given instant. The bool
// reports whether the mode is known
func AyanamsaDeg(mode Mode, at time.Time) (float64, bool) {
	off, ok := ayanamsaJ2000[mode]
	if !ok {
		return 0, false
	}
	if mode == ModeTropical {
		return 0, true
	}
	d := at.Sub(analyticEpoch).Seconds() / 86400.0
	return off + precessionDriftPerDay*d, true
}

var (
	analyticEpoch = time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)

	// supported instant span; matches the coverage a real ephemeris file set
	// would be shipped with
	analyticMin = time.Date(1800, 1, 1, 0, 0, 0, 0, time.UTC)
	analyticMax = time.Date(2200, 1, 1, 0, 0, 0, 0, time.UTC)
)

// Analytic is the built-in mean-element provider. It is stateless and safe
// for concurrent use
type Analytic struct{}

// NewAnalytic returns the built-in provider
func NewAnalytic() *Analytic { return &Analytic{} }

// Sample implements Provider
func (a *Analytic) Sample(_ context.Context, body Body, at time.Time, mode Mode) (Sample, error) {
	el, ok := meanElements[body]
	if !ok {
		return Sample{}, Errf(body, at, "unknown body")
	}
	if at.Before(analyticMin) || at.After(analyticMax) {
		return Sample{}, Errf(body, at, "instant outside supported range %d..%d",
			analyticMin.Year(), analyticMax.Year())
	}
	off, ok := AyanamsaDeg(mode, at)
	if !ok {
		return Sample{}, Errf(body, at, "unknown reference-frame mode %q", mode)
	}

	d := at.Sub(analyticEpoch).Seconds() / 86400.0
	omega := 2 * math.Pi / el.period
	arg := omega*d + el.phase

	tropical := el.epochLon + el.n*d + el.amp*math.Sin(arg)
	speed := el.n + el.amp*omega*math.Cos(arg)

	lon := tropical - off

	return Sample{
		Longitude:   astro.NormalizeDeg(lon),
		Declination: declination(tropical, at),
		Speed:       speed,
	}, nil
}

// declination projects an ecliptic longitude onto the equator assuming zero
// ecliptic latitude
func declination(tropicalLon float64, at time.Time) float64 {
	eps := astro.ObliquityDeg(at) * math.Pi / 180
	lam := astro.NormalizeDeg(tropicalLon) * math.Pi / 180
	return math.Asin(math.Sin(eps)*math.Sin(lam)) * 180 / math.Pi
}
