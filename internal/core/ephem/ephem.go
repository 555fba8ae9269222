// Package ephem defines the ephemeris provider contract consumed by the
// event engine, plus a built-in analytic model for default wiring and tests.
//
// A Provider is treated as a black box: deterministic and side-effect free
// for a given instant, but potentially expensive and not necessarily safe
// under unsynchronized concurrent use. Wrap such providers in Serialized
package ephem

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Body identifies a celestial body
type Body string

// Supported bodies
const (
	Sun     Body = "sun"
	Moon    Body = "moon"
	Mercury Body = "mercury"
	Venus   Body = "venus"
	Mars    Body = "mars"
	Jupiter Body = "jupiter"
	Saturn  Body = "saturn"
)

// Bodies lists every supported body in display order
var Bodies = []Body{Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn}

// ParseBody maps a wire string to a Body
func ParseBody(s string) (Body, bool) {
	b := Body(s)
	for _, known := range Bodies {
		if b == known {
			return b, true
		}
	}
	return "", false
}

// Mode selects the reference frame for longitudes. Sidereal modes shift every
// longitude by a slowly-varying ayanamsa, so Mode must participate in any
// cache key derived from sampled values
type Mode string

// Supported reference-frame modes
const (
	ModeTropical     Mode = "tropical"
	ModeLahiri       Mode = "lahiri"
	ModeFaganBradley Mode = "fagan_bradley"
)

// Modes lists every supported reference-frame mode
var Modes = []Mode{ModeTropical, ModeLahiri, ModeFaganBradley}

// ParseMode maps a wire string to a Mode
func ParseMode(s string) (Mode, bool) {
	m := Mode(s)
	for _, known := range Modes {
		if m == known {
			return m, true
		}
	}
	return "", false
}

// Sample is one body's state at an instant: longitude in degrees mod 360,
// declination in [-90,90], speed in signed degrees per day
type Sample struct {
	Longitude   float64
	Declination float64
	Speed       float64
}

// Provider produces samples. Implementations must be deterministic for a
// given (body, instant, mode) triple and must fail with *ProviderError for
// unknown bodies or out-of-supported-range instants
type Provider interface {
	Sample(ctx context.Context, body Body, at time.Time, mode Mode) (Sample, error)
}

// ProviderError reports a sampling failure for one body at one instant
type ProviderError struct {
	Body Body
	At   time.Time
	Msg  string
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	return fmt.Sprintf("ephem: %s at %s: %s", e.Body, e.At.UTC().Format(time.RFC3339), e.Msg)
}

// Errf builds a *ProviderError with a formatted message
func Errf(body Body, at time.Time, format string, a ...any) *ProviderError {
	return &ProviderError{Body: body, At: at, Msg: fmt.Sprintf(format, a...)}
}

// Serialized wraps a provider that is not safe for concurrent use behind a
// mutex. The event engine fans classifiers and batch units out to goroutines,
// so any non-thread-safe provider must come through here
type Serialized struct {
	mu sync.Mutex
	p  Provider
}

// NewSerialized wraps p
func NewSerialized(p Provider) *Serialized {
	return &Serialized{p: p}
}

// Sample implements Provider
func (s *Serialized) Sample(ctx context.Context, body Body, at time.Time, mode Mode) (Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Sample(ctx, body, at, mode)
}
