// Package domain holds the typed events and scan contracts for the engine
package domain

import (
	"time"

	"astrograph/internal/core/ephem"
)

// Location is an observer position plus the IANA timezone used to convert
// local inputs to UTC before any computation
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
	TZ  string  `json:"tz"`
}

// Request is a validated single-range scan request. Start and End are UTC
type Request struct {
	Bodies   []ephem.Body
	Location Location
	Mode     ephem.Mode
	Start    time.Time
	End      time.Time

	// zero means "use the engine default"
	StepOverride      time.Duration
	ToleranceOverride time.Duration
}

// Station directions
const (
	DirectionRetrograde = "retrograde"
	DirectionDirect     = "direct"
)

// Velocity extreme kinds
const (
	ExtremeMax = "max"
	ExtremeMin = "min"
)

// Ingress is a refined sign-boundary crossing. Approximate marks an instant
// whose refinement hit the iteration ceiling before reaching tolerance
type Ingress struct {
	Body        ephem.Body `json:"body"`
	At          time.Time  `json:"at"`
	FromSign    string     `json:"from_sign"`
	ToSign      string     `json:"to_sign"`
	Approximate bool       `json:"approximate,omitempty"`
}

// Combustion is an interval of sub-threshold angular separation from the Sun.
// End is nil when the interval has not closed within the scanned range.
// Approximate marks an interval with an under-refined boundary
type Combustion struct {
	Body             ephem.Body `json:"body"`
	Start            time.Time  `json:"start"`
	End              *time.Time `json:"end,omitempty"`
	MinSeparationDeg float64    `json:"min_separation_deg"`
	Approximate      bool       `json:"approximate,omitempty"`
}

// Station is an interval of uniform apparent direction. Intervals tile the
// scanned range: each sign flip of the body's speed closes one interval and
// opens the next. End is nil for the interval still open at range end
type Station struct {
	Body        ephem.Body `json:"body"`
	Direction   string     `json:"direction"`
	Start       time.Time  `json:"start"`
	End         *time.Time `json:"end,omitempty"`
	Approximate bool       `json:"approximate,omitempty"`
}

// VelocityExtreme is a refined local extremum of apparent speed.
// SpeedDegPerDay is sampled at the refined instant, not interpolated
type VelocityExtreme struct {
	Body           ephem.Body `json:"body"`
	Kind           string     `json:"kind"`
	At             time.Time  `json:"at"`
	SpeedDegPerDay float64    `json:"speed_deg_per_day"`
	Approximate    bool       `json:"approximate,omitempty"`
}

// HorizonCrossing is a refined crossing of the ascendant over a sign cusp
type HorizonCrossing struct {
	At          time.Time `json:"at"`
	Kind        string    `json:"kind"`
	DegreeOfArc float64   `json:"degree_of_arc"`
	Approximate bool      `json:"approximate,omitempty"`
}

// ClassifierFailure records one classifier's abort for this range
type ClassifierFailure struct {
	Classifier string `json:"classifier"`
	Error      string `json:"error"`
}

// Result is the full event bundle for one range. Slices are always non-nil
// so consumers can distinguish "no events" from "classifier failed"
type Result struct {
	OK                bool                `json:"ok"`
	Ingress           []Ingress           `json:"ingress"`
	Combustion        []Combustion        `json:"combustion"`
	Station           []Station           `json:"station"`
	VelocityExtreme   []VelocityExtreme   `json:"velocity_extreme"`
	HorizonCrossing   []HorizonCrossing   `json:"horizon_crossing"`
	ProviderAvailable bool                `json:"provider_available"`
	Failed            []ClassifierFailure `json:"failed_classifiers,omitempty"`
}
