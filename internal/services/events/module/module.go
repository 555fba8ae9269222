// Package module wires the event detection engine and exposes its ports
package module

import (
	"astrograph/internal/modkit"
	"astrograph/internal/modkit/httpkit"
	"astrograph/internal/services/events/service"
)

// Module defines the events engine module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the events module with its ports
func New(deps modkit.Deps, overrides Options) *Module {
	// Load defaults, then apply non-zero overrides
	opts := FromConfig(deps.Cfg)

	if overrides.Step != 0 {
		opts.Step = overrides.Step
	}
	if overrides.Tolerance != 0 {
		opts.Tolerance = overrides.Tolerance
	}
	if overrides.HorizonStep != 0 {
		opts.HorizonStep = overrides.HorizonStep
	}
	if overrides.HorizonTolerance != 0 {
		opts.HorizonTolerance = overrides.HorizonTolerance
	}
	if overrides.CombustThresholdDeg != 0 {
		opts.CombustThresholdDeg = overrides.CombustThresholdDeg
	}
	if overrides.MaxIterations != 0 {
		opts.MaxIterations = overrides.MaxIterations
	}
	if overrides.MaxRangeDays != 0 {
		opts.MaxRangeDays = overrides.MaxRangeDays
	}
	if overrides.CacheTTL != 0 {
		opts.CacheTTL = overrides.CacheTTL
	}

	svc := service.New(deps, service.Config{
		Step:                opts.Step,
		Tolerance:           opts.Tolerance,
		HorizonStep:         opts.HorizonStep,
		HorizonTolerance:    opts.HorizonTolerance,
		CombustThresholdDeg: opts.CombustThresholdDeg,
		MaxIterations:       opts.MaxIterations,
		MaxRangeDays:        opts.MaxRangeDays,
		CacheTTL:            opts.CacheTTL,
	})

	m := &Module{deps: deps}
	m.ports = Ports{Scanner: svc}
	return m
}

// Ports returns the module ports (Scanner)
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "events" }

// Prefix returns the module config prefix (none for engine-only service)
func (m *Module) Prefix() string { return "" }

// MountRoutes returns no HTTP routes; the api module fronts the engine
func (m *Module) MountRoutes(_ httpkit.Router) {}
