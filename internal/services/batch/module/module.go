// Package module wires the batch orchestrator and exposes its ports
package module

import (
	"astrograph/internal/modkit"
	"astrograph/internal/modkit/httpkit"
	"astrograph/internal/services/batch/service"
	events "astrograph/internal/services/events/domain"
)

// Module defines the batch orchestrator module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the batch module over an events scanner port
func New(deps modkit.Deps, scanner events.ScannerPort, overrides Options) *Module {
	// Load defaults, then apply non-zero overrides
	opts := FromConfig(deps.Cfg)

	if overrides.Workers != 0 {
		opts.Workers = overrides.Workers
	}
	if overrides.MaxMonths != 0 {
		opts.MaxMonths = overrides.MaxMonths
	}

	svc := service.New(deps, scanner, service.Config{
		Workers:   opts.Workers,
		MaxMonths: opts.MaxMonths,
	})

	m := &Module{deps: deps}
	m.ports = Ports{Runner: svc}
	return m
}

// Ports returns the module ports (Runner)
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "batch" }

// Prefix returns the module config prefix (none for worker-only service)
func (m *Module) Prefix() string { return "" }

// MountRoutes returns no HTTP routes; the api module fronts the runner
func (m *Module) MountRoutes(_ httpkit.Router) {}
