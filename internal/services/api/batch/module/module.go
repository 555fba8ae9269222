// Package module wires batch runs into the API using modkit
package module

import (
	"net/http"

	modkit "astrograph/internal/modkit"
	"astrograph/internal/modkit/httpkit"

	bhttp "astrograph/internal/services/api/batch/http"
	bsvc "astrograph/internal/services/api/batch/service"
	runner "astrograph/internal/services/batch/domain"
)

// Module implements the batch API module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws        []func(http.Handler) http.Handler
	ports      any
	profilerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc bsvc.Service
}

// Ports declares the required injected runner port for this API module
type Ports struct {
	Runner runner.RunnerPort
}

// New constructs the batch API module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("batch"),
		modkit.WithPrefix("/batch"),
	}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Runner == nil {
		panic("batch API module requires Runner port (from services/batch)")
	}

	svc := bsvc.New(injected.Runner)

	m := &Module{
		deps:       deps,
		name:       b.Name,
		prefix:     b.Prefix,
		mws:        b.Mw,
		profilerOn: b.ProfilerOn,
		subrouter:  b.Subrouter,
		svc:        svc,
	}
	m.ports = adaptRunPort{svc: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		bhttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return m.name }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return m.prefix }
