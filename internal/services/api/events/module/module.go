// Package module wires event scans into the API using modkit
package module

import (
	"net/http"

	modkit "astrograph/internal/modkit"
	"astrograph/internal/modkit/httpkit"

	ehttp "astrograph/internal/services/api/events/http"
	esvc "astrograph/internal/services/api/events/service"
	engine "astrograph/internal/services/events/domain"
)

// Module implements the events API module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws        []func(http.Handler) http.Handler
	ports      any
	profilerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc esvc.Service
}

// Ports declares the required injected engine port for this API module
type Ports struct {
	Scanner engine.ScannerPort
}

// New constructs the events API module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("events"),
		modkit.WithPrefix("/events"),
	}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Scanner == nil {
		panic("events API module requires Scanner port (from services/events)")
	}

	svc := esvc.New(injected.Scanner)

	m := &Module{
		deps:       deps,
		name:       b.Name,
		prefix:     b.Prefix,
		mws:        b.Mw,
		profilerOn: b.ProfilerOn,
		subrouter:  b.Subrouter,
		svc:        svc,
	}
	m.ports = adaptScanPort{svc: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		ehttp.Register(r, m.svc)
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
