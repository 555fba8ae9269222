// Package api provides the HTTP API for the application
package api

import (
	"astrograph/internal/core/ephem"
	"astrograph/internal/platform/cache"
	"astrograph/internal/platform/config"
	"astrograph/internal/platform/logger"
	phttp "astrograph/internal/platform/net/http"

	"astrograph/internal/modkit"
	"astrograph/internal/modkit/httpkit"
	"astrograph/internal/modkit/module"

	apibatch "astrograph/internal/services/api/batch/module"
	apievents "astrograph/internal/services/api/events/module"
	metamod "astrograph/internal/services/api/meta/module"

	// engine and orchestrator modules (own the Scanner and Runner ports)
	batchmod "astrograph/internal/services/batch/module"
	eventsmod "astrograph/internal/services/events/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Cache          *cache.Cache
	Ephem          ephem.Provider
	Logger         *logger.Logger
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg:   opt.Config,
		Cache: opt.Cache,
		Ephem: opt.Ephem,
	}

	// Construct the ENGINE module first and extract its Scanner port
	engine := eventsmod.New(deps, eventsmod.Options{})
	scanner := engine.Ports().(eventsmod.Ports).Scanner

	// The orchestrator fans month units out over the same scanner
	orchestrator := batchmod.New(deps, scanner, batchmod.Options{})
	runner := orchestrator.Ports().(batchmod.Ports).Runner

	// Inject the ports into the API modules
	eventsAPI := apievents.New(deps, modkit.WithPorts(apievents.Ports{Scanner: scanner}))
	batchAPI := apibatch.New(deps, modkit.WithPorts(apibatch.Ports{Runner: runner}))

	mods := []module.Module{
		metamod.New(deps),
		engine,       // include engine so its ports are registered
		orchestrator, // same for the batch runner
		eventsAPI,
		batchAPI,
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
