package main

import (
	"context"

	"astrograph/internal/core/ephem"
	"astrograph/internal/platform/cache"
	"astrograph/internal/platform/config"
	"astrograph/internal/platform/logger"
	phttp "astrograph/internal/platform/net/http"

	"astrograph/internal/services/api"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	cacheCfg := root.Prefix("CACHE_")

	// bring up logging early
	l := logger.Get()

	// response cache with its background janitor
	c := cache.New(cache.Options{
		TTL:           cacheCfg.MayDuration("TTL", 0),
		SweepInterval: cacheCfg.MayDuration("SWEEP", 0),
	})
	defer c.Close()

	// built-in analytic ephemeris provider
	provider := ephem.NewAnalytic()

	// http server (reads CORE_API_PORT / CORE_API_ADDR)
	srv := phttp.NewServer(apiCfg)

	// mount our API
	api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Cache:          c,
			Ephem:          provider,
			Logger:         l,
			EnableProfiler: apiCfg.MayBool("PROFILER", true),
		},
	)

	// run
	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
