// Package modkit provides module wiring and core deps
package modkit

import (
	"astrograph/internal/core/ephem"
	"astrograph/internal/platform/cache"
	"astrograph/internal/platform/config"
	"astrograph/internal/platform/logger"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log   logger.Logger
	Cfg   config.Conf
	Cache *cache.Cache
	Ephem ephem.Provider
}

// ZeroOK returns true when deps are safe to use with zero values in tests
// consumers should still nil check the cache and provider seams
func (d Deps) ZeroOK() bool { return true }
