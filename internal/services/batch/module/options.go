package module

import (
	"astrograph/internal/platform/config"
	"astrograph/internal/services/batch/service"
)

// Options controls the batch orchestrator
type Options struct {
	Workers   int
	MaxMonths int
}

// FromConfig reads with BATCH_ prefix
func FromConfig(cfg config.Conf) Options {
	c := service.FromConfig(cfg)
	return Options{Workers: c.Workers, MaxMonths: c.MaxMonths}
}
