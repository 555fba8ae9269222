// Package service adapts batch DTOs onto the orchestrator runner port
package service

import (
	"context"

	"astrograph/internal/core/ephem"
	perr "astrograph/internal/platform/errors"
	"astrograph/internal/services/api/batch/domain"
	batch "astrograph/internal/services/batch/domain"
	events "astrograph/internal/services/events/domain"
)

// Service defines the batch API service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the batch API service
type Svc struct {
	runner batch.RunnerPort
}

// New constructs a batch API service over the orchestrator runner port
func New(runner batch.RunnerPort) *Svc {
	if runner == nil {
		panic("batch api service requires a non nil runner port")
	}
	return &Svc{runner: runner}
}

// Run converts the DTO and delegates to the orchestrator
func (s *Svc) Run(ctx context.Context, in domain.RunInput) (*batch.Result, error) {
	mode := ephem.ModeTropical
	if in.Mode != "" {
		m, ok := ephem.ParseMode(in.Mode)
		if !ok {
			return nil, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "unknown mode %q", in.Mode), "mode")
		}
		mode = m
	}

	bodies := make([]ephem.Body, 0, len(in.Bodies))
	for _, b := range in.Bodies {
		body, ok := ephem.ParseBody(b)
		if !ok {
			return nil, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "unknown body %q", b), "bodies")
		}
		bodies = append(bodies, body)
	}

	return s.runner.Run(ctx, batch.Request{
		Months: in.Months,
		Bodies: bodies,
		Location: events.Location{
			Lat: in.Location.Lat,
			Lon: in.Location.Lon,
			TZ:  in.Location.TZ,
		},
		Mode:        mode,
		Concurrency: in.Concurrency,
	})
}
