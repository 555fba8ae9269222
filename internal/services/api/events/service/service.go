// Package service adapts scan DTOs onto the engine scanner port
package service

import (
	"context"
	"time"

	perr "astrograph/internal/platform/errors"
	"astrograph/internal/core/ephem"
	"astrograph/internal/services/api/events/domain"
	events "astrograph/internal/services/events/domain"
)

// Service defines the events API service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the events API service
type Svc struct {
	scanner events.ScannerPort
}

// New constructs an events API service over the engine scanner port
func New(scanner events.ScannerPort) *Svc {
	if scanner == nil {
		panic("events api service requires a non nil scanner port")
	}
	return &Svc{scanner: scanner}
}

// Scan converts the DTO and delegates to the engine
func (s *Svc) Scan(ctx context.Context, in domain.ScanInput) (*events.Result, error) {
	req, err := ToRequest(in)
	if err != nil {
		return nil, err
	}
	return s.scanner.Scan(ctx, req)
}

// ToRequest maps a validated ScanInput onto an engine request.
// Bind has already checked field shapes, so only cross-field parsing
// remains here
func ToRequest(in domain.ScanInput) (events.Request, error) {
	start, err := time.Parse(time.RFC3339, in.Start)
	if err != nil {
		return events.Request{}, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "start is not RFC3339"), "start")
	}
	end, err := time.Parse(time.RFC3339, in.End)
	if err != nil {
		return events.Request{}, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "end is not RFC3339"), "end")
	}

	mode := ephem.ModeTropical
	if in.Mode != "" {
		m, ok := ephem.ParseMode(in.Mode)
		if !ok {
			return events.Request{}, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "unknown mode %q", in.Mode), "mode")
		}
		mode = m
	}

	bodies := make([]ephem.Body, 0, len(in.Bodies))
	for _, b := range in.Bodies {
		body, ok := ephem.ParseBody(b)
		if !ok {
			return events.Request{}, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "unknown body %q", b), "bodies")
		}
		bodies = append(bodies, body)
	}

	var step, tol time.Duration
	if in.Step != "" {
		if step, err = time.ParseDuration(in.Step); err != nil || step <= 0 {
			return events.Request{}, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "step is not a positive duration"), "step")
		}
	}
	if in.Tolerance != "" {
		if tol, err = time.ParseDuration(in.Tolerance); err != nil || tol <= 0 {
			return events.Request{}, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "tolerance is not a positive duration"), "tolerance")
		}
	}

	return events.Request{
		Bodies: bodies,
		Location: events.Location{
			Lat: in.Location.Lat,
			Lon: in.Location.Lon,
			TZ:  in.Location.TZ,
		},
		Mode:              mode,
		Start:             start.UTC(),
		End:               end.UTC(),
		StepOverride:      step,
		ToleranceOverride: tol,
	}, nil
}
