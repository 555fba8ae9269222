// Package http provides meta endpoints
package http

import (
	stdctx "context"
	"net/http"
	"time"

	"astrograph/internal/core/ephem"
	"astrograph/internal/core/version"
	"astrograph/internal/modkit/httpkit"
	"astrograph/internal/platform/cache"
	perr "astrograph/internal/platform/errors"
)

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Ephem       ephem.Provider
	Cache       *cache.Cache
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}

	// mount routes
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
}

// HealthResponse is the health payload
type HealthResponse struct {
	OK      bool   `json:"ok"       example:"true"`
	Service string `json:"service"  example:"astrograph-api"`
	Started string `json:"started"  example:"2026-01-03T13:00:00Z"`
	Now     string `json:"now"      example:"2026-01-03T13:05:00Z"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"   example:"ephemeris"`
	Status string `json:"status" example:"ok"` // ok skipped
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status       string       `json:"status" example:"ok"` // ok degraded
	Checks       []ReadyCheck `json:"checks"`
	CacheEntries int          `json:"cache_entries"`
	Now          string       `json:"now" example:"2026-01-03T13:05:00Z"`
}

// ServiceResponse describes service info
type ServiceResponse struct {
	Name    string `json:"name"    example:"astrograph-api"`
	Started string `json:"started" example:"2026-01-03T13:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Now:     time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// ready probes the ephemeris provider with a live sample. A failing probe
// surfaces as a provider error (502) so orchestrators stop routing here
func (h *handlers) ready(_ *http.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 2*time.Second)
	defer cancel()

	eph := ReadyCheck{Name: "ephemeris", Status: "skipped"}
	if h.deps.Ephem != nil {
		if _, err := h.deps.Ephem.Sample(ctx, ephem.Sun, time.Now().UTC(), ephem.ModeTropical); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeProvider, "ephemeris probe failed")
		}
		eph = ReadyCheck{Name: "ephemeris", Status: "ok"}
	}

	entries := 0
	if h.deps.Cache != nil {
		entries = h.deps.Cache.Len()
	}

	overall := "ok"
	if eph.Status != "ok" {
		overall = "degraded"
	}

	return ReadyResponse{
		Status:       overall,
		Checks:       []ReadyCheck{eph},
		CacheEntries: entries,
		Now:          time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}

func (h *handlers) service(_ *http.Request) (any, error) {
	uptime := time.Since(h.deps.StartedAt)
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(uptime / time.Second),
	}, nil
}
