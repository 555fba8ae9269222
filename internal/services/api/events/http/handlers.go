// Package http provides http transport for event scans
package http

import (
	stdhttp "net/http"

	"astrograph/internal/modkit/httpkit"
	"astrograph/internal/services/api/events/domain"
	svc "astrograph/internal/services/api/events/service"
)

// Register mounts the router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.ScanInput](r, "/scan", h.scan)
}

type handlers struct{ svc svc.Service }

// scan runs one event scan over the requested range
func (h *handlers) scan(r *stdhttp.Request, in domain.ScanInput) (any, error) {
	return h.svc.Scan(r.Context(), in)
}
