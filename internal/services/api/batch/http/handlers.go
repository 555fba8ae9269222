// Package http provides http transport for batch runs
package http

import (
	stdhttp "net/http"

	"astrograph/internal/modkit/httpkit"
	"astrograph/internal/services/api/batch/domain"
	svc "astrograph/internal/services/api/batch/service"
)

// Register mounts the router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.RunInput](r, "/run", h.run)
}

type handlers struct{ svc svc.Service }

// run fans the requested months out and waits for every unit
func (h *handlers) run(r *stdhttp.Request, in domain.RunInput) (any, error) {
	return h.svc.Run(r.Context(), in)
}
