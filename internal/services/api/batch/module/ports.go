package module

import (
	"context"

	"astrograph/internal/services/api/batch/domain"
	bsvc "astrograph/internal/services/api/batch/service"
	batch "astrograph/internal/services/batch/domain"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptRunPort exposes service methods as module ports for cross-module usage
type adaptRunPort struct{ svc bsvc.Service }

func (a adaptRunPort) Run(ctx context.Context, in domain.RunInput) (*batch.Result, error) {
	return a.svc.Run(ctx, in)
}
