package module

import (
	"context"

	"astrograph/internal/services/api/events/domain"
	esvc "astrograph/internal/services/api/events/service"
	engine "astrograph/internal/services/events/domain"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptScanPort exposes service methods as module ports for cross-module usage
type adaptScanPort struct{ svc esvc.Service }

func (a adaptScanPort) Scan(ctx context.Context, in domain.ScanInput) (*engine.Result, error) {
	return a.svc.Scan(ctx, in)
}
