package domain

import (
	"context"

	events "astrograph/internal/services/events/domain"
)

// ServicePort is the contract the events http layer calls
type ServicePort interface {
	Scan(ctx context.Context, in ScanInput) (*events.Result, error)
}
