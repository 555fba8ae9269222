package domain

import (
	"context"

	batch "astrograph/internal/services/batch/domain"
)

// ServicePort is the contract the batch http layer calls
type ServicePort interface {
	Run(ctx context.Context, in RunInput) (*batch.Result, error)
}
