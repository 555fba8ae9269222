package domain

import "context"

// ScannerPort is consumed by the HTTP module and the batch orchestrator
type ScannerPort interface {
	Scan(ctx context.Context, req Request) (*Result, error)
}
