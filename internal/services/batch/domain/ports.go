package domain

import "context"

// RunnerPort executes a batch of month scans
type RunnerPort interface {
	// Run fans the request's months out over the worker pool and blocks
	// until every unit has an outcome
	Run(ctx context.Context, req Request) (*Result, error)
}
