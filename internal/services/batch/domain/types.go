// Package domain defines the batch orchestrator types and ports
package domain

import (
	"astrograph/internal/core/ephem"
	events "astrograph/internal/services/events/domain"
)

// Request asks for one scan per month key, fanned out over a worker pool.
// Month keys use the "2006-01" form and are interpreted in the request
// timezone, so a unit spans exactly the civil month at the given location
type Request struct {
	Months   []string        `json:"months"`
	Bodies   []ephem.Body    `json:"bodies,omitempty"`
	Location events.Location `json:"location"`
	Mode     ephem.Mode      `json:"mode"`

	// Concurrency caps parallel units; <=0 uses the service default
	Concurrency int `json:"concurrency,omitempty"`
}

// UnitResult is the outcome of one month unit. OK means the unit's scan ran
// clean; a degraded scan reports OK false with Error set while Data keeps
// the partial results the provider-free classifiers still produced
type UnitResult struct {
	OK    bool           `json:"ok"`
	Data  *events.Result `json:"data,omitempty"`
	Error string         `json:"error,omitempty"`
}

// Result reports a completed batch. Units always holds one entry per
// requested month, including months that failed or were canceled
type Result struct {
	JobID string                `json:"job_id"`
	Units map[string]UnitResult `json:"units"`
}
