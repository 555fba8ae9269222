// Package domain holds DTOs for the batch http and service contracts
package domain

import events "astrograph/internal/services/api/events/domain"

// RunInput asks for one scan per month key
type RunInput struct {
	Months   []string             `json:"months" validate:"required,min=1,unique,dive,month_key" example:"2026-01"`
	Bodies   []string             `json:"bodies,omitempty" validate:"omitempty,unique,dive,oneof=sun moon mercury venus mars jupiter saturn"`
	Location events.LocationInput `json:"location"`
	Mode     string               `json:"mode,omitempty" validate:"omitempty,oneof=tropical lahiri fagan_bradley" example:"tropical"`

	// Concurrency caps parallel months; 0 uses the server default
	Concurrency int `json:"concurrency,omitempty" validate:"omitempty,min=1,max=32" example:"4"`
}
