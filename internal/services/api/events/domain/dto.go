// Package domain holds DTOs for the events http and service contracts
package domain

// Times are RFC3339; durations use Go duration syntax ("6h", "90s")

// LocationInput is the observer position and civil timezone
type LocationInput struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90" example:"51.4779"`
	Lon float64 `json:"lon" validate:"min=-180,max=180" example:"-0.0015"`
	TZ  string  `json:"tz,omitempty" validate:"omitempty,timezone" example:"Europe/London"`
}

// ScanInput describes one event scan request
type ScanInput struct {
	Bodies   []string      `json:"bodies,omitempty" validate:"omitempty,unique,dive,oneof=sun moon mercury venus mars jupiter saturn"`
	Location LocationInput `json:"location"`
	Mode     string        `json:"mode,omitempty" validate:"omitempty,oneof=tropical lahiri fagan_bradley" example:"tropical"`
	Start    string        `json:"start" validate:"required,datetime=2006-01-02T15:04:05Z07:00" example:"2026-01-01T00:00:00Z"`
	End      string        `json:"end" validate:"required,datetime=2006-01-02T15:04:05Z07:00" example:"2026-02-01T00:00:00Z"`

	// optional precision overrides
	Step      string `json:"step,omitempty" validate:"omitempty,max=32" example:"6h"`
	Tolerance string `json:"tolerance,omitempty" validate:"omitempty,max=32" example:"1m"`
}
