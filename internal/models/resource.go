package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/emergency_dispatch/internal/geo"
)

// Resource - машина скорой помощи (или другая выездная единица)
type Resource struct {
	ID                uuid.UUID  `json:"id"`
	Tag               string     `json:"tag"`
	Category          string     `json:"category"`
	OperatorID        string     `json:"operator_id"`
	IsAvailable       bool       `json:"is_available"`
	Location          *geo.Point `json:"location,omitempty"`
	FacilityID        *uuid.UUID `json:"facility_id,omitempty"`
	LocationUpdatedAt *time.Time `json:"location_updated_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
