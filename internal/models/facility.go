package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/emergency_dispatch/internal/geo"
)

// Facility - больница, куда доставляют пациента. Ядро её только читает.
type Facility struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Location  geo.Point `json:"location"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
