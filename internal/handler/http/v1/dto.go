package v1

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// LocationDTO - точка в ответах API
// @Description Точка WGS 84 в градусах
type LocationDTO struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CreateIncidentRequest DTO для создания инцидента.
// Location принимает {latitude,longitude}, {lat,lng}, GeoJSON Point или hex-строку EWKB.
// @Description DTO для создания инцидента
type CreateIncidentRequest struct {
	ReporterID  string          `json:"reporter_id,omitempty" validate:"omitempty,max=128"`
	Location    json.RawMessage `json:"location" validate:"required" swaggertype:"object"`
	Category    string          `json:"category,omitempty" validate:"omitempty,max=64"`
	Severity    string          `json:"severity,omitempty" validate:"omitempty,oneof=low medium high critical"`
	Description string          `json:"description,omitempty" validate:"max=2000"`
}

// IncidentResponse DTO для ответа с информацией об инциденте
// @Description DTO для ответа с информацией об инциденте
type IncidentResponse struct {
	ID                    uuid.UUID   `json:"id"`
	ReporterID            string      `json:"reporter_id"`
	Location              LocationDTO `json:"location"`
	Category              string      `json:"category,omitempty"`
	Severity              string      `json:"severity,omitempty"`
	Description           string      `json:"description,omitempty"`
	Status                string      `json:"status"`
	AssignedResourceID    *uuid.UUID  `json:"assigned_resource_id,omitempty"`
	DestinationFacilityID *uuid.UUID  `json:"destination_facility_id,omitempty"`
	Version               int         `json:"version"`
	CreatedAt             time.Time   `json:"created_at"`
	UpdatedAt             time.Time   `json:"updated_at"`
	ResolvedAt            *time.Time  `json:"resolved_at,omitempty"`
}

// TransitionRequest DTO для смены статуса инцидента
// @Description DTO для смены статуса инцидента
type TransitionRequest struct {
	Status     string     `json:"status" validate:"required,oneof=pending assigned en_route arrived at_hospital completed cancelled"`
	ResourceID *uuid.UUID `json:"resource_id,omitempty"`
	FacilityID *uuid.UUID `json:"facility_id,omitempty"`
	Category   string     `json:"category,omitempty" validate:"omitempty,max=64"`
}

// DispatchRequest DTO для ручного запуска назначения
// @Description DTO для ручного запуска назначения
type DispatchRequest struct {
	ResourceID *uuid.UUID `json:"resource_id,omitempty"`
	Category   string     `json:"category,omitempty" validate:"omitempty,max=64"`
}

// AssignmentResponseRequest DTO для ответа экипажа на назначение
// @Description DTO для ответа экипажа на назначение
type AssignmentResponseRequest struct {
	Decision   string `json:"decision" validate:"required,oneof=accept decline"`
	ETASeconds *int   `json:"eta_seconds,omitempty" validate:"omitempty,gte=0,lte=86400"`
}

// AssignmentResponse DTO для ответа с информацией о назначении
// @Description DTO для ответа с информацией о назначении
type AssignmentResponse struct {
	ID          uuid.UUID  `json:"id"`
	IncidentID  uuid.UUID  `json:"incident_id"`
	ResourceID  uuid.UUID  `json:"resource_id"`
	Outcome     string     `json:"outcome"`
	ETASeconds  *int       `json:"eta_seconds,omitempty"`
	AssignedAt  time.Time  `json:"assigned_at"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
	ClosedAt    *time.Time `json:"closed_at,omitempty"`
}

// CreateResourceRequest DTO для регистрации машины
// @Description DTO для регистрации машины
type CreateResourceRequest struct {
	Tag         string          `json:"tag" validate:"required,min=1,max=64"`
	Category    string          `json:"category,omitempty" validate:"omitempty,max=64"`
	OperatorID  string          `json:"operator_id" validate:"required,max=128"`
	IsAvailable bool            `json:"is_available"`
	Location    json.RawMessage `json:"location,omitempty" swaggertype:"object"`
	FacilityID  *uuid.UUID      `json:"facility_id,omitempty"`
}

// ResourceResponse DTO для ответа с информацией о машине
// @Description DTO для ответа с информацией о машине
type ResourceResponse struct {
	ID                uuid.UUID    `json:"id"`
	Tag               string       `json:"tag"`
	Category          string       `json:"category,omitempty"`
	OperatorID        string       `json:"operator_id"`
	IsAvailable       bool         `json:"is_available"`
	Location          *LocationDTO `json:"location,omitempty"`
	FacilityID        *uuid.UUID   `json:"facility_id,omitempty"`
	LocationUpdatedAt *time.Time   `json:"location_updated_at,omitempty"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// AvailabilityRequest DTO для вывода машины на линию и снятия с неё
// @Description DTO для смены доступности машины
type AvailabilityRequest struct {
	Available *bool `json:"available" validate:"required"`
}

// CreateFacilityRequest DTO для регистрации больницы
// @Description DTO для регистрации больницы
type CreateFacilityRequest struct {
	Name     string          `json:"name" validate:"required,max=256"`
	Location json.RawMessage `json:"location" validate:"required" swaggertype:"object"`
	Phone    string          `json:"phone,omitempty" validate:"max=64"`
	Address  string          `json:"address,omitempty" validate:"max=512"`
}

// FacilityResponse DTO для ответа с информацией о больнице
// @Description DTO для ответа с информацией о больнице
type FacilityResponse struct {
	ID       uuid.UUID   `json:"id"`
	Name     string      `json:"name"`
	Location LocationDTO `json:"location"`
	Phone    string      `json:"phone,omitempty"`
	Address  string      `json:"address,omitempty"`
}
