package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/emergency_dispatch/internal/geo"
)

// IncidentStatus - статус жизненного цикла инцидента
type IncidentStatus string

const (
	StatusPending    IncidentStatus = "pending"
	StatusAssigned   IncidentStatus = "assigned"
	StatusEnRoute    IncidentStatus = "en_route"
	StatusArrived    IncidentStatus = "arrived"
	StatusAtHospital IncidentStatus = "at_hospital"
	StatusCompleted  IncidentStatus = "completed"
	StatusCancelled  IncidentStatus = "cancelled"
)

// AllStatuses перечисляет статусы в порядке прохождения графа
var AllStatuses = []IncidentStatus{
	StatusPending,
	StatusAssigned,
	StatusEnRoute,
	StatusArrived,
	StatusAtHospital,
	StatusCompleted,
	StatusCancelled,
}

// IsTerminal сообщает, что инцидент закрыт и больше не меняется
func (s IncidentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// HasResource сообщает, что в этом статусе за инцидентом обязательно закреплена машина
func (s IncidentStatus) HasResource() bool {
	switch s {
	case StatusAssigned, StatusEnRoute, StatusArrived, StatusAtHospital:
		return true
	}
	return false
}

// Valid проверяет, что статус входит в перечисление
func (s IncidentStatus) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Incident - одно экстренное обращение от создания до закрытия
type Incident struct {
	ID                    uuid.UUID      `json:"id"`
	ReporterID            string         `json:"reporter_id"`
	Location              geo.Point      `json:"location"`
	Category              string         `json:"category"`
	Severity              string         `json:"severity"`
	Description           string         `json:"description"`
	Status                IncidentStatus `json:"status"`
	AssignedResourceID    *uuid.UUID     `json:"assigned_resource_id,omitempty"`
	DestinationFacilityID *uuid.UUID     `json:"destination_facility_id,omitempty"`
	Version               int            `json:"version"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
	ResolvedAt            *time.Time     `json:"resolved_at,omitempty"`
}

// IncidentFilter - параметры выборки списка инцидентов
type IncidentFilter struct {
	Status     IncidentStatus
	ReporterID string
	Page       int
	PageSize   int
}

// PendingCursor - позиция постраничного обхода ожидающих инцидентов.
// Нулевое значение означает начало списка.
type PendingCursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// After возвращает курсор, указывающий за инцидент
func (c PendingCursor) After(incident *Incident) PendingCursor {
	return PendingCursor{CreatedAt: incident.CreatedAt, ID: incident.ID}
}

// IsZero сообщает, что обход начинается с самого старого инцидента
func (c PendingCursor) IsZero() bool {
	return c.CreatedAt.IsZero() && c.ID == uuid.Nil
}
