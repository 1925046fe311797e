package service

//go:generate mockgen -source=repository.go -destination=mocks/mock_repository.go -package=mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/emergency_dispatch/internal/geo"
	"github.com/shenikar/emergency_dispatch/internal/models"
)

// IncidentRepository определяет контракт для работы с бд инцидентов
type IncidentRepository interface {
	CreateIncident(ctx context.Context, incident *models.Incident) error
	GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	ListIncidents(ctx context.Context, filter models.IncidentFilter) ([]*models.Incident, error)
	// ListPendingIncidents возвращает страницу ожидающих назначения инцидентов строго после курсора,
	// самые старые первыми
	ListPendingIncidents(ctx context.Context, after models.PendingCursor, limit int) ([]*models.Incident, error)
}

// ResourceRepository определяет контракт для работы с машинами
type ResourceRepository interface {
	CreateResource(ctx context.Context, resource *models.Resource) error
	GetResource(ctx context.Context, id uuid.UUID) (*models.Resource, error)
	ListResources(ctx context.Context, availableOnly bool, category string) ([]*models.Resource, error)
	// SetResourceAvailability возвращает ErrConflict, если у машины есть активное назначение
	SetResourceAvailability(ctx context.Context, id uuid.UUID, available bool, at time.Time) (*models.Resource, error)
	UpdateResourceLocation(ctx context.Context, id uuid.UUID, point geo.Point, at time.Time) (*models.Resource, error)
}

// AssignmentRepository определяет контракт для работы с назначениями
type AssignmentRepository interface {
	GetAssignment(ctx context.Context, id uuid.UUID) (*models.Assignment, error)
	// GetActiveAssignment возвращает ErrNotFound, если активного назначения нет
	GetActiveAssignment(ctx context.Context, incidentID uuid.UUID) (*models.Assignment, error)
	ListAssignmentsByIncident(ctx context.Context, incidentID uuid.UUID) ([]*models.Assignment, error)
	// AcceptAssignment переводит pending -> accepted, иначе ErrConflict
	AcceptAssignment(ctx context.Context, id uuid.UUID, etaSeconds *int, at time.Time) (*models.Assignment, error)
}

// FacilityRepository - справочник больниц, только чтение плюс начальная регистрация
type FacilityRepository interface {
	CreateFacility(ctx context.Context, facility *models.Facility) error
	GetFacility(ctx context.Context, id uuid.UUID) (*models.Facility, error)
	ListFacilities(ctx context.Context) ([]*models.Facility, error)
}

// DispatchRepository - всё хранилище ядра
type DispatchRepository interface {
	IncidentRepository
	ResourceRepository
	AssignmentRepository
	FacilityRepository

	// ApplyTransition атомарно применяет переход: статус инцидента (compare-and-swap по
	// статусу и версии), назначение и доступность машины. При любой ошибке ничего не меняется.
	// Проигранный CAS - ErrConflict, занятая машина - ErrResourceUnavailable.
	ApplyTransition(ctx context.Context, change *models.TransitionChange) (*models.Incident, error)
}

// IncidentCache - кэш карточек инцидентов. Промах возвращает nil, nil.
type IncidentCache interface {
	GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	SetIncident(ctx context.Context, incident *models.Incident) error
	InvalidateIncident(ctx context.Context, id uuid.UUID) error
}

// EventPublisher принимает события для рассылки наблюдателям
type EventPublisher interface {
	Publish(ctx context.Context, ev models.Event) error
}
