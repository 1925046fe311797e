package service

//go:generate mockgen -source=registry.go -destination=mocks/mock_registry.go -package=mocks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/emergency_dispatch/internal/geo"
	"github.com/shenikar/emergency_dispatch/internal/models"
	"github.com/sirupsen/logrus"
)

// ResourceRegistry определяет контракт реестра машин
type ResourceRegistry interface {
	RegisterResource(ctx context.Context, resource *models.Resource) error
	GetResource(ctx context.Context, id uuid.UUID) (*models.Resource, error)
	ListResources(ctx context.Context, availableOnly bool, category string) ([]*models.Resource, error)
	ListAvailable(ctx context.Context, category string) ([]*models.Resource, error)
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) (*models.Resource, error)
	UpdateLocation(ctx context.Context, id uuid.UUID, point geo.Point) (*models.Resource, error)
}

type resourceRegistry struct {
	repo      ResourceRepository
	publisher EventPublisher
	logger    *logrus.Logger
	now       func() time.Time
}

func NewResourceRegistry(repo ResourceRepository, publisher EventPublisher, logger *logrus.Logger) ResourceRegistry {
	return &resourceRegistry{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// RegisterResource добавляет машину в реестр
func (r *resourceRegistry) RegisterResource(ctx context.Context, resource *models.Resource) error {
	log := r.logger.WithFields(logrus.Fields{
		"service": "registry",
		"method":  "RegisterResource",
		"tag":     resource.Tag,
	})

	resource.Tag = strings.TrimSpace(resource.Tag)
	if resource.Tag == "" || resource.OperatorID == "" {
		return fmt.Errorf("service: resource tag and operator are required: %w", ErrInvalidInput)
	}
	if resource.Location != nil {
		if err := resource.Location.Validate(); err != nil {
			return fmt.Errorf("service: %v: %w", err, ErrInvalidInput)
		}
	}
	if resource.ID == uuid.Nil {
		resource.ID = uuid.New()
	}

	if err := r.repo.CreateResource(ctx, resource); err != nil {
		log.WithError(err).Error("Failed to create resource in repository")
		return fmt.Errorf("service: could not register resource: %w", err)
	}

	r.publish(ctx, models.OperationInsert, resource)
	log.WithField("resource_id", resource.ID).Info("Resource registered successfully")
	return nil
}

// GetResource возвращает машину по ID
func (r *resourceRegistry) GetResource(ctx context.Context, id uuid.UUID) (*models.Resource, error) {
	resource, err := r.repo.GetResource(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not get resource: %w", err)
	}
	return resource, nil
}

// ListResources возвращает машины, опционально только свободные и одной категории
func (r *resourceRegistry) ListResources(ctx context.Context, availableOnly bool, category string) ([]*models.Resource, error) {
	resources, err := r.repo.ListResources(ctx, availableOnly, category)
	if err != nil {
		return nil, fmt.Errorf("service: could not list resources: %w", err)
	}
	return resources, nil
}

// ListAvailable возвращает свободные машины; пустая категория - любые
func (r *resourceRegistry) ListAvailable(ctx context.Context, category string) ([]*models.Resource, error) {
	return r.ListResources(ctx, true, category)
}

// SetAvailability выводит машину на линию или снимает с неё.
// Машину с активным назначением хранилище не даст изменить (ErrConflict):
// её доступностью управляет только переход инцидента.
func (r *resourceRegistry) SetAvailability(ctx context.Context, id uuid.UUID, available bool) (*models.Resource, error) {
	log := r.logger.WithFields(logrus.Fields{
		"service":     "registry",
		"method":      "SetAvailability",
		"resource_id": id,
		"available":   available,
	})

	resource, err := r.repo.SetResourceAvailability(ctx, id, available, r.now())
	if err != nil {
		log.WithError(err).Warn("Failed to change resource availability")
		return nil, fmt.Errorf("service: could not set availability: %w", err)
	}

	r.publish(ctx, models.OperationUpdate, resource)
	log.Info("Resource availability changed")
	return resource, nil
}

// UpdateLocation перезаписывает последнюю известную позицию машины
func (r *resourceRegistry) UpdateLocation(ctx context.Context, id uuid.UUID, point geo.Point) (*models.Resource, error) {
	if err := point.Validate(); err != nil {
		return nil, fmt.Errorf("service: %v: %w", err, ErrInvalidInput)
	}

	resource, err := r.repo.UpdateResourceLocation(ctx, id, point, r.now())
	if err != nil {
		r.logger.WithFields(logrus.Fields{
			"service":     "registry",
			"method":      "UpdateLocation",
			"resource_id": id,
		}).WithError(err).Error("Failed to update resource location")
		return nil, fmt.Errorf("service: could not update location: %w", err)
	}

	r.publish(ctx, models.OperationUpdate, resource)
	return resource, nil
}

func (r *resourceRegistry) publish(ctx context.Context, op models.Operation, resource *models.Resource) {
	publishEvent(ctx, r.publisher, r.logger, models.EntityResources, op, resource.ID, resource)
}

// publishEvent отправляет событие; ошибка рассылки не откатывает уже применённое изменение
func publishEvent(ctx context.Context, publisher EventPublisher, logger *logrus.Logger, entity models.Entity, op models.Operation, id uuid.UUID, state any, related ...uuid.UUID) {
	if publisher == nil {
		return
	}
	log := logger.WithFields(logrus.Fields{
		"entity":    entity,
		"operation": op,
		"entity_id": id,
	})

	ev, err := models.NewEvent(entity, op, id, state, related...)
	if err != nil {
		log.WithError(err).Error("Failed to build event")
		return
	}
	if err := publisher.Publish(ctx, ev); err != nil {
		log.WithError(err).Warn("Failed to publish event")
	}
}
