package service

//go:generate mockgen -source=dispatch.go -destination=mocks/mock_dispatch.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/emergency_dispatch/internal/config"
	"github.com/shenikar/emergency_dispatch/internal/lock"
	"github.com/shenikar/emergency_dispatch/internal/models"
	"github.com/sirupsen/logrus"
)

// Decision - ответ экипажа на назначение
type Decision string

const (
	DecisionAccept  Decision = "accept"
	DecisionDecline Decision = "decline"
)

// TransitionRequest - запрос на смену статуса инцидента
type TransitionRequest struct {
	IncidentID uuid.UUID
	Target     models.IncidentStatus
	Actor      models.Actor
	// ResourceID задаёт машину вручную при переходе в assigned; без него работает матчер
	ResourceID *uuid.UUID
	// FacilityID задаёт больницу при переходе в at_hospital
	FacilityID *uuid.UUID
	// Category ограничивает поиск машин одной категорией
	Category string
}

// DispatchService определяет контракт ядра диспетчеризации
type DispatchService interface {
	CreateIncident(ctx context.Context, incident *models.Incident) error
	GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	ListIncidents(ctx context.Context, filter models.IncidentFilter) ([]*models.Incident, error)
	Transition(ctx context.Context, req TransitionRequest) (*models.Incident, error)
	Dispatch(ctx context.Context, incidentID uuid.UUID, actor models.Actor) (*models.Incident, error)
	RespondToAssignment(ctx context.Context, assignmentID uuid.UUID, decision Decision, etaSeconds *int, actor models.Actor) (*models.Assignment, error)
	GetAssignment(ctx context.Context, id uuid.UUID) (*models.Assignment, error)
}

// DispatchDeps - зависимости сервиса диспетчеризации
type DispatchDeps struct {
	Repo       DispatchRepository
	Matcher    Matcher
	Facilities FacilityDirectory
	Authorizer *TransitionAuthorizer
	Locker     lock.Locker
	Publisher  EventPublisher
	// Cache может быть nil
	Cache  IncidentCache
	Logger *logrus.Logger
	Config *config.Config
}

type dispatchService struct {
	repo       DispatchRepository
	matcher    Matcher
	facilities FacilityDirectory
	authz      *TransitionAuthorizer
	locker     lock.Locker
	publisher  EventPublisher
	cache      IncidentCache
	logger     *logrus.Logger
	cfg        *config.Config
	now        func() time.Time
}

func NewDispatchService(deps DispatchDeps) DispatchService {
	return &dispatchService{
		repo:       deps.Repo,
		matcher:    deps.Matcher,
		facilities: deps.Facilities,
		authz:      deps.Authorizer,
		locker:     deps.Locker,
		publisher:  deps.Publisher,
		cache:      deps.Cache,
		logger:     deps.Logger,
		cfg:        deps.Config,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// CreateIncident создает инцидент в статусе pending и, если включено, сразу ищет машину.
// Отсутствие свободной машины не ошибка: инцидент остаётся pending до следующей попытки.
func (s *dispatchService) CreateIncident(ctx context.Context, incident *models.Incident) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "dispatch",
		"method":      "CreateIncident",
		"reporter_id": incident.ReporterID,
	})
	log.Info("Attempting to create a new incident")

	if strings.TrimSpace(incident.ReporterID) == "" {
		return fmt.Errorf("service: reporter is required: %w", ErrInvalidInput)
	}
	if err := incident.Location.Validate(); err != nil {
		return fmt.Errorf("service: %v: %w", err, ErrInvalidInput)
	}

	now := s.now()
	if incident.ID == uuid.Nil {
		incident.ID = uuid.New()
	}
	incident.Status = models.StatusPending
	incident.AssignedResourceID = nil
	incident.DestinationFacilityID = nil
	incident.ResolvedAt = nil
	incident.Version = 0
	incident.CreatedAt = now
	incident.UpdatedAt = now

	if err := s.repo.CreateIncident(ctx, incident); err != nil {
		log.WithError(err).Error("Failed to create incident in repository")
		return fmt.Errorf("service: could not create incident: %w", err)
	}
	log = log.WithField("incident_id", incident.ID)
	log.Info("Incident created successfully")

	publishEvent(ctx, s.publisher, s.logger, models.EntityIncidents, models.OperationInsert, incident.ID, incident)

	if !s.cfg.AutoDispatch {
		return nil
	}

	updated, err := s.Dispatch(ctx, incident.ID, models.SystemActor)
	switch {
	case err == nil:
		*incident = *updated
	case errors.Is(err, ErrNoResourceFound):
		log.Info("No resource available yet, incident stays pending")
	default:
		// инцидент уже сохранён, повторную попытку сделает планировщик
		log.WithError(err).Error("Automatic dispatch failed")
	}
	return nil
}

// GetIncident получает инцидент по ID, сначала из кэша
func (s *dispatchService) GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "dispatch",
		"method":      "GetIncident",
		"incident_id": id,
	})

	if s.cache != nil {
		cached, err := s.cache.GetIncident(ctx, id)
		if err != nil {
			log.WithError(err).Warn("Failed to read incident cache")
		} else if cached != nil {
			return cached, nil
		}
	}

	incident, err := s.repo.GetIncident(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to get incident in repository")
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetIncident(ctx, incident); err != nil {
			log.WithError(err).Warn("Failed to cache incident")
		}
	}
	return incident, nil
}

// ListIncidents возвращает список инцидентов с пагинацией
func (s *dispatchService) ListIncidents(ctx context.Context, filter models.IncidentFilter) ([]*models.Incident, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("service: unknown status %q: %w", filter.Status, ErrInvalidInput)
	}

	log := s.logger.WithFields(logrus.Fields{
		"service":   "dispatch",
		"method":    "ListIncidents",
		"page":      filter.Page,
		"page_size": filter.PageSize,
	})

	incidents, err := s.repo.ListIncidents(ctx, filter)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from repository")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}

	log.WithField("count", len(incidents)).Debug("Incidents listed successfully")
	return incidents, nil
}

// Dispatch ищет ближайшую свободную машину и назначает её на инцидент
func (s *dispatchService) Dispatch(ctx context.Context, incidentID uuid.UUID, actor models.Actor) (*models.Incident, error) {
	return s.Transition(ctx, TransitionRequest{
		IncidentID: incidentID,
		Target:     models.StatusAssigned,
		Actor:      actor,
	})
}

// GetAssignment возвращает назначение по ID
func (s *dispatchService) GetAssignment(ctx context.Context, id uuid.UUID) (*models.Assignment, error) {
	assignment, err := s.repo.GetAssignment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not get assignment: %w", err)
	}
	return assignment, nil
}

// RespondToAssignment принимает ответ экипажа. Отказ возвращает инцидент в pending
// и запускает новый поиск без отказавшейся машины.
func (s *dispatchService) RespondToAssignment(ctx context.Context, assignmentID uuid.UUID, decision Decision, etaSeconds *int, actor models.Actor) (*models.Assignment, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":       "dispatch",
		"method":        "RespondToAssignment",
		"assignment_id": assignmentID,
		"decision":      decision,
		"actor_id":      actor.ID,
	})

	if decision != DecisionAccept && decision != DecisionDecline {
		return nil, fmt.Errorf("service: unknown decision %q: %w", decision, ErrInvalidInput)
	}
	if etaSeconds != nil && *etaSeconds < 0 {
		return nil, fmt.Errorf("service: eta must not be negative: %w", ErrInvalidInput)
	}

	assignment, err := s.repo.GetAssignment(ctx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("service: could not get assignment: %w", err)
	}
	if assignment.Outcome != models.OutcomePending {
		log.WithField("outcome", assignment.Outcome).Warn("Assignment already answered")
		return nil, fmt.Errorf("service: assignment is %s: %w", assignment.Outcome, ErrIllegalTransition)
	}
	if err := s.authorizeOperator(ctx, actor, assignment.ResourceID); err != nil {
		log.WithError(err).Warn("Actor is not the operator of the assigned resource")
		return nil, err
	}

	if decision == DecisionDecline {
		if _, err := s.Transition(ctx, TransitionRequest{
			IncidentID: assignment.IncidentID,
			Target:     models.StatusPending,
			Actor:      actor,
		}); err != nil {
			return nil, err
		}
		return s.GetAssignment(ctx, assignmentID)
	}

	release, err := s.lockIncident(ctx, assignment.IncidentID)
	if err != nil {
		return nil, err
	}
	defer s.unlock(ctx, release, assignment.IncidentID)

	accepted, err := s.repo.AcceptAssignment(ctx, assignmentID, etaSeconds, s.now())
	if err != nil {
		log.WithError(err).Warn("Failed to accept assignment")
		return nil, fmt.Errorf("service: could not accept assignment: %w", err)
	}

	publishEvent(ctx, s.publisher, s.logger, models.EntityAssignments, models.OperationUpdate,
		accepted.ID, accepted, accepted.IncidentID, accepted.ResourceID)
	log.Info("Assignment accepted")
	return accepted, nil
}
