package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shenikar/emergency_dispatch/internal/lock"
	"github.com/shenikar/emergency_dispatch/internal/metrics"
	"github.com/shenikar/emergency_dispatch/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	transitionResultApplied  = "applied"
	transitionResultRejected = "rejected"
	transitionResultFailed   = "failed"
)

// Transition переводит инцидент в целевой статус.
// Переходы одного инцидента сериализуются блокировкой; проигравший получает ErrConflict.
func (s *dispatchService) Transition(ctx context.Context, req TransitionRequest) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "dispatch",
		"method":      "Transition",
		"incident_id": req.IncidentID,
		"target":      req.Target,
		"actor_id":    req.Actor.ID,
		"actor_role":  req.Actor.Role,
	})

	if !req.Target.Valid() {
		return nil, fmt.Errorf("service: unknown status %q: %w", req.Target, ErrInvalidInput)
	}
	if !req.Actor.Role.Valid() || req.Actor.ID == "" {
		return nil, fmt.Errorf("service: actor is not identified: %w", ErrUnauthorized)
	}

	release, err := s.lockIncident(ctx, req.IncidentID)
	if err != nil {
		log.WithError(err).Warn("Incident is locked by another transition")
		return nil, err
	}

	updated, from, err := s.applyLocked(ctx, req, log)
	s.unlock(ctx, release, req.IncidentID)
	if err != nil {
		metrics.TransitionsTotal.WithLabelValues(string(from), string(req.Target), resultLabel(err)).Inc()
		return nil, err
	}
	metrics.TransitionsTotal.WithLabelValues(string(from), string(req.Target), transitionResultApplied).Inc()
	log.WithField("from", from).Info("Incident transition applied")

	if from == models.StatusAssigned && req.Target == models.StatusPending && s.cfg.AutoDispatch {
		if redispatched := s.redispatch(ctx, updated.ID, log); redispatched != nil {
			return redispatched, nil
		}
	}
	return updated, nil
}

// applyLocked выполняется под блокировкой инцидента
func (s *dispatchService) applyLocked(ctx context.Context, req TransitionRequest, log *logrus.Entry) (*models.Incident, models.IncidentStatus, error) {
	incident, err := s.repo.GetIncident(ctx, req.IncidentID)
	if err != nil {
		return nil, "", fmt.Errorf("service: could not get incident: %w", err)
	}
	from := incident.Status

	if !models.CanTransition(from, req.Target) {
		log.WithField("from", from).Warn("Illegal transition rejected")
		return nil, from, fmt.Errorf("service: %s -> %s: %w", from, req.Target, ErrIllegalTransition)
	}

	if err := s.authorize(ctx, req.Actor, incident, req.Target); err != nil {
		log.WithError(err).Warn("Transition not permitted for actor")
		return nil, from, err
	}

	change, err := s.buildChange(ctx, incident, req)
	if err != nil {
		return nil, from, err
	}

	updated, err := s.repo.ApplyTransition(ctx, change)
	if err != nil {
		log.WithError(err).Warn("Failed to apply transition in repository")
		return nil, from, fmt.Errorf("service: could not apply transition: %w", err)
	}

	s.afterCommit(ctx, updated, change)
	return updated, from, nil
}

// authorize проверяет роль по политикам и принадлежность инцидента участнику
func (s *dispatchService) authorize(ctx context.Context, actor models.Actor, incident *models.Incident, target models.IncidentStatus) error {
	ok, err := s.authz.Allowed(actor.Role, incident.Status, target)
	if err != nil {
		return fmt.Errorf("service: %w", err)
	}
	if !ok {
		return fmt.Errorf("service: role %s may not move %s -> %s: %w", actor.Role, incident.Status, target, ErrUnauthorized)
	}

	switch actor.Role {
	case models.RoleReporter:
		if incident.ReporterID != actor.ID {
			return fmt.Errorf("service: incident belongs to another reporter: %w", ErrUnauthorized)
		}
	case models.RoleResourceOperator:
		if incident.AssignedResourceID == nil {
			return fmt.Errorf("service: incident has no assigned resource: %w", ErrUnauthorized)
		}
		return s.authorizeOperator(ctx, actor, *incident.AssignedResourceID)
	}
	return nil
}

// authorizeOperator проверяет, что участник - экипаж указанной машины
func (s *dispatchService) authorizeOperator(ctx context.Context, actor models.Actor, resourceID uuid.UUID) error {
	if actor.Role != models.RoleResourceOperator {
		return fmt.Errorf("service: role %s is not a resource operator: %w", actor.Role, ErrUnauthorized)
	}
	resource, err := s.repo.GetResource(ctx, resourceID)
	if err != nil {
		return fmt.Errorf("service: could not get resource: %w", err)
	}
	if resource.OperatorID != actor.ID {
		return fmt.Errorf("service: actor does not operate resource %s: %w", resourceID, ErrUnauthorized)
	}
	return nil
}

// buildChange собирает все побочные эффекты перехода в одно изменение
func (s *dispatchService) buildChange(ctx context.Context, incident *models.Incident, req TransitionRequest) (*models.TransitionChange, error) {
	now := s.now()
	change := &models.TransitionChange{
		IncidentID:            incident.ID,
		FromStatus:            incident.Status,
		ToStatus:              req.Target,
		ExpectedVersion:       incident.Version,
		At:                    now,
		AssignedResourceID:    incident.AssignedResourceID,
		DestinationFacilityID: incident.DestinationFacilityID,
	}

	switch req.Target {
	case models.StatusAssigned:
		resourceID, err := s.pickResource(ctx, incident, req)
		if err != nil {
			return nil, err
		}
		change.AssignedResourceID = &resourceID
		change.NewAssignment = &models.Assignment{
			ID:         uuid.New(),
			IncidentID: incident.ID,
			ResourceID: resourceID,
			Outcome:    models.OutcomePending,
			AssignedAt: now,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

	case models.StatusPending:
		active, err := s.activeAssignment(ctx, incident.ID)
		if err != nil {
			return nil, err
		}
		change.AssignedResourceID = nil
		change.DestinationFacilityID = nil
		if active != nil {
			change.AssignmentUpdate = &models.AssignmentUpdate{ID: active.ID, Outcome: models.OutcomeDeclined}
			change.ReleaseResourceID = &active.ResourceID
		}

	case models.StatusEnRoute:
		active, err := s.activeAssignment(ctx, incident.ID)
		if err != nil {
			return nil, err
		}
		if active != nil && active.Outcome == models.OutcomePending {
			change.AssignmentUpdate = &models.AssignmentUpdate{ID: active.ID, Outcome: models.OutcomeAccepted}
		}

	case models.StatusAtHospital:
		facilityID, err := s.pickFacility(ctx, incident, req.FacilityID)
		if err != nil {
			return nil, err
		}
		change.DestinationFacilityID = &facilityID

	case models.StatusCompleted, models.StatusCancelled:
		active, err := s.activeAssignment(ctx, incident.ID)
		if err != nil {
			return nil, err
		}
		change.AssignedResourceID = nil
		change.ResolvedAt = &now
		if active != nil {
			change.AssignmentUpdate = &models.AssignmentUpdate{ID: active.ID, Outcome: models.OutcomeReleased}
			change.ReleaseResourceID = &active.ResourceID
		}
	}

	return change, nil
}

// pickResource берет машину из запроса или ищет ближайшую, пропуская отказавшиеся
func (s *dispatchService) pickResource(ctx context.Context, incident *models.Incident, req TransitionRequest) (uuid.UUID, error) {
	if req.ResourceID != nil {
		resource, err := s.repo.GetResource(ctx, *req.ResourceID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("service: could not get resource: %w", err)
		}
		if !resource.IsAvailable {
			return uuid.Nil, fmt.Errorf("service: resource %s: %w", resource.ID, ErrResourceUnavailable)
		}
		return resource.ID, nil
	}

	history, err := s.repo.ListAssignmentsByIncident(ctx, incident.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("service: could not list assignments: %w", err)
	}
	var exclude []uuid.UUID
	for _, a := range history {
		if a.Outcome == models.OutcomeDeclined {
			exclude = append(exclude, a.ResourceID)
		}
	}

	match, err := s.matcher.FindNearest(ctx, MatchQuery{
		Point:    incident.Location,
		RadiusKm: s.cfg.MatchRadiusKm,
		Category: req.Category,
		Exclude:  exclude,
	})
	if err != nil {
		return uuid.Nil, err
	}
	return match.ResourceID, nil
}

// pickFacility: явная больница, затем уже выбранная, затем ближайшая к месту вызова
func (s *dispatchService) pickFacility(ctx context.Context, incident *models.Incident, requested *uuid.UUID) (uuid.UUID, error) {
	if requested != nil {
		facility, err := s.facilities.GetFacility(ctx, *requested)
		if err != nil {
			return uuid.Nil, err
		}
		return facility.ID, nil
	}
	if incident.DestinationFacilityID != nil {
		return *incident.DestinationFacilityID, nil
	}
	facility, err := s.facilities.NearestFacility(ctx, incident.Location)
	if err != nil {
		return uuid.Nil, err
	}
	return facility.ID, nil
}

func (s *dispatchService) activeAssignment(ctx context.Context, incidentID uuid.UUID) (*models.Assignment, error) {
	active, err := s.repo.GetActiveAssignment(ctx, incidentID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("service: could not get active assignment: %w", err)
	}
	return active, nil
}

// afterCommit сбрасывает кэш и рассылает события о применённом переходе
func (s *dispatchService) afterCommit(ctx context.Context, incident *models.Incident, change *models.TransitionChange) {
	if s.cache != nil {
		// запись новой версии не даёт параллельному GetIncident вернуть в кэш прочитанную до коммита
		if err := s.cache.SetIncident(ctx, incident); err != nil {
			log := s.logger.WithField("incident_id", incident.ID)
			log.WithError(err).Warn("Failed to refresh incident cache")
			if err := s.cache.InvalidateIncident(ctx, incident.ID); err != nil {
				log.WithError(err).Warn("Failed to invalidate incident cache")
			}
		}
	}

	var related []uuid.UUID
	if incident.AssignedResourceID != nil {
		related = append(related, *incident.AssignedResourceID)
	}
	if change.ReleaseResourceID != nil {
		related = append(related, *change.ReleaseResourceID)
	}
	publishEvent(ctx, s.publisher, s.logger, models.EntityIncidents, models.OperationUpdate, incident.ID, incident, related...)

	if change.NewAssignment != nil {
		a := change.NewAssignment
		publishEvent(ctx, s.publisher, s.logger, models.EntityAssignments, models.OperationInsert, a.ID, a, a.IncidentID, a.ResourceID)
		s.publishResource(ctx, a.ResourceID)
	}
	if change.AssignmentUpdate != nil {
		if a, err := s.repo.GetAssignment(ctx, change.AssignmentUpdate.ID); err == nil {
			publishEvent(ctx, s.publisher, s.logger, models.EntityAssignments, models.OperationUpdate, a.ID, a, a.IncidentID, a.ResourceID)
		}
	}
	if change.ReleaseResourceID != nil {
		s.publishResource(ctx, *change.ReleaseResourceID)
	}
}

func (s *dispatchService) publishResource(ctx context.Context, id uuid.UUID) {
	resource, err := s.repo.GetResource(ctx, id)
	if err != nil {
		s.logger.WithField("resource_id", id).WithError(err).Warn("Failed to load resource for event")
		return
	}
	publishEvent(ctx, s.publisher, s.logger, models.EntityResources, models.OperationUpdate, resource.ID, resource)
}

// redispatch ищет новую машину после отказа; nil - инцидент остался в pending
func (s *dispatchService) redispatch(ctx context.Context, incidentID uuid.UUID, log *logrus.Entry) *models.Incident {
	updated, err := s.Dispatch(ctx, incidentID, models.SystemActor)
	switch {
	case err == nil:
		return updated
	case errors.Is(err, ErrNoResourceFound):
		log.Info("No other resource available after decline, incident stays pending")
	default:
		log.WithError(err).Warn("Redispatch after decline failed")
	}
	return nil
}

func (s *dispatchService) lockIncident(ctx context.Context, id uuid.UUID) (lock.ReleaseFunc, error) {
	release, ok, err := s.locker.TryLock(ctx, "incident:"+id.String(), s.cfg.LockTTL)
	if err != nil {
		return nil, fmt.Errorf("service: could not lock incident: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("service: incident %s is being modified: %w", id, ErrConflict)
	}
	return release, nil
}

func (s *dispatchService) unlock(ctx context.Context, release lock.ReleaseFunc, id uuid.UUID) {
	if err := release(context.WithoutCancel(ctx)); err != nil {
		s.logger.WithField("incident_id", id).WithError(err).Warn("Failed to release incident lock")
	}
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, ErrIllegalTransition), errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrConflict), errors.Is(err, ErrNoResourceFound),
		errors.Is(err, ErrResourceUnavailable):
		return transitionResultRejected
	}
	return transitionResultFailed
}
