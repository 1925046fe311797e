// Package memory - хранилище в памяти процесса с той же атомарностью переходов, что и PostgreSQL.
// Используется при STORAGE_DRIVER=memory и в тестах сервисов.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/emergency_dispatch/internal/geo"
	"github.com/shenikar/emergency_dispatch/internal/models"
	"github.com/shenikar/emergency_dispatch/internal/service"
)

type Store struct {
	mu          sync.RWMutex
	incidents   map[uuid.UUID]*models.Incident
	resources   map[uuid.UUID]*models.Resource
	assignments map[uuid.UUID]*models.Assignment
	facilities  map[uuid.UUID]*models.Facility
	now         func() time.Time
}

var _ service.DispatchRepository = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		incidents:   make(map[uuid.UUID]*models.Incident),
		resources:   make(map[uuid.UUID]*models.Resource),
		assignments: make(map[uuid.UUID]*models.Assignment),
		facilities:  make(map[uuid.UUID]*models.Facility),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// CreateIncident сохраняет новый инцидент
func (s *Store) CreateIncident(_ context.Context, incident *models.Incident) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.incidents[incident.ID]; exists {
		return fmt.Errorf("incident %s already exists: %w", incident.ID, service.ErrConflict)
	}
	if incident.CreatedAt.IsZero() {
		incident.CreatedAt = s.now()
	}
	if incident.UpdatedAt.IsZero() {
		incident.UpdatedAt = incident.CreatedAt
	}
	s.incidents[incident.ID] = cloneIncident(incident)
	return nil
}

func (s *Store) GetIncident(_ context.Context, id uuid.UUID) (*models.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	incident, ok := s.incidents[id]
	if !ok {
		return nil, fmt.Errorf("incident with id %s: %w", id, service.ErrNotFound)
	}
	return cloneIncident(incident), nil
}

// ListIncidents - новые первыми, как и в PostgreSQL
func (s *Store) ListIncidents(_ context.Context, filter models.IncidentFilter) ([]*models.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*models.Incident, 0)
	for _, incident := range s.incidents {
		if filter.Status != "" && incident.Status != filter.Status {
			continue
		}
		if filter.ReporterID != "" && incident.ReporterID != filter.ReporterID {
			continue
		}
		matched = append(matched, cloneIncident(incident))
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID.String() < matched[j].ID.String()
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	page, pageSize := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		return matched, nil
	}
	offset := (page - 1) * pageSize
	if offset >= len(matched) {
		return []*models.Incident{}, nil
	}
	end := offset + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

// ListPendingIncidents - самые старые первыми, строго после курсора
func (s *Store) ListPendingIncidents(_ context.Context, after models.PendingCursor, limit int) ([]*models.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pending := make([]*models.Incident, 0)
	for _, incident := range s.incidents {
		if incident.Status != models.StatusPending {
			continue
		}
		if !after.IsZero() && !pendingBefore(after.CreatedAt, after.ID, incident.CreatedAt, incident.ID) {
			continue
		}
		pending = append(pending, cloneIncident(incident))
	}
	sort.Slice(pending, func(i, j int) bool {
		return pendingBefore(pending[i].CreatedAt, pending[i].ID, pending[j].CreatedAt, pending[j].ID)
	})
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

// CreateResource регистрирует машину; позывной уникален
func (s *Store) CreateResource(_ context.Context, resource *models.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.resources {
		if existing.ID == resource.ID || existing.Tag == resource.Tag {
			return fmt.Errorf("resource %s already exists: %w", resource.Tag, service.ErrConflict)
		}
	}
	now := s.now()
	resource.CreatedAt, resource.UpdatedAt = now, now
	if resource.Location != nil && resource.LocationUpdatedAt == nil {
		resource.LocationUpdatedAt = &now
	}
	s.resources[resource.ID] = cloneResource(resource)
	return nil
}

func (s *Store) GetResource(_ context.Context, id uuid.UUID) (*models.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resource, ok := s.resources[id]
	if !ok {
		return nil, fmt.Errorf("resource with id %s: %w", id, service.ErrNotFound)
	}
	return cloneResource(resource), nil
}

func (s *Store) ListResources(_ context.Context, availableOnly bool, category string) ([]*models.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resources := make([]*models.Resource, 0, len(s.resources))
	for _, r := range s.resources {
		if availableOnly && !r.IsAvailable {
			continue
		}
		if category != "" && r.Category != category {
			continue
		}
		resources = append(resources, cloneResource(r))
	}
	sort.Slice(resources, func(i, j int) bool { return resources[i].Tag < resources[j].Tag })
	return resources, nil
}

// SetResourceAvailability отказывает, пока машина занята активным назначением
func (s *Store) SetResourceAvailability(_ context.Context, id uuid.UUID, available bool, at time.Time) (*models.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resource, ok := s.resources[id]
	if !ok {
		return nil, fmt.Errorf("resource with id %s: %w", id, service.ErrNotFound)
	}
	if s.activeForResourceLocked(id) != nil {
		return nil, fmt.Errorf("resource %s has an active assignment: %w", id, service.ErrConflict)
	}
	resource.IsAvailable = available
	resource.UpdatedAt = at
	return cloneResource(resource), nil
}

func (s *Store) UpdateResourceLocation(_ context.Context, id uuid.UUID, point geo.Point, at time.Time) (*models.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resource, ok := s.resources[id]
	if !ok {
		return nil, fmt.Errorf("resource with id %s: %w", id, service.ErrNotFound)
	}
	p := point
	resource.Location = &p
	resource.LocationUpdatedAt = &at
	resource.UpdatedAt = at
	return cloneResource(resource), nil
}

func (s *Store) GetAssignment(_ context.Context, id uuid.UUID) (*models.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.assignments[id]
	if !ok {
		return nil, fmt.Errorf("assignment with id %s: %w", id, service.ErrNotFound)
	}
	return cloneAssignment(a), nil
}

func (s *Store) GetActiveAssignment(_ context.Context, incidentID uuid.UUID) (*models.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a := s.activeForIncidentLocked(incidentID)
	if a == nil {
		return nil, fmt.Errorf("active assignment for incident %s: %w", incidentID, service.ErrNotFound)
	}
	return cloneAssignment(a), nil
}

func (s *Store) ListAssignmentsByIncident(_ context.Context, incidentID uuid.UUID) ([]*models.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*models.Assignment, 0)
	for _, a := range s.assignments {
		if a.IncidentID == incidentID {
			list = append(list, cloneAssignment(a))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].AssignedAt.Before(list[j].AssignedAt) })
	return list, nil
}

// AcceptAssignment - compare-and-swap pending -> accepted
func (s *Store) AcceptAssignment(_ context.Context, id uuid.UUID, etaSeconds *int, at time.Time) (*models.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.assignments[id]
	if !ok {
		return nil, fmt.Errorf("assignment with id %s: %w", id, service.ErrNotFound)
	}
	if a.Outcome != models.OutcomePending {
		return nil, fmt.Errorf("assignment %s is %s: %w", id, a.Outcome, service.ErrConflict)
	}
	a.Outcome = models.OutcomeAccepted
	a.ETASeconds = cloneInt(etaSeconds)
	a.RespondedAt = &at
	a.UpdatedAt = at
	return cloneAssignment(a), nil
}

func (s *Store) CreateFacility(_ context.Context, facility *models.Facility) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.facilities[facility.ID]; exists {
		return fmt.Errorf("facility %s already exists: %w", facility.ID, service.ErrConflict)
	}
	now := s.now()
	facility.CreatedAt, facility.UpdatedAt = now, now
	f := *facility
	s.facilities[facility.ID] = &f
	return nil
}

func (s *Store) GetFacility(_ context.Context, id uuid.UUID) (*models.Facility, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.facilities[id]
	if !ok {
		return nil, fmt.Errorf("facility with id %s: %w", id, service.ErrNotFound)
	}
	out := *f
	return &out, nil
}

func (s *Store) ListFacilities(_ context.Context) ([]*models.Facility, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*models.Facility, 0, len(s.facilities))
	for _, f := range s.facilities {
		out := *f
		list = append(list, &out)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// ApplyTransition проверяет все условия до первой записи, поэтому изменение применяется целиком или никак
func (s *Store) ApplyTransition(_ context.Context, change *models.TransitionChange) (*models.Incident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	incident, ok := s.incidents[change.IncidentID]
	if !ok {
		return nil, fmt.Errorf("incident with id %s: %w", change.IncidentID, service.ErrNotFound)
	}
	if incident.Status != change.FromStatus || incident.Version != change.ExpectedVersion {
		return nil, fmt.Errorf("incident %s changed concurrently: %w", incident.ID, service.ErrConflict)
	}

	var newResource *models.Resource
	if na := change.NewAssignment; na != nil {
		newResource, ok = s.resources[na.ResourceID]
		if !ok {
			return nil, fmt.Errorf("resource with id %s: %w", na.ResourceID, service.ErrNotFound)
		}
		if !newResource.IsAvailable || s.activeForResourceLocked(na.ResourceID) != nil {
			return nil, fmt.Errorf("resource %s: %w", na.ResourceID, service.ErrResourceUnavailable)
		}
		if s.activeForIncidentLocked(na.IncidentID) != nil {
			return nil, fmt.Errorf("incident %s already has an active assignment: %w", na.IncidentID, service.ErrConflict)
		}
	}

	var updated *models.Assignment
	if upd := change.AssignmentUpdate; upd != nil {
		updated, ok = s.assignments[upd.ID]
		if !ok || !updated.Outcome.IsActive() {
			return nil, fmt.Errorf("assignment %s is not active: %w", upd.ID, service.ErrConflict)
		}
	}

	var released *models.Resource
	if change.ReleaseResourceID != nil {
		released, ok = s.resources[*change.ReleaseResourceID]
		if !ok {
			return nil, fmt.Errorf("resource with id %s: %w", *change.ReleaseResourceID, service.ErrNotFound)
		}
	}

	at := change.At
	incident.Status = change.ToStatus
	incident.Version++
	incident.UpdatedAt = at
	incident.AssignedResourceID = cloneUUID(change.AssignedResourceID)
	incident.DestinationFacilityID = cloneUUID(change.DestinationFacilityID)
	if change.ResolvedAt != nil {
		resolved := *change.ResolvedAt
		incident.ResolvedAt = &resolved
	}

	if updated != nil {
		updated.Outcome = change.AssignmentUpdate.Outcome
		updated.UpdatedAt = at
		switch updated.Outcome {
		case models.OutcomeAccepted:
			updated.RespondedAt = &at
		case models.OutcomeDeclined:
			updated.RespondedAt = &at
			updated.ClosedAt = &at
		case models.OutcomeReleased:
			updated.ClosedAt = &at
		}
	}
	if released != nil {
		released.IsAvailable = true
		released.UpdatedAt = at
	}
	if newResource != nil {
		s.assignments[change.NewAssignment.ID] = cloneAssignment(change.NewAssignment)
		newResource.IsAvailable = false
		newResource.UpdatedAt = at
	}

	return cloneIncident(incident), nil
}

func (s *Store) activeForIncidentLocked(incidentID uuid.UUID) *models.Assignment {
	for _, a := range s.assignments {
		if a.IncidentID == incidentID && a.Outcome.IsActive() {
			return a
		}
	}
	return nil
}

func (s *Store) activeForResourceLocked(resourceID uuid.UUID) *models.Assignment {
	for _, a := range s.assignments {
		if a.ResourceID == resourceID && a.Outcome.IsActive() {
			return a
		}
	}
	return nil
}

func cloneIncident(in *models.Incident) *models.Incident {
	out := *in
	out.AssignedResourceID = cloneUUID(in.AssignedResourceID)
	out.DestinationFacilityID = cloneUUID(in.DestinationFacilityID)
	if in.ResolvedAt != nil {
		t := *in.ResolvedAt
		out.ResolvedAt = &t
	}
	return &out
}

func cloneResource(in *models.Resource) *models.Resource {
	out := *in
	if in.Location != nil {
		p := *in.Location
		out.Location = &p
	}
	out.FacilityID = cloneUUID(in.FacilityID)
	if in.LocationUpdatedAt != nil {
		t := *in.LocationUpdatedAt
		out.LocationUpdatedAt = &t
	}
	return &out
}

func cloneAssignment(in *models.Assignment) *models.Assignment {
	out := *in
	out.ETASeconds = cloneInt(in.ETASeconds)
	if in.RespondedAt != nil {
		t := *in.RespondedAt
		out.RespondedAt = &t
	}
	if in.ClosedAt != nil {
		t := *in.ClosedAt
		out.ClosedAt = &t
	}
	return &out
}

func cloneUUID(in *uuid.UUID) *uuid.UUID {
	if in == nil {
		return nil
	}
	out := *in
	return &out
}

func cloneInt(in *int) *int {
	if in == nil {
		return nil
	}
	out := *in
	return &out
}

// pendingBefore повторяет порядок ORDER BY created_at, id из postgres
func pendingBefore(aAt time.Time, aID uuid.UUID, bAt time.Time, bID uuid.UUID) bool {
	if aAt.Equal(bAt) {
		return bytes.Compare(aID[:], bID[:]) < 0
	}
	return aAt.Before(bAt)
}
