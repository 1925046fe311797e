package service

//go:generate mockgen -source=facility.go -destination=mocks/mock_facility.go -package=mocks

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shenikar/emergency_dispatch/internal/geo"
	"github.com/shenikar/emergency_dispatch/internal/models"
	"github.com/sirupsen/logrus"
)

// FacilityDirectory - справочник больниц
type FacilityDirectory interface {
	RegisterFacility(ctx context.Context, facility *models.Facility) error
	GetFacility(ctx context.Context, id uuid.UUID) (*models.Facility, error)
	ListFacilities(ctx context.Context) ([]*models.Facility, error)
	NearestFacility(ctx context.Context, point geo.Point) (*models.Facility, error)
}

type facilityDirectory struct {
	repo   FacilityRepository
	logger *logrus.Logger
}

func NewFacilityDirectory(repo FacilityRepository, logger *logrus.Logger) FacilityDirectory {
	return &facilityDirectory{repo: repo, logger: logger}
}

// RegisterFacility добавляет больницу в справочник
func (d *facilityDirectory) RegisterFacility(ctx context.Context, facility *models.Facility) error {
	facility.Name = strings.TrimSpace(facility.Name)
	if facility.Name == "" {
		return fmt.Errorf("service: facility name is required: %w", ErrInvalidInput)
	}
	if err := facility.Location.Validate(); err != nil {
		return fmt.Errorf("service: %v: %w", err, ErrInvalidInput)
	}
	if facility.ID == uuid.Nil {
		facility.ID = uuid.New()
	}

	if err := d.repo.CreateFacility(ctx, facility); err != nil {
		d.logger.WithFields(logrus.Fields{
			"service": "facility",
			"method":  "RegisterFacility",
		}).WithError(err).Error("Failed to create facility in repository")
		return fmt.Errorf("service: could not register facility: %w", err)
	}
	return nil
}

func (d *facilityDirectory) GetFacility(ctx context.Context, id uuid.UUID) (*models.Facility, error) {
	facility, err := d.repo.GetFacility(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not get facility: %w", err)
	}
	return facility, nil
}

func (d *facilityDirectory) ListFacilities(ctx context.Context) ([]*models.Facility, error) {
	facilities, err := d.repo.ListFacilities(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: could not list facilities: %w", err)
	}
	return facilities, nil
}

// NearestFacility выбирает ближайшую больницу; при равенстве - с меньшим ID
func (d *facilityDirectory) NearestFacility(ctx context.Context, point geo.Point) (*models.Facility, error) {
	facilities, err := d.ListFacilities(ctx)
	if err != nil {
		return nil, err
	}

	var best *models.Facility
	bestDist := 0.0
	for _, f := range facilities {
		dist := geo.HaversineKm(point, f.Location)
		if best == nil || dist < bestDist || (dist == bestDist && f.ID.String() < best.ID.String()) {
			best, bestDist = f, dist
		}
	}
	if best == nil {
		return nil, fmt.Errorf("service: no facilities registered: %w", ErrNotFound)
	}
	return best, nil
}
