package service

//go:generate mockgen -source=matcher.go -destination=mocks/mock_matcher.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shenikar/emergency_dispatch/internal/geo"
	"github.com/shenikar/emergency_dispatch/internal/metrics"
	"github.com/shenikar/emergency_dispatch/internal/models"
	"github.com/sirupsen/logrus"
)

// MatchQuery - параметры поиска машины для инцидента
type MatchQuery struct {
	Point    geo.Point
	RadiusKm float64
	// Category пустая - подходит любая машина
	Category string
	// Exclude - машины, которые уже отказались от этого инцидента
	Exclude []uuid.UUID
}

// Match - выбранная машина и расстояние до неё
type Match struct {
	ResourceID uuid.UUID
	DistanceKm float64
}

// Matcher выбирает ближайшую свободную машину в радиусе
type Matcher interface {
	FindNearest(ctx context.Context, query MatchQuery) (Match, error)
}

// AvailableResourceLister - источник свободных машин для поиска
type AvailableResourceLister interface {
	ListAvailable(ctx context.Context, category string) ([]*models.Resource, error)
}

type nearestMatcher struct {
	resources AvailableResourceLister
	logger    *logrus.Logger
}

// NewMatcher создает матчер с линейным перебором по реестру.
// Пространственный индекс можно подставить за тем же интерфейсом.
func NewMatcher(resources AvailableResourceLister, logger *logrus.Logger) Matcher {
	return &nearestMatcher{resources: resources, logger: logger}
}

// FindNearest возвращает ErrNoResourceFound, если в радиусе никого нет
func (m *nearestMatcher) FindNearest(ctx context.Context, query MatchQuery) (Match, error) {
	log := m.logger.WithFields(logrus.Fields{
		"service":   "matcher",
		"method":    "FindNearest",
		"point":     query.Point.String(),
		"radius_km": query.RadiusKm,
		"category":  query.Category,
	})

	if err := query.Point.Validate(); err != nil {
		return Match{}, fmt.Errorf("service: %v: %w", err, ErrInvalidInput)
	}
	if query.RadiusKm <= 0 {
		return Match{}, fmt.Errorf("service: radius must be positive: %w", ErrInvalidInput)
	}

	candidates, err := m.resources.ListAvailable(ctx, query.Category)
	if err != nil {
		metrics.MatchAttemptsTotal.WithLabelValues("error").Inc()
		log.WithError(err).Error("Failed to list available resources")
		return Match{}, fmt.Errorf("service: could not list available resources: %w", err)
	}

	match, ok := selectNearest(candidates, query)
	if !ok {
		metrics.MatchAttemptsTotal.WithLabelValues("not_found").Inc()
		log.WithField("candidates", len(candidates)).Info("No available resource within radius")
		return Match{}, ErrNoResourceFound
	}

	metrics.MatchAttemptsTotal.WithLabelValues("found").Inc()
	metrics.MatchDistanceKm.Observe(match.DistanceKm)
	log.WithFields(logrus.Fields{
		"resource_id": match.ResourceID,
		"distance_km": match.DistanceKm,
	}).Info("Nearest resource selected")
	return match, nil
}

// selectNearest - чистый выбор: минимальная дистанция, при равенстве меньший ID
func selectNearest(resources []*models.Resource, query MatchQuery) (Match, bool) {
	excluded := make(map[uuid.UUID]struct{}, len(query.Exclude))
	for _, id := range query.Exclude {
		excluded[id] = struct{}{}
	}

	var best Match
	found := false
	for _, r := range resources {
		if !r.IsAvailable || r.Location == nil {
			continue
		}
		if query.Category != "" && r.Category != query.Category {
			continue
		}
		if _, skip := excluded[r.ID]; skip {
			continue
		}

		dist := geo.HaversineKm(query.Point, *r.Location)
		if dist > query.RadiusKm {
			continue
		}
		if !found || dist < best.DistanceKm || (dist == best.DistanceKm && r.ID.String() < best.ResourceID.String()) {
			best = Match{ResourceID: r.ID, DistanceKm: dist}
			found = true
		}
	}
	return best, found
}
