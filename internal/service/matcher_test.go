package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shenikar/emergency_dispatch/internal/geo"
	"github.com/shenikar/emergency_dispatch/internal/models"
	"github.com/shenikar/emergency_dispatch/internal/service"
	"github.com/shenikar/emergency_dispatch/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestFindNearest(t *testing.T) {
	// Подготовка
	ctrl := gomock.NewController(t)
	lister := mocks.NewMockAvailableResourceLister(ctrl)
	matcher := service.NewMatcher(lister, newTestLogger())
	ctx := context.Background()
	here := north(incidentPoint, 0.5)
	resource := &models.Resource{Tag: "AMB-1", Category: "ambulance", IsAvailable: true, Location: &here}

	// Ожидания
	lister.EXPECT().ListAvailable(ctx, "ambulance").Return([]*models.Resource{resource}, nil).Times(1)

	// Действие
	match, err := matcher.FindNearest(ctx, service.MatchQuery{Point: incidentPoint, RadiusKm: 10, Category: "ambulance"})

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, resource.ID, match.ResourceID)
	assert.InDelta(t, 0.5, match.DistanceKm, 0.01)
}

func TestFindNearest_NotFoundIsSentinel(t *testing.T) {
	ctrl := gomock.NewController(t)
	lister := mocks.NewMockAvailableResourceLister(ctrl)
	matcher := service.NewMatcher(lister, newTestLogger())

	lister.EXPECT().ListAvailable(gomock.Any(), "").Return([]*models.Resource{}, nil)

	_, err := matcher.FindNearest(context.Background(), service.MatchQuery{Point: incidentPoint, RadiusKm: 10})
	assert.ErrorIs(t, err, service.ErrNoResourceFound)
}

func TestFindNearest_InvalidQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	lister := mocks.NewMockAvailableResourceLister(ctrl)
	matcher := service.NewMatcher(lister, newTestLogger())
	lister.EXPECT().ListAvailable(gomock.Any(), gomock.Any()).Times(0) // Реестр не должен вызываться

	_, err := matcher.FindNearest(context.Background(), service.MatchQuery{Point: geo.Point{Lat: 91}, RadiusKm: 10})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = matcher.FindNearest(context.Background(), service.MatchQuery{Point: incidentPoint, RadiusKm: 0})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestFindNearest_RegistryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	lister := mocks.NewMockAvailableResourceLister(ctrl)
	matcher := service.NewMatcher(lister, newTestLogger())
	storeErr := errors.New("connection refused")

	lister.EXPECT().ListAvailable(gomock.Any(), gomock.Any()).Return(nil, storeErr)

	_, err := matcher.FindNearest(context.Background(), service.MatchQuery{Point: incidentPoint, RadiusKm: 10})
	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, service.ErrNoResourceFound)
}
