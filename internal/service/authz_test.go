package service_test

import (
	"testing"

	"github.com/shenikar/emergency_dispatch/internal/models"
	"github.com/shenikar/emergency_dispatch/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionAuthorizer_MatchesTable(t *testing.T) {
	authz, err := service.NewTransitionAuthorizer()
	require.NoError(t, err)

	allowed := make(map[[3]string]bool)
	for _, rule := range models.TransitionTable() {
		for _, role := range rule.Roles {
			allowed[[3]string{string(role), string(rule.From), string(rule.To)}] = true
		}
	}

	roles := []models.Role{
		models.RoleReporter,
		models.RoleDispatcher,
		models.RoleSystem,
		models.RoleResourceOperator,
		models.RoleFacilityOperator,
	}
	for _, role := range roles {
		for _, from := range models.AllStatuses {
			for _, to := range models.AllStatuses {
				ok, err := authz.Allowed(role, from, to)
				require.NoError(t, err)
				assert.Equal(t, allowed[[3]string{string(role), string(from), string(to)}], ok, "%s: %s -> %s", role, from, to)
			}
		}
	}
}
