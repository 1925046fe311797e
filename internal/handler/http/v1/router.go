package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/shenikar/emergency_dispatch/internal/models"
)

// RegisterRoutes регистрирует все маршруты API v1.
// Чтение требует только API-ключ, изменения - ещё и токен участника.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)

	secured := api.Group("", APIKeyAuthMiddleware(h.cfg, h.logger))
	actor := ActorMiddleware(h.cfg, h.logger)

	incidents := secured.Group("/incidents")
	{
		incidents.POST("", actor, h.createIncident)
		incidents.GET("", h.listIncidents)
		incidents.GET("/:id", h.getIncident)
		incidents.POST("/:id/transitions", actor, h.transitionIncident)
		incidents.POST("/:id/dispatch", actor, requireRoles(models.RoleDispatcher, models.RoleSystem), h.dispatchIncident)
	}

	assignments := secured.Group("/assignments")
	{
		assignments.GET("/:id", h.getAssignment)
		assignments.POST("/:id/response", actor, h.respondToAssignment)
	}

	resources := secured.Group("/resources")
	{
		resources.POST("", actor, requireRoles(models.RoleDispatcher, models.RoleSystem), h.createResource)
		resources.GET("", h.listResources)
		resources.GET("/:id", h.getResource)
		resources.PUT("/:id/availability", actor, requireRoles(models.RoleResourceOperator, models.RoleDispatcher), h.setAvailability)
		resources.POST("/:id/location", actor, requireRoles(models.RoleResourceOperator, models.RoleSystem), h.pushLocation)
	}

	facilities := secured.Group("/facilities")
	{
		facilities.POST("", actor, requireRoles(models.RoleFacilityOperator, models.RoleDispatcher, models.RoleSystem), h.createFacility)
		facilities.GET("", h.listFacilities)
	}

	secured.GET("/events", h.streamEvents)
}
