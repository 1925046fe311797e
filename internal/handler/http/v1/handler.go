package v1

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/shenikar/emergency_dispatch/internal/config"
	"github.com/shenikar/emergency_dispatch/internal/models"
	"github.com/shenikar/emergency_dispatch/internal/service"
	"github.com/sirupsen/logrus"
)

// Deps - сервисы, которые обслуживает HTTP API
type Deps struct {
	Dispatch   service.DispatchService
	Registry   service.ResourceRegistry
	Facilities service.FacilityDirectory
	Locations  service.LocationSink
	Events     service.EventSubscriber
}

type Handler struct {
	dispatch   service.DispatchService
	registry   service.ResourceRegistry
	facilities service.FacilityDirectory
	locations  service.LocationSink
	events     service.EventSubscriber
	logger     *logrus.Logger
	validate   *validator.Validate
	cfg        *config.Config
	// operators - владельцы машин для проверки прав оператора
	operators *expirable.LRU[uuid.UUID, string]
}

func NewHandler(deps Deps, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		dispatch:   deps.Dispatch,
		registry:   deps.Registry,
		facilities: deps.Facilities,
		locations:  deps.Locations,
		events:     deps.Events,
		logger:     logger,
		validate:   validator.New(),
		cfg:        cfg,
		operators:  expirable.NewLRU[uuid.UUID, string](operatorCacheSize, nil, operatorCacheTTL),
	}
}

// bind разбирает и валидирует тело запроса; при ошибке ответ уже отправлен
func (h *Handler) bind(c *gin.Context, log *logrus.Entry, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return h.check(c, log, dst)
}

// bindOptional разбирает необязательное тело запроса; пустое тело, в том числе chunked, оставляет dst нулевым
func (h *Handler) bindOptional(c *gin.Context, log *logrus.Entry, dst any) bool {
	if c.Request.ContentLength == 0 || c.Request.Body == nil || c.Request.Body == http.NoBody {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return h.check(c, log, dst)
}

func (h *Handler) check(c *gin.Context, log *logrus.Entry, dst any) bool {
	if err := h.validate.Struct(dst); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func parseID(c *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + what + " ID"})
		return uuid.Nil, false
	}
	return id, true
}

// @Summary Report a new incident
// @Description Create an incident in pending status. With AUTO_DISPATCH the nearest available resource is assigned immediately.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Security ActorToken
// @Param incident body CreateIncidentRequest true "Incident creation request"
// @Success 201 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 422 {object} map[string]string "Location could not be decoded"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [post]
func (h *Handler) createIncident(c *gin.Context) {
	var input CreateIncidentRequest
	actor := actorFrom(c)
	log := h.logger.WithFields(logrus.Fields{"method": "createIncident", "actor_id": actor.ID})

	if !h.bind(c, log, &input) {
		return
	}

	location, err := decodeLocation(input.Location)
	if err != nil {
		respondError(c, log, err)
		return
	}

	model := DTOToIncidentModel(input, location)
	// заявитель сообщает о себе сам, диспетчер может завести вызов от чужого имени
	if actor.Role == models.RoleReporter || model.ReporterID == "" {
		model.ReporterID = actor.ID
	}

	if err := h.dispatch.CreateIncident(c.Request.Context(), model); err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToIncidentResponse(model))
}

// @Summary Get a list of incidents
// @Description Get a paginated list of incidents, newest first. Requires API key.
// @Tags Incidents
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Number of items per page" default(20)
// @Param status query string false "Filter by status"
// @Param reporter_id query string false "Filter by reporter"
// @Success 200 {array} IncidentResponse
// @Failure 400 {object} map[string]string "Unknown status"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [get]
func (h *Handler) listIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "listIncidents")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	incidents, err := h.dispatch.ListIncidents(c.Request.Context(), models.IncidentFilter{
		Status:     models.IncidentStatus(c.Query("status")),
		ReporterID: c.Query("reporter_id"),
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		respondError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary Get incident by ID
// @Description Get a single incident by its ID. Requires API key.
// @Tags Incidents
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid incident ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id} [get]
func (h *Handler) getIncident(c *gin.Context) {
	id, ok := parseID(c, "incident")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getIncident").WithField("id", id)

	incident, err := h.dispatch.GetIncident(c.Request.Context(), id)
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Move an incident to another status
// @Description Apply one lifecycle transition on behalf of the actor from X-Actor-Token.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Security ActorToken
// @Param id path string true "Incident ID"
// @Param transition body TransitionRequest true "Target status"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 403 {object} map[string]string "Actor is not permitted"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 409 {object} map[string]string "Illegal transition or concurrent modification"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id}/transitions [post]
func (h *Handler) transitionIncident(c *gin.Context) {
	id, ok := parseID(c, "incident")
	if !ok {
		return
	}
	actor := actorFrom(c)
	log := h.logger.WithFields(logrus.Fields{"method": "transitionIncident", "id": id, "actor_id": actor.ID})

	var input TransitionRequest
	if !h.bind(c, log, &input) {
		return
	}

	incident, err := h.dispatch.Transition(c.Request.Context(), service.TransitionRequest{
		IncidentID: id,
		Target:     models.IncidentStatus(input.Status),
		Actor:      actor,
		ResourceID: input.ResourceID,
		FacilityID: input.FacilityID,
		Category:   input.Category,
	})
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Assign a resource to a pending incident
// @Description Run the matcher (or take the given resource) and assign it. Dispatcher or system only.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Security ActorToken
// @Param id path string true "Incident ID"
// @Param dispatch body DispatchRequest false "Optional manual choice"
// @Success 200 {object} IncidentResponse
// @Failure 403 {object} map[string]string "Actor is not permitted"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 409 {object} map[string]string "No resource available or incident not pending"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id}/dispatch [post]
func (h *Handler) dispatchIncident(c *gin.Context) {
	id, ok := parseID(c, "incident")
	if !ok {
		return
	}
	actor := actorFrom(c)
	log := h.logger.WithFields(logrus.Fields{"method": "dispatchIncident", "id": id, "actor_id": actor.ID})

	var input DispatchRequest
	if !h.bindOptional(c, log, &input) {
		return
	}

	incident, err := h.dispatch.Transition(c.Request.Context(), service.TransitionRequest{
		IncidentID: id,
		Target:     models.StatusAssigned,
		Actor:      actor,
		ResourceID: input.ResourceID,
		Category:   input.Category,
	})
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Get assignment by ID
// @Tags Assignments
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Assignment ID"
// @Success 200 {object} AssignmentResponse
// @Failure 404 {object} map[string]string "Assignment not found"
// @Router /assignments/{id} [get]
func (h *Handler) getAssignment(c *gin.Context) {
	id, ok := parseID(c, "assignment")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getAssignment").WithField("id", id)

	assignment, err := h.dispatch.GetAssignment(c.Request.Context(), id)
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToAssignmentResponse(assignment))
}

// @Summary Accept or decline an assignment
// @Description The crew of the assigned resource answers. Decline returns the incident to pending and looks for another resource.
// @Tags Assignments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Security ActorToken
// @Param id path string true "Assignment ID"
// @Param response body AssignmentResponseRequest true "Decision"
// @Success 200 {object} AssignmentResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 403 {object} map[string]string "Actor does not operate the resource"
// @Failure 404 {object} map[string]string "Assignment not found"
// @Failure 409 {object} map[string]string "Assignment already answered"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /assignments/{id}/response [post]
func (h *Handler) respondToAssignment(c *gin.Context) {
	id, ok := parseID(c, "assignment")
	if !ok {
		return
	}
	actor := actorFrom(c)
	log := h.logger.WithFields(logrus.Fields{"method": "respondToAssignment", "id": id, "actor_id": actor.ID})

	var input AssignmentResponseRequest
	if !h.bind(c, log, &input) {
		return
	}

	assignment, err := h.dispatch.RespondToAssignment(c.Request.Context(), id, service.Decision(input.Decision), input.ETASeconds, actor)
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToAssignmentResponse(assignment))
}

// @Summary List facilities
// @Tags Facilities
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} FacilityResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /facilities [get]
func (h *Handler) listFacilities(c *gin.Context) {
	log := h.logger.WithField("method", "listFacilities")

	facilities, err := h.facilities.ListFacilities(c.Request.Context())
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToFacilityResponses(facilities))
}

// @Summary Register a facility
// @Tags Facilities
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Security ActorToken
// @Param facility body CreateFacilityRequest true "Facility"
// @Success 201 {object} FacilityResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 403 {object} map[string]string "Role is not permitted"
// @Failure 422 {object} map[string]string "Location could not be decoded"
// @Router /facilities [post]
func (h *Handler) createFacility(c *gin.Context) {
	var input CreateFacilityRequest
	log := h.logger.WithField("method", "createFacility")

	if !h.bind(c, log, &input) {
		return
	}

	location, err := decodeLocation(input.Location)
	if err != nil {
		respondError(c, log, err)
		return
	}

	facility := &models.Facility{
		Name:     input.Name,
		Location: location,
		Phone:    input.Phone,
		Address:  input.Address,
	}
	if err := h.facilities.RegisterFacility(c.Request.Context(), facility); err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToFacilityResponse(facility))
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
