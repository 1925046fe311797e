package v1

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/emergency_dispatch/internal/geo"
	"github.com/shenikar/emergency_dispatch/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	// maxLocationBody - с запасом для JSON-точки или hex EWKB
	maxLocationBody = 4 << 10

	operatorCacheSize = 4096
	operatorCacheTTL  = 30 * time.Second
)

// @Summary Register a resource
// @Tags Resources
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Security ActorToken
// @Param resource body CreateResourceRequest true "Resource"
// @Success 201 {object} ResourceResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 409 {object} map[string]string "Tag already registered"
// @Failure 422 {object} map[string]string "Location could not be decoded"
// @Router /resources [post]
func (h *Handler) createResource(c *gin.Context) {
	var input CreateResourceRequest
	log := h.logger.WithField("method", "createResource")

	if !h.bind(c, log, &input) {
		return
	}

	model := &models.Resource{
		Tag:         input.Tag,
		Category:    input.Category,
		OperatorID:  input.OperatorID,
		IsAvailable: input.IsAvailable,
		FacilityID:  input.FacilityID,
	}
	if len(input.Location) > 0 && string(input.Location) != "null" {
		point, err := decodeLocation(input.Location)
		if err != nil {
			respondError(c, log, err)
			return
		}
		model.Location = &point
	}

	if err := h.registry.RegisterResource(c.Request.Context(), model); err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToResourceResponse(model))
}

// @Summary List resources
// @Tags Resources
// @Produce json
// @Security ApiKeyAuth
// @Param available query bool false "Only available resources"
// @Param category query string false "Filter by category"
// @Success 200 {array} ResourceResponse
// @Router /resources [get]
func (h *Handler) listResources(c *gin.Context) {
	log := h.logger.WithField("method", "listResources")
	availableOnly, _ := strconv.ParseBool(c.DefaultQuery("available", "false"))

	resources, err := h.registry.ListResources(c.Request.Context(), availableOnly, c.Query("category"))
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToResourceResponses(resources))
}

// @Summary Get resource by ID
// @Tags Resources
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Resource ID"
// @Success 200 {object} ResourceResponse
// @Failure 404 {object} map[string]string "Resource not found"
// @Router /resources/{id} [get]
func (h *Handler) getResource(c *gin.Context) {
	id, ok := parseID(c, "resource")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getResource").WithField("id", id)

	resource, err := h.registry.GetResource(c.Request.Context(), id)
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToResourceResponse(resource))
}

// @Summary Put a resource on or off duty
// @Description A busy resource cannot be changed: its availability follows the incident lifecycle.
// @Tags Resources
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Security ActorToken
// @Param id path string true "Resource ID"
// @Param availability body AvailabilityRequest true "Availability"
// @Success 200 {object} ResourceResponse
// @Failure 403 {object} map[string]string "Actor does not operate the resource"
// @Failure 404 {object} map[string]string "Resource not found"
// @Failure 409 {object} map[string]string "Resource has an active assignment"
// @Router /resources/{id}/availability [put]
func (h *Handler) setAvailability(c *gin.Context) {
	id, ok := parseID(c, "resource")
	if !ok {
		return
	}
	actor := actorFrom(c)
	log := h.logger.WithFields(logrus.Fields{"method": "setAvailability", "id": id, "actor_id": actor.ID})

	var input AvailabilityRequest
	if !h.bind(c, log, &input) {
		return
	}

	if !h.operates(c, log, actor, id) {
		return
	}

	resource, err := h.registry.SetAvailability(c.Request.Context(), id, *input.Available)
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToResourceResponse(resource))
}

// @Summary Push a location sample
// @Description Body is a JSON point ({latitude,longitude}, {lat,lng} or GeoJSON) or raw/hex EWKB. Samples are throttled per resource, the latest one always wins.
// @Tags Resources
// @Accept json
// @Accept octet-stream
// @Security ApiKeyAuth
// @Security ActorToken
// @Param id path string true "Resource ID"
// @Success 202 "Accepted"
// @Failure 400 {object} map[string]string "Invalid coordinates"
// @Failure 403 {object} map[string]string "Actor does not operate the resource"
// @Failure 404 {object} map[string]string "Resource not found"
// @Failure 422 {object} map[string]string "Location could not be decoded"
// @Router /resources/{id}/location [post]
func (h *Handler) pushLocation(c *gin.Context) {
	id, ok := parseID(c, "resource")
	if !ok {
		return
	}
	actor := actorFrom(c)
	log := h.logger.WithFields(logrus.Fields{"method": "pushLocation", "id": id, "actor_id": actor.ID})

	if !h.operates(c, log, actor, id) {
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxLocationBody))
	if err != nil {
		log.WithError(err).Warn("Failed to read body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	point, err := geo.DecodePoint(body)
	if err != nil {
		respondError(c, log, err)
		return
	}

	if err := h.locations.Push(c.Request.Context(), id, point); err != nil {
		respondError(c, log, err)
		return
	}
	c.Status(http.StatusAccepted)
}

// operates пропускает системного актора и оператора, за которым закреплена машина.
// Владелец машины кэшируется на operatorCacheTTL, чтобы поток координат не читал реестр на каждую точку.
func (h *Handler) operates(c *gin.Context, log *logrus.Entry, actor models.Actor, resourceID uuid.UUID) bool {
	if actor.Role != models.RoleResourceOperator {
		return true
	}

	operatorID, ok := h.operators.Get(resourceID)
	if !ok {
		resource, err := h.registry.GetResource(c.Request.Context(), resourceID)
		if err != nil {
			respondError(c, log, err)
			return false
		}
		operatorID = resource.OperatorID
		h.operators.Add(resourceID, operatorID)
	}

	if operatorID != actor.ID {
		log.Warn("Actor does not operate the resource")
		c.JSON(http.StatusForbidden, gin.H{"error": "actor is not permitted to perform this action"})
		return false
	}
	return true
}
