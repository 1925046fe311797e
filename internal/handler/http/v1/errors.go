package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/emergency_dispatch/internal/geo"
	"github.com/shenikar/emergency_dispatch/internal/service"
	"github.com/sirupsen/logrus"
)

// respondError переводит ошибку сервиса в HTTP-ответ
func respondError(c *gin.Context, log *logrus.Entry, err error) {
	var decodeErr *geo.DecodeError
	switch {
	case errors.As(err, &decodeErr):
		log.WithError(err).Warn("Location payload could not be decoded")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": decodeErr.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		log.WithError(err).Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnauthorized):
		log.WithError(err).Warn("Actor is not permitted")
		c.JSON(http.StatusForbidden, gin.H{"error": "actor is not permitted to perform this action"})
	case errors.Is(err, service.ErrNotFound):
		log.WithError(err).Warn("Entity not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrNoResourceFound):
		log.WithError(err).Info("No resource available")
		c.JSON(http.StatusConflict, gin.H{"error": "no available resource within radius"})
	case errors.Is(err, service.ErrIllegalTransition),
		errors.Is(err, service.ErrConflict),
		errors.Is(err, service.ErrResourceUnavailable):
		log.WithError(err).Warn("Request conflicts with current state")
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.WithError(err).Error("Request failed in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
