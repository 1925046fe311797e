package v1

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/emergency_dispatch/internal/models"
	"github.com/sirupsen/logrus"
)

const sseHeartbeat = 15 * time.Second

// @Summary Subscribe to changes
// @Description Server-Sent Events stream of committed changes. A slow client is disconnected and should re-read state after reconnecting.
// @Tags Events
// @Produce text/event-stream
// @Security ApiKeyAuth
// @Param entity query string true "incidents, resources or assignments"
// @Param id query string false "Only this record (and records related to it)"
// @Success 200 {object} models.Event
// @Failure 400 {object} map[string]string "Invalid topic"
// @Router /events [get]
func (h *Handler) streamEvents(c *gin.Context) {
	topic := models.Topic{Entity: models.Entity(c.Query("entity"))}
	if raw := c.Query("id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}
		topic.ID = id
	}
	if !topic.Entity.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown entity"})
		return
	}

	log := h.logger.WithFields(logrus.Fields{"method": "streamEvents", "topic": topic.String()})
	ctx := c.Request.Context()

	sub, err := h.events.Subscribe(ctx, topic)
	if err != nil {
		respondError(c, log, err)
		return
	}
	defer sub.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()
	log.Info("Event stream opened")

	heartbeat := time.NewTicker(sseHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Event stream closed by client")
			return
		case <-heartbeat.C:
			c.SSEvent("ping", "")
		case ev, ok := <-sub.Events():
			if !ok {
				if err := sub.Err(); err != nil {
					log.WithError(err).Warn("Event stream dropped")
					c.SSEvent("error", gin.H{"error": err.Error()})
					c.Writer.Flush()
				}
				return
			}
			c.Render(-1, sse.Event{Id: ev.ID.String(), Event: string(ev.Entity), Data: ev})
		}
		c.Writer.Flush()
	}
}
