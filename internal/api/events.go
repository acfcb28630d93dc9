package api

import (
	"context"
	"net/http"

	"github.com/annel0/voxel-engine/internal/eventbus"
	"github.com/gin-gonic/gin"
)

// publish отправляет событие мира в шину, если она подключена
func (rs *RestServer) publish(ctx context.Context, eventType string, priority int, payload interface{}) {
	if rs.events == nil {
		return
	}
	ev, err := eventbus.NewEnvelope("api", eventType, priority, payload)
	if err == nil {
		err = rs.events.Publish(ctx, ev)
	}
	if err != nil {
		rs.logger.Warn("Событие %s не опубликовано: %v", eventType, err)
	}
}

// handleEvents отдаёт последние события мира
func (rs *RestServer) handleEvents(c *gin.Context) {
	if rs.recorder == nil {
		respond(c, http.StatusServiceUnavailable, "Журнал событий выключен", nil)
		return
	}
	events := rs.recorder.Events()
	if t := c.Query("type"); t != "" {
		filtered := events[:0]
		for _, ev := range events {
			if ev.EventType == t {
				filtered = append(filtered, ev)
			}
		}
		events = filtered
	}
	respond(c, http.StatusOK, "События", events)
}
