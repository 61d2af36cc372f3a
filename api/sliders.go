package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aouyang1/portfolio/api/models"
	"github.com/aouyang1/portfolio/api/web/templates"
	"github.com/aouyang1/portfolio/slideshow"
)

// Server sent event names consumed by static/js/slider.js.
const (
	eventState     = "state"
	eventProgress  = "progress"
	eventClosed    = "closed"
	eventHeartbeat = "heartbeat"
)

func (ws *WebServer) lookupSlider(c *gin.Context) (string, *slideshow.Slider, bool) {
	id := c.Param("id")
	slider, ok := ws.registry.Get(id)
	if !ok {
		respondError(c, http.StatusNotFound, "slider not found: "+id)
		return "", nil, false
	}
	return id, slider, true
}

// respondSlider answers a slider request with the rendered slider for htmx
// and the slider state otherwise.
func respondSlider(c *gin.Context, status int, id string, slider *slideshow.Slider) {
	if isHTMX(c) {
		renderComponent(c, status, templates.Slider(id, slider.View()))
		return
	}
	c.JSON(status, models.SliderResponse{ID: id, State: slider.State()})
}

func (ws *WebServer) handleCreateSlider(c *gin.Context) {
	id, slider, err := ws.registry.Create()
	if errors.Is(err, slideshow.ErrRegistryClosed) {
		respondError(c, http.StatusServiceUnavailable, err.Error())
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	respondSlider(c, http.StatusCreated, id, slider)
}

func (ws *WebServer) handleGetSlider(c *gin.Context) {
	id, slider, ok := ws.lookupSlider(c)
	if !ok {
		return
	}
	respondSlider(c, http.StatusOK, id, slider)
}

// sliderAction wraps a state transition that takes no arguments.
func (ws *WebServer) sliderAction(action func(s *slideshow.Slider)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, slider, ok := ws.lookupSlider(c)
		if !ok {
			return
		}
		action(slider)
		respondSlider(c, http.StatusOK, id, slider)
	}
}

func (ws *WebServer) handleSliderGoTo(c *gin.Context) {
	id, slider, ok := ws.lookupSlider(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "index must be an integer")
		return
	}
	// out of range indices are clamped by the slider
	slider.GoTo(index)
	respondSlider(c, http.StatusOK, id, slider)
}

func (ws *WebServer) handleSliderKey(c *gin.Context) {
	_, slider, ok := ws.lookupSlider(c)
	if !ok {
		return
	}
	var req models.KeyRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	preventDefault := slider.HandleKey(req.Key)
	c.JSON(http.StatusOK, models.KeyResponse{
		PreventDefault: preventDefault,
		State:          slider.State(),
	})
}

// handleCloseSlider is called from a page unload beacon. Closing an unknown
// slider is not an error.
func (ws *WebServer) handleCloseSlider(c *gin.Context) {
	id := c.Param("id")
	if ws.registry.Remove(id) {
		slog.Debug("closed slider", "id", id)
	}
	c.Status(http.StatusNoContent)
}

// handleSliderEvents streams slider updates. A state event carries the whole
// rendered slider, a progress event only the progress value. The stream ends
// with a closed event once the slider is gone.
func (ws *WebServer) handleSliderEvents(c *gin.Context) {
	id, slider, ok := ws.lookupSlider(c)
	if !ok {
		return
	}

	events, cancel := slider.Subscribe()
	defer cancel()

	heartbeat := time.NewTicker(ws.heartbeat)
	defer heartbeat.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	ctx := c.Request.Context()
	c.Stream(func(_ io.Writer) bool {
		// the first step always sends the current state
		if !c.Writer.Written() {
			return ws.sendState(c, id, slider)
		}

		select {
		case <-ctx.Done():
			return false
		case ev, ok := <-events:
			if !ok {
				c.SSEvent(eventClosed, id)
				return false
			}
			if ev.Kind == slideshow.EventProgress {
				c.SSEvent(eventProgress, templates.FormatProgress(ev.State.Progress))
				return true
			}
			return ws.sendState(c, id, slider)
		case <-heartbeat.C:
			// touching the registry keeps a watched slider from being reaped
			if _, ok := ws.registry.Get(id); !ok {
				c.SSEvent(eventClosed, id)
				return false
			}
			c.SSEvent(eventHeartbeat, strconv.FormatInt(time.Now().Unix(), 10))
			return true
		}
	})
}

func (ws *WebServer) sendState(c *gin.Context, id string, slider *slideshow.Slider) bool {
	html, err := templates.ToString(c.Request.Context(), templates.Slider(id, slider.View()))
	if err != nil {
		slog.Error("failed to render slider", "id", id, "error", err)
		return false
	}
	c.SSEvent(eventState, html)
	return true
}
