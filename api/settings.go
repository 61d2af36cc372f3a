package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aouyang1/portfolio/api/models"
	"github.com/aouyang1/portfolio/config"
	"github.com/aouyang1/portfolio/slideshow"
	"github.com/aouyang1/portfolio/store"
)

// SliderConfig converts stored settings into a slider configuration.
func SliderConfig(s store.SliderSettings) slideshow.Config {
	return slideshow.Config{
		Autoplay:     s.Autoplay,
		Interval:     time.Duration(s.IntervalMS) * time.Millisecond,
		ShowDots:     s.ShowDots,
		ShowProgress: s.ShowProgress,
		Transition:   slideshow.Transition(s.Transition),
		AspectRatio:  slideshow.AspectRatio(s.AspectRatio),
	}.Normalize()
}

// SliderSettingsFromConfig is the settings row seeded from the environment
// on first start.
func SliderSettingsFromConfig(c config.Slider) store.SliderSettings {
	cfg := slideshow.Config{
		Autoplay:     c.Autoplay,
		Interval:     c.Interval,
		ShowDots:     c.ShowDots,
		ShowProgress: c.ShowProgress,
		Transition:   slideshow.Transition(c.Transition),
		AspectRatio:  slideshow.AspectRatio(c.AspectRatio),
	}.Normalize()

	return store.SliderSettings{
		Autoplay:     cfg.Autoplay,
		IntervalMS:   int(cfg.Interval / time.Millisecond),
		ShowDots:     cfg.ShowDots,
		ShowProgress: cfg.ShowProgress,
		Transition:   string(cfg.Transition),
		AspectRatio:  string(cfg.AspectRatio),
	}
}

func (ws *WebServer) handleGetSliderSettings(c *gin.Context) {
	settings, err := ws.db.GetSliderSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to get settings: %v", err)})
		return
	}

	c.JSON(http.StatusOK, settings)
}

// handleUpdateSliderSettings stores the new settings and applies them to
// every live slider.
func (ws *WebServer) handleUpdateSliderSettings(c *gin.Context) {
	var req models.UpdateSliderSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("Invalid request body: %v", err)})
		return
	}

	newSettings := &store.SliderSettings{
		Autoplay:     req.Autoplay,
		IntervalMS:   req.IntervalMS,
		ShowDots:     req.ShowDots,
		ShowProgress: req.ShowProgress,
		Transition:   req.Transition,
		AspectRatio:  req.AspectRatio,
	}

	if err := ws.db.UpsertSliderSettings(newSettings); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to update settings: %v", err)})
		return
	}

	ws.registry.SetConfig(SliderConfig(*newSettings))

	c.JSON(http.StatusOK, newSettings)
}
