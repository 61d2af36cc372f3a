// Package api is the main api web server
package api

import (
	"context"
	"crypto/subtle"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"

	"github.com/aouyang1/portfolio/api/models"
	"github.com/aouyang1/portfolio/auth"
	"github.com/aouyang1/portfolio/cache"
	"github.com/aouyang1/portfolio/config"
	"github.com/aouyang1/portfolio/slideshow"
	"github.com/aouyang1/portfolio/store"
)

//go:embed web/static/**
var webFiles embed.FS

const (
	defaultHeartbeat = 15 * time.Second
	shutdownTimeout  = 10 * time.Second
)

type WebServer struct {
	router   *gin.Engine
	db       *store.Database
	cfg      *config.Config
	registry *slideshow.Registry
	cache    cache.PageCache
	identity auth.IdentityConfig

	// heartbeat is how often an idle event stream checks that its slider
	// still exists and keeps it from being reaped
	heartbeat time.Duration

	// adminToken unlocks the photo and settings API; empty disables it
	adminToken string
}

type Option func(*WebServer)

func WithPageCache(pc cache.PageCache) Option {
	return func(ws *WebServer) { ws.cache = pc }
}

func WithHeartbeat(d time.Duration) Option {
	return func(ws *WebServer) { ws.heartbeat = d }
}

// WithAdminToken enables the admin API for requests carrying
// "Authorization: Bearer <token>".
func WithAdminToken(token string) Option {
	return func(ws *WebServer) { ws.adminToken = token }
}

func NewWebServer(
	db *store.Database,
	cfg *config.Config,
	registry *slideshow.Registry,
	identity auth.IdentityConfig,
	opts ...Option,
) (*WebServer, error) {
	if db == nil {
		return nil, errors.New("no database provided for web server")
	}
	if registry == nil {
		return nil, errors.New("no slider registry provided for web server")
	}

	router := gin.Default()
	router.Use(secureHeaders())

	ws := &WebServer{
		router:    router,
		db:        db,
		cfg:       cfg,
		registry:  registry,
		cache:     cache.Noop{},
		identity:  identity,
		heartbeat: defaultHeartbeat,
	}
	for _, opt := range opts {
		opt(ws)
	}

	if err := ws.setupRoutes(); err != nil {
		return nil, err
	}
	return ws, nil
}

// secureHeaders adds the usual hardening headers to every response.
func secureHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "SAMEORIGIN")
		h.Set("X-XSS-Protection", "0")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", "interest-cohort=()")
		c.Next()
	}
}

// requireAdmin answers 404 while the admin API is disabled, so it cannot be
// told apart from a missing route, and 403 for a wrong or missing token.
func requireAdmin(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			respondError(c, http.StatusNotFound, "not found")
			c.Abort()
			return
		}
		got, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			respondError(c, http.StatusForbidden, "admin token required")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (ws *WebServer) setupRoutes() error {
	// Create filesystem for static files (strip "web/" prefix)
	staticFS, err := fs.Sub(webFiles, "web/static")
	if err != nil {
		return fmt.Errorf("failed to create static filesystem: %w", err)
	}

	ws.router.StaticFS("/static", http.FS(staticFS))
	ws.router.Static("/photos", ws.cfg.PhotosDir())

	serveFavicon := func(c *gin.Context) {
		data, err := webFiles.ReadFile("web/static/images/favicon.svg")
		if err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		c.Data(http.StatusOK, "image/svg+xml", data)
	}
	ws.router.GET("/favicon.ico", serveFavicon)
	ws.router.GET("/favicon.svg", serveFavicon)

	// Pages
	ws.router.GET("/", ws.handleHome)
	ws.router.GET("/projects", ws.handleProjects)
	ws.router.GET("/projects/:slug", ws.handleProjectDetail)
	ws.router.GET("/about", ws.handleAbout)
	ws.router.GET("/contact", ws.handleContact)
	ws.router.GET("/auth", ws.handleAuth)
	ws.router.GET("/auth/config", ws.handleAuthConfig)
	ws.router.GET("/ui/header", ws.handleUIHeader)
	ws.router.NoRoute(ws.handleNotFound)

	// Sliders
	ws.router.POST("/slider", ws.handleCreateSlider)
	slider := ws.router.Group("/slider/:id")
	slider.GET("", ws.handleGetSlider)
	slider.GET("/events", ws.handleSliderEvents)
	slider.POST("/next", ws.sliderAction(func(s *slideshow.Slider) { s.Next() }))
	slider.POST("/prev", ws.sliderAction(func(s *slideshow.Slider) { s.Prev() }))
	slider.POST("/toggle", ws.sliderAction(func(s *slideshow.Slider) { s.Toggle() }))
	slider.POST("/hover/enter", ws.sliderAction(func(s *slideshow.Slider) { s.HoverEnter() }))
	slider.POST("/hover/leave", ws.sliderAction(func(s *slideshow.Slider) { s.HoverLeave() }))
	slider.POST("/goto/:index", ws.handleSliderGoTo)
	slider.POST("/key", ws.handleSliderKey)
	slider.POST("/close", ws.handleCloseSlider)

	// API routes
	api := ws.router.Group("/api")
	api.GET("/photos/:id/image", ws.handlePhotoImage)
	api.GET("/settings/slider", ws.handleGetSliderSettings)
	api.GET("/projects", ws.handleListProjects)

	// Admin routes change or list the owner's photos and settings
	admin := ws.router.Group("", requireAdmin(ws.adminToken))
	admin.GET("/ui/photos", ws.handleUIPhotos)
	admin.POST("/api/photos/upload", ws.handleUpload)
	admin.POST("/api/photos/register", ws.handleRegisterPhoto)
	admin.GET("/api/photos", ws.handleListPhotos)
	admin.DELETE("/api/photos/:id", ws.handleDeletePhoto)
	admin.PUT("/api/photos/:id/reorder", ws.handleReorderPhoto)
	admin.PUT("/api/settings/slider", ws.handleUpdateSliderSettings)

	return nil
}

func (ws *WebServer) Handler() http.Handler {
	return ws.router
}

// Start serves until ctx is cancelled, then drains in-flight requests and
// closes every live slider.
func (ws *WebServer) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ws.cfg.Addr,
		Handler:           ws.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting web server", "addr", ws.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("web server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down web server")
	// event streams only end once their sliders are closed
	ws.registry.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown web server: %w", err)
	}
	return nil
}

// RefreshPhotos reloads the hero photos into every live slider and drops
// cached pages.
func (ws *WebServer) RefreshPhotos(ctx context.Context) error {
	photos, err := ws.db.GetHeroPhotos()
	if err != nil {
		return fmt.Errorf("failed to get hero photos: %w", err)
	}
	ws.registry.SetPhotos(toSlides(photos))
	ws.cache.InvalidateAll(ctx)
	slog.Info("refreshed slider photos", "count", len(photos))
	return nil
}

func toSlides(photos []store.Photo) []slideshow.Photo {
	slides := make([]slideshow.Photo, len(photos))
	for i, p := range photos {
		slides[i] = slideshow.Photo{
			ID:      p.ID,
			Src:     p.Src,
			Alt:     p.Alt,
			Caption: p.Caption,
			Order:   p.Order,
		}
	}
	return slides
}

func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

// respondError writes a plain message for htmx requests and an
// ErrorResponse otherwise.
func respondError(c *gin.Context, status int, msg string) {
	if isHTMX(c) {
		c.String(status, "Error: "+msg)
		return
	}
	c.JSON(status, models.ErrorResponse{Error: msg})
}

func renderComponent(c *gin.Context, status int, component templ.Component) {
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(c.Request.Context(), c.Writer); err != nil {
		slog.Error("failed to render component", "path", c.Request.URL.Path, "error", err)
	}
}
