package api

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aouyang1/portfolio/api/models"
	"github.com/aouyang1/portfolio/auth"
	"github.com/aouyang1/portfolio/config"
	"github.com/aouyang1/portfolio/content"
	"github.com/aouyang1/portfolio/slideshow"
	"github.com/aouyang1/portfolio/store"
)

const testAdminToken = "test-admin-token"

type testServer struct {
	ws       *WebServer
	db       *store.Database
	cfg      *config.Config
	registry *slideshow.Registry
}

func newTestServer(t *testing.T, opts ...Option) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.RootPath = t.TempDir()
	require.NoError(t, os.MkdirAll(cfg.PhotosDir(), 0o755))

	db, err := store.NewDatabase(cfg.DBPath())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	c, err := content.Default()
	require.NoError(t, err)
	_, err = content.Import(db, c, cfg.PhotosDir())
	require.NoError(t, err)

	// autoplay stays on so hover applies, but nothing rotates during a test
	sliderCfg := slideshow.DefaultConfig()
	sliderCfg.Interval = time.Hour
	sliderCfg.ShowProgress = false
	registry := slideshow.NewRegistry(nil, sliderCfg)
	t.Cleanup(registry.Close)

	opts = append([]Option{WithAdminToken(testAdminToken)}, opts...)
	ws, err := NewWebServer(db, cfg, registry, auth.Default(), opts...)
	require.NoError(t, err)

	return &testServer{ws: ws, db: db, cfg: cfg, registry: registry}
}

func (ts *testServer) do(t *testing.T, method, target string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Authorization", "Bearer "+testAdminToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	ts.ws.Handler().ServeHTTP(w, req)
	return w
}

// writePNG creates a w x h image under the photos directory.
func (ts *testServer) writePNG(t *testing.T, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(ts.cfg.PhotosDir(), filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))))
	return path
}

func (ts *testServer) addHeroPhotos(t *testing.T, names ...string) []store.Photo {
	t.Helper()
	var photos []store.Photo
	for _, name := range names {
		order, err := ts.db.GetMaxOrder()
		require.NoError(t, err)
		p := store.Photo{
			ID:          "id-" + name,
			Filename:    name,
			Src:         "/photos/" + name,
			Alt:         "photo " + name,
			Category:    store.CategoryCasual,
			AspectRatio: "4/3",
			Order:       order,
			IsHero:      true,
		}
		require.NoError(t, ts.db.InsertPhoto(&p))
		photos = append(photos, p)
	}
	require.NoError(t, ts.ws.RefreshPhotos(t.Context()))
	return photos
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestNewWebServerRequiresCollaborators(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, err := NewWebServer(nil, config.Default(), slideshow.NewRegistry(nil, slideshow.DefaultConfig()), auth.Default())
	assert.Error(t, err)
}

func TestSecureHeaders(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodGet, "/contact", nil)
	require.Equal(t, http.StatusOK, w.Code)

	for header, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "SAMEORIGIN",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	} {
		assert.Equal(t, want, w.Header().Get(header), header)
	}
}

func TestHomePage(t *testing.T) {
	ts := newTestServer(t)

	t.Run("no photos renders placeholder", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/", nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "data-slider-id=")
		assert.Contains(t, body, "No photos yet")
		assert.Contains(t, body, "Portfolio Site", "featured project listed")
		assert.Contains(t, body, "Frontend", "skills listed")
	})

	t.Run("each view gets its own slider", func(t *testing.T) {
		before := ts.registry.Len()
		ts.do(t, http.MethodGet, "/", nil)
		ts.do(t, http.MethodGet, "/", nil)
		assert.Equal(t, before+2, ts.registry.Len())
	})

	t.Run("photos render as slides", func(t *testing.T) {
		ts.addHeroPhotos(t, "a.jpg", "b.jpg")
		w := ts.do(t, http.MethodGet, "/", nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.NotContains(t, body, "No photos yet")
		assert.Contains(t, body, `src="/photos/a.jpg"`)
		assert.Contains(t, body, `data-action="goto/1"`)
	})
}

func TestPages(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		target string
		status int
		want   []string
	}{
		{"projects", "/projects", http.StatusOK, []string{"Demand Forecasting", "Shift Scheduler", "3 projects"}},
		{"projects filtered by tech", "/projects?tech=go", http.StatusOK, []string{"Portfolio Site", "1 project"}},
		{"project detail", "/projects/portfolio-site", http.StatusOK, []string{"Portfolio Site", "server-sent events"}},
		{"unknown project", "/projects/nope", http.StatusNotFound, []string{"Page not found"}},
		{"about", "/about", http.StatusOK, []string{"Infrastructure and Tools"}},
		{"contact", "/contact", http.StatusOK, []string{ts.cfg.Site.Personal.Email}},
		{"auth", "/auth", http.StatusOK, []string{"Email address", "(required)"}},
		{"unknown route", "/does/not/exist", http.StatusNotFound, []string{"Page not found"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodGet, tt.target, nil)
			assert.Equal(t, tt.status, w.Code)
			for _, want := range tt.want {
				assert.Contains(t, w.Body.String(), want)
			}
		})
	}
}

func TestHeaderMarksCurrentPage(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/projects/portfolio-site", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `aria-current="page"`)

	w = ts.do(t, http.MethodGet, "/ui/header?path=/about&menu=open", nil, "HX-Request", "true")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, `<header id="site-header"`))
	assert.Contains(t, body, "nav-mobile")
	assert.Contains(t, body, `aria-expanded="true"`)

	w = ts.do(t, http.MethodGet, "/ui/header?path=/about", nil, "HX-Request", "true")
	assert.NotContains(t, w.Body.String(), "nav-mobile")
}

func TestAuthConfig(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/auth/config", nil)
	require.Equal(t, http.StatusOK, w.Code)

	got := decode[auth.IdentityConfig](t, w)
	require.NoError(t, got.Validate())
	email, ok := got.Attribute("email")
	require.True(t, ok)
	assert.True(t, email.Required)
	assert.Equal(t, auth.VerificationStyleCode, got.LoginWith.VerificationStyle)
}

func TestListProjectsAPI(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/projects?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[models.ProjectListResponse](t, w)
	assert.Equal(t, 3, resp.Total)
	assert.Len(t, resp.Projects, 2)
	assert.Equal(t, "portfolio-site", resp.Projects[0].Slug, "featured projects first")

	w = ts.do(t, http.MethodGet, "/api/projects?q=nothing-matches-this", nil)
	resp = decode[models.ProjectListResponse](t, w)
	assert.Equal(t, 0, resp.Total)
	assert.NotNil(t, resp.Projects)
}

func TestSliderSettings(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/settings/slider", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, store.DefaultSliderSettings, decode[store.SliderSettings](t, w))

	_, slider, err := ts.registry.Create()
	require.NoError(t, err)

	t.Run("update fans out to live sliders", func(t *testing.T) {
		w := ts.do(t, http.MethodPut, "/api/settings/slider", models.UpdateSliderSettingsRequest{
			Autoplay:    true,
			IntervalMS:  6000,
			ShowDots:    false,
			Transition:  "slide",
			AspectRatio: "16/9",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		assert.Equal(t, slideshow.TransitionSlide, ts.registry.Config().Transition)
		assert.Equal(t, slideshow.TransitionSlide, slider.Config().Transition)
		assert.Equal(t, slideshow.AspectRatio16x9, slider.View().AspectRatio)

		stored, err := ts.db.GetSliderSettings()
		require.NoError(t, err)
		assert.Equal(t, 6000, stored.IntervalMS)
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		for _, req := range []models.UpdateSliderSettingsRequest{
			{IntervalMS: 4000, Transition: "wipe", AspectRatio: "4/3"},
			{IntervalMS: 4000, Transition: "fade", AspectRatio: "3/2"},
			{IntervalMS: 10, Transition: "fade", AspectRatio: "4/3"},
		} {
			w := ts.do(t, http.MethodPut, "/api/settings/slider", req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.NotEmpty(t, decode[models.ErrorResponse](t, w).Error)
		}
	})
}

func TestSliderSettingsConversion(t *testing.T) {
	seeded := SliderSettingsFromConfig(config.Slider{
		Autoplay:    true,
		Interval:    0,
		Transition:  "bogus",
		AspectRatio: "1/1",
	})
	assert.Equal(t, 4000, seeded.IntervalMS)
	assert.Equal(t, "fade", seeded.Transition)
	assert.Equal(t, "1/1", seeded.AspectRatio)

	cfg := SliderConfig(seeded)
	assert.Equal(t, slideshow.DefaultInterval, cfg.Interval)
	assert.Equal(t, slideshow.AspectRatio1x1, cfg.AspectRatio)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	adminRoutes := []struct {
		method, target string
	}{
		{http.MethodGet, "/api/photos"},
		{http.MethodPost, "/api/photos/register"},
		{http.MethodPost, "/api/photos/upload"},
		{http.MethodDelete, "/api/photos/some-id"},
		{http.MethodPut, "/api/photos/some-id/reorder"},
		{http.MethodPut, "/api/settings/slider"},
		{http.MethodGet, "/ui/photos"},
	}

	t.Run("disabled without a token", func(t *testing.T) {
		ts := newTestServer(t, WithAdminToken(""))
		for _, r := range adminRoutes {
			w := ts.do(t, r.method, r.target, nil)
			assert.Equal(t, http.StatusNotFound, w.Code, "%s %s", r.method, r.target)
		}
		w := ts.do(t, http.MethodPut, "/api/settings/slider", models.UpdateSliderSettingsRequest{}, "Authorization", "Bearer ")
		assert.Equal(t, http.StatusNotFound, w.Code, "an empty bearer does not match a disabled token")
	})

	t.Run("wrong or missing token", func(t *testing.T) {
		ts := newTestServer(t)
		for _, r := range adminRoutes {
			w := ts.do(t, r.method, r.target, nil, "Authorization", "")
			assert.Equal(t, http.StatusForbidden, w.Code, "%s %s", r.method, r.target)

			w = ts.do(t, r.method, r.target, nil, "Authorization", "Bearer nope")
			assert.Equal(t, http.StatusForbidden, w.Code, "%s %s", r.method, r.target)
		}
		w := ts.do(t, http.MethodGet, "/api/photos", nil, "Authorization", testAdminToken)
		assert.Equal(t, http.StatusForbidden, w.Code, "token must use the bearer scheme")
	})

	t.Run("valid token", func(t *testing.T) {
		ts := newTestServer(t)
		w := ts.do(t, http.MethodGet, "/api/photos", nil)
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		w = ts.do(t, http.MethodGet, "/ui/photos", nil)
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("public routes stay open", func(t *testing.T) {
		ts := newTestServer(t, WithAdminToken(""))
		for _, target := range []string{"/", "/api/settings/slider", "/api/projects", "/auth/config"} {
			w := ts.do(t, http.MethodGet, target, nil, "Authorization", "")
			assert.Equal(t, http.StatusOK, w.Code, target)
		}
	})
}
