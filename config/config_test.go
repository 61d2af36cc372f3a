package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "0.0.0.0:8080", cfg.Addr)
	assert.Equal(t, ".", cfg.RootPath)
	assert.Equal(t, "Portfolio", cfg.Site.Name)
	assert.Equal(t, "Your Name", cfg.Site.Personal.Name)
	assert.Equal(t, "your.email@example.com", cfg.Site.Personal.Email)
	assert.Equal(t, "/resume.pdf", cfg.Site.Links.Resume)
	assert.Empty(t, cfg.Site.Analytics.GoogleID)

	assert.True(t, cfg.Slider.Autoplay)
	assert.Equal(t, 4*time.Second, cfg.Slider.Interval)
	assert.True(t, cfg.Slider.ShowDots)
	assert.True(t, cfg.Slider.ShowProgress)
	assert.Equal(t, "fade", cfg.Slider.Transition)
	assert.Equal(t, "4/3", cfg.Slider.AspectRatio)
	assert.False(t, cfg.Remote.Enabled())
	assert.Empty(t, cfg.Admin.Token, "admin API is closed by default")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORTFOLIO_PERSONAL_NAME", "Taro Yamada")
	t.Setenv("PORTFOLIO_GITHUB_URL", "https://github.com/taro")
	t.Setenv("PORTFOLIO_GOOGLE_ANALYTICS_ID", "G-TEST")
	t.Setenv("PORTFOLIO_SLIDER_INTERVAL", "6s")
	t.Setenv("PORTFOLIO_SLIDER_AUTOPLAY", "false")
	t.Setenv("PORTFOLIO_AWS_PROFILE", "portfolio")
	t.Setenv("PORTFOLIO_S3_BUCKET", "portfolio-photos")
	t.Setenv("PORTFOLIO_AUTH_HOSTED_UI_URL", "https://auth.example.com")
	t.Setenv("PORTFOLIO_ROOT_PATH", "/srv/portfolio")
	t.Setenv("PORTFOLIO_ADMIN_TOKEN", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Taro Yamada", cfg.Site.Personal.Name)
	assert.Equal(t, "https://github.com/taro", cfg.Site.Links.GitHub)
	assert.Equal(t, "G-TEST", cfg.Site.Analytics.GoogleID)
	assert.Equal(t, 6*time.Second, cfg.Slider.Interval)
	assert.False(t, cfg.Slider.Autoplay)
	assert.True(t, cfg.Remote.Enabled())
	assert.Equal(t, "https://auth.example.com", cfg.Auth.HostedUIURL)
	assert.Equal(t, "s3cret", cfg.Admin.Token)
	assert.Equal(t, filepath.Join("/srv/portfolio", "portfolio.db"), cfg.DBPath())
	assert.Equal(t, filepath.Join("/srv/portfolio", "photos", "remote"), cfg.RemotePhotosDir())
}

func TestLoadMalformedValuesFallBack(t *testing.T) {
	t.Setenv("PORTFOLIO_SLIDER_INTERVAL", "soon")
	t.Setenv("PORTFOLIO_SLIDER_AUTOPLAY", "maybe")
	t.Setenv("PORTFOLIO_SLIDER_MAX_SLIDERS", "-4")
	t.Setenv("PORTFOLIO_SITE_NAME", "My Portfolio")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4*time.Second, cfg.Slider.Interval)
	assert.True(t, cfg.Slider.Autoplay)
	assert.Equal(t, 1000, cfg.Slider.MaxSliders)
	assert.Equal(t, "My Portfolio", cfg.Site.Name)
}

func TestLoadNonPositiveInterval(t *testing.T) {
	t.Setenv("PORTFOLIO_SLIDER_INTERVAL", "-1s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4*time.Second, cfg.Slider.Interval)
}
