// Package config loads the site and server configuration from PORTFOLIO_*
// environment variables. Unset or malformed values fall back to defaults so
// a bad variable never keeps the site from starting.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

type Personal struct {
	Name       string `env:"NAME"       envDefault:"Your Name"`
	University string `env:"UNIVERSITY" envDefault:"University, Faculty of Engineering, 3rd year"`
	Major      string `env:"MAJOR"      envDefault:"Information Engineering and Computer Science"`
	Skills     string `env:"SKILLS"     envDefault:"Web development, data analysis, AI and machine learning"`
	Goal       string `env:"GOAL"       envDefault:"Full-stack engineer"`
	Email      string `env:"EMAIL"      envDefault:"your.email@example.com"`
}

type Links struct {
	GitHub   string `env:"GITHUB_URL"   envDefault:"https://github.com/yourusername"`
	LinkedIn string `env:"LINKEDIN_URL" envDefault:"https://linkedin.com/in/yourusername"`
	Resume   string `env:"RESUME_URL"   envDefault:"/resume.pdf"`
}

type Analytics struct {
	GoogleID string `env:"GOOGLE_ANALYTICS_ID"`
}

// Site is the read-only content configuration used by pages and the header.
type Site struct {
	Name      string    `env:"SITE_NAME" envDefault:"Portfolio"`
	URL       string    `env:"SITE_URL"  envDefault:"http://localhost:8080"`
	Personal  Personal  `envPrefix:"PERSONAL_"`
	Links     Links
	Analytics Analytics
}

type Slider struct {
	Autoplay     bool          `env:"AUTOPLAY"      envDefault:"true"`
	Interval     time.Duration `env:"INTERVAL"      envDefault:"4s"`
	ShowDots     bool          `env:"SHOW_DOTS"     envDefault:"true"`
	ShowProgress bool          `env:"SHOW_PROGRESS" envDefault:"true"`
	Transition   string        `env:"TRANSITION"    envDefault:"fade"`
	AspectRatio  string        `env:"ASPECT_RATIO"  envDefault:"4/3"`
	IdleTTL      time.Duration `env:"IDLE_TTL"      envDefault:"30m"`
	MaxSliders   int           `env:"MAX_SLIDERS"   envDefault:"1000"`
}

type Remote struct {
	AWSProfile string `env:"AWS_PROFILE"`
	S3Bucket   string `env:"S3_BUCKET"`
}

// Enabled reports whether remote photo sync is configured.
func (r Remote) Enabled() bool {
	return r.AWSProfile != "" && r.S3Bucket != ""
}

type Auth struct {
	HostedUIURL string `env:"HOSTED_UI_URL"`
	ClientID    string `env:"CLIENT_ID"`
}

// Admin guards the photo and settings API. With no token the API is closed
// to everyone but the in-process photo managers.
type Admin struct {
	Token string `env:"TOKEN"`
}

type Config struct {
	Addr         string `env:"ADDR"          envDefault:"0.0.0.0:8080"`
	RootPath     string `env:"ROOT_PATH"     envDefault:"."`
	ContentFile  string `env:"CONTENT_FILE"`
	WebServerURL string `env:"WEBSERVER_URL" envDefault:"http://localhost:8080"`
	ValkeyAddr   string `env:"VALKEY_ADDR"`
	ValkeyPass   string `env:"VALKEY_PASSWORD"`

	Site   Site
	Slider Slider `envPrefix:"SLIDER_"`
	Remote Remote
	Auth   Auth  `envPrefix:"AUTH_"`
	Admin  Admin `envPrefix:"ADMIN_"`
}

const envPrefix = "PORTFOLIO_"

// Load reads the configuration. It only returns an error for problems that
// are not plain value errors, which are logged and replaced by defaults.
func Load() (*Config, error) {
	cfg := Default()
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		var agg env.AggregateError
		if !errors.As(err, &agg) {
			return nil, fmt.Errorf("parse env: %w", err)
		}
		for _, fieldErr := range agg.Errors {
			slog.Warn("invalid configuration value, using default", "error", fieldErr)
		}
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Default returns the configuration used when no environment is set.
func Default() *Config {
	cfg := &Config{}
	// envDefault tags are the single source of defaults; parsing an empty
	// environment fills them in
	_ = env.ParseWithOptions(cfg, env.Options{
		Prefix:      envPrefix,
		Environment: map[string]string{},
	})
	return cfg
}

// applyDefaults repairs values that parsed but are out of range.
func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = "0.0.0.0:8080"
	}
	if c.RootPath == "" {
		c.RootPath = "."
	}
	if c.Slider.Interval <= 0 {
		c.Slider.Interval = 4 * time.Second
	}
	if c.Slider.IdleTTL <= 0 {
		c.Slider.IdleTTL = 30 * time.Minute
	}
	if c.Slider.MaxSliders <= 0 {
		c.Slider.MaxSliders = 1000
	}
	if c.Site.Name == "" {
		c.Site.Name = "Portfolio"
	}
}

// DBPath is the SQLite database file under the root path.
func (c *Config) DBPath() string {
	return filepath.Join(c.RootPath, "portfolio.db")
}

// PhotosDir holds locally managed hero photos.
func (c *Config) PhotosDir() string {
	return filepath.Join(c.RootPath, "photos")
}

// RemotePhotosDir holds photos synced from the S3 bucket.
func (c *Config) RemotePhotosDir() string {
	return filepath.Join(c.RootPath, "photos", "remote")
}
