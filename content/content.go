// Package content loads site content (hero photos, projects and skill
// categories) from a YAML file and imports it into the store.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/aouyang1/portfolio/store"
	"github.com/aouyang1/portfolio/util"
)

//go:embed default.yaml
var defaultContent []byte

type Photo struct {
	Filename string `yaml:"filename" validate:"required"`
	Src      string `yaml:"src"`
	Alt      string `yaml:"alt"      validate:"required"`
	Caption  string `yaml:"caption"`
	Category string `yaml:"category" validate:"required,oneof=professional casual working presentation learning remote"`
	Hero     *bool  `yaml:"hero"`
}

type Project struct {
	Slug            string   `yaml:"slug"        validate:"omitempty,slug"`
	Title           string   `yaml:"title"       validate:"required"`
	Description     string   `yaml:"description" validate:"required"`
	LongDescription string   `yaml:"long_description"`
	Category        string   `yaml:"category"    validate:"required,oneof=web-development data-analysis ai-ml infrastructure"`
	Status          string   `yaml:"status"      validate:"omitempty,oneof=draft published archived"`
	Featured        bool     `yaml:"featured"`
	Complexity      int      `yaml:"complexity"  validate:"omitempty,min=1,max=5"`
	Technologies    []string `yaml:"technologies"`
	GitHubURL       string   `yaml:"github_url"  validate:"omitempty,url"`
	DemoURL         string   `yaml:"demo_url"    validate:"omitempty,url"`
	ArticleURL      string   `yaml:"article_url" validate:"omitempty,url"`
	StartedAt       string   `yaml:"started_at"  validate:"omitempty,datetime=2006-01-02"`
}

type SkillCategory struct {
	Name   string   `yaml:"name"   validate:"required"`
	Level  string   `yaml:"level"  validate:"required"`
	Color  string   `yaml:"color"  validate:"required,oneof=blue green purple orange"`
	Skills []string `yaml:"skills" validate:"required,min=1"`
}

type Content struct {
	Photos   []Photo         `yaml:"photos"   validate:"dive"`
	Projects []Project       `yaml:"projects" validate:"dive"`
	Skills   []SkillCategory `yaml:"skills"   validate:"dive"`
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	slugPattern    = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	slugStrip      = regexp.MustCompile(`[^\w\s-]`)
	slugSeparators = regexp.MustCompile(`[\s_-]+`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return slugPattern.MatchString(fl.Field().String())
		})
		validateInst = v
	})
	return validateInst
}

// Slugify turns a title into a URL path segment.
func Slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugSeparators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Load reads and validates a content file.
func Load(path string) (*Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content file: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Default returns the content bundled with the binary.
func Default() (*Content, error) {
	return Parse(defaultContent)
}

func Parse(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}
	for i := range c.Projects {
		if c.Projects[i].Slug == "" {
			c.Projects[i].Slug = Slugify(c.Projects[i].Title)
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Content) Validate() error {
	if err := validatorInstance().Struct(c); err != nil {
		return fmt.Errorf("invalid content: %w", err)
	}

	slugs := make(map[string]struct{}, len(c.Projects))
	for _, p := range c.Projects {
		if p.Slug == "" {
			return fmt.Errorf("invalid content: project %q has no usable slug", p.Title)
		}
		if _, ok := slugs[p.Slug]; ok {
			return fmt.Errorf("invalid content: duplicate project slug %q", p.Slug)
		}
		slugs[p.Slug] = struct{}{}
	}

	files := make(map[string]struct{}, len(c.Photos))
	for _, p := range c.Photos {
		if !util.IsSupported(p.Filename) {
			return fmt.Errorf("invalid content: unsupported photo file %q", p.Filename)
		}
		if _, ok := files[p.Filename]; ok {
			return fmt.Errorf("invalid content: duplicate photo %q", p.Filename)
		}
		files[p.Filename] = struct{}{}
	}
	return nil
}

// Store is the subset of the database the importer writes to.
type Store interface {
	PhotoExists(filename string) (bool, error)
	GetMaxOrder() (int, error)
	InsertPhoto(p *store.Photo) error
	UpsertProject(p *store.Project) error
	UpsertSkillCategory(c *store.SkillCategory) error
}

type Result struct {
	Photos   int
	Projects int
	Skills   int
}

// Import writes c into db. Projects and skill categories are upserted; photos
// already registered under the same filename are left untouched. photosDir is
// used to read image dimensions when the file is present.
func Import(db Store, c *Content, photosDir string) (Result, error) {
	var res Result

	for _, p := range c.Photos {
		exists, err := db.PhotoExists(p.Filename)
		if err != nil {
			return res, err
		}
		if exists {
			continue
		}
		photo, err := NewPhoto(db, p, photosDir)
		if err != nil {
			return res, err
		}
		if err := db.InsertPhoto(photo); err != nil {
			return res, err
		}
		res.Photos++
	}

	for i, p := range c.Projects {
		project, err := p.toStore(i)
		if err != nil {
			return res, err
		}
		if err := db.UpsertProject(project); err != nil {
			return res, err
		}
		res.Projects++
	}

	for i, s := range c.Skills {
		category := &store.SkillCategory{
			Name:   s.Name,
			Level:  s.Level,
			Color:  s.Color,
			Skills: s.Skills,
			Order:  i,
		}
		if err := db.UpsertSkillCategory(category); err != nil {
			return res, err
		}
		res.Skills++
	}

	slog.Info("imported content", "photos", res.Photos, "projects", res.Projects, "skills", res.Skills)
	return res, nil
}

// NewPhoto builds the store record for a content photo appended after the
// existing ones.
func NewPhoto(db Store, p Photo, photosDir string) (*store.Photo, error) {
	order, err := db.GetMaxOrder()
	if err != nil {
		return nil, err
	}

	src := p.Src
	if src == "" {
		src = "/photos/" + filepath.ToSlash(p.Filename)
	}
	hero := true
	if p.Hero != nil {
		hero = *p.Hero
	}

	photo := &store.Photo{
		ID:          uuid.NewString(),
		Filename:    p.Filename,
		Src:         src,
		Alt:         p.Alt,
		Caption:     p.Caption,
		Category:    p.Category,
		AspectRatio: util.ClassifyAspectRatio(0, 0),
		Order:       order,
		IsHero:      hero,
	}

	w, h, err := util.ReadDimensions(filepath.Join(photosDir, p.Filename))
	switch {
	case err == nil:
		photo.Width, photo.Height = w, h
		photo.AspectRatio = util.ClassifyAspectRatio(w, h)
	case errors.Is(err, os.ErrNotExist):
		slog.Debug("photo file not present yet", "filename", p.Filename)
	default:
		slog.Warn("unable to read image for resolution", "filename", p.Filename, "error", err)
	}
	return photo, nil
}

func (p Project) toStore(order int) (*store.Project, error) {
	project := &store.Project{
		Slug:            p.Slug,
		Title:           p.Title,
		Description:     p.Description,
		LongDescription: p.LongDescription,
		Category:        p.Category,
		Status:          p.Status,
		Featured:        p.Featured,
		Complexity:      p.Complexity,
		Technologies:    p.Technologies,
		GitHubURL:       p.GitHubURL,
		DemoURL:         p.DemoURL,
		ArticleURL:      p.ArticleURL,
		Order:           order,
	}
	if project.Status == "" {
		project.Status = store.StatusPublished
	}
	if project.Complexity == 0 {
		project.Complexity = 1
	}
	if p.StartedAt != "" {
		t, err := time.Parse(time.DateOnly, p.StartedAt)
		if err != nil {
			return nil, fmt.Errorf("project %s started_at: %w", p.Slug, err)
		}
		project.StartedAt = t
	}
	return project, nil
}
