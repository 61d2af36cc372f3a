package store

import "time"

const (
	CategoryProfessional = "professional"
	CategoryCasual       = "casual"
	CategoryWorking      = "working"
	CategoryPresentation = "presentation"
	CategoryLearning     = "learning"
	CategoryRemote       = "remote"
)

type Photo struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	Src         string `json:"src"`
	Alt         string `json:"alt"`
	Caption     string `json:"caption,omitempty"`
	Category    string `json:"category"`
	AspectRatio string `json:"aspect_ratio"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Order       int    `json:"order"`
	IsHero      bool   `json:"is_hero"`
}

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

type Project struct {
	Slug            string    `json:"slug"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	LongDescription string    `json:"long_description,omitempty"`
	Category        string    `json:"category"`
	Status          string    `json:"status"`
	Featured        bool      `json:"featured"`
	Complexity      int       `json:"complexity"`
	Technologies    []string  `json:"technologies"`
	GitHubURL       string    `json:"github_url,omitempty"`
	DemoURL         string    `json:"demo_url,omitempty"`
	ArticleURL      string    `json:"article_url,omitempty"`
	StartedAt       time.Time `json:"started_at"`
	Order           int       `json:"order"`
}

// ProjectFilter narrows GetProjects. Zero values match everything except
// Status, which defaults to published.
type ProjectFilter struct {
	Search       string
	Category     string
	Status       string
	Technologies []string
	FeaturedOnly bool
	Page         int
	Limit        int
}

type SkillCategory struct {
	Name   string   `json:"name"`
	Level  string   `json:"level"`
	Color  string   `json:"color"`
	Skills []string `json:"skills"`
	Order  int      `json:"order"`
}

type SliderSettings struct {
	Autoplay     bool   `json:"autoplay"`
	IntervalMS   int    `json:"interval_ms"`
	ShowDots     bool   `json:"show_dots"`
	ShowProgress bool   `json:"show_progress"`
	Transition   string `json:"transition"`
	AspectRatio  string `json:"aspect_ratio"`
}
