package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
)

const (
	DefaultProjectLimit = 12
	MaxProjectLimit     = 50
)

const projectColumns = `slug, title, description, long_description, category, status, featured,
	complexity, technologies, github_url, demo_url, article_url, started_at, "order"`

func (d *Database) UpsertProject(p *Project) error {
	techs, err := json.Marshal(nonNil(p.Technologies))
	if err != nil {
		return fmt.Errorf("encode technologies: %w", err)
	}
	startedAt := ""
	if !p.StartedAt.IsZero() {
		startedAt = p.StartedAt.UTC().Format(time.DateOnly)
	}

	const stmt = `
		INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
			title            = excluded.title,
			description      = excluded.description,
			long_description = excluded.long_description,
			category         = excluded.category,
			status           = excluded.status,
			featured         = excluded.featured,
			complexity       = excluded.complexity,
			technologies     = excluded.technologies,
			github_url       = excluded.github_url,
			demo_url         = excluded.demo_url,
			article_url      = excluded.article_url,
			started_at       = excluded.started_at,
			"order"          = excluded."order"
	`
	_, err = d.db.Exec(stmt,
		p.Slug, p.Title, p.Description, p.LongDescription, p.Category, p.Status,
		boolToInt(p.Featured), p.Complexity, string(techs), p.GitHubURL, p.DemoURL,
		p.ArticleURL, startedAt, p.Order,
	)
	if err != nil {
		return fmt.Errorf("upsert project %s: %w", p.Slug, err)
	}
	return nil
}

func (d *Database) GetProject(slug string) (*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE slug = ?`
	p, err := scanProject(d.db.QueryRow(query, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %s: %w", slug, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

// GetProjects returns one page of projects matching f together with the
// total number of matches. Featured projects sort first.
func (d *Database) GetProjects(f ProjectFilter) ([]Project, int, error) {
	var where []string
	var args []any

	status := f.Status
	if status == "" {
		status = StatusPublished
	}
	where = append(where, "status = ?")
	args = append(args, status)

	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if f.FeaturedOnly {
		where = append(where, "featured = 1")
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		where = append(where, "(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)")
		args = append(args, like, like)
	}

	query := `SELECT ` + projectColumns + ` FROM projects WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY featured DESC, "order" ASC, slug ASC`
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	// technologies live in a JSON column, so that filter runs here
	wanted := mapset.NewThreadUnsafeSet[string]()
	for _, t := range f.Technologies {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			wanted.Add(t)
		}
	}

	var matched []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan project: %w", err)
		}
		if !wanted.IsEmpty() && !wanted.IsSubset(lowerSet(p.Technologies)) {
			continue
		}
		matched = append(matched, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	page, limit := f.Page, f.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultProjectLimit
	}
	limit = min(limit, MaxProjectLimit)

	total := len(matched)
	start := min((page-1)*limit, total)
	end := min(start+limit, total)
	return matched[start:end], total, nil
}

// GetTechnologies lists every technology used by published projects, sorted.
func (d *Database) GetTechnologies() ([]string, error) {
	rows, err := d.db.Query(`SELECT technologies FROM projects WHERE status = ?`, StatusPublished)
	if err != nil {
		return nil, fmt.Errorf("failed to query technologies: %w", err)
	}
	defer rows.Close()

	all := mapset.NewThreadUnsafeSet[string]()
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan technologies: %w", err)
		}
		var techs []string
		if err := json.Unmarshal([]byte(raw), &techs); err != nil {
			return nil, fmt.Errorf("decode technologies: %w", err)
		}
		all.Append(techs...)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return mapset.Sorted(all), nil
}

func (d *Database) DeleteProject(slug string) error {
	result, err := d.db.Exec(`DELETE FROM projects WHERE slug = ?`, slug)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("project %s: %w", slug, ErrNotFound)
	}
	return nil
}

func scanProject(s scanner) (*Project, error) {
	var p Project
	var featured int
	var techs, startedAt string
	err := s.Scan(
		&p.Slug, &p.Title, &p.Description, &p.LongDescription, &p.Category, &p.Status,
		&featured, &p.Complexity, &techs, &p.GitHubURL, &p.DemoURL, &p.ArticleURL,
		&startedAt, &p.Order,
	)
	if err != nil {
		return nil, err
	}
	p.Featured = featured != 0
	if err := json.Unmarshal([]byte(techs), &p.Technologies); err != nil {
		return nil, fmt.Errorf("decode technologies: %w", err)
	}
	if startedAt != "" {
		if p.StartedAt, err = time.Parse(time.DateOnly, startedAt); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
	}
	return &p, nil
}

func (d *Database) UpsertSkillCategory(c *SkillCategory) error {
	skills, err := json.Marshal(nonNil(c.Skills))
	if err != nil {
		return fmt.Errorf("encode skills: %w", err)
	}
	const stmt = `
		INSERT INTO skill_categories (name, level, color, skills, "order")
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			level   = excluded.level,
			color   = excluded.color,
			skills  = excluded.skills,
			"order" = excluded."order"
	`
	if _, err := d.db.Exec(stmt, c.Name, c.Level, c.Color, string(skills), c.Order); err != nil {
		return fmt.Errorf("upsert skill category %s: %w", c.Name, err)
	}
	return nil
}

func (d *Database) GetSkillCategories() ([]SkillCategory, error) {
	rows, err := d.db.Query(`SELECT name, level, color, skills, "order" FROM skill_categories ORDER BY "order" ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query skill categories: %w", err)
	}
	defer rows.Close()

	var categories []SkillCategory
	for rows.Next() {
		var c SkillCategory
		var skills string
		if err := rows.Scan(&c.Name, &c.Level, &c.Color, &skills, &c.Order); err != nil {
			return nil, fmt.Errorf("failed to scan skill category: %w", err)
		}
		if err := json.Unmarshal([]byte(skills), &c.Skills); err != nil {
			return nil, fmt.Errorf("decode skills: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return categories, nil
}

func lowerSet(items []string) mapset.Set[string] {
	s := mapset.NewThreadUnsafeSet[string]()
	for _, item := range items {
		s.Add(strings.ToLower(item))
	}
	return s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
