// Package store database for photo metadata, projects, skills, and slider settings
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("not found")

type Database struct {
	db *sql.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	// Create directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite serializes writers; one connection avoids SQLITE_BUSY under concurrent handlers
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	database := &Database{db: db}

	if err := database.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return database, nil
}

func (d *Database) createTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS photos (
		id           TEXT NOT NULL PRIMARY KEY,
		filename     TEXT NOT NULL UNIQUE,
		src          TEXT NOT NULL,
		alt          TEXT NOT NULL,
		caption      TEXT NOT NULL DEFAULT '',
		category     TEXT NOT NULL,
		aspect_ratio TEXT NOT NULL,
		width        INTEGER NOT NULL DEFAULT 0,
		height       INTEGER NOT NULL DEFAULT 0,
		"order"      INTEGER NOT NULL,
		is_hero      INTEGER NOT NULL DEFAULT 1
	);
	CREATE INDEX IF NOT EXISTS idx_photos_hero_order ON photos(is_hero, "order");
	CREATE TABLE IF NOT EXISTS projects (
		slug             TEXT NOT NULL PRIMARY KEY,
		title            TEXT NOT NULL,
		description      TEXT NOT NULL,
		long_description TEXT NOT NULL DEFAULT '',
		category         TEXT NOT NULL,
		status           TEXT NOT NULL,
		featured         INTEGER NOT NULL DEFAULT 0,
		complexity       INTEGER NOT NULL DEFAULT 1,
		technologies     TEXT NOT NULL DEFAULT '[]',
		github_url       TEXT NOT NULL DEFAULT '',
		demo_url         TEXT NOT NULL DEFAULT '',
		article_url      TEXT NOT NULL DEFAULT '',
		started_at       TEXT NOT NULL DEFAULT '',
		"order"          INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_projects_status_order ON projects(status, "order");
	CREATE TABLE IF NOT EXISTS skill_categories (
		name    TEXT NOT NULL PRIMARY KEY,
		level   TEXT NOT NULL,
		color   TEXT NOT NULL,
		skills  TEXT NOT NULL DEFAULT '[]',
		"order" INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS slider_settings (
		singleton     INTEGER NOT NULL DEFAULT 1 CHECK (singleton = 1),
		autoplay      INTEGER NOT NULL,
		interval_ms   INTEGER NOT NULL,
		show_dots     INTEGER NOT NULL,
		show_progress INTEGER NOT NULL,
		transition    TEXT NOT NULL,
		aspect_ratio  TEXT NOT NULL,
		PRIMARY KEY (singleton)
	);
	`
	_, err := d.db.Exec(query)
	return err
}

const photoColumns = `id, filename, src, alt, caption, category, aspect_ratio, width, height, "order", is_hero`

func (d *Database) InsertPhoto(p *Photo) error {
	query := `INSERT INTO photos (` + photoColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := d.db.Exec(query,
		p.ID, p.Filename, p.Src, p.Alt, p.Caption, p.Category,
		p.AspectRatio, p.Width, p.Height, p.Order, boolToInt(p.IsHero),
	)
	if err != nil {
		return fmt.Errorf("failed to insert photo: %w", err)
	}
	return nil
}

func (d *Database) GetPhoto(id string) (*Photo, error) {
	query := `SELECT ` + photoColumns + ` FROM photos WHERE id = ?`
	p, err := scanPhoto(d.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("photo %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	return p, nil
}

func (d *Database) GetPhotoByFilename(filename string) (*Photo, error) {
	query := `SELECT ` + photoColumns + ` FROM photos WHERE filename = ?`
	p, err := scanPhoto(d.db.QueryRow(query, filename))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("photo %s: %w", filename, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	return p, nil
}

func (d *Database) GetPhotos(limit int, offset int) ([]Photo, error) {
	query := `
		SELECT ` + photoColumns + `
		FROM photos
		ORDER BY "order" ASC
		LIMIT ? OFFSET ?
	`
	return d.queryPhotos(query, limit, offset)
}

func (d *Database) GetAllPhotos() ([]Photo, error) {
	query := `SELECT ` + photoColumns + ` FROM photos ORDER BY "order" ASC`
	return d.queryPhotos(query)
}

// GetHeroPhotos returns the photos shown in the home page slider, in display order.
func (d *Database) GetHeroPhotos() ([]Photo, error) {
	query := `SELECT ` + photoColumns + ` FROM photos WHERE is_hero = 1 ORDER BY "order" ASC`
	return d.queryPhotos(query)
}

func (d *Database) queryPhotos(query string, args ...any) ([]Photo, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query photos: %w", err)
	}
	defer rows.Close()

	var photos []Photo
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		photos = append(photos, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return photos, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPhoto(s scanner) (*Photo, error) {
	var p Photo
	var isHero int
	err := s.Scan(
		&p.ID, &p.Filename, &p.Src, &p.Alt, &p.Caption, &p.Category,
		&p.AspectRatio, &p.Width, &p.Height, &p.Order, &isHero,
	)
	if err != nil {
		return nil, err
	}
	p.IsHero = isHero != 0
	return &p, nil
}

func (d *Database) GetPhotoCount() (int, error) {
	query := `SELECT COUNT(*) FROM photos`
	var count int
	err := d.db.QueryRow(query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get photo count: %w", err)
	}
	return count, nil
}

func (d *Database) DeletePhoto(id string) error {
	query := `DELETE FROM photos WHERE id = ?`
	result, err := d.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("photo %s: %w", id, ErrNotFound)
	}

	return nil
}

// GetMaxOrder returns the order value for the next appended photo.
func (d *Database) GetMaxOrder() (int, error) {
	query := `SELECT COALESCE(MAX("order"), -1) FROM photos`
	var maxOrder int
	err := d.db.QueryRow(query).Scan(&maxOrder)
	if err != nil {
		return 0, fmt.Errorf("failed to get max order: %w", err)
	}
	return maxOrder + 1, nil
}

func (d *Database) PhotoExists(filename string) (bool, error) {
	query := `SELECT COUNT(*) FROM photos WHERE filename = ?`
	var count int
	err := d.db.QueryRow(query, filename).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check photo existence: %w", err)
	}
	return count > 0, nil
}

// UpdatePhotoOrder rewrites the order of the given photos to their position
// in ids. Photos not listed keep their order after the listed ones.
func (d *Database) UpdatePhotoOrder(ids []string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin reorder: %w", err)
	}
	defer tx.Rollback()

	var offset int
	if err := tx.QueryRow(`SELECT COALESCE(MAX("order"), -1) + 1 FROM photos`).Scan(&offset); err != nil {
		return fmt.Errorf("reorder offset: %w", err)
	}
	// shift everything past the current maximum so listed photos can take 0..n-1
	if _, err := tx.Exec(`UPDATE photos SET "order" = "order" + ? + ?`, offset, len(ids)); err != nil {
		return fmt.Errorf("shift photo order: %w", err)
	}

	for i, id := range ids {
		result, err := tx.Exec(`UPDATE photos SET "order" = ? WHERE id = ?`, i, id)
		if err != nil {
			return fmt.Errorf("update photo order: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("photo %s: %w", id, ErrNotFound)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reorder: %w", err)
	}
	return nil
}

// DefaultSliderSettings is stored the first time settings are read and
// nothing was seeded.
var DefaultSliderSettings = SliderSettings{
	Autoplay:     true,
	IntervalMS:   4000,
	ShowDots:     true,
	ShowProgress: true,
	Transition:   "fade",
	AspectRatio:  "4/3",
}

func (d *Database) GetSliderSettings() (*SliderSettings, error) {
	const query = `
		SELECT autoplay,
		       interval_ms,
		       show_dots,
		       show_progress,
		       transition,
		       aspect_ratio
		FROM slider_settings
		WHERE singleton = 1
	`

	var s SliderSettings
	var autoplay, showDots, showProgress int

	err := d.db.QueryRow(query).Scan(&autoplay, &s.IntervalMS, &showDots, &showProgress, &s.Transition, &s.AspectRatio)
	if errors.Is(err, sql.ErrNoRows) {
		// Bootstrap defaults if no settings row exists yet
		defaults := DefaultSliderSettings
		if err := d.UpsertSliderSettings(&defaults); err != nil {
			return nil, err
		}
		return &defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get slider settings: %w", err)
	}

	s.Autoplay = autoplay != 0
	s.ShowDots = showDots != 0
	s.ShowProgress = showProgress != 0
	return &s, nil
}

// SeedSliderSettings stores s only when no settings row exists yet, so values
// changed through the API survive restarts.
func (d *Database) SeedSliderSettings(s *SliderSettings) error {
	const stmt = `
		INSERT OR IGNORE INTO slider_settings (
			singleton, autoplay, interval_ms, show_dots, show_progress, transition, aspect_ratio
		) VALUES (1, ?, ?, ?, ?, ?, ?)
	`
	_, err := d.db.Exec(stmt,
		boolToInt(s.Autoplay), s.IntervalMS, boolToInt(s.ShowDots),
		boolToInt(s.ShowProgress), s.Transition, s.AspectRatio,
	)
	if err != nil {
		return fmt.Errorf("seed slider settings: %w", err)
	}
	return nil
}

func (d *Database) UpsertSliderSettings(s *SliderSettings) error {
	const stmt = `
		INSERT INTO slider_settings (
			singleton,
			autoplay,
			interval_ms,
			show_dots,
			show_progress,
			transition,
			aspect_ratio
		) VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(singleton) DO UPDATE SET
			autoplay      = excluded.autoplay,
			interval_ms   = excluded.interval_ms,
			show_dots     = excluded.show_dots,
			show_progress = excluded.show_progress,
			transition    = excluded.transition,
			aspect_ratio  = excluded.aspect_ratio
	`

	_, err := d.db.Exec(
		stmt,
		boolToInt(s.Autoplay),
		s.IntervalMS,
		boolToInt(s.ShowDots),
		boolToInt(s.ShowProgress),
		s.Transition,
		s.AspectRatio,
	)
	if err != nil {
		return fmt.Errorf("upsert slider settings: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (d *Database) Close() error {
	return d.db.Close()
}
