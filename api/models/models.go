// Package models tracks all api models for request and responses
package models

import (
	"github.com/aouyang1/portfolio/slideshow"
	"github.com/aouyang1/portfolio/store"
)

type UploadResponse struct {
	Photo   store.Photo `json:"photo"`
	Message string      `json:"message"`
}

type PhotoListResponse struct {
	Photos []store.Photo `json:"photos"`
	Total  int           `json:"total"`
	Page   int           `json:"page"`
	Limit  int           `json:"limit"`
}

type ReorderRequest struct {
	NewOrder int `json:"new_order"`
}

// RegisterPhotoRequest registers a file that already exists under the photos
// directory. Filename is relative to that directory.
type RegisterPhotoRequest struct {
	Filename string `json:"filename" binding:"required"`
	Alt      string `json:"alt"`
	Caption  string `json:"caption"`
	Category string `json:"category" binding:"omitempty,oneof=professional casual working presentation learning remote"`
	Hero     *bool  `json:"hero"`
}

type RegisterPhotoResponse struct {
	Photo   *store.Photo `json:"photo,omitempty"`
	Created bool         `json:"created"`
	Message string       `json:"message"`
}

type UpdateSliderSettingsRequest struct {
	Autoplay     bool   `json:"autoplay"`
	IntervalMS   int    `json:"interval_ms"   binding:"required,min=500,max=60000"`
	ShowDots     bool   `json:"show_dots"`
	ShowProgress bool   `json:"show_progress"`
	Transition   string `json:"transition"    binding:"required,oneof=fade slide scale"`
	AspectRatio  string `json:"aspect_ratio"  binding:"required,oneof=16/9 4/3 1/1"`
}

type SliderResponse struct {
	ID    string          `json:"id"`
	State slideshow.State `json:"state"`
}

type KeyRequest struct {
	Key string `json:"key" form:"key" binding:"required"`
}

type KeyResponse struct {
	PreventDefault bool            `json:"prevent_default"`
	State          slideshow.State `json:"state"`
}

type ProjectListResponse struct {
	Projects []store.Project `json:"projects"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	Limit    int             `json:"limit"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
