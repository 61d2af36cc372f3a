package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aouyang1/portfolio/api/models"
	"github.com/aouyang1/portfolio/content"
	"github.com/aouyang1/portfolio/store"
	"github.com/aouyang1/portfolio/util"
)

const (
	defaultPhotoLimit = 20
	maxUploadBytes    = 32 << 20
)

func unsupportedExtMsg(ext string) string {
	return fmt.Sprintf("Unsupported file extension: %s. Supported: .jpeg, .jpg, .png", ext)
}

// defaultAlt derives alt text from a file name when none was given.
func defaultAlt(filename string) string {
	base := filepath.Base(filename)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return strings.NewReplacer("-", " ", "_", " ").Replace(name)
}

func (ws *WebServer) handleUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	// Get the file from the form
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "No file provided")
		return
	}
	filename := filepath.Base(file.Filename)

	// Validate file extension
	if !util.IsSupported(filename) {
		respondError(c, http.StatusBadRequest, unsupportedExtMsg(filepath.Ext(filename)))
		return
	}

	category := c.DefaultPostForm("category", store.CategoryProfessional)
	if !slices.Contains(photoCategories, category) {
		respondError(c, http.StatusBadRequest, "Unsupported category: "+category)
		return
	}

	// Check for duplicates
	exists, err := ws.db.PhotoExists(filename)
	if err != nil {
		respondError(c, http.StatusInternalServerError, fmt.Sprintf("Database error: %v", err))
		return
	}
	if exists {
		respondError(c, http.StatusConflict, fmt.Sprintf("Photo with name '%s' already exists", filename))
		return
	}

	photosDir := ws.cfg.PhotosDir()
	if err := os.MkdirAll(photosDir, 0o755); err != nil {
		respondError(c, http.StatusInternalServerError, fmt.Sprintf("Failed to create directory: %v", err))
		return
	}

	// Save file to disk
	filePath := filepath.Join(photosDir, filename)
	if err := c.SaveUploadedFile(file, filePath); err != nil {
		respondError(c, http.StatusInternalServerError, fmt.Sprintf("Failed to save file: %v", err))
		return
	}

	alt := c.PostForm("alt")
	if alt == "" {
		alt = defaultAlt(filename)
	}
	var hero *bool
	if v, err := strconv.ParseBool(c.PostForm("hero")); err == nil {
		hero = &v
	}

	photo, err := content.NewPhoto(ws.db, content.Photo{
		Filename: filename,
		Alt:      alt,
		Caption:  c.PostForm("caption"),
		Category: category,
		Hero:     hero,
	}, photosDir)
	if err == nil {
		err = ws.db.InsertPhoto(photo)
	}
	if err != nil {
		// Clean up file if DB insert fails
		os.Remove(filePath)
		respondError(c, http.StatusInternalServerError, fmt.Sprintf("Failed to insert photo into database: %v", err))
		return
	}

	if err := ws.RefreshPhotos(c.Request.Context()); err != nil {
		slog.Error("error while refreshing sliders after upload", "error", err)
	}

	// If HTMX request, return HTML fragment with updated photos
	if isHTMX(c) {
		ws.handleUIPhotos(c)
		return
	}

	c.JSON(http.StatusCreated, models.UploadResponse{
		Photo:   *photo,
		Message: "Photo uploaded successfully",
	})
}

var photoCategories = []string{
	store.CategoryProfessional,
	store.CategoryCasual,
	store.CategoryWorking,
	store.CategoryPresentation,
	store.CategoryLearning,
	store.CategoryRemote,
}

// handleRegisterPhoto records a file that is already under the photos
// directory. Registering a known file reports created=false.
func (ws *WebServer) handleRegisterPhoto(c *gin.Context) {
	var req models.RegisterPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("Invalid request body: %v", err)})
		return
	}

	filename := filepath.ToSlash(filepath.Clean(req.Filename))
	if !filepath.IsLocal(filename) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "filename must be relative to the photos directory"})
		return
	}

	// Validate file extension
	if !util.IsSupported(filename) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: unsupportedExtMsg(filepath.Ext(filename))})
		return
	}

	photosDir := ws.cfg.PhotosDir()
	if _, err := os.Stat(filepath.Join(photosDir, filename)); errors.Is(err, os.ErrNotExist) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: fmt.Sprintf("Photo file does not exist: %s", filename)})
		return
	}

	// Check for duplicates in database
	existing, err := ws.db.GetPhotoByFilename(filename)
	if err == nil {
		c.JSON(http.StatusOK, models.RegisterPhotoResponse{
			Photo:   existing,
			Created: false,
			Message: fmt.Sprintf("Photo with name '%s' already exists in database", filename),
		})
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Database error: %v", err)})
		return
	}

	category := req.Category
	if category == "" {
		category = store.CategoryProfessional
	}
	alt := req.Alt
	if alt == "" {
		alt = defaultAlt(filename)
	}

	photo, err := content.NewPhoto(ws.db, content.Photo{
		Filename: filename,
		Alt:      alt,
		Caption:  req.Caption,
		Category: category,
		Hero:     req.Hero,
	}, photosDir)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Database error: %v", err)})
		return
	}

	// Insert into database
	if err := ws.db.InsertPhoto(photo); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to insert photo into database: %v", err)})
		return
	}

	if err := ws.RefreshPhotos(c.Request.Context()); err != nil {
		slog.Error("error while refreshing sliders after register", "error", err)
	}

	c.JSON(http.StatusCreated, models.RegisterPhotoResponse{
		Photo:   photo,
		Created: true,
		Message: "Photo registered successfully",
	})
}

func (ws *WebServer) handleListPhotos(c *gin.Context) {
	// Parse query parameters
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid page parameter"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPhotoLimit)))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid limit parameter"})
		return
	}

	// Calculate offset
	offset := (page - 1) * limit

	var photos []store.Photo
	var total int
	if category := c.Query("category"); category != "" {
		all, err := ws.db.GetAllPhotos()
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Database error: %v", err)})
			return
		}
		matched := slices.DeleteFunc(all, func(p store.Photo) bool { return p.Category != category })
		total = len(matched)
		photos = matched[min(offset, total):min(offset+limit, total)]
	} else {
		if total, err = ws.db.GetPhotoCount(); err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Database error: %v", err)})
			return
		}
		if photos, err = ws.db.GetPhotos(limit, offset); err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Database error: %v", err)})
			return
		}
	}
	if photos == nil {
		photos = []store.Photo{}
	}

	c.JSON(http.StatusOK, models.PhotoListResponse{
		Photos: photos,
		Total:  total,
		Page:   page,
		Limit:  limit,
	})
}

func (ws *WebServer) handlePhotoImage(c *gin.Context) {
	photo, err := ws.db.GetPhoto(c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: fmt.Sprintf("Photo '%s' not found", c.Param("id"))})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Database error: %v", err)})
		return
	}

	filePath := filepath.Join(ws.cfg.PhotosDir(), filepath.FromSlash(photo.Filename))
	if _, err := os.Stat(filePath); errors.Is(err, os.ErrNotExist) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: fmt.Sprintf("Photo file not found: %s", photo.Filename)})
		return
	}

	c.Header("Content-Type", util.ContentType(photo.Filename))
	c.File(filePath)
}

func (ws *WebServer) handleDeletePhoto(c *gin.Context) {
	id := c.Param("id")
	photo, err := ws.db.GetPhoto(id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, fmt.Sprintf("Photo '%s' not found", id))
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, fmt.Sprintf("Database error: %v", err))
		return
	}

	// Delete file from filesystem
	filePath := filepath.Join(ws.cfg.PhotosDir(), filepath.FromSlash(photo.Filename))
	if err := os.Remove(filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		respondError(c, http.StatusInternalServerError, fmt.Sprintf("Failed to delete file: %v", err))
		return
	}

	// Delete from database
	if err := ws.db.DeletePhoto(id); err != nil && !errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusInternalServerError, fmt.Sprintf("Failed to delete photo from database: %v", err))
		return
	}

	if err := ws.RefreshPhotos(c.Request.Context()); err != nil {
		slog.Error("error while refreshing sliders after delete", "error", err)
	}

	// htmx swaps the deleted row with the empty body
	if isHTMX(c) {
		c.String(http.StatusOK, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Photo '%s' deleted successfully", photo.Filename)})
}

func (ws *WebServer) handleReorderPhoto(c *gin.Context) {
	id := c.Param("id")

	// Parse request body
	var req models.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("Invalid request body: %v", err)})
		return
	}

	if req.NewOrder < 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "new_order must be non-negative"})
		return
	}

	photos, err := ws.db.GetAllPhotos()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Database error: %v", err)})
		return
	}

	ids := make([]string, len(photos))
	for i, p := range photos {
		ids[i] = p.ID
	}
	current := slices.Index(ids, id)
	if current == -1 {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: fmt.Sprintf("Photo '%s' not found", id)})
		return
	}
	if req.NewOrder >= len(ids) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: fmt.Sprintf("new_order %d exceeds maximum order %d", req.NewOrder, len(ids)-1),
		})
		return
	}

	ids = slices.Delete(ids, current, current+1)
	ids = slices.Insert(ids, req.NewOrder, id)

	// Update order
	if err := ws.db.UpdatePhotoOrder(ids); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to update photo order: %v", err)})
		return
	}

	if err := ws.RefreshPhotos(c.Request.Context()); err != nil {
		slog.Error("error while refreshing sliders after reorder", "error", err)
	}

	// Get updated photo
	updatedPhoto, err := ws.db.GetPhoto(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to retrieve updated photo: %v", err)})
		return
	}

	c.JSON(http.StatusOK, updatedPhoto)
}
