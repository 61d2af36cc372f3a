// Package client talks to the web server's photo API. The background
// managers use it so every registration goes through the same handlers as
// uploads and refreshes live sliders.
package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/aouyang1/portfolio/api/models"
	"github.com/aouyang1/portfolio/store"
)

var ErrServer = errors.New("server error")

type PhotoClient struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewPhotoClient returns a client that authenticates with the admin token.
func NewPhotoClient(baseURL, token string) *PhotoClient {
	return &PhotoClient{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// RegisterPhoto registers a file under the photos directory. It reports
// whether a new record was created; an existing registration is not an error.
func (pc *PhotoClient) RegisterPhoto(filename, category string) (bool, error) {
	reqBody := models.RegisterPhotoRequest{
		Filename: filename,
		Category: category,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return false, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, pc.baseURL+"/api/photos/register", bytes.NewBuffer(jsonData))
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := pc.do(req, http.StatusOK, http.StatusCreated)
	if err != nil {
		return false, err
	}

	var registerResp models.RegisterPhotoResponse
	if err := json.Unmarshal(body, &registerResp); err != nil {
		return false, fmt.Errorf("failed to parse response: %w", err)
	}

	if registerResp.Created {
		slog.Info("photo registered successfully", "filename", filename, "category", category)
	} else {
		slog.Debug("photo already registered, skipping", "filename", filename)
	}
	return registerResp.Created, nil
}

// GetPhotos retrieves every registered photo, optionally limited to one category.
func (pc *PhotoClient) GetPhotos(category string) ([]store.Photo, error) {
	var allPhotos []store.Photo
	page := 1
	limit := 100

	for {
		q := url.Values{}
		q.Set("page", fmt.Sprint(page))
		q.Set("limit", fmt.Sprint(limit))
		if category != "" {
			q.Set("category", category)
		}
		req, err := http.NewRequest(http.MethodGet, pc.baseURL+"/api/photos?"+q.Encode(), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		body, err := pc.do(req, http.StatusOK)
		if err != nil {
			return nil, err
		}

		var listResp models.PhotoListResponse
		if err := json.Unmarshal(body, &listResp); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}

		allPhotos = append(allPhotos, listResp.Photos...)

		if len(listResp.Photos) < limit || len(allPhotos) >= listResp.Total {
			break
		}
		page++
	}

	return allPhotos, nil
}

// DeletePhoto deregisters a photo. A photo that is already gone is not an error.
func (pc *PhotoClient) DeletePhoto(id string) error {
	req, err := http.NewRequest(http.MethodDelete, pc.baseURL+"/api/photos/"+url.PathEscape(id), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	_, err = pc.do(req, http.StatusOK, http.StatusNotFound)
	return err
}

func (pc *PhotoClient) do(req *http.Request, okStatus ...int) ([]byte, error) {
	if pc.token != "" {
		req.Header.Set("Authorization", "Bearer "+pc.token)
	}
	resp, err := pc.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	for _, s := range okStatus {
		if resp.StatusCode == s {
			return body, nil
		}
	}

	var errResp models.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrServer, errResp.Error)
	}
	return nil, fmt.Errorf("%w: status %d: %s", ErrServer, resp.StatusCode, string(body))
}
