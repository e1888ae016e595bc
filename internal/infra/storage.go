package infra

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// MediaStore is an HTTP client that delegates object storage to the media
// sidecar. All calls go through the circuit breaker so a downed sidecar
// fast-fails instead of piling up 30s timeouts.
type MediaStore struct {
	sidecarURL    string
	publicBaseURL string
	httpClient    *http.Client
	cb            *CircuitBreaker
}

func NewMediaStore(sidecarURL, publicBaseURL string, cb *CircuitBreaker) *MediaStore {
	return &MediaStore{
		sidecarURL:    strings.TrimRight(sidecarURL, "/"),
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		cb:            cb,
	}
}

// Breaker exposes the circuit breaker for health reporting.
func (s *MediaStore) Breaker() *CircuitBreaker { return s.cb }

type uploadRequest struct {
	FileName string `json:"file_name"`
	Content  string `json:"content"` // base64
}

type uploadResponse struct {
	Path string `json:"path"`
}

// Upload stores an object and returns the storage path assigned by the sidecar.
func (s *MediaStore) Upload(ctx context.Context, data []byte, name string) (string, error) {
	body, err := json.Marshal(uploadRequest{
		FileName: name,
		Content:  base64.StdEncoding.EncodeToString(data),
	})
	if err != nil {
		return "", fmt.Errorf("media: marshal payload: %w", err)
	}

	var result uploadResponse
	cbErr := s.cb.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.sidecarURL+"/objects", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("media: create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("media: sidecar unreachable: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
			return fmt.Errorf("media: sidecar returned %d", resp.StatusCode)
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return fmt.Errorf("media: decode response: %w", err)
		}
		return nil
	})
	if cbErr != nil {
		return "", cbErr
	}
	return result.Path, nil
}

// Delete removes an object from storage. Deleting a path that no longer
// exists is not an error.
func (s *MediaStore) Delete(ctx context.Context, path string) error {
	return s.cb.Execute(func() error {
		target := s.sidecarURL + "/objects/" + url.PathEscape(path)
		req, err := http.NewRequestWithContext(ctx, http.MethodDelete, target, nil)
		if err != nil {
			return fmt.Errorf("media: create request: %w", err)
		}

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("media: sidecar unreachable: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusNoContent &&
			resp.StatusCode != http.StatusOK &&
			resp.StatusCode != http.StatusNotFound {
			return fmt.Errorf("media: sidecar returned %d", resp.StatusCode)
		}
		return nil
	})
}

// PublicURL maps a storage path to the URL served to the front office.
func (s *MediaStore) PublicURL(path string) string {
	return s.publicBaseURL + "/" + strings.TrimLeft(path, "/")
}
