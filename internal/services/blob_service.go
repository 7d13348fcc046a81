package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// MaxUploadSize is the hard limit on uploaded image bytes (4MB).
const MaxUploadSize = 4 << 20

// ErrBlobNotConfigured is returned when the blob store credentials are
// missing. It is surfaced as a distinct configuration error so the admin can
// tell it apart from an upstream failure.
var ErrBlobNotConfigured = errors.New("blob store credentials are not configured")

var filenameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_.-]`)

// BlobService streams uploaded files to an external blob host and returns the
// public URL the host assigns.
type BlobService struct {
	Client *http.Client
}

func NewBlobService() *BlobService {
	return &BlobService{
		Client: &http.Client{Timeout: 60 * time.Second},
	}
}

type blobResponse struct {
	URL     string `json:"url"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Upload sends the file body to the blob host under a sanitized, uniquified
// filename and returns the stored URL.
func (s *BlobService) Upload(apiURL, token, filename string, body io.Reader) (string, error) {
	if apiURL == "" || token == "" {
		return "", ErrBlobNotConfigured
	}

	safeName := filenameSanitizer.ReplaceAllString(filename, "_")
	uniqueName := uuid.NewString()[:8] + "-" + safeName

	reqURL := apiURL + "?filename=" + url.QueryEscape(uniqueName)
	req, err := http.NewRequest(http.MethodPost, reqURL, body)
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach blob store: %w", err)
	}
	defer resp.Body.Close()

	var blob blobResponse
	if err := json.NewDecoder(resp.Body).Decode(&blob); err != nil {
		return "", fmt.Errorf("failed to decode blob store response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if blob.Error != "" {
			return "", fmt.Errorf("blob store returned %d: %s: %s", resp.StatusCode, blob.Message, blob.Error)
		}
		return "", fmt.Errorf("blob store returned %d: %s", resp.StatusCode, blob.Message)
	}

	if blob.URL == "" {
		return "", errors.New("blob store response is missing the url")
	}
	return blob.URL, nil
}
