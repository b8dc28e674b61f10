package service

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/vadimbarashkov/linkboard/internal/metadata"
)

// HTTPClient is the part of *http.Client the metadata service depends on.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// MetadataService resolves display titles of remote pages.
type MetadataService struct {
	client       HTTPClient
	userAgent    string
	maxBodyBytes int64
}

// NewMetadataService creates a new instance of MetadataService.
// A non-positive maxBodyBytes disables the body size limit.
func NewMetadataService(client HTTPClient, userAgent string, maxBodyBytes int64) *MetadataService {
	return &MetadataService{
		client:       client,
		userAgent:    userAgent,
		maxBodyBytes: maxBodyBytes,
	}
}

// ResolveTitle fetches the page at rawURL and extracts its title.
//
// The upstream status code is not inspected: error pages are parsed like any
// other document. An error is returned only when the request cannot be built,
// the transport fails, or the body cannot be read.
func (s *MetadataService) ResolveTitle(ctx context.Context, rawURL string) (string, error) {
	const op = "service.MetadataService.ResolveTitle"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("%s: failed to build request: %w", op, err)
	}

	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: failed to fetch page: %w", op, err)
	}
	defer resp.Body.Close()

	var body io.Reader = resp.Body
	if s.maxBodyBytes > 0 {
		body = io.LimitReader(resp.Body, s.maxBodyBytes)
	}

	title, err := metadata.ExtractTitle(body)
	if err != nil {
		return "", fmt.Errorf("%s: failed to extract title: %w", op, err)
	}

	return title, nil
}
