// Package client talks to the linkboard metadata service.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/render"
)

// ErrUnexpectedStatus is returned when the metadata service answers with a non-200 status.
var ErrUnexpectedStatus = errors.New("unexpected status code")

// Metadata resolves titles through GET /api/metadata of a metadata service.
type Metadata struct {
	baseURL string
	client  *http.Client
}

// NewMetadata creates a client for the service at baseURL. A nil client means http.DefaultClient.
func NewMetadata(baseURL string, client *http.Client) *Metadata {
	if client == nil {
		client = http.DefaultClient
	}

	return &Metadata{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

type titleResponse struct {
	Title *string `json:"title"`
}

// ResolveTitle asks the metadata service for the title of rawURL.
func (c *Metadata) ResolveTitle(ctx context.Context, rawURL string) (string, error) {
	const op = "client.Metadata.ResolveTitle"

	endpoint := c.baseURL + "/api/metadata?" + url.Values{"url": {rawURL}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: failed to call metadata service: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: %w: %d", op, ErrUnexpectedStatus, resp.StatusCode)
	}

	var body titleResponse
	if err := render.DecodeJSON(resp.Body, &body); err != nil {
		return "", fmt.Errorf("%s: failed to decode response: %w", op, err)
	}

	if body.Title == nil {
		return "", fmt.Errorf("%s: response has no title", op)
	}

	return *body.Title, nil
}
