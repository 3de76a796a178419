// Package client wraps the two read operations postdash performs against
// the remote collection service: listing a user's collections and fetching
// one collection's full tree. Failures surface as typed errors so callers
// can render a retry affordance per collection instead of aborting a batch.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/studiowebux/postdash/internal/types"
)

const (
	// DefaultBaseURL is the public endpoint of the collection service
	DefaultBaseURL = "https://api.getpostman.com"

	requestTimeout = 30 * time.Second
)

// Error taxonomy. Callers match with errors.Is; everything else coming out
// of the client is a network failure wrapped with context.
var (
	// ErrUnauthorized means the credential was rejected (bad or expired key)
	ErrUnauthorized = errors.New("unauthorized: invalid or expired API key")
	// ErrNotFound means the requested collection does not exist
	ErrNotFound = errors.New("collection not found")
)

// Client talks to the remote collection API. All requests carry the static
// API key in the X-Api-Key header; there is no other auth protocol.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL overrides the API base URL (tests, on-prem deployments)
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a client authenticating with the given API key
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// listResponse is the wire envelope of the collection listing
type listResponse struct {
	Collections []types.CollectionSummary `json:"collections"`
}

// collectionResponse is the wire envelope of a single collection fetch
type collectionResponse struct {
	Collection types.Collection `json:"collection"`
}

// ListCollections fetches the summaries of all collections the credential
// can see. Endpoint counts are not known at listing time and start at -1.
func (c *Client) ListCollections(ctx context.Context) ([]types.CollectionSummary, error) {
	var envelope listResponse
	if err := c.get(ctx, "/collections", &envelope); err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}

	for i := range envelope.Collections {
		envelope.Collections[i].EndpointCount = -1
	}
	return envelope.Collections, nil
}

// GetCollection fetches one collection's full folder/request tree by id.
// The returned tree is immutable by convention: postdash is a read-only
// consumer and never writes back.
func (c *Client) GetCollection(ctx context.Context, id string) (*types.Collection, error) {
	var envelope collectionResponse
	if err := c.get(ctx, "/collections/"+id, &envelope); err != nil {
		return nil, fmt.Errorf("get collection %s: %w", id, err)
	}
	return &envelope.Collection, nil
}

// get performs one authenticated GET and decodes the JSON body into out.
// Non-2xx statuses map onto the error taxonomy and never escape raw.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
