// Package search finds an illustrative photo for a recipe through the
// Tavily search API.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hammamikhairi/chefai/internal/domain"
	"github.com/hammamikhairi/chefai/internal/logger"
)

// DefaultEndpoint is Tavily's search resource.
const DefaultEndpoint = "https://api.tavily.com/search"

var _ domain.ImageFinder = (*Client)(nil)

// request is the Tavily search body.
type request struct {
	Query         string `json:"query"`
	SearchDepth   string `json:"search_depth"`
	IncludeImages bool   `json:"include_images"`
	MaxResults    int    `json:"max_results"`
}

// response keeps only the images list. Entries are either bare URLs or
// {url, description} objects depending on include_image_descriptions.
type response struct {
	Images []json.RawMessage `json:"images"`
}

type describedImage struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Option configures the Client.
type Option func(*Client)

// WithEndpoint points the client at a different search URL.
func WithEndpoint(u string) Option {
	return func(c *Client) { c.endpoint = u }
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// Client looks up dish photos.
type Client struct {
	apiKey   string
	endpoint string
	http     *http.Client
	log      *logger.Logger
}

// NewClient creates a Tavily image finder. An empty key disables lookups.
func NewClient(apiKey string, log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		apiKey:   apiKey,
		endpoint: DefaultEndpoint,
		http:     &http.Client{Timeout: 15 * time.Second},
		log:      log.Named("search"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// IsConfigured reports whether an API key is set.
func (c *Client) IsConfigured() bool { return c.apiKey != "" }

// Query returns the search text used for a recipe name.
func Query(recipeName string) string {
	return "Foto de un plato de " + recipeName
}

// FindImage returns the first image URL found for the dish, or "" when
// nothing usable came back. Failures are logged, never returned.
func (c *Client) FindImage(ctx context.Context, recipeName string) string {
	if !c.IsConfigured() {
		c.log.Debug("no API key, skipping image lookup")
		return ""
	}
	if strings.TrimSpace(recipeName) == "" {
		return ""
	}

	u, err := c.search(ctx, Query(recipeName))
	if err != nil {
		c.log.Warn("image lookup for %q failed: %v", recipeName, err)
		return ""
	}
	if u == "" {
		c.log.Debug("no image for %q", recipeName)
	}
	return u
}

func (c *Client) search(ctx context.Context, query string) (string, error) {
	body, err := json.Marshal(request{
		Query:         query,
		SearchDepth:   "advanced",
		IncludeImages: true,
		MaxResults:    1,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search API error (status %d): %s", resp.StatusCode, string(data))
	}

	var sr response
	if err := json.Unmarshal(data, &sr); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	for _, raw := range sr.Images {
		if u := imageURL(raw); u != "" {
			return u, nil
		}
	}
	return "", nil
}

// imageURL extracts a usable http(s) URL from one images entry.
func imageURL(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		var d describedImage
		if err := json.Unmarshal(raw, &d); err != nil {
			return ""
		}
		s = d.URL
	}
	s = strings.TrimSpace(s)
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}
	return s
}
