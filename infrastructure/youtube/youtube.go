// Package youtube resolves YouTube links and fetches video metadata
// through the Data API v3.
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/curatehq/curate/domain/item"
)

// DefaultBaseURL is the YouTube Data API v3 endpoint.
const DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

// ErrInvalidLink indicates a link that does not match any YouTube shape.
var ErrInvalidLink = errors.New("not a recognizable YouTube link")

// videoIDPattern matches a canonical 11-character YouTube video identifier.
var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ExtractVideoID pulls the video identifier out of the common YouTube link
// shapes: watch?v=, youtu.be/, shorts/, embed/, and live/.
func ExtractVideoID(link string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidLink, link)
	}

	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")

	var id string
	switch host {
	case "youtu.be":
		id = strings.Trim(parsed.Path, "/")
	case "youtube.com", "music.youtube.com":
		segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
		switch segments[0] {
		case "watch":
			id = parsed.Query().Get("v")
		case "shorts", "embed", "live":
			if len(segments) > 1 {
				id = segments[1]
			}
		}
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidLink, link)
	}

	if !videoIDPattern.MatchString(id) {
		return "", fmt.Errorf("%w: %s", ErrInvalidLink, link)
	}
	return id, nil
}

// Client fetches video metadata from the YouTube Data API.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// Option is a functional option for Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint. Used by tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(baseURL, "/") }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// NewClient creates a Client authenticated with the given API key.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resolve extracts the video identifier from a link.
func (c *Client) Resolve(link string) (string, error) {
	return ExtractVideoID(link)
}

// videosResponse mirrors the Data API videos.list payload, trimmed to the
// snippet fields this system stores.
type videosResponse struct {
	Items []struct {
		Snippet struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Thumbnails  map[string]struct {
				URL string `json:"url"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

// thumbnailPreference orders thumbnail variants best-first.
var thumbnailPreference = []string{"maxres", "high", "medium", "default"}

// Lookup fetches snippet metadata for a video. The second return value is
// false when the source affirmatively has no such video (deleted or private),
// with no error; transport and API failures return an error.
func (c *Client) Lookup(ctx context.Context, videoID string) (item.Metadata, bool, error) {
	endpoint := fmt.Sprintf("%s/videos?part=snippet&id=%s&key=%s",
		c.baseURL, url.QueryEscape(videoID), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return item.Metadata{}, false, fmt.Errorf("build metadata request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return item.Metadata{}, false, fmt.Errorf("fetch video metadata: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return item.Metadata{}, false, fmt.Errorf("fetch video metadata: unexpected status %d", resp.StatusCode)
	}

	var payload videosResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return item.Metadata{}, false, fmt.Errorf("decode video metadata: %w", err)
	}

	if len(payload.Items) == 0 {
		return item.Metadata{}, false, nil
	}

	snippet := payload.Items[0].Snippet

	var thumbnail string
	for _, variant := range thumbnailPreference {
		if thumb, ok := snippet.Thumbnails[variant]; ok && thumb.URL != "" {
			thumbnail = thumb.URL
			break
		}
	}

	return item.NewMetadata(snippet.Title, snippet.Description, thumbnail), true, nil
}
