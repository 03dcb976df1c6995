// Package metadata implements the external movie lookup used by Collection
// cards.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cardbox/core/internal/domain/entities"
	"github.com/cardbox/core/internal/infrastructure/config"
	"github.com/cardbox/core/internal/ports"
)

const (
	posterBasePath   = "https://image.tmdb.org/t/p/w500"
	backdropBasePath = "https://image.tmdb.org/t/p/original"
	defaultTimeout   = 10 * time.Second
)

// MovieClient implements ports.MetadataClient against a TMDB-style API.
type MovieClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewMovieClient creates a new movie metadata client.
func NewMovieClient(cfg config.MetadataConfig) *MovieClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &MovieClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type searchResponse struct {
	Results []struct {
		ID           int64   `json:"id"`
		Title        string  `json:"title"`
		Overview     string  `json:"overview"`
		PosterPath   string  `json:"poster_path"`
		BackdropPath string  `json:"backdrop_path"`
		VoteAverage  float64 `json:"vote_average"`
		ReleaseDate  string  `json:"release_date"`
	} `json:"results"`
}

// Search looks up movies matching the query and maps the hits into the
// collection metadata shape.
func (c *MovieClient) Search(ctx context.Context, query string) ([]ports.MovieResult, error) {
	endpoint := fmt.Sprintf("%s/search/movie?api_key=%s&query=%s",
		c.baseURL, url.QueryEscape(c.apiKey), url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("metadata request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("metadata provider returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	results := make([]ports.MovieResult, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		meta := entities.CollectionItemMetadata{
			Title:       r.Title,
			Overview:    r.Overview,
			Rating:      r.VoteAverage,
			ReleaseDate: r.ReleaseDate,
		}
		if r.PosterPath != "" {
			meta.Poster = posterBasePath + r.PosterPath
		}
		if r.BackdropPath != "" {
			meta.Background = backdropBasePath + r.BackdropPath
		}
		results = append(results, ports.MovieResult{
			ExternalID: strconv.FormatInt(r.ID, 10),
			Metadata:   meta,
		})
	}

	return results, nil
}

// NewMovieClientWithBaseURL overrides the endpoint, mainly for tests.
func NewMovieClientWithBaseURL(baseURL, apiKey string, timeout time.Duration) *MovieClient {
	return NewMovieClient(config.MetadataConfig{BaseURL: baseURL, APIKey: apiKey, Timeout: timeout})
}
