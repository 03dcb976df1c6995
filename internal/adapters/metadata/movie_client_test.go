package metadata_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardbox/core/internal/adapters/metadata"
)

func TestSearch_MapsResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/movie", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "the matrix", r.URL.Query().Get("query"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"results": [
				{
					"id": 603,
					"title": "The Matrix",
					"overview": "A hacker learns the truth.",
					"poster_path": "/poster.jpg",
					"backdrop_path": "/backdrop.jpg",
					"vote_average": 8.2,
					"release_date": "1999-03-31"
				},
				{
					"id": 604,
					"title": "The Matrix Reloaded",
					"overview": "",
					"poster_path": "",
					"backdrop_path": "",
					"vote_average": 7.0,
					"release_date": "2003-05-15"
				}
			]
		}`))
	}))
	defer server.Close()

	client := metadata.NewMovieClientWithBaseURL(server.URL, "test-key", time.Second)
	results, err := client.Search(context.Background(), "the matrix")

	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "603", results[0].ExternalID)
	assert.Equal(t, "The Matrix", results[0].Metadata.Title)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/poster.jpg", results[0].Metadata.Poster)
	assert.Equal(t, "https://image.tmdb.org/t/p/original/backdrop.jpg", results[0].Metadata.Background)
	assert.Equal(t, 8.2, results[0].Metadata.Rating)
	assert.Equal(t, "1999-03-31", results[0].Metadata.ReleaseDate)

	// Missing image paths stay empty rather than pointing at the CDN root.
	assert.Empty(t, results[1].Metadata.Poster)
	assert.Empty(t, results[1].Metadata.Background)
}

func TestSearch_EmptyResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": []}`))
	}))
	defer server.Close()

	client := metadata.NewMovieClientWithBaseURL(server.URL, "k", time.Second)
	results, err := client.Search(context.Background(), "zzzz")

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_ProviderErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status_message": "Invalid API key"}`))
	}))
	defer server.Close()

	client := metadata.NewMovieClientWithBaseURL(server.URL, "bad-key", time.Second)
	_, err := client.Search(context.Background(), "anything")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestSearch_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client := metadata.NewMovieClientWithBaseURL(server.URL, "k", time.Second)
	_, err := client.Search(context.Background(), "anything")

	assert.Error(t, err)
}

func TestSearch_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		_, _ = w.Write([]byte(`{"results": []}`))
	}))
	defer server.Close()

	client := metadata.NewMovieClientWithBaseURL(server.URL, "k", time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Search(ctx, "anything")
	assert.Error(t, err)
}
