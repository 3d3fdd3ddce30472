package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/easycinema/athena-backend/internal/models"
)

// Provider supplies movie metadata for the conversation flow. Lookups must
// tolerate partial results: titles the backend cannot resolve are simply
// omitted from the response.
type Provider interface {
	Lookup(ctx context.Context, titles []string) ([]models.Movie, error)
}

// customPosters overrides the provider artwork for selected titles.
var customPosters = map[string]string{
	"Zodiac":      "https://i.pinimg.com/736x/08/8c/43/088c43d5a8e9d47d2ea03719062699cf.jpg",
	"Constantine": "https://media.posterlounge.com/img/products/760000/759054/759054_poster.jpg",
}

// TMDBClient looks up movies through the TMDB search API.
type TMDBClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewTMDBClient creates a TMDB-backed provider using the TMDB_API_KEY
// environment variable.
func NewTMDBClient() (*TMDBClient, error) {
	apiKey := os.Getenv("TMDB_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("missing TMDB_API_KEY in environment variables")
	}
	return &TMDBClient{
		apiKey:  apiKey,
		baseURL: "https://api.themoviedb.org/3",
		client:  &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// NewTMDBClientWithBase creates a client against a custom base URL (used in
// tests).
func NewTMDBClientWithBase(apiKey, baseURL string) *TMDBClient {
	return &TMDBClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type tmdbSearchResponse struct {
	Results []struct {
		Title      string `json:"title"`
		Overview   string `json:"overview"`
		PosterPath string `json:"poster_path"`
	} `json:"results"`
}

// Lookup searches TMDB for each title and returns what it could resolve.
// A title with no match is skipped; an error is returned only when nothing
// at all could be fetched.
func (t *TMDBClient) Lookup(ctx context.Context, titles []string) ([]models.Movie, error) {
	var movies []models.Movie
	var firstErr error

	for _, title := range titles {
		movie, err := t.search(ctx, title)
		if err != nil {
			log.Printf("TMDB lookup failed for %q: %v", title, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if movie != nil {
			movies = append(movies, *movie)
		}
	}

	if len(movies) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return movies, nil
}

func (t *TMDBClient) search(ctx context.Context, title string) (*models.Movie, error) {
	searchURL := fmt.Sprintf("%s/search/movie?api_key=%s&query=%s",
		t.baseURL, t.apiKey, url.QueryEscape(title))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tmdb search returned status %d", resp.StatusCode)
	}

	var payload tmdbSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if len(payload.Results) == 0 {
		return nil, nil
	}

	first := payload.Results[0]
	poster := customPosters[first.Title]
	if poster == "" && first.PosterPath != "" {
		poster = "https://image.tmdb.org/t/p/w500" + first.PosterPath
	}

	return &models.Movie{
		Title:       first.Title,
		Description: first.Overview,
		PosterURL:   poster,
	}, nil
}
