package catalog

import (
	"context"

	"github.com/easycinema/athena-backend/internal/models"
)

// Static serves a fixed movie list; used when no TMDB key is configured and
// in tests.
type Static struct {
	movies map[string]models.Movie
}

// NewStatic builds a static provider from the given entries.
func NewStatic(movies []models.Movie) *Static {
	byTitle := make(map[string]models.Movie, len(movies))
	for _, m := range movies {
		byTitle[m.Title] = m
	}
	return &Static{movies: byTitle}
}

// NewDefaultStatic returns the built-in catalog with the custom posters.
func NewDefaultStatic() *Static {
	return NewStatic([]models.Movie{
		{
			Title:       "Zodiac",
			Description: "A cartoonist and two reporters obsess over the identity of the Zodiac killer terrorizing the San Francisco Bay Area.",
			PosterURL:   customPosters["Zodiac"],
		},
		{
			Title:       "Constantine",
			Description: "A cynical exorcist who can see demons and angels teams up with a detective to uncover a supernatural conspiracy.",
			PosterURL:   customPosters["Constantine"],
		},
	})
}

// Lookup returns the known entries for the requested titles, skipping
// unknown ones.
func (s *Static) Lookup(ctx context.Context, titles []string) ([]models.Movie, error) {
	var out []models.Movie
	for _, title := range titles {
		if m, ok := s.movies[title]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}
