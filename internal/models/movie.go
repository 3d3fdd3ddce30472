package models

// Movie is a catalog entry sourced from the metadata provider
type Movie struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PosterURL   string `json:"poster_url"`
}
