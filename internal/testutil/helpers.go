package testutil

import "github.com/KiplangatNgenoChina/movie-stream/internal/models"

// IntPtr is a helper for creating *int values in tests
func IntPtr(v int) *int {
	return &v
}

// Sources builds watch results from URL/quality pairs: Sources("u1", "1080p", "u2", "").
func Sources(pairs ...string) []models.Source {
	sources := make([]models.Source, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		sources = append(sources, models.Source{URL: pairs[i], Quality: pairs[i+1]})
	}
	return sources
}
