package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/KiplangatNgenoChina/movie-stream/internal/apperrors"
	"github.com/KiplangatNgenoChina/movie-stream/internal/models"
)

// parseMediaRequest reads id (or tmdbId), type, season and episode from the query string.
// Season and episode that are missing or unparsable default to 1 for series.
func parseMediaRequest(r *http.Request) (models.MediaRequest, error) {
	q := r.URL.Query()
	id := strings.TrimSpace(q.Get("id"))
	if id == "" {
		id = strings.TrimSpace(q.Get("tmdbId"))
	}
	if id == "" {
		return models.MediaRequest{}, apperrors.NewBadRequestError("id")
	}

	req := models.MediaRequest{
		CanonicalID: id,
		Kind:        models.ParseMediaKind(q.Get("type")),
		Season:      parsePositive(q.Get("season")),
		Episode:     parsePositive(q.Get("episode")),
	}
	return req.Normalize(), nil
}

func parsePositive(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0
	}
	return n
}
