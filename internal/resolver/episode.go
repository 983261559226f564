package resolver

import (
	"strconv"
	"strings"

	"github.com/KiplangatNgenoChina/movie-stream/internal/apperrors"
	"github.com/KiplangatNgenoChina/movie-stream/internal/models"
)

// SelectEpisode picks the episode to watch:
//  1. for a series, the first episode whose season and number match the request
//  2. otherwise the first listed episode
//  3. otherwise the provider's singular episodeId
//
// Movies never consult season or episode.
func SelectEpisode(info *models.ProviderMediaInfo, req models.MediaRequest) (models.EpisodeSelection, error) {
	if info == nil {
		return models.EpisodeSelection{}, apperrors.NewNotFoundError("episode", req.CanonicalID)
	}

	req = req.Normalize()
	if req.IsSeries() {
		season, number := strconv.Itoa(req.Season), strconv.Itoa(req.Episode)
		for _, ep := range info.Episodes {
			if ep.ID != "" && ordinal(ep.Season) == season && ordinal(ep.Number) == number {
				return models.EpisodeSelection{EpisodeID: ep.ID, Exact: true}, nil
			}
		}
	}

	for _, ep := range info.Episodes {
		if ep.ID != "" {
			return models.EpisodeSelection{EpisodeID: ep.ID}, nil
		}
	}
	if info.EpisodeID != "" {
		return models.EpisodeSelection{EpisodeID: info.EpisodeID}, nil
	}
	return models.EpisodeSelection{}, apperrors.NewNotFoundError("episode", req.StreamID())
}

// ordinal normalizes "01" and " 1" to "1"
func ordinal(s string) string {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return strconv.Itoa(n)
	}
	return s
}
