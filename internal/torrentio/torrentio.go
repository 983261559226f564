// Package torrentio fetches stream lists directly from a Torrentio-compatible
// aggregator, optionally resolved through a debrid service.
package torrentio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/MunifTanjim/go-ptt"
	"github.com/rs/zerolog"

	"github.com/KiplangatNgenoChina/movie-stream/internal/apperrors"
	"github.com/KiplangatNgenoChina/movie-stream/internal/client"
	"github.com/KiplangatNgenoChina/movie-stream/internal/config"
	"github.com/KiplangatNgenoChina/movie-stream/internal/metrics"
	"github.com/KiplangatNgenoChina/movie-stream/internal/models"
)

const upstreamName = "torrentio"

// Status labels for metrics.TorrentioRequestsTotal
const (
	statusSuccess  = "success"
	statusNotFound = "not_found"
	statusError    = "error"
)

// Fetcher performs single-call stream lookups against the aggregator.
type Fetcher struct {
	httpClient *http.Client
	baseURL    string
	debridKey  string
	logger     zerolog.Logger
}

// NewFetcher creates a Fetcher. An empty debridKey fetches plain torrent streams.
func NewFetcher(hc *http.Client, baseURL, debridKey string) *Fetcher {
	if baseURL == "" {
		baseURL = config.DefaultTorrentioURL
	}
	return &Fetcher{
		httpClient: hc,
		baseURL:    strings.TrimRight(baseURL, "/"),
		debridKey:  debridKey,
		logger:     config.GetLogger().With().Str("component", "torrentio").Logger(),
	}
}

// DebridEnabled reports whether requests are resolved through the debrid service.
func (f *Fetcher) DebridEnabled() bool {
	return f.debridKey != ""
}

type streamPayload struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	InfoHash string `json:"infoHash"`
	FileIdx  *int   `json:"fileIdx"`
}

type streamsResponse struct {
	Streams *[]streamPayload `json:"streams"`
}

// FetchDirect returns the aggregator's streams for a title. Series requests address
// one episode (season and episode default to 1). A non-2xx answer or a body without
// a streams array is ErrNotFound.
func (f *Fetcher) FetchDirect(ctx context.Context, externalID string, kind models.MediaKind, season, episode int) ([]models.TorrentioStream, error) {
	req := models.MediaRequest{CanonicalID: externalID, Kind: kind, Season: season, Episode: episode}.Normalize()
	if req.CanonicalID == "" {
		return nil, apperrors.NewBadRequestError("id")
	}
	streamID := req.StreamID()

	var resp streamsResponse
	err := client.GetJSON(ctx, f.httpClient, upstreamName, f.streamURL(req.Kind, streamID), &resp)
	if err != nil {
		var statusErr *client.StatusError
		if errors.As(err, &statusErr) {
			metrics.TorrentioRequestsTotal.WithLabelValues(statusNotFound).Inc()
			f.logger.Debug().Int("status", statusErr.StatusCode).Str("stream_id", streamID).Msg("Aggregator returned no streams")
			return nil, apperrors.NewNotFoundError("streams", streamID)
		}
		metrics.TorrentioRequestsTotal.WithLabelValues(statusError).Inc()
		return nil, fmt.Errorf("fetch streams for %s: %w", streamID, err)
	}
	if resp.Streams == nil {
		metrics.TorrentioRequestsTotal.WithLabelValues(statusNotFound).Inc()
		return nil, apperrors.NewNotFoundError("streams", streamID)
	}

	streams := make([]models.TorrentioStream, 0, len(*resp.Streams))
	for _, s := range *resp.Streams {
		streams = append(streams, models.TorrentioStream{
			Name:       s.Name,
			Title:      s.Title,
			URL:        s.URL,
			InfoHash:   s.InfoHash,
			FileIdx:    s.FileIdx,
			Resolution: releaseResolution(s.Title),
		})
	}
	metrics.TorrentioRequestsTotal.WithLabelValues(statusSuccess).Inc()
	f.logger.Debug().Str("stream_id", streamID).Bool("debrid", f.DebridEnabled()).Int("streams", len(streams)).Msg("Fetched aggregator streams")
	return streams, nil
}

// streamURL builds <base>/[realdebrid=<key>/]stream/<movie|series>/<id>.json
func (f *Fetcher) streamURL(kind models.MediaKind, streamID string) string {
	var sb strings.Builder
	sb.WriteString(f.baseURL)
	sb.WriteByte('/')
	if f.debridKey != "" {
		sb.WriteString("realdebrid=")
		sb.WriteString(url.PathEscape(f.debridKey))
		sb.WriteByte('/')
	}
	sb.WriteString("stream/")
	sb.WriteString(kind.String())
	sb.WriteByte('/')
	sb.WriteString(url.PathEscape(streamID))
	sb.WriteString(".json")
	return sb.String()
}

// releaseResolution parses the release name on the first title line ("2160p", "1080p", ...).
func releaseResolution(title string) string {
	line, _, _ := strings.Cut(title, "\n")
	line = strings.TrimSpace(line)
	if line == "" {
		return ""
	}
	return ptt.Parse(line).Resolution
}
