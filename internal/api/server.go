// Package api exposes the stream resolution paths over HTTP/JSON.
package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/KiplangatNgenoChina/movie-stream/internal/apperrors"
	"github.com/KiplangatNgenoChina/movie-stream/internal/config"
	"github.com/KiplangatNgenoChina/movie-stream/internal/models"
)

// SecretHeader carries the shared secret that guards the aggregator path.
const SecretHeader = "X-App-Secret"

// Resolver runs the provider cascade.
type Resolver interface {
	Resolve(ctx context.Context, req models.MediaRequest) (models.Resolution, error)
}

// ConfigChecker is implemented by resolvers that can report a disabled cascade
// before a request is parsed.
type ConfigChecker interface {
	ConfigError() error
}

// StreamFetcher performs direct aggregator lookups.
type StreamFetcher interface {
	FetchDirect(ctx context.Context, externalID string, kind models.MediaKind, season, episode int) ([]models.TorrentioStream, error)
	DebridEnabled() bool
}

// streamsResponse is the body of every stream endpoint. Streams is always present.
type streamsResponse[T any] struct {
	Streams []T    `json:"streams"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Server holds the HTTP handlers
type Server struct {
	resolver     Resolver
	fetcher      StreamFetcher
	sharedSecret string
	logger       zerolog.Logger
}

// NewServer creates the API handlers. sharedSecret guards /api/streams; when it is
// empty and the fetcher uses a debrid key, that route refuses to serve.
func NewServer(r Resolver, f StreamFetcher, sharedSecret string) *Server {
	return &Server{
		resolver:     r,
		fetcher:      f,
		sharedSecret: sharedSecret,
		logger:       config.GetLogger().With().Str("component", "api").Logger(),
	}
}

// handleConsumet runs the provider cascade. Configuration errors are reported before request errors.
func (s *Server) handleConsumet(w http.ResponseWriter, r *http.Request) {
	if checker, ok := s.resolver.(ConfigChecker); ok {
		if err := checker.ConfigError(); err != nil {
			s.logger.Warn().Err(err).Msg("Cascade unavailable")
			writeError[models.StreamDescriptor](w, err)
			return
		}
	}

	req, err := parseMediaRequest(r)
	if err != nil {
		writeError[models.StreamDescriptor](w, err)
		return
	}
	s.logger.Debug().Str("canonical_id", req.CanonicalID).Str("kind", req.Kind.String()).Msg("Cascade request")

	res, err := s.resolver.Resolve(r.Context(), req)
	if err != nil {
		s.logger.Warn().Err(err).Str("canonical_id", req.CanonicalID).Msg("Cascade request rejected")
		writeError[models.StreamDescriptor](w, err)
		return
	}
	writeJSON(w, http.StatusOK, streamsResponse[models.StreamDescriptor]{
		Streams: nonNil(res.Streams),
		Message: res.Message,
	})
}

// handleStreams runs the aggregator path. The secret check happens before any outbound call.
func (s *Server) handleStreams(w http.ResponseWriter, r *http.Request) {
	if err := s.authorize(r); err != nil {
		s.logger.Warn().Err(err).Str("remote_addr", r.RemoteAddr).Msg("Aggregator request refused")
		writeError[models.TorrentioStream](w, err)
		return
	}

	req, err := parseMediaRequest(r)
	if err != nil {
		writeError[models.TorrentioStream](w, err)
		return
	}

	streams, err := s.fetcher.FetchDirect(r.Context(), req.CanonicalID, req.Kind, req.Season, req.Episode)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, streamsResponse[models.TorrentioStream]{Streams: nonNil(streams)})
	case errors.Is(err, &apperrors.ErrNotFound{}):
		writeJSON(w, http.StatusOK, streamsResponse[models.TorrentioStream]{Streams: []models.TorrentioStream{}, Error: err.Error()})
	case apperrors.HTTPStatus(err) != http.StatusOK:
		writeError[models.TorrentioStream](w, err)
	default:
		s.logger.Error().Err(err).Str("stream_id", req.StreamID()).Msg("Aggregator request failed")
		writeJSON(w, http.StatusOK, streamsResponse[models.TorrentioStream]{Streams: []models.TorrentioStream{}, Error: "aggregator unavailable"})
	}
}

// authorize checks the shared secret in constant time
func (s *Server) authorize(r *http.Request) error {
	if s.sharedSecret == "" {
		if s.fetcher.DebridEnabled() {
			return apperrors.NewConfigurationMissingError("APP_SHARED_SECRET", "required while a debrid key is configured")
		}
		return nil
	}
	provided := r.Header.Get(SecretHeader)
	if subtle.ConstantTimeCompare([]byte(provided), []byte(s.sharedSecret)) != 1 {
		return &apperrors.ErrUnauthorized{}
	}
	return nil
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Allow", http.MethodGet)
	writeJSON(w, http.StatusMethodNotAllowed, streamsResponse[models.StreamDescriptor]{
		Streams: []models.StreamDescriptor{},
		Error:   "method not allowed",
	})
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
}

func writeError[T any](w http.ResponseWriter, err error) {
	writeJSON(w, apperrors.HTTPStatus(err), streamsResponse[T]{Streams: []T{}, Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
