package api

import (
	"net/http"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/gorilla/mux"

	"github.com/KiplangatNgenoChina/movie-stream/internal/metrics"
)

// NewRouter wires the API routes with request metrics and Sentry panic capture.
// Only GET is routed; other methods get 405 with an Allow header.
func NewRouter(s *Server) http.Handler {
	r := mux.NewRouter()

	r.Handle("/api/consumet", metrics.InstrumentHandler("consumet", http.HandlerFunc(s.handleConsumet))).Methods(http.MethodGet)
	r.Handle("/api/streams", metrics.InstrumentHandler("streams", http.HandlerFunc(s.handleStreams))).Methods(http.MethodGet)
	r.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)

	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	r.NotFoundHandler = http.HandlerFunc(notFound)

	// Repanic lets net/http log and drop the connection after Sentry has the event
	sentryHandler := sentryhttp.New(sentryhttp.Options{Repanic: true})
	return sentryHandler.Handle(r)
}
