package torrentio

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/KiplangatNgenoChina/movie-stream/internal/apperrors"
	"github.com/KiplangatNgenoChina/movie-stream/internal/client"
	"github.com/KiplangatNgenoChina/movie-stream/internal/config"
	"github.com/KiplangatNgenoChina/movie-stream/internal/models"
)

func TestFetchDirect_Movie(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stream/movie/tt1375666.json" {
			t.Errorf("Expected movie stream path, got %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"streams":[
			{"name":"Torrentio\n4k","title":"Inception.2010.2160p.UHD.BluRay.x265-GROUP\n👤 42 💾 20 GB","infoHash":"abc","fileIdx":0},
			{"name":"Torrentio","title":"Inception 2010 1080p WEB-DL","infoHash":"def"}
		]}`))
	}))
	defer server.Close()

	f := NewFetcher(server.Client(), server.URL, "")
	streams, err := f.FetchDirect(context.Background(), "tt1375666", models.KindMovie, 3, 4)
	if err != nil {
		t.Fatalf("FetchDirect failed: %v", err)
	}
	if len(streams) != 2 {
		t.Fatalf("Expected 2 streams, got %d", len(streams))
	}
	if streams[0].InfoHash != "abc" || streams[0].FileIdx == nil || *streams[0].FileIdx != 0 {
		t.Errorf("Unexpected pass-through fields: %+v", streams[0])
	}
	if r := streams[0].Resolution; r != "4k" && r != "2160p" {
		t.Errorf("Expected a UHD resolution, got %q", r)
	}
	if streams[1].Resolution != "1080p" {
		t.Errorf("Expected resolution 1080p, got %q", streams[1].Resolution)
	}
	if streams[1].FileIdx != nil {
		t.Errorf("Expected nil fileIdx when absent")
	}
}

func TestFetchDirect_SeriesWithDebridKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/realdebrid=rd key/stream/series/tt0903747:2:5.json" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"streams":[{"name":"RD+","url":"https://rd/file.mkv"}]}`))
	}))
	defer server.Close()

	f := NewFetcher(server.Client(), server.URL+"/", "rd key")
	if !f.DebridEnabled() {
		t.Fatal("Expected debrid to be enabled")
	}
	streams, err := f.FetchDirect(context.Background(), "tt0903747", models.KindSeries, 2, 5)
	if err != nil {
		t.Fatalf("FetchDirect failed: %v", err)
	}
	if len(streams) != 1 || streams[0].URL != "https://rd/file.mkv" {
		t.Errorf("Unexpected streams: %+v", streams)
	}
}

func TestFetchDirect_SeriesDefaults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stream/series/tt0903747:1:1.json" {
			t.Errorf("Expected default 1:1 episode, got %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"streams":[]}`))
	}))
	defer server.Close()

	streams, err := NewFetcher(server.Client(), server.URL, "").FetchDirect(context.Background(), "tt0903747", models.KindSeries, 0, 0)
	if err != nil {
		t.Fatalf("FetchDirect failed: %v", err)
	}
	if streams == nil || len(streams) != 0 {
		t.Errorf("Expected empty non-nil list, got %#v", streams)
	}
}

func TestFetchDirect_NotFound(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"non-2xx status", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) }},
		{"missing streams field", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{"cacheMaxAge":60}`)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			_, err := NewFetcher(server.Client(), server.URL, "secret-key").FetchDirect(context.Background(), "tt1", models.KindMovie, 0, 0)
			if !errors.Is(err, &apperrors.ErrNotFound{}) {
				t.Fatalf("Expected ErrNotFound, got %v", err)
			}
			if strings.Contains(err.Error(), "secret-key") {
				t.Errorf("Expected error to omit the debrid key, got %q", err.Error())
			}
		})
	}
}

func TestFetchDirect_SingleCall(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cfg := &config.Config{}
	cfg.Client.Timeout = "5s"
	cfg.Client.MaxRetries = 2

	for name, hc := range map[string]*http.Client{
		"single call client":   client.NewSingleCallClient(cfg),
		"default retry budget": client.NewHTTPClient(&config.Config{}),
	} {
		t.Run(name, func(t *testing.T) {
			calls.Store(0)
			_, err := NewFetcher(hc, server.URL, "").FetchDirect(context.Background(), "tt1", models.KindMovie, 0, 0)
			if !errors.Is(err, &apperrors.ErrNotFound{}) {
				t.Errorf("Expected ErrNotFound for a 503 upstream, got %v", err)
			}
			if calls.Load() != 1 {
				t.Errorf("Expected exactly one upstream call, got %d", calls.Load())
			}
		})
	}
}

func TestFetchDirect_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	_, err := NewFetcher(http.DefaultClient, addr, "secret-key").FetchDirect(context.Background(), "tt1", models.KindMovie, 0, 0)
	if err == nil {
		t.Fatal("Expected transport error, got nil")
	}
	if errors.Is(err, &apperrors.ErrNotFound{}) {
		t.Error("Expected transport errors to be returned as-is, not NotFound")
	}
	if strings.Contains(err.Error(), "secret-key") {
		t.Errorf("Expected error to omit the debrid key, got %q", err.Error())
	}
}

func TestFetchDirect_MissingID(t *testing.T) {
	_, err := NewFetcher(http.DefaultClient, "", "").FetchDirect(context.Background(), " ", models.KindMovie, 0, 0)
	if !errors.Is(err, &apperrors.ErrBadRequest{}) {
		t.Fatalf("Expected ErrBadRequest, got %v", err)
	}
}
