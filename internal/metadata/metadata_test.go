package metadata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/KiplangatNgenoChina/movie-stream/internal/apperrors"
	"github.com/KiplangatNgenoChina/movie-stream/internal/cache"
	"github.com/KiplangatNgenoChina/movie-stream/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, withCache bool) (*Client, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	var store cache.Cache
	if withCache {
		c, err := cache.New("memory", cache.Options{Size: 10, TTL: time.Minute})
		if err != nil {
			t.Fatalf("create cache: %v", err)
		}
		store = c
	}
	return NewClient(server.Client(), server.URL, "key", store), &calls
}

func TestLookup_MovieByTMDBID(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/27205" {
			t.Errorf("Expected path /movie/27205, got %s", r.URL.Path)
		}
		if r.URL.Query().Get("api_key") != "key" {
			t.Errorf("Expected api_key query parameter")
		}
		_, _ = w.Write([]byte(`{"id":27205,"title":"Inception","release_date":"2010-07-15"}`))
	}, false)

	title, err := c.Lookup(context.Background(), "27205", models.KindMovie)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if title.Title != "Inception" || title.Year != "2010" || title.TMDBID != "27205" {
		t.Errorf("Unexpected title: %+v", title)
	}
}

func TestLookup_SeriesByTMDBID(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tv/1399" {
			t.Errorf("Expected path /tv/1399, got %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"id":1399,"name":"Game of Thrones","first_air_date":"2011-04-17"}`))
	}, false)

	title, err := c.Lookup(context.Background(), "1399", models.KindSeries)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if title.Title != "Game of Thrones" || title.Year != "2011" {
		t.Errorf("Unexpected title: %+v", title)
	}
}

func TestLookup_IMDbIDUsesFind(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/find/tt0944947" {
			t.Errorf("Expected find path, got %s", r.URL.Path)
		}
		if r.URL.Query().Get("external_source") != "imdb_id" {
			t.Errorf("Expected external_source=imdb_id")
		}
		_, _ = w.Write([]byte(`{"movie_results":[],"tv_results":[{"id":1399,"name":"Game of Thrones","first_air_date":"2011-04-17"}]}`))
	}, false)

	title, err := c.Lookup(context.Background(), "tt0944947", models.KindSeries)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if title.TMDBID != "1399" {
		t.Errorf("Expected TMDB id 1399, got %q", title.TMDBID)
	}
}

func TestLookup_FindNoResults(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"movie_results":[],"tv_results":[]}`))
	}, false)

	_, err := c.Lookup(context.Background(), "tt0000001", models.KindMovie)
	if !errors.Is(err, &apperrors.ErrNotFound{}) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestLookup_EmptyTitleIsNotFound(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":1,"title":"   "}`))
	}, false)

	_, err := c.Lookup(context.Background(), "1", models.KindMovie)
	if !errors.Is(err, &apperrors.ErrNotFound{}) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestLookup_UpstreamNotFound(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, false)

	_, err := c.Lookup(context.Background(), "42", models.KindMovie)
	if !errors.Is(err, &apperrors.ErrNotFound{}) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestLookup_ServerErrorOmitsKey(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, false)

	_, err := c.Lookup(context.Background(), "42", models.KindMovie)
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if errors.Is(err, &apperrors.ErrNotFound{}) {
		t.Fatal("Expected non-NotFound error for 500 response")
	}
	if strings.Contains(err.Error(), "api_key") {
		t.Errorf("Expected error to omit the API key, got %q", err.Error())
	}
}

func TestLookup_MissingAPIKey(t *testing.T) {
	c := NewClient(http.DefaultClient, "", "", nil)
	_, err := c.Lookup(context.Background(), "42", models.KindMovie)
	if !errors.Is(err, &apperrors.ErrConfigurationMissing{}) {
		t.Fatalf("Expected ErrConfigurationMissing, got %v", err)
	}
}

func TestLookup_Cached(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":27205,"title":"Inception","release_date":"2010-07-15"}`))
	}, true)

	for i := 0; i < 3; i++ {
		if _, err := c.Lookup(context.Background(), "27205", models.KindMovie); err != nil {
			t.Fatalf("Lookup %d failed: %v", i, err)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("Expected 1 upstream call with caching, got %d", calls.Load())
	}
}

func TestIDKinds(t *testing.T) {
	tests := []struct {
		id         string
		imdb, tmdb bool
	}{
		{"tt0944947", true, false},
		{"1399", false, true},
		{"tt", false, false},
		{"ttabc", false, false},
		{"abc", false, false},
	}
	for _, tt := range tests {
		if got := IsIMDbID(tt.id); got != tt.imdb {
			t.Errorf("IsIMDbID(%q): expected %v, got %v", tt.id, tt.imdb, got)
		}
		if got := IsTMDBID(tt.id); got != tt.tmdb {
			t.Errorf("IsTMDBID(%q): expected %v, got %v", tt.id, tt.tmdb, got)
		}
	}
}
