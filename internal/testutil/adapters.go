package testutil

import (
	"context"
	"sync/atomic"

	"github.com/KiplangatNgenoChina/movie-stream/internal/apperrors"
	"github.com/KiplangatNgenoChina/movie-stream/internal/metadata"
	"github.com/KiplangatNgenoChina/movie-stream/internal/models"
)

// MockAdapter is a configurable provider adapter. Unset funcs return empty results.
// Call counters are safe to read from tests after the resolution completes.
type MockAdapter struct {
	Desc       models.ProviderDescriptor
	SearchFunc func(ctx context.Context, query string) ([]models.SearchResult, error)
	InfoFunc   func(ctx context.Context, mediaID string) (*models.ProviderMediaInfo, error)
	WatchFunc  func(ctx context.Context, mediaID, episodeID string, server models.ServerVariant) ([]models.Source, error)

	SearchCalls atomic.Int32
	InfoCalls   atomic.Int32
	WatchCalls  atomic.Int32
}

func (m *MockAdapter) Descriptor() models.ProviderDescriptor { return m.Desc }

func (m *MockAdapter) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	m.SearchCalls.Add(1)
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query)
	}
	return nil, nil
}

func (m *MockAdapter) Info(ctx context.Context, mediaID string) (*models.ProviderMediaInfo, error) {
	m.InfoCalls.Add(1)
	if m.InfoFunc != nil {
		return m.InfoFunc(ctx, mediaID)
	}
	return nil, apperrors.NewNotFoundError("media", mediaID)
}

func (m *MockAdapter) Watch(ctx context.Context, mediaID, episodeID string, server models.ServerVariant) ([]models.Source, error) {
	m.WatchCalls.Add(1)
	if m.WatchFunc != nil {
		return m.WatchFunc(ctx, mediaID, episodeID, server)
	}
	return nil, nil
}

// Calls returns the total number of adapter calls.
func (m *MockAdapter) Calls() int32 {
	return m.SearchCalls.Load() + m.InfoCalls.Load() + m.WatchCalls.Load()
}

// MockExternalAdapter adds an external-id lookup to MockAdapter.
type MockExternalAdapter struct {
	*MockAdapter
	LookupExternalFunc func(ctx context.Context, tmdbID string, kind models.MediaKind) (*models.ProviderMediaInfo, error)
	LookupCalls        atomic.Int32
}

func (m *MockExternalAdapter) LookupExternal(ctx context.Context, tmdbID string, kind models.MediaKind) (*models.ProviderMediaInfo, error) {
	m.LookupCalls.Add(1)
	if m.LookupExternalFunc != nil {
		return m.LookupExternalFunc(ctx, tmdbID, kind)
	}
	return nil, apperrors.NewNotFoundError("media", tmdbID)
}

// MockServerAdapter adds server discovery to MockAdapter.
type MockServerAdapter struct {
	*MockAdapter
	ServersFunc func(ctx context.Context, mediaID, episodeID string) ([]models.ServerVariant, error)
}

func (m *MockServerAdapter) Servers(ctx context.Context, mediaID, episodeID string) ([]models.ServerVariant, error) {
	if m.ServersFunc != nil {
		return m.ServersFunc(ctx, mediaID, episodeID)
	}
	return nil, nil
}

// MockLookup is a configurable metadata lookup.
type MockLookup struct {
	LookupFunc func(ctx context.Context, canonicalID string, kind models.MediaKind) (*metadata.Title, error)
	Calls      atomic.Int32
}

func (m *MockLookup) Lookup(ctx context.Context, canonicalID string, kind models.MediaKind) (*metadata.Title, error) {
	m.Calls.Add(1)
	if m.LookupFunc != nil {
		return m.LookupFunc(ctx, canonicalID, kind)
	}
	return nil, apperrors.NewNotFoundError("title", canonicalID)
}

// StaticLookup returns a MockLookup that always answers with title.
func StaticLookup(title metadata.Title) *MockLookup {
	return &MockLookup{
		LookupFunc: func(ctx context.Context, canonicalID string, kind models.MediaKind) (*metadata.Title, error) {
			t := title
			return &t, nil
		},
	}
}
