// Package resolver maps a canonical media id to a provider's own media record
// and picks the episode to play.
package resolver

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/KiplangatNgenoChina/movie-stream/internal/apperrors"
	"github.com/KiplangatNgenoChina/movie-stream/internal/config"
	"github.com/KiplangatNgenoChina/movie-stream/internal/metadata"
	"github.com/KiplangatNgenoChina/movie-stream/internal/models"
	"github.com/KiplangatNgenoChina/movie-stream/internal/provider"
)

// Match is a provider media record together with how it was found.
type Match struct {
	Info *models.ProviderMediaInfo
	// CatalogTitle is the metadata title, when one was fetched.
	CatalogTitle string
	// ViaSearch is true when the record came from a title search rather than an external-id lookup.
	ViaSearch bool
}

// Resolver turns MediaRequests into provider media records. It is stateless
// apart from its collaborators and safe for concurrent use.
type Resolver struct {
	lookup metadata.Lookup
	logger zerolog.Logger
}

// New creates a Resolver. lookup may be nil, in which case only numeric TMDB ids
// can be resolved through external lookups.
func New(lookup metadata.Lookup) *Resolver {
	return &Resolver{
		lookup: lookup,
		logger: config.GetLogger().With().Str("component", "resolver").Logger(),
	}
}

// ResolveProviderMedia finds adapter's media record for req, preferring an
// external-id lookup when the adapter supports one.
func (r *Resolver) ResolveProviderMedia(ctx context.Context, req models.MediaRequest, adapter provider.Adapter) (*Match, error) {
	req = req.Normalize()
	if ext, ok := adapter.(provider.ExternalLookup); ok {
		return r.lookupExternal(ctx, req, ext)
	}
	return r.SearchAndInfo(ctx, req, adapter)
}

func (r *Resolver) lookupExternal(ctx context.Context, req models.MediaRequest, ext provider.ExternalLookup) (*Match, error) {
	tmdbID := req.CanonicalID
	catalogTitle := ""
	if !metadata.IsTMDBID(tmdbID) {
		title, err := r.catalogTitle(ctx, req)
		if err != nil {
			return nil, err
		}
		if title.TMDBID == "" {
			return nil, apperrors.NewNotFoundError("tmdb id", req.CanonicalID)
		}
		tmdbID, catalogTitle = title.TMDBID, title.Title
	}

	info, err := ext.LookupExternal(ctx, tmdbID, req.Kind)
	if err != nil {
		return nil, err
	}
	return &Match{Info: info, CatalogTitle: catalogTitle}, nil
}

// SearchAndInfo resolves by title: it fetches the catalog title and year, tries the
// query variants in order and returns Info for the first candidate of the first
// query with results.
func (r *Resolver) SearchAndInfo(ctx context.Context, req models.MediaRequest, adapter provider.Adapter) (*Match, error) {
	req = req.Normalize()
	title, err := r.catalogTitle(ctx, req)
	if err != nil {
		return nil, err
	}

	name := adapter.Descriptor().Name
	for _, query := range QueryVariants(title.Title, title.Year) {
		results, err := adapter.Search(ctx, query)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			r.logger.Debug().Err(err).Str("provider", name).Str("query", query).Msg("Search failed")
			continue
		}
		if len(results) == 0 {
			r.logger.Debug().Str("provider", name).Str("query", query).Msg("Search returned no candidates")
			continue
		}

		info, err := adapter.Info(ctx, results[0].ID)
		if err != nil {
			return nil, err
		}
		return &Match{Info: info, CatalogTitle: title.Title, ViaSearch: true}, nil
	}
	return nil, apperrors.NewNotFoundError("search results", title.Title)
}

// catalogTitle fetches the metadata record. Cancellation and a missing metadata
// configuration are returned unchanged; any other failure, including an empty
// title, is NotFound.
func (r *Resolver) catalogTitle(ctx context.Context, req models.MediaRequest) (*metadata.Title, error) {
	if r.lookup == nil {
		return nil, apperrors.NewNotFoundError("title", req.CanonicalID)
	}
	title, err := r.lookup.Lookup(ctx, req.CanonicalID, req.Kind)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) ||
			errors.Is(err, &apperrors.ErrConfigurationMissing{}) {
			return nil, err
		}
		r.logger.Debug().Err(err).Str("canonical_id", req.CanonicalID).Msg("Metadata lookup failed")
		return nil, apperrors.NewNotFoundError("title", req.CanonicalID)
	}
	if title == nil || strings.TrimSpace(title.Title) == "" {
		return nil, apperrors.NewNotFoundError("title", req.CanonicalID)
	}
	return title, nil
}

// QueryVariants returns the search queries for a title, most specific first:
// "title year", "title", then the accent-folded title when it differs.
func QueryVariants(title, year string) []string {
	title = strings.Join(strings.Fields(title), " ")
	if title == "" {
		return nil
	}

	var variants []string
	add := func(q string) {
		for _, v := range variants {
			if v == q {
				return
			}
		}
		variants = append(variants, q)
	}

	if year != "" {
		add(title + " " + year)
	}
	add(title)
	if folded := foldAccents(title); folded != "" {
		add(folded)
	}
	return variants
}

// foldAccents strips combining marks: "Amélie" becomes "Amelie".
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return ""
	}
	return folded
}
