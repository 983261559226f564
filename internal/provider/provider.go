// Package provider defines the adapter interface for content providers and the
// Consumet-backed implementations used by the cascade.
package provider

import (
	"context"
	"net/http"
	"strings"

	"github.com/KiplangatNgenoChina/movie-stream/internal/apperrors"
	"github.com/KiplangatNgenoChina/movie-stream/internal/config"
	"github.com/KiplangatNgenoChina/movie-stream/internal/models"
)

// Adapter is the interface that content providers must implement.
type Adapter interface {
	// Descriptor identifies the provider in labels and logs.
	Descriptor() models.ProviderDescriptor

	// Search returns candidates for a free-text title query.
	Search(ctx context.Context, query string) ([]models.SearchResult, error)

	// Info returns the media record, including episodes, for a provider media id.
	Info(ctx context.Context, mediaID string) (*models.ProviderMediaInfo, error)

	// Watch returns the playable sources of one episode on one server variant.
	Watch(ctx context.Context, mediaID, episodeID string, server models.ServerVariant) ([]models.Source, error)
}

// ExternalLookup is implemented by adapters that can fetch info by a TMDB id directly.
type ExternalLookup interface {
	LookupExternal(ctx context.Context, tmdbID string, kind models.MediaKind) (*models.ProviderMediaInfo, error)
}

// ServerLister is implemented by adapters that advertise their delivery servers.
type ServerLister interface {
	Servers(ctx context.Context, mediaID, episodeID string) ([]models.ServerVariant, error)
}

// Provider is one configured entry of the cascade.
type Provider struct {
	Descriptor models.ProviderDescriptor
	// Adapter is used for the provider's own tier.
	Adapter Adapter
	// Catalog is the search-only route, used when the primary route comes up empty.
	Catalog Adapter
	// Servers is the configured variant order.
	Servers         []models.ServerVariant
	DiscoverServers bool
}

// FromConfig builds the cascade provider list in configured order. A missing base URL
// or an empty provider list is a configuration error.
func FromConfig(hc *http.Client, cfg *config.Config) ([]Provider, error) {
	root := strings.TrimRight(strings.TrimSpace(cfg.Consumet.BaseURL), "/")
	if root == "" {
		return nil, apperrors.NewConfigurationMissingError("CONSUMET_API_BASE_URL", "set it to your self-hosted Consumet API base")
	}
	if len(cfg.Providers) == 0 {
		return nil, apperrors.NewConfigurationMissingError("providers", "at least one provider is required")
	}

	root = consumetRoot(root, cfg.Providers)

	metaCatalog := cfg.Consumet.MetaCatalog
	if metaCatalog == "" {
		metaCatalog = config.DefaultMetaCatalog
	}

	providers := make([]Provider, 0, len(cfg.Providers))
	for _, pc := range cfg.Providers {
		desc := models.ProviderDescriptor{Name: strings.TrimSpace(pc.Name), Label: pc.Label}
		catalog := NewCatalog(hc, root, pc.CatalogPath(), desc)

		var adapter Adapter = catalog
		if pc.ExternalLookup {
			adapter = NewMeta(catalog, root, metaCatalog)
		}

		servers := make([]models.ServerVariant, 0, len(pc.Servers))
		for _, s := range pc.Servers {
			servers = append(servers, models.ServerVariant(strings.TrimSpace(s)))
		}

		providers = append(providers, Provider{
			Descriptor:      desc,
			Adapter:         adapter,
			Catalog:         catalog,
			Servers:         servers,
			DiscoverServers: pc.DiscoverServers,
		})
	}
	return providers, nil
}

// consumetRoot strips a provider catalog path from a base URL that already
// points at one, such as https://host/movies/flixhq.
func consumetRoot(base string, providers []config.ProviderConfig) string {
	for _, pc := range providers {
		suffix := "/" + pc.CatalogPath()
		if strings.HasSuffix(base, suffix) && len(base) > len(suffix) {
			root := strings.TrimSuffix(base, suffix)
			logger := config.GetLogger()
			logger.Warn().
				Str("base_url", base).
				Str("root", root).
				Msg("CONSUMET_API_BASE_URL includes a provider catalog path, using the Consumet root")
			return root
		}
	}
	return base
}
