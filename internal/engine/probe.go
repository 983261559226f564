package engine

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/KiplangatNgenoChina/movie-stream/internal/metrics"
	"github.com/KiplangatNgenoChina/movie-stream/internal/models"
	"github.com/KiplangatNgenoChina/movie-stream/internal/provider"
	"github.com/KiplangatNgenoChina/movie-stream/internal/resolver"
)

// attemptTarget is everything one provider attempt needs once the episode is chosen
type attemptTarget struct {
	provider  provider.Provider
	adapter   provider.Adapter
	match     *resolver.Match
	selection models.EpisodeSelection
	req       models.MediaRequest
	logger    zerolog.Logger
}

// probe tries each server variant in order and returns the first non-empty result.
func (e *Engine) probe(ctx context.Context, a attemptTarget) []models.StreamDescriptor {
	for _, server := range e.variants(ctx, a) {
		if ctx.Err() != nil {
			return nil
		}
		if streams := e.fetchStreams(ctx, a, server); len(streams) > 0 {
			return streams
		}
	}
	return nil
}

// variants returns the probe order: the default variant, the configured ones, then
// any the provider advertises when discovery is enabled. Duplicates are dropped.
func (e *Engine) variants(ctx context.Context, a attemptTarget) []models.ServerVariant {
	seen := make(map[string]struct{})
	out := make([]models.ServerVariant, 0, len(a.provider.Servers)+1)
	add := func(v models.ServerVariant) {
		key := normalizeServerKey(v)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}

	add(models.DefaultServer)
	for _, v := range a.provider.Servers {
		add(v)
	}

	if !a.provider.DiscoverServers {
		return out
	}
	lister, ok := a.adapter.(provider.ServerLister)
	if !ok {
		return out
	}
	discovered, err := lister.Servers(ctx, a.match.Info.ID, a.selection.EpisodeID)
	if err != nil {
		a.logger.Debug().Err(err).Str("provider", a.provider.Descriptor.Name).Msg("Server discovery failed")
		return out
	}
	for _, v := range discovered {
		add(v)
	}
	return out
}

// fetchStreams asks one server variant for sources and labels them. Failures are
// logged and counted, never returned.
func (e *Engine) fetchStreams(ctx context.Context, a attemptTarget, server models.ServerVariant) []models.StreamDescriptor {
	name := a.provider.Descriptor.Name
	sources, err := a.adapter.Watch(ctx, a.match.Info.ID, a.selection.EpisodeID, server)
	if err != nil {
		metrics.ProviderAttemptsTotal.WithLabelValues(name, serverLabel(server), metrics.ResultError).Inc()
		a.logger.Debug().Err(err).Str("provider", name).Str("server", serverLabel(server)).Msg("Watch failed")
		return nil
	}

	prefix := a.provider.Descriptor.DisplayLabel()
	if !server.IsDefault() {
		prefix += " · " + string(server)
	}
	title := a.match.Info.Title
	if title == "" {
		title = a.match.CatalogTitle
	}
	if title == "" {
		title = a.req.CanonicalID
	}

	streams := make([]models.StreamDescriptor, 0, len(sources))
	for _, src := range sources {
		if src.URL == "" {
			continue
		}
		label := prefix + " " + strconv.Itoa(len(streams)+1)
		if src.Quality != "" {
			label = prefix + " · " + src.Quality
		}
		streams = append(streams, models.StreamDescriptor{Name: label, Title: title, URL: src.URL})
	}

	result := metrics.ResultStreams
	if len(streams) == 0 {
		result = metrics.ResultEmpty
	}
	metrics.ProviderAttemptsTotal.WithLabelValues(name, serverLabel(server), result).Inc()
	a.logger.Debug().Str("provider", name).Str("server", serverLabel(server)).Int("streams", len(streams)).Msg("Watch completed")
	return streams
}
