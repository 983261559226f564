// Package engine implements the cascading stream resolution: providers are tried
// in priority order, each through its server variants, and the first tier that
// yields streams wins.
package engine

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/KiplangatNgenoChina/movie-stream/internal/apperrors"
	"github.com/KiplangatNgenoChina/movie-stream/internal/config"
	"github.com/KiplangatNgenoChina/movie-stream/internal/metadata"
	"github.com/KiplangatNgenoChina/movie-stream/internal/metrics"
	"github.com/KiplangatNgenoChina/movie-stream/internal/models"
	"github.com/KiplangatNgenoChina/movie-stream/internal/provider"
	"github.com/KiplangatNgenoChina/movie-stream/internal/resolver"
)

// Advisory messages returned with an empty stream list
const (
	MessageNoStreams = "no streams found"
	MessageCancelled = "resolution cancelled"
)

// Outcome labels for metrics.ResolutionsTotal
const (
	outcomeResolved      = "resolved"
	outcomeExhausted     = "exhausted"
	outcomeCancelled     = "cancelled"
	outcomeMisconfigured = "misconfigured"
)

// Engine resolves MediaRequests to stream lists. It holds no per-request state
// and may be shared by concurrent callers.
type Engine struct {
	providers []provider.Provider
	resolver  *resolver.Resolver
	configErr error
	logger    zerolog.Logger
}

// New creates an engine over providers, in cascade priority order.
func New(providers []provider.Provider, res *resolver.Resolver) *Engine {
	return &Engine{
		providers: providers,
		resolver:  res,
		logger:    config.GetLogger().With().Str("component", "engine").Logger(),
	}
}

// NewFromConfig builds the provider list from cfg. A configuration problem does not
// fail construction; it is reported by every Resolve call instead.
func NewFromConfig(hc *http.Client, cfg *config.Config, lookup metadata.Lookup) *Engine {
	providers, err := provider.FromConfig(hc, cfg)
	e := New(providers, resolver.New(lookup))
	if err != nil {
		e.logger.Warn().Err(err).Msg("Cascade disabled until configuration is fixed")
		e.configErr = err
	}
	return e
}

// Providers returns the cascade order.
func (e *Engine) Providers() []models.ProviderDescriptor {
	descs := make([]models.ProviderDescriptor, 0, len(e.providers))
	for _, p := range e.providers {
		descs = append(descs, p.Descriptor)
	}
	return descs
}

// ConfigError reports a configuration problem that disables the cascade, or nil.
func (e *Engine) ConfigError() error {
	if e.configErr != nil {
		return e.configErr
	}
	if len(e.providers) == 0 {
		return apperrors.NewConfigurationMissingError("providers", "at least one provider is required")
	}
	return nil
}

// Resolve runs the cascade for req. Provider failures never surface as errors:
// the returned error is ErrConfigurationMissing or ErrBadRequest only. When no
// tier yields streams the Resolution carries an empty list and an advisory message.
// A tier that could not run because of missing configuration, such as the
// metadata key for a title search, turns an exhausted cascade into ErrConfigurationMissing.
func (e *Engine) Resolve(ctx context.Context, req models.MediaRequest) (models.Resolution, error) {
	if err := e.ConfigError(); err != nil {
		return emptyResolution(MessageNoStreams, models.TierNotStarted), err
	}
	req = req.Normalize()
	if req.CanonicalID == "" {
		return emptyResolution(MessageNoStreams, models.TierNotStarted), apperrors.NewBadRequestError("id")
	}

	logger := e.logger.With().Str("canonical_id", req.CanonicalID).Str("kind", req.Kind.String()).Logger()
	res, err := e.cascade(ctx, req, logger)
	if err != nil {
		metrics.ResolutionsTotal.WithLabelValues(outcomeMisconfigured).Inc()
		logger.Warn().Err(err).Msg("Cascade exhausted with missing configuration")
		return res, err
	}

	switch {
	case len(res.Streams) > 0:
		metrics.ResolutionsTotal.WithLabelValues(outcomeResolved).Inc()
		metrics.ResolutionTierTotal.WithLabelValues(res.Tier.String()).Inc()
		logger.Info().Str("tier", res.Tier.String()).Str("provider", res.Provider).Int("streams", len(res.Streams)).Msg("Resolved streams")
	case res.Message == MessageCancelled:
		metrics.ResolutionsTotal.WithLabelValues(outcomeCancelled).Inc()
		logger.Debug().Str("tier", res.Tier.String()).Msg("Resolution cancelled")
	default:
		metrics.ResolutionsTotal.WithLabelValues(outcomeExhausted).Inc()
		logger.Info().Msg("No provider returned streams")
	}
	return res, nil
}

func (e *Engine) cascade(ctx context.Context, req models.MediaRequest, logger zerolog.Logger) (models.Resolution, error) {
	var missing error
	note := func(err error) {
		if missing == nil && errors.Is(err, &apperrors.ErrConfigurationMissing{}) {
			missing = err
		}
	}
	primary := e.providers[0]

	logger.Debug().Str("tier", models.TierPrimary.String()).Str("provider", primary.Descriptor.Name).Msg("Attempting tier")
	match, err := e.resolver.ResolveProviderMedia(ctx, req, primary.Adapter)
	note(err)
	if streams := e.attempt(ctx, req, primary, primary.Adapter, match, err, logger); len(streams) > 0 {
		return resolved(streams, primary, models.TierPrimary), nil
	}
	if ctx.Err() != nil {
		return emptyResolution(MessageCancelled, models.TierPrimary), nil
	}

	// A catalog-only primary already searched; repeating it would issue identical calls
	if _, external := primary.Adapter.(provider.ExternalLookup); external && primary.Catalog != nil {
		logger.Debug().Str("tier", models.TierSecondary.String()).Str("provider", primary.Descriptor.Name).Msg("Attempting tier")
		match, err := e.resolver.SearchAndInfo(ctx, req, primary.Catalog)
		note(err)
		if streams := e.attempt(ctx, req, primary, primary.Catalog, match, err, logger); len(streams) > 0 {
			return resolved(streams, primary, models.TierSecondary), nil
		}
		if ctx.Err() != nil {
			return emptyResolution(MessageCancelled, models.TierSecondary), nil
		}
	}

	for _, p := range e.providers[1:] {
		logger.Debug().Str("tier", models.TierFallback.String()).Str("provider", p.Descriptor.Name).Msg("Attempting tier")
		match, err := e.resolver.ResolveProviderMedia(ctx, req, p.Adapter)
		note(err)
		if streams := e.attempt(ctx, req, p, p.Adapter, match, err, logger); len(streams) > 0 {
			return resolved(streams, p, models.TierFallback), nil
		}
		if ctx.Err() != nil {
			return emptyResolution(MessageCancelled, models.TierFallback), nil
		}
	}

	return emptyResolution(MessageNoStreams, models.TierExhausted), missing
}

// attempt selects the episode for a resolved match and probes the provider's servers.
// Resolution or selection failures are absorbed into an empty result.
func (e *Engine) attempt(ctx context.Context, req models.MediaRequest, p provider.Provider, adapter provider.Adapter, match *resolver.Match, err error, logger zerolog.Logger) []models.StreamDescriptor {
	if err != nil {
		logger.Debug().Err(err).Str("provider", p.Descriptor.Name).Msg("Provider media not resolved")
		return nil
	}
	if match == nil {
		return nil
	}
	selection, err := resolver.SelectEpisode(match.Info, req)
	if err != nil {
		logger.Debug().Err(err).Str("provider", p.Descriptor.Name).Msg("No playable episode")
		return nil
	}
	a := attemptTarget{
		provider:  p,
		adapter:   adapter,
		match:     match,
		selection: selection,
		req:       req,
		logger:    logger,
	}
	return e.probe(ctx, a)
}

func resolved(streams []models.StreamDescriptor, p provider.Provider, tier models.Tier) models.Resolution {
	return models.Resolution{Streams: streams, Provider: p.Descriptor.Name, Tier: tier}
}

func emptyResolution(message string, tier models.Tier) models.Resolution {
	return models.Resolution{Streams: []models.StreamDescriptor{}, Message: message, Tier: tier}
}

// normalizeServerKey compares variants case-insensitively
func normalizeServerKey(v models.ServerVariant) string {
	return strings.ToLower(strings.TrimSpace(string(v)))
}

// serverLabel is the metric and log value for a variant
func serverLabel(v models.ServerVariant) string {
	if v.IsDefault() {
		return "default"
	}
	return string(v)
}
