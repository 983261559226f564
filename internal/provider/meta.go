package provider

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/KiplangatNgenoChina/movie-stream/internal/client"
	"github.com/KiplangatNgenoChina/movie-stream/internal/models"
)

// Meta serves info and watch calls through Consumet's meta route
// (<root>/meta/<catalog>/...), which accepts TMDB ids directly. Search, Info and
// Servers fall through to the provider's catalog route.
type Meta struct {
	*Catalog
	metaRoot string
}

// NewMeta wraps catalog with the meta route for the given meta catalog (usually "tmdb").
func NewMeta(catalog *Catalog, root, metaCatalog string) *Meta {
	return &Meta{
		Catalog:  catalog,
		metaRoot: strings.TrimRight(root, "/") + "/meta/" + strings.Trim(metaCatalog, "/"),
	}
}

// LookupExternal fetches the media record for a TMDB id.
func (m *Meta) LookupExternal(ctx context.Context, tmdbID string, kind models.MediaKind) (*models.ProviderMediaInfo, error) {
	q := url.Values{"type": {kind.TMDBType()}, "provider": {m.descriptor.Name}}
	u := m.metaRoot + "/info/" + url.PathEscape(tmdbID) + "?" + q.Encode()

	var payload infoPayload
	if err := client.GetJSON(ctx, m.httpClient, m.upstream(), u, &payload); err != nil {
		return nil, notFoundOr(err, "media", tmdbID)
	}
	info := payload.toModel("")
	if info.ID == "" {
		return nil, fmt.Errorf("media %s: meta info carried no provider id", tmdbID)
	}
	return info, nil
}

// Watch fetches sources through the meta route.
func (m *Meta) Watch(ctx context.Context, mediaID, episodeID string, server models.ServerVariant) ([]models.Source, error) {
	q := url.Values{"id": {mediaID}, "provider": {m.descriptor.Name}}
	if !server.IsDefault() {
		q.Set("server", string(server))
	}
	u := m.metaRoot + "/watch/" + url.PathEscape(episodeID) + "?" + q.Encode()

	var payload watchPayload
	if err := client.GetJSON(ctx, m.httpClient, m.upstream(), u, &payload); err != nil {
		return nil, fmt.Errorf("watch %s: %w", episodeID, err)
	}
	return payload.toModel(), nil
}
