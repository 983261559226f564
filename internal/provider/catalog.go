package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/KiplangatNgenoChina/movie-stream/internal/apperrors"
	"github.com/KiplangatNgenoChina/movie-stream/internal/client"
	"github.com/KiplangatNgenoChina/movie-stream/internal/models"
)

// Catalog implements Adapter against a provider's own Consumet catalog route
// (<root>/movies/<name> by default).
type Catalog struct {
	httpClient  *http.Client
	catalogRoot string
	descriptor  models.ProviderDescriptor
}

// NewCatalog creates a catalog-route adapter rooted at <root>/<path>.
func NewCatalog(hc *http.Client, root, path string, descriptor models.ProviderDescriptor) *Catalog {
	catalogRoot := strings.TrimRight(root, "/")
	if path = strings.Trim(path, "/"); path != "" {
		catalogRoot += "/" + path
	}
	return &Catalog{
		httpClient:  hc,
		catalogRoot: catalogRoot,
		descriptor:  descriptor,
	}
}

func (c *Catalog) Descriptor() models.ProviderDescriptor { return c.descriptor }

func (c *Catalog) upstream() string { return "consumet:" + c.descriptor.Name }

// Search returns candidates for query. No results is an empty slice, not an error.
func (c *Catalog) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	u := c.catalogRoot + "/" + url.PathEscape(query)

	var raw json.RawMessage
	if err := client.GetJSON(ctx, c.httpClient, c.upstream(), u, &raw); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	results, err := decodeSearchResults(raw)
	if err != nil {
		return nil, fmt.Errorf("decode search results for %q: %w", query, err)
	}
	return results, nil
}

// Info fetches the media record for a provider media id.
func (c *Catalog) Info(ctx context.Context, mediaID string) (*models.ProviderMediaInfo, error) {
	u := c.catalogRoot + "/info?" + url.Values{"id": {mediaID}}.Encode()

	var payload infoPayload
	if err := client.GetJSON(ctx, c.httpClient, c.upstream(), u, &payload); err != nil {
		return nil, notFoundOr(err, "media", mediaID)
	}
	return payload.toModel(mediaID), nil
}

// Watch fetches the sources of one episode. The default variant omits the server parameter.
func (c *Catalog) Watch(ctx context.Context, mediaID, episodeID string, server models.ServerVariant) ([]models.Source, error) {
	q := url.Values{"episodeId": {episodeID}, "mediaId": {mediaID}}
	if !server.IsDefault() {
		q.Set("server", string(server))
	}
	u := c.catalogRoot + "/watch?" + q.Encode()

	var payload watchPayload
	if err := client.GetJSON(ctx, c.httpClient, c.upstream(), u, &payload); err != nil {
		return nil, fmt.Errorf("watch %s: %w", episodeID, err)
	}
	return payload.toModel(), nil
}

// Servers lists the delivery servers the provider advertises for an episode.
func (c *Catalog) Servers(ctx context.Context, mediaID, episodeID string) ([]models.ServerVariant, error) {
	u := c.catalogRoot + "/servers?" + url.Values{"episodeId": {episodeID}, "mediaId": {mediaID}}.Encode()

	var raw json.RawMessage
	if err := client.GetJSON(ctx, c.httpClient, c.upstream(), u, &raw); err != nil {
		return nil, fmt.Errorf("servers %s: %w", episodeID, err)
	}
	return decodeServers(raw)
}

// notFoundOr maps an upstream 404 to ErrNotFound
func notFoundOr(err error, resource, id string) error {
	var statusErr *client.StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
		return apperrors.NewNotFoundError(resource, id)
	}
	return fmt.Errorf("%s %s: %w", resource, id, err)
}
