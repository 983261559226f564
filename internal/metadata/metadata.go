// Package metadata looks up display titles and years for canonical media ids.
package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/KiplangatNgenoChina/movie-stream/internal/apperrors"
	"github.com/KiplangatNgenoChina/movie-stream/internal/cache"
	"github.com/KiplangatNgenoChina/movie-stream/internal/client"
	"github.com/KiplangatNgenoChina/movie-stream/internal/config"
	"github.com/KiplangatNgenoChina/movie-stream/internal/models"
)

const upstreamName = "tmdb"

// Title is the catalog record of a media item
type Title struct {
	TMDBID string `json:"tmdbId"`
	Title  string `json:"title"`
	Year   string `json:"year,omitempty"`
}

// Lookup resolves a canonical id (IMDb "tt…" or numeric TMDB id) to its catalog record.
type Lookup interface {
	Lookup(ctx context.Context, canonicalID string, kind models.MediaKind) (*Title, error)
}

// Client implements Lookup against the TMDB v3 API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	cache      cache.Cache
}

// NewClient creates a TMDB lookup client. store may be nil to disable caching.
func NewClient(httpClient *http.Client, baseURL, apiKey string, store cache.Cache) *Client {
	if baseURL == "" {
		baseURL = config.DefaultTMDBURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		cache:      store,
	}
}

// tmdbRecord covers both movie and tv payloads
type tmdbRecord struct {
	ID           json.Number `json:"id"`
	Title        string      `json:"title"`
	Name         string      `json:"name"`
	ReleaseDate  string      `json:"release_date"`
	FirstAirDate string      `json:"first_air_date"`
}

func (r tmdbRecord) toTitle() *Title {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		title = strings.TrimSpace(r.Name)
	}
	date := r.ReleaseDate
	if date == "" {
		date = r.FirstAirDate
	}
	year := ""
	if len(date) >= 4 {
		year = date[:4]
	}
	return &Title{TMDBID: r.ID.String(), Title: title, Year: year}
}

type findResponse struct {
	MovieResults []tmdbRecord `json:"movie_results"`
	TVResults    []tmdbRecord `json:"tv_results"`
}

// Lookup returns the catalog record for canonicalID. Records with an empty title are NotFound.
func (c *Client) Lookup(ctx context.Context, canonicalID string, kind models.MediaKind) (*Title, error) {
	id := strings.TrimSpace(canonicalID)
	if id == "" {
		return nil, apperrors.NewBadRequestError("id")
	}
	if c.apiKey == "" {
		return nil, apperrors.NewConfigurationMissingError("TMDB_API_KEY", "required for title lookups")
	}

	key := fmt.Sprintf("%s:%s", kind.TMDBType(), id)
	if c.cache != nil {
		if data, ok := c.cache.Get(key); ok {
			var cached Title
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	var (
		title *Title
		err   error
	)
	if IsIMDbID(id) {
		title, err = c.find(ctx, id, kind)
	} else {
		title, err = c.details(ctx, id, kind)
	}
	if err != nil {
		return nil, err
	}
	if title.Title == "" {
		return nil, apperrors.NewNotFoundError("title", id)
	}

	if c.cache != nil {
		if data, err := json.Marshal(title); err == nil {
			c.cache.Set(key, data)
		}
	}
	return title, nil
}

func (c *Client) find(ctx context.Context, imdbID string, kind models.MediaKind) (*Title, error) {
	u := fmt.Sprintf("%s/find/%s?external_source=imdb_id&api_key=%s", c.baseURL, url.PathEscape(imdbID), url.QueryEscape(c.apiKey))

	var resp findResponse
	if err := client.GetJSON(ctx, c.httpClient, upstreamName, u, &resp); err != nil {
		return nil, c.wrap(err, imdbID)
	}

	primary, secondary := resp.MovieResults, resp.TVResults
	if kind == models.KindSeries {
		primary, secondary = secondary, primary
	}
	switch {
	case len(primary) > 0:
		return primary[0].toTitle(), nil
	case len(secondary) > 0:
		return secondary[0].toTitle(), nil
	default:
		return nil, apperrors.NewNotFoundError("title", imdbID)
	}
}

func (c *Client) details(ctx context.Context, tmdbID string, kind models.MediaKind) (*Title, error) {
	u := fmt.Sprintf("%s/%s/%s?api_key=%s", c.baseURL, kind.TMDBType(), url.PathEscape(tmdbID), url.QueryEscape(c.apiKey))

	var rec tmdbRecord
	if err := client.GetJSON(ctx, c.httpClient, upstreamName, u, &rec); err != nil {
		return nil, c.wrap(err, tmdbID)
	}
	title := rec.toTitle()
	if title.TMDBID == "" {
		title.TMDBID = tmdbID
	}
	return title, nil
}

// wrap maps a 404 to NotFound and leaves other failures as-is
func (c *Client) wrap(err error, id string) error {
	var statusErr *client.StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
		return apperrors.NewNotFoundError("title", id)
	}
	return fmt.Errorf("tmdb lookup %s: %w", id, err)
}

// IsIMDbID reports whether id looks like an IMDb title id ("tt" followed by digits).
func IsIMDbID(id string) bool {
	if len(id) < 3 || !strings.HasPrefix(id, "tt") {
		return false
	}
	return isDigits(id[2:])
}

// IsTMDBID reports whether id is a bare numeric TMDB id.
func IsTMDBID(id string) bool {
	return id != "" && isDigits(id)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
