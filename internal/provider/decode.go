package provider

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/KiplangatNgenoChina/movie-stream/internal/models"
)

// flexString decodes a JSON string or number into its string form.
// null and other types decode to "".
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*f = flexString(normalizeNumber(n))
	default:
		*f = ""
	}
	return nil
}

// normalizeNumber renders integral floats ("2.0") as integers so they compare equal to "2".
func normalizeNumber(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	if f, err := n.Float64(); err == nil && f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return n.String()
}

// flexTitle decodes either a plain string or a localized title object.
type flexTitle string

func (f *flexTitle) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexTitle(strings.TrimSpace(s))
	case '{':
		var localized struct {
			English       string `json:"english"`
			UserPreferred string `json:"userPreferred"`
			Romaji        string `json:"romaji"`
			Native        string `json:"native"`
		}
		if err := json.Unmarshal(data, &localized); err != nil {
			return err
		}
		for _, candidate := range []string{localized.English, localized.UserPreferred, localized.Romaji, localized.Native} {
			if s := strings.TrimSpace(candidate); s != "" {
				*f = flexTitle(s)
				break
			}
		}
	}
	return nil
}

type episodePayload struct {
	ID            flexString `json:"id"`
	Season        flexString `json:"season"`
	SeasonNumber  flexString `json:"seasonNumber"`
	Number        flexString `json:"number"`
	EpisodeNumber flexString `json:"episodeNumber"`
	Title         flexTitle  `json:"title"`
}

func (e episodePayload) toModel() models.Episode {
	season := e.Season
	if season == "" {
		season = e.SeasonNumber
	}
	number := e.Number
	if number == "" {
		number = e.EpisodeNumber
	}
	return models.Episode{
		ID:     string(e.ID),
		Season: string(season),
		Number: string(number),
		Title:  string(e.Title),
	}
}

type infoPayload struct {
	ID        flexString       `json:"id"`
	Title     flexTitle        `json:"title"`
	Name      flexTitle        `json:"name"`
	Episodes  []episodePayload `json:"episodes"`
	EpisodeID flexString       `json:"episodeId"`
}

func (p infoPayload) toModel(fallbackID string) *models.ProviderMediaInfo {
	info := &models.ProviderMediaInfo{
		ID:        string(p.ID),
		Title:     string(p.Title),
		EpisodeID: string(p.EpisodeID),
	}
	if info.ID == "" {
		info.ID = fallbackID
	}
	if info.Title == "" {
		info.Title = string(p.Name)
	}
	for _, ep := range p.Episodes {
		if ep.ID == "" {
			continue
		}
		info.Episodes = append(info.Episodes, ep.toModel())
	}
	return info
}

type searchResultPayload struct {
	ID          flexString `json:"id"`
	Title       flexTitle  `json:"title"`
	Name        flexTitle  `json:"name"`
	Type        string     `json:"type"`
	ReleaseDate flexString `json:"releaseDate"`
}

// decodeSearchResults accepts {"results":[...]} or a bare array.
func decodeSearchResults(raw json.RawMessage) ([]models.SearchResult, error) {
	var items []searchResultPayload
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
	} else {
		var wrapped struct {
			Results []searchResultPayload `json:"results"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, err
		}
		items = wrapped.Results
	}

	results := make([]models.SearchResult, 0, len(items))
	for _, it := range items {
		if it.ID == "" {
			continue
		}
		title := string(it.Title)
		if title == "" {
			title = string(it.Name)
		}
		results = append(results, models.SearchResult{
			ID:    string(it.ID),
			Title: title,
			Type:  it.Type,
			Year:  string(it.ReleaseDate),
		})
	}
	return results, nil
}

type serverPayload struct {
	Name   string `json:"name"`
	Server string `json:"server"`
}

// decodeServers accepts [{name}] or {"servers":[{name}]}.
func decodeServers(raw json.RawMessage) ([]models.ServerVariant, error) {
	var items []serverPayload
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
	} else {
		var wrapped struct {
			Servers []serverPayload `json:"servers"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, err
		}
		items = wrapped.Servers
	}

	servers := make([]models.ServerVariant, 0, len(items))
	for _, it := range items {
		name := it.Name
		if name == "" {
			name = it.Server
		}
		name = strings.Join(strings.Fields(name), " ")
		if name == "" {
			continue
		}
		servers = append(servers, models.ServerVariant(name))
	}
	return servers, nil
}

type watchPayload struct {
	Sources []struct {
		URL     string     `json:"url"`
		Quality flexString `json:"quality"`
		IsM3U8  bool       `json:"isM3U8"`
	} `json:"sources"`
}

func (w watchPayload) toModel() []models.Source {
	sources := make([]models.Source, 0, len(w.Sources))
	for _, s := range w.Sources {
		sources = append(sources, models.Source{
			URL:     strings.TrimSpace(s.URL),
			Quality: string(s.Quality),
			IsM3U8:  s.IsM3U8,
		})
	}
	return sources
}
