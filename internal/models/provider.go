package models

// ProviderDescriptor names one provider in the cascade. The order of descriptors
// in the configured list is the cascade priority.
type ProviderDescriptor struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// DisplayLabel returns Label, falling back to Name
func (p ProviderDescriptor) DisplayLabel() string {
	if p.Label != "" {
		return p.Label
	}
	return p.Name
}

// ServerVariant is a named delivery server within a provider.
// DefaultServer lets the provider pick.
type ServerVariant string

// DefaultServer is the unspecified server variant
const DefaultServer ServerVariant = ""

// IsDefault reports whether v is the unspecified variant
func (v ServerVariant) IsDefault() bool {
	return v == DefaultServer
}

// SearchResult is one candidate returned by a provider title search
type SearchResult struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	Type  string `json:"type,omitempty"`
	Year  string `json:"releaseDate,omitempty"`
}

// Episode is one entry of a provider episode list. Season and Number hold the
// normalized string form of whatever the provider sent (number or string).
type Episode struct {
	ID     string `json:"id"`
	Season string `json:"season,omitempty"`
	Number string `json:"number,omitempty"`
	Title  string `json:"title,omitempty"`
}

// ProviderMediaInfo is the result of a provider info lookup
type ProviderMediaInfo struct {
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	Episodes  []Episode `json:"episodes,omitempty"`
	EpisodeID string    `json:"episodeId,omitempty"`
}

// EpisodeSelection is the episode chosen to watch from a ProviderMediaInfo
type EpisodeSelection struct {
	EpisodeID string
	// Exact is true when the requested season/episode pair matched
	Exact bool
}

// Source is one playable source returned by a provider watch call
type Source struct {
	URL     string `json:"url"`
	Quality string `json:"quality,omitempty"`
	IsM3U8  bool   `json:"isM3U8,omitempty"`
}
