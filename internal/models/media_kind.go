package models

import "strings"

// MediaKind distinguishes movies from episodic content
type MediaKind int

const (
	KindMovie MediaKind = iota
	KindSeries
)

// String returns the Stremio-style name of the kind
func (k MediaKind) String() string {
	switch k {
	case KindSeries:
		return "series"
	default:
		return "movie"
	}
}

// TMDBType returns the type name used by TMDB-backed routes ("movie" or "tv")
func (k MediaKind) TMDBType() string {
	if k == KindSeries {
		return "tv"
	}
	return "movie"
}

// ParseMediaKind converts a query value to a MediaKind.
// "series" and "tv" map to KindSeries; anything else, including the empty string, is a movie.
func ParseMediaKind(s string) MediaKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "series", "tv":
		return KindSeries
	default:
		return KindMovie
	}
}

// MarshalJSON implements json.Marshaler interface
func (k MediaKind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler interface
func (k *MediaKind) UnmarshalJSON(data []byte) error {
	*k = ParseMediaKind(strings.Trim(string(data), `"`))
	return nil
}
