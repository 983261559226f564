package models

// StreamDescriptor is the caller-facing representation of one playable source
type StreamDescriptor struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Tier identifies the cascade stage that produced (or failed to produce) a result
type Tier int

const (
	TierNotStarted Tier = iota
	TierPrimary
	TierSecondary
	TierFallback
	TierExhausted
)

// String returns the tier name used in logs and metric labels
func (t Tier) String() string {
	switch t {
	case TierPrimary:
		return "primary"
	case TierSecondary:
		return "secondary"
	case TierFallback:
		return "fallback"
	case TierExhausted:
		return "exhausted"
	default:
		return "not_started"
	}
}

// Resolution is the outcome of a cascade run. Streams is never nil.
type Resolution struct {
	Streams []StreamDescriptor `json:"streams"`
	// Message is an optional advisory, set when nothing was found
	Message  string `json:"message,omitempty"`
	Provider string `json:"-"`
	Tier     Tier   `json:"-"`
}

// TorrentioStream is one entry from the aggregator. Fields are passed through as received,
// except Resolution which is parsed from the release title.
type TorrentioStream struct {
	Name       string `json:"name,omitempty"`
	Title      string `json:"title,omitempty"`
	URL        string `json:"url,omitempty"`
	InfoHash   string `json:"infoHash,omitempty"`
	FileIdx    *int   `json:"fileIdx,omitempty"`
	Resolution string `json:"resolution,omitempty"`
}
