package models

import (
	"fmt"
	"strings"
)

// MediaRequest identifies the title a caller wants to play
type MediaRequest struct {
	CanonicalID string    `json:"id"`
	Kind        MediaKind `json:"type"`
	Season      int       `json:"season,omitempty"`
	Episode     int       `json:"episode,omitempty"`
}

// Normalize returns a copy that satisfies the request invariants: season and episode are set
// (defaulting to 1) for series and cleared for movies.
func (r MediaRequest) Normalize() MediaRequest {
	r.CanonicalID = strings.TrimSpace(r.CanonicalID)
	if r.Kind != KindSeries {
		r.Season, r.Episode = 0, 0
		return r
	}
	if r.Season <= 0 {
		r.Season = 1
	}
	if r.Episode <= 0 {
		r.Episode = 1
	}
	return r
}

// IsSeries reports whether the request targets an episode
func (r MediaRequest) IsSeries() bool {
	return r.Kind == KindSeries
}

// StreamID builds the Stremio stream id: "<id>" for movies, "<id>:<season>:<episode>" for series.
func (r MediaRequest) StreamID() string {
	n := r.Normalize()
	if !n.IsSeries() {
		return n.CanonicalID
	}
	return fmt.Sprintf("%s:%d:%d", n.CanonicalID, n.Season, n.Episode)
}
