package provider

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/KiplangatNgenoChina/movie-stream/internal/models"
)

func TestFlexString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"2"`, "2"},
		{`2`, "2"},
		{`2.0`, "2"},
		{`" 3 "`, "3"},
		{`null`, ""},
		{`{"a":1}`, ""},
	}
	for _, tt := range tests {
		var f flexString
		if err := json.Unmarshal([]byte(tt.input), &f); err != nil {
			t.Fatalf("Unmarshal(%s) failed: %v", tt.input, err)
		}
		if string(f) != tt.want {
			t.Errorf("Unmarshal(%s): expected %q, got %q", tt.input, tt.want, f)
		}
	}
}

func TestFlexTitle_Localized(t *testing.T) {
	var f flexTitle
	if err := json.Unmarshal([]byte(`{"romaji":"Shingeki no Kyojin","english":"Attack on Titan"}`), &f); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if f != "Attack on Titan" {
		t.Errorf("Expected english title, got %q", f)
	}

	f = ""
	if err := json.Unmarshal([]byte(`{"romaji":"Shingeki no Kyojin"}`), &f); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if f != "Shingeki no Kyojin" {
		t.Errorf("Expected romaji fallback, got %q", f)
	}
}

func TestInfoPayload_MixedEpisodeFields(t *testing.T) {
	body := `{
		"id": "tv/watch-show-1",
		"name": "Show",
		"episodes": [
			{"id": "e1", "season": 1, "number": 1},
			{"id": "e2", "seasonNumber": "2", "episodeNumber": "5"},
			{"id": "", "season": 9, "number": 9}
		]
	}`
	var p infoPayload
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	got := p.toModel("fallback")
	want := &models.ProviderMediaInfo{
		ID:    "tv/watch-show-1",
		Title: "Show",
		Episodes: []models.Episode{
			{ID: "e1", Season: "1", Number: "1"},
			{ID: "e2", Season: "2", Number: "5"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Unexpected info (-want +got):\n%s", diff)
	}
}

func TestInfoPayload_FallbackID(t *testing.T) {
	var p infoPayload
	if err := json.Unmarshal([]byte(`{"title":"Movie","episodeId":12345}`), &p); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	got := p.toModel("movie/watch-movie-1")
	if got.ID != "movie/watch-movie-1" {
		t.Errorf("Expected fallback id, got %q", got.ID)
	}
	if got.EpisodeID != "12345" {
		t.Errorf("Expected numeric episodeId as string, got %q", got.EpisodeID)
	}
}

func TestDecodeSearchResults(t *testing.T) {
	wrapped := `{"currentPage":1,"results":[{"id":"movie/watch-inception-19764","title":"Inception","releaseDate":"2010"},{"id":""}]}`
	bare := `[{"id":"movie/watch-inception-19764","name":"Inception","releaseDate":2010}]`

	want := []models.SearchResult{{ID: "movie/watch-inception-19764", Title: "Inception", Year: "2010"}}
	for _, body := range []string{wrapped, bare} {
		got, err := decodeSearchResults(json.RawMessage(body))
		if err != nil {
			t.Fatalf("decodeSearchResults(%s) failed: %v", body, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Unexpected results (-want +got):\n%s", diff)
		}
	}
}

func TestDecodeServers(t *testing.T) {
	want := []models.ServerVariant{"UpCloud", "Vidcloud"}
	for _, body := range []string{
		`[{"name":"UpCloud"},{"name":"  Vidcloud "},{"name":""}]`,
		`{"servers":[{"name":"UpCloud"},{"server":"Vidcloud"}]}`,
	} {
		got, err := decodeServers(json.RawMessage(body))
		if err != nil {
			t.Fatalf("decodeServers(%s) failed: %v", body, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Unexpected servers (-want +got):\n%s", diff)
		}
	}
}
