package videos

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"testing"
)

func TestSearchFallbackReturnsPlaceholder(t *testing.T) {
	svc := NewUnconfigured()

	res := svc.Search(context.Background(), []string{"volcanoes"}, 5)
	if res.Success {
		t.Fatal("provider failure must report success=false")
	}
	if len(res.Videos) != 1 {
		t.Fatalf("expected single placeholder video, got %d", len(res.Videos))
	}
	v := res.Videos[0]
	if !strings.Contains(v.URL, "results?search_query=volcanoes") {
		t.Fatalf("placeholder should link to a generic search URL, got %q", v.URL)
	}
	if v.VideoID != "" {
		t.Fatalf("placeholder must not carry a video id, got %q", v.VideoID)
	}
}

func TestSearchEducationalDegradesToPlainSearch(t *testing.T) {
	svc := NewUnconfigured()

	res := svc.SearchEducational(context.Background(), []string{"volcanoes"}, "geology")
	if res.Success {
		t.Fatal("degraded educational search must report success=false")
	}
	if len(res.Videos) != 1 {
		t.Fatalf("expected placeholder result, got %d videos", len(res.Videos))
	}
}

func TestViewCountOrdering(t *testing.T) {
	found := []Video{
		{Title: "a", ViewCount: 500},
		{Title: "b", ViewCount: 50000},
		{Title: "c", ViewCount: 5000},
	}
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].ViewCount > found[j].ViewCount
	})
	got := []uint64{found[0].ViewCount, found[1].ViewCount, found[2].ViewCount}
	want := []uint64{50000, 5000, 500}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestVideoDescriptionStaysInternal(t *testing.T) {
	raw, err := json.Marshal(Video{Title: "Plate tectonics", Description: "filter input only"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), "filter input only") {
		t.Fatalf("description must not appear in serialized video, got %s", raw)
	}
}

func TestRelevanceScore(t *testing.T) {
	v := Video{
		Title:     "Volcanoes Explained - full tutorial",
		Channel:   "Geology University",
		ViewCount: 2_000_000,
	}
	// View component caps at 100; "explained" and "tutorial" boost +20 each;
	// the academic channel marker adds +30.
	if got := relevanceScore(v); got != 190 {
		t.Fatalf("relevanceScore = %v, want 190", got)
	}

	plain := Video{Title: "My vlog", Channel: "someone", ViewCount: 10000}
	if got := relevanceScore(plain); got != 1 {
		t.Fatalf("relevanceScore = %v, want 1", got)
	}
}

func TestLooksEducational(t *testing.T) {
	if !looksEducational(Video{Title: "Intro lesson to plate tectonics", Channel: "x"}) {
		t.Fatal("title term should qualify")
	}
	if !looksEducational(Video{Title: "volcano footage", Channel: "Science Academy"}) {
		t.Fatal("channel term should qualify")
	}
	if !looksEducational(Video{
		Title:       "Volcano footage",
		Channel:     "GeoClips",
		Description: "full geology lesson for beginners",
	}) {
		t.Fatal("description term should qualify")
	}
	if looksEducational(Video{Title: "volcano footage", Channel: "drone shots", Description: "raw drone clips"}) {
		t.Fatal("no educational signal should disqualify")
	}
}
