package storage

import (
	"testing"
	"time"

	"github.com/m2rads/e2e/pkg/types"
)

func setupCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to open cache: %v", err)
	}
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestAnalysisRoundTrip(t *testing.T) {
	cache := setupCache(t)

	analysis := &types.ComponentAnalysis{
		File: "src/Login.tsx",
		Elements: []types.UIElement{
			{Tag: "<button>", Type: "button", HasEvents: true, EventType: "click"},
		},
		StateCount:   2,
		Dependencies: types.Dependencies{APIs: []string{"/api/auth/login"}},
	}
	hash := HashContent([]byte("source bytes"))

	if err := cache.PutAnalysis("src/Login.tsx", hash, analysis); err != nil {
		t.Fatalf("PutAnalysis failed: %v", err)
	}

	got, ok := cache.GetAnalysis("src/Login.tsx", hash)
	if !ok {
		t.Fatal("Expected a cache hit")
	}
	if got.File != analysis.File {
		t.Errorf("Expected file %q, got %q", analysis.File, got.File)
	}
	if len(got.Elements) != 1 || got.Elements[0].EventType != "click" {
		t.Errorf("Elements did not survive the round trip: %+v", got.Elements)
	}
	if got.StateCount != 2 {
		t.Errorf("Expected state count 2, got %d", got.StateCount)
	}
	if len(got.Dependencies.APIs) != 1 || got.Dependencies.APIs[0] != "/api/auth/login" {
		t.Errorf("Dependencies did not survive the round trip: %+v", got.Dependencies)
	}
}

func TestStaleHashMisses(t *testing.T) {
	cache := setupCache(t)

	hash := HashContent([]byte("version one"))
	if err := cache.PutAnalysis("src/App.tsx", hash, &types.ComponentAnalysis{File: "src/App.tsx"}); err != nil {
		t.Fatalf("PutAnalysis failed: %v", err)
	}

	if _, ok := cache.GetAnalysis("src/App.tsx", HashContent([]byte("version two"))); ok {
		t.Error("Changed content must miss the cache")
	}
	if _, ok := cache.GetAnalysis("src/Other.tsx", hash); ok {
		t.Error("Unknown path must miss the cache")
	}
}

func TestPutAnalysisReplaces(t *testing.T) {
	cache := setupCache(t)

	first := HashContent([]byte("v1"))
	second := HashContent([]byte("v2"))
	if err := cache.PutAnalysis("src/App.tsx", first, &types.ComponentAnalysis{StateCount: 1}); err != nil {
		t.Fatal(err)
	}
	if err := cache.PutAnalysis("src/App.tsx", second, &types.ComponentAnalysis{StateCount: 5}); err != nil {
		t.Fatal(err)
	}

	if _, ok := cache.GetAnalysis("src/App.tsx", first); ok {
		t.Error("Replaced entry must not hit on the old hash")
	}
	got, ok := cache.GetAnalysis("src/App.tsx", second)
	if !ok || got.StateCount != 5 {
		t.Errorf("Expected the replacement analysis, got %+v (hit=%v)", got, ok)
	}
}

func TestRunLog(t *testing.T) {
	cache := setupCache(t)

	base := time.Now().Add(-time.Hour).Truncate(time.Second)
	for i, id := range []string{"run-a", "run-b", "run-c"} {
		run := types.GenerationRun{
			ID:         id,
			Model:      "gpt-4o-mini",
			Root:       "/work/app",
			Chunks:     i + 1,
			Artifacts:  i,
			StartedAt:  base.Add(time.Duration(i) * time.Minute),
			FinishedAt: base.Add(time.Duration(i)*time.Minute + 30*time.Second),
		}
		if err := cache.RecordRun(run); err != nil {
			t.Fatalf("RecordRun failed: %v", err)
		}
	}

	runs, err := cache.RecentRuns(2)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "run-c" || runs[1].ID != "run-b" {
		t.Errorf("Expected newest first, got %q then %q", runs[0].ID, runs[1].ID)
	}
	if runs[0].Chunks != 3 {
		t.Errorf("Expected 3 chunks on the latest run, got %d", runs[0].Chunks)
	}
}
