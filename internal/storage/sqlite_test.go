package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenCreatesNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "results.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	alignment := float32(0.97)
	winSecs := float32(12.5)
	_, err := store.SaveResult(TrialResult{
		Region:     "monkey_game",
		TrialIndex: 0,
		Seed:       69,
		TargetDoor: 5,
		Attempts:   3,
		Alignment:  &alignment,
		Won:        true,
		WinSecs:    &winSecs,
	})
	if err != nil {
		t.Fatalf("SaveResult() failed: %v", err)
	}

	// A lost trial: never checked, so alignment and win_secs are NULL.
	_, err = store.SaveResult(TrialResult{
		Region:     "monkey_game",
		TrialIndex: 1,
		Seed:       70,
		TargetDoor: 2,
		Attempts:   0,
	})
	if err != nil {
		t.Fatalf("SaveResult() failed: %v", err)
	}

	results, err := store.Results("monkey_game", 10)
	if err != nil {
		t.Fatalf("Results() failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}

	// Newest first.
	lost := results[0]
	if lost.TrialIndex != 1 || lost.Won || lost.Alignment != nil || lost.WinSecs != nil {
		t.Errorf("lost trial = %+v", lost)
	}

	won := results[1]
	if !won.Won || won.Seed != 69 || won.TargetDoor != 5 || won.Attempts != 3 {
		t.Errorf("won trial = %+v", won)
	}
	if won.Alignment == nil || *won.Alignment != alignment {
		t.Errorf("alignment = %v, want %v", won.Alignment, alignment)
	}
	if won.WinSecs == nil || *won.WinSecs != winSecs {
		t.Errorf("win_secs = %v, want %v", won.WinSecs, winSecs)
	}
}

func TestStoreResultsScopedByRegion(t *testing.T) {
	store := openTestStore(t)

	store.SaveResult(TrialResult{Region: "rig_a", Seed: 1})
	store.SaveResult(TrialResult{Region: "rig_a", Seed: 2})
	store.SaveResult(TrialResult{Region: "rig_b", Seed: 3})

	a, err := store.Results("rig_a", 10)
	if err != nil {
		t.Fatalf("Results() failed: %v", err)
	}
	if len(a) != 2 {
		t.Errorf("Expected 2 rig_a results, got %d", len(a))
	}

	b, _ := store.Results("rig_b", 10)
	if len(b) != 1 {
		t.Errorf("Expected 1 rig_b result, got %d", len(b))
	}
}

func TestStoreStats(t *testing.T) {
	store := openTestStore(t)

	// Empty region: zero trials, no error.
	stats, err := store.Stats("empty")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Trials != 0 || stats.Wins != 0 {
		t.Errorf("empty stats = %+v", stats)
	}

	store.SaveResult(TrialResult{Region: "rig", Attempts: 2, Won: true})
	store.SaveResult(TrialResult{Region: "rig", Attempts: 4, Won: true})
	store.SaveResult(TrialResult{Region: "rig", Attempts: 6})

	stats, err = store.Stats("rig")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Trials != 3 || stats.Wins != 2 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.AvgAttempts != 4.0 {
		t.Errorf("avg attempts = %v, want 4", stats.AvgAttempts)
	}
}

func TestStoreClearResults(t *testing.T) {
	store := openTestStore(t)

	store.SaveResult(TrialResult{Region: "rig_a", Seed: 1})
	store.SaveResult(TrialResult{Region: "rig_b", Seed: 2})

	if err := store.ClearResults("rig_a"); err != nil {
		t.Fatalf("ClearResults() failed: %v", err)
	}

	a, _ := store.Results("rig_a", 10)
	if len(a) != 0 {
		t.Errorf("Expected 0 rig_a results after clear, got %d", len(a))
	}
	b, _ := store.Results("rig_b", 10)
	if len(b) != 1 {
		t.Errorf("rig_b results should not be affected by clearing rig_a")
	}
}
