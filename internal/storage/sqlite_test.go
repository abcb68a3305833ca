package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustSave(t *testing.T, s *Store, game, player string, score, level int) {
	t.Helper()
	if _, err := s.SaveScore(game, player, score, level); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	mustSave(t, store, "phyzzle", "Ada", 1200, 2)
	mustSave(t, store, "phyzzle", "Grace", 300, 1)
	mustSave(t, store, "phyzzle", "Marie", 8600, 3)
	mustSave(t, store, "phyzzle_zen", "Ada", 5000, 4)

	scores, err := store.TopScores("phyzzle", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	// Should be sorted descending
	want := []struct {
		player string
		score  int
		level  int
	}{
		{"Marie", 8600, 3},
		{"Ada", 1200, 2},
		{"Grace", 300, 1},
	}
	for i, w := range want {
		got := scores[i]
		if got.Player != w.player || got.Score != w.score || got.Level != w.level {
			t.Errorf("entry %d = %s/%d/L%d, want %s/%d/L%d", i, got.Player, got.Score, got.Level, w.player, w.score, w.level)
		}
		if got.GameID != "phyzzle" {
			t.Errorf("entry %d game = %q", i, got.GameID)
		}
	}

	zen, err := store.TopScores("phyzzle_zen", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(zen) != 1 {
		t.Errorf("Expected 1 zen score, got %d", len(zen))
	}
}

func TestStoreBlankPlayerAndLevel(t *testing.T) {
	store := openTestStore(t)

	mustSave(t, store, "phyzzle", "   ", 10, 0)

	scores, err := store.TopScores("phyzzle", 1)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if scores[0].Player != AnonymousPlayer {
		t.Errorf("player = %q, want %q", scores[0].Player, AnonymousPlayer)
	}
	if scores[0].Level != 1 {
		t.Errorf("level = %d, want 1", scores[0].Level)
	}
}

func TestStoreLeaderboard(t *testing.T) {
	store := openTestStore(t)

	for i := range 8 {
		mustSave(t, store, "phyzzle", "p", (i+1)*100, 1)
	}
	// Tie with 800: the earlier record ranks first
	mustSave(t, store, "phyzzle", "late", 800, 1)

	board, err := store.Leaderboard("phyzzle")
	if err != nil {
		t.Fatalf("Leaderboard() failed: %v", err)
	}
	if len(board) != LeaderboardSize {
		t.Fatalf("Expected %d entries, got %d", LeaderboardSize, len(board))
	}
	if board[0].Score != 800 || board[0].Player != "p" || board[1].Player != "late" {
		t.Errorf("unexpected leaderboard head: %+v", board[:2])
	}
	if board[4].Score != 500 {
		t.Errorf("fifth score = %d, want 500", board[4].Score)
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := range 5 {
		mustSave(t, store, "test", "p", (i+1)*100, 1)
	}

	// Request only top 3
	scores, err := store.TopScores("test", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(scores) != 3 {
		t.Errorf("Expected 3 scores with limit, got %d", len(scores))
	}

	// Should be 500, 400, 300 (top 3)
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	// No scores yet
	high, err := store.HighScore("phyzzle")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty game, got %d", high)
	}

	mustSave(t, store, "phyzzle", "a", 100, 1)
	mustSave(t, store, "phyzzle", "b", 300, 1)
	mustSave(t, store, "phyzzle", "c", 200, 1)

	high, err = store.HighScore("phyzzle")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}
}

func TestStorePlayerBest(t *testing.T) {
	store := openTestStore(t)

	best, err := store.PlayerBest("phyzzle", "Ada")
	if err != nil {
		t.Fatalf("PlayerBest() failed: %v", err)
	}
	if best != nil {
		t.Fatalf("Expected no entry, got %+v", best)
	}

	mustSave(t, store, "phyzzle", "Ada", 400, 2)
	mustSave(t, store, "phyzzle", "Ada", 900, 3)
	mustSave(t, store, "phyzzle", "Grace", 5000, 5)

	best, err = store.PlayerBest("phyzzle", " Ada ")
	if err != nil {
		t.Fatalf("PlayerBest() failed: %v", err)
	}
	if best == nil || best.Score != 900 || best.Level != 3 {
		t.Errorf("PlayerBest = %+v, want 900 at level 3", best)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	mustSave(t, store, "phyzzle", "a", 100, 1)
	mustSave(t, store, "phyzzle", "b", 200, 1)
	mustSave(t, store, "phyzzle_zen", "c", 300, 1)

	if err := store.ClearScores("phyzzle"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	lab, _ := store.TopScores("phyzzle", 10)
	if len(lab) != 0 {
		t.Errorf("Expected 0 lab scores after clear, got %d", len(lab))
	}

	zen, _ := store.TopScores("phyzzle_zen", 10)
	if len(zen) != 1 {
		t.Errorf("Zen scores should not be affected by clearing lab")
	}
}

func TestStoreAllScores(t *testing.T) {
	store := openTestStore(t)

	for i := range 20 {
		mustSave(t, store, "test", "p", i*10, 1)
	}

	scores, err := store.AllScores("test")
	if err != nil {
		t.Fatalf("AllScores() failed: %v", err)
	}

	if len(scores) != 20 {
		t.Errorf("Expected 20 scores, got %d", len(scores))
	}
}

func TestStoreStats(t *testing.T) {
	store := openTestStore(t)

	mustSave(t, store, "phyzzle", "Ada", 100, 1)
	mustSave(t, store, "phyzzle", "Ada", 300, 4)
	mustSave(t, store, "phyzzle", "Grace", 200, 2)
	mustSave(t, store, "phyzzle_zen", "Ada", 50, 1)

	stats, err := store.GetGameStats("phyzzle")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 3 || stats.Players != 2 || stats.HighScore != 300 || stats.MaxLevel != 4 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.TotalScore != 600 || stats.AvgScore != 200 {
		t.Errorf("total = %d avg = %v", stats.TotalScore, stats.AvgScore)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed should be set")
	}

	empty, err := store.GetGameStats("none")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if empty.GamesCount != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("unexpected empty stats: %+v", empty)
	}

	all, err := store.GetAllGamesStats()
	if err != nil {
		t.Fatalf("GetAllGamesStats() failed: %v", err)
	}
	if len(all) != 2 || all["phyzzle_zen"].GamesCount != 1 {
		t.Errorf("unexpected all stats: %v", all)
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
