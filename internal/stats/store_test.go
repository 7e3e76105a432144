package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/arcadeworks/arcade-go/internal/session"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "stats.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func finalizedSession(id, userID, game string, score int) *session.Session {
	end := time.Now().UTC()
	return &session.Session{
		ID:     id,
		UserID: userID,
		Config: session.Config{
			Game:       game,
			Difficulty: session.DifficultyEasy,
		},
		Progress:  session.Progress{Moves: 8, Attempts: 8, ElapsedMs: 42000},
		Completed: true,
		EndTime:   &end,
		Score:     score,
	}
}

func TestRecordAndUserStats(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	sessions := []*session.Session{
		finalizedSession("s1", "alice", "memory", 500),
		finalizedSession("s2", "alice", "memory", 700),
		finalizedSession("s3", "alice", "mathquiz", 90),
		finalizedSession("s4", "bob", "memory", 300),
	}
	for _, sess := range sessions {
		if err := store.Record(ctx, sess); err != nil {
			t.Fatalf("Record failed for %s: %v", sess.ID, err)
		}
	}

	stats, err := store.UserStats(ctx, "alice")
	if err != nil {
		t.Fatalf("UserStats failed: %v", err)
	}

	if len(stats.Games) != 2 {
		t.Fatalf("Expected 2 game aggregates, got %d", len(stats.Games))
	}

	var memory *GameStats
	for i := range stats.Games {
		if stats.Games[i].Game == "memory" {
			memory = &stats.Games[i]
		}
	}
	if memory == nil {
		t.Fatal("Expected memory aggregate")
	}
	if memory.Played != 2 {
		t.Errorf("Expected 2 memory games played, got %d", memory.Played)
	}
	if memory.BestScore != 700 {
		t.Errorf("Expected best score 700, got %d", memory.BestScore)
	}
	if memory.AvgScore != 600 {
		t.Errorf("Expected avg score 600, got %f", memory.AvgScore)
	}
}

func TestRecordIdempotent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	sess := finalizedSession("dup", "alice", "memory", 400)
	if err := store.Record(ctx, sess); err != nil {
		t.Fatalf("First record failed: %v", err)
	}
	if err := store.Record(ctx, sess); err != nil {
		t.Fatalf("Second record failed: %v", err)
	}

	stats, err := store.UserStats(ctx, "alice")
	if err != nil {
		t.Fatalf("UserStats failed: %v", err)
	}
	if len(stats.Games) != 1 || stats.Games[0].Played != 1 {
		t.Errorf("Expected one recorded game after replay, got %+v", stats.Games)
	}
}

func TestLeaderboard(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	scores := map[string]int{"s1": 100, "s2": 900, "s3": 500}
	for id, score := range scores {
		if err := store.Record(ctx, finalizedSession(id, "user-"+id, "memory", score)); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	entries, err := store.Leaderboard(ctx, "memory", 2)
	if err != nil {
		t.Fatalf("Leaderboard failed: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Score != 900 || entries[1].Score != 500 {
		t.Errorf("Expected scores [900 500], got [%d %d]", entries[0].Score, entries[1].Score)
	}

	empty, err := store.Leaderboard(ctx, "scramble", 5)
	if err != nil {
		t.Fatalf("Leaderboard failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("Expected empty leaderboard for unplayed game, got %d entries", len(empty))
	}
}
