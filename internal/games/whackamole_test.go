package games

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/arcadeworks/arcade-go/internal/rng"
	"github.com/arcadeworks/arcade-go/internal/session"
)

func whackSession(t *testing.T, seed string) (*session.Session, whackContent) {
	t.Helper()

	g := &WhackAMoleGame{}
	cfg := session.Config{Game: "whackamole", Difficulty: session.DifficultyEasy, Seed: seed}

	content, err := g.Generate(cfg, rng.New(seed))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	sess := &session.Session{
		ID:        "test",
		Config:    cfg,
		Content:   content,
		StartTime: time.Now(),
	}

	var decoded whackContent
	if err := json.Unmarshal(content, &decoded); err != nil {
		t.Fatalf("Failed to decode content: %v", err)
	}
	return sess, decoded
}

func whackMoveJSON(t *testing.T, round, position int) json.RawMessage {
	t.Helper()

	payload, err := json.Marshal(whackMove{Round: round, Position: position})
	if err != nil {
		t.Fatalf("Failed to marshal move: %v", err)
	}
	return payload
}

func TestWhackGenerate(t *testing.T) {
	_, content := whackSession(t, "whack-gen")

	if content.Rounds != 10 {
		t.Errorf("Expected 10 rounds on easy, got %d", content.Rounds)
	}
	if len(content.Sequence) != content.Rounds {
		t.Fatalf("Expected %d sequence entries, got %d", content.Rounds, len(content.Sequence))
	}
	for i, pos := range content.Sequence {
		if pos < 0 || pos >= content.GridSize {
			t.Errorf("Expected position in [0, %d) at round %d, got %d", content.GridSize, i, pos)
		}
	}
}

func TestWhackPerfectGame(t *testing.T) {
	g := &WhackAMoleGame{}
	now := time.Now()
	sess, content := whackSession(t, "whack-win")

	for round, pos := range content.Sequence {
		outcome, err := g.Apply(sess, whackMoveJSON(t, round, pos), now)
		if err != nil {
			t.Fatalf("Apply failed at round %d: %v", round, err)
		}
		if outcome.Result != ResultCorrect {
			t.Errorf("Expected hit at round %d, got %s", round, outcome.Result)
		}
	}

	if !sess.Completed {
		t.Error("Expected completed after last round")
	}
	if sess.Progress.Matches != content.Rounds {
		t.Errorf("Expected %d hits, got %d", content.Rounds, sess.Progress.Matches)
	}
	if sess.Progress.BestStreak != content.Rounds {
		t.Errorf("Expected best streak %d, got %d", content.Rounds, sess.Progress.BestStreak)
	}

	score := g.Score(sess.Config, sess.Progress)
	if score <= 0 {
		t.Errorf("Expected positive score for a perfect game, got %d", score)
	}
}

func TestWhackOutOfOrderRoundRejected(t *testing.T) {
	g := &WhackAMoleGame{}
	now := time.Now()
	sess, _ := whackSession(t, "whack-order")

	_, err := g.Apply(sess, whackMoveJSON(t, 3, 0), now)
	if !session.IsKind(err, session.KindInvalidAction) {
		t.Errorf("Expected invalid action for out-of-order round, got %v", err)
	}
}

func TestWhackMissBreaksStreak(t *testing.T) {
	g := &WhackAMoleGame{}
	now := time.Now()
	sess, content := whackSession(t, "whack-miss")

	// Hit round 0, miss round 1.
	if _, err := g.Apply(sess, whackMoveJSON(t, 0, content.Sequence[0]), now); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	miss := (content.Sequence[1] + 1) % content.GridSize
	outcome, err := g.Apply(sess, whackMoveJSON(t, 1, miss), now)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if outcome.Result != ResultIncorrect {
		t.Errorf("Expected miss, got %s", outcome.Result)
	}
	if sess.Progress.Streak != 0 {
		t.Errorf("Expected streak reset, got %d", sess.Progress.Streak)
	}
	if sess.Progress.Matches != 1 {
		t.Errorf("Expected 1 hit, got %d", sess.Progress.Matches)
	}
}
