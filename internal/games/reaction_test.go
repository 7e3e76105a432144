package games

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/arcadeworks/arcade-go/internal/rng"
	"github.com/arcadeworks/arcade-go/internal/session"
)

func reactionSession(t *testing.T, seed string) (*session.Session, reactionContent) {
	t.Helper()

	g := &ReactionGame{}
	cfg := session.Config{Game: "reaction", Difficulty: session.DifficultyMedium, Seed: seed}

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

	var decoded reactionContent
	if err := json.Unmarshal(content, &decoded); err != nil {
		t.Fatalf("Failed to decode content: %v", err)
	}
	return sess, decoded
}

func reactionReportJSON(t *testing.T, round, latencyMs int) json.RawMessage {
	t.Helper()

	payload, err := json.Marshal(reactionReport{Round: round, LatencyMs: latencyMs})
	if err != nil {
		t.Fatalf("Failed to marshal report: %v", err)
	}
	return payload
}

func TestReactionGenerate(t *testing.T) {
	_, content := reactionSession(t, "reaction-gen")

	if content.Rounds != reactionRounds {
		t.Errorf("Expected %d rounds, got %d", reactionRounds, content.Rounds)
	}
	if len(content.DelaysMs) != content.Rounds {
		t.Fatalf("Expected %d delays, got %d", content.Rounds, len(content.DelaysMs))
	}
	for i, d := range content.DelaysMs {
		if d < reactionMinDelayMs || d > reactionMaxDelayMs {
			t.Errorf("Expected delay in [%d, %d] at round %d, got %d",
				reactionMinDelayMs, reactionMaxDelayMs, i, d)
		}
	}
}

func TestReactionFullRun(t *testing.T) {
	g := &ReactionGame{}
	now := time.Now()
	sess, content := reactionSession(t, "reaction-run")

	for round := 0; round < content.Rounds; round++ {
		outcome, err := g.Apply(sess, reactionReportJSON(t, round, 250), now)
		if err != nil {
			t.Fatalf("Apply failed at round %d: %v", round, err)
		}
		if outcome.Result != ResultCorrect {
			t.Errorf("Expected correct at round %d, got %s", round, outcome.Result)
		}
	}

	if !sess.Completed {
		t.Error("Expected completed after last round")
	}
	if sess.Progress.Score != 250 {
		t.Errorf("Expected average latency 250, got %d", sess.Progress.Score)
	}
}

func TestReactionInvalidReports(t *testing.T) {
	g := &ReactionGame{}
	now := time.Now()

	tests := []struct {
		name    string
		round   int
		latency int
	}{
		{"wrong round", 2, 300},
		{"zero latency", 0, 0},
		{"negative latency", 0, -50},
		{"absurd latency", 0, reactionMaxValidMs + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, _ := reactionSession(t, "reaction-bad")
			_, err := g.Apply(sess, reactionReportJSON(t, tt.round, tt.latency), now)
			if !session.IsKind(err, session.KindInvalidAction) {
				t.Errorf("Expected invalid action, got %v", err)
			}
			if sess.Progress.Moves != 0 {
				t.Errorf("Expected no moves recorded on rejection, got %d", sess.Progress.Moves)
			}
		})
	}
}

func TestReactionEarlyFinishNeverOutscoresFullRun(t *testing.T) {
	g := &ReactionGame{}
	now := time.Now()

	early, _ := reactionSession(t, "reaction-quit")
	if _, err := g.Apply(early, reactionReportJSON(t, 0, 250), now); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	full, content := reactionSession(t, "reaction-quit")
	for round := 0; round < content.Rounds; round++ {
		if _, err := g.Apply(full, reactionReportJSON(t, round, 250), now); err != nil {
			t.Fatalf("Apply failed at round %d: %v", round, err)
		}
	}

	earlyScore := g.Score(early.Config, early.Progress)
	fullScore := g.Score(full.Config, full.Progress)
	if earlyScore >= fullScore {
		t.Errorf("Expected a one-round quit to score below a full run, got %d vs %d",
			earlyScore, fullScore)
	}
	if earlyScore <= 0 {
		t.Errorf("Expected a played round to still count, got %d", earlyScore)
	}
}

func TestReactionScoreFasterIsBetter(t *testing.T) {
	g := &ReactionGame{}
	cfg := session.Config{Game: "reaction", Difficulty: session.DifficultyMedium}

	fast := session.Progress{Index: reactionRounds, Score: 200}
	slow := session.Progress{Index: reactionRounds, Score: 600}

	if g.Score(cfg, fast) <= g.Score(cfg, slow) {
		t.Errorf("Expected faster average to score higher: %d vs %d",
			g.Score(cfg, fast), g.Score(cfg, slow))
	}
	if g.Score(cfg, session.Progress{}) != 0 {
		t.Errorf("Expected zero score before any round")
	}

	glacial := session.Progress{Index: reactionRounds, Score: reactionMaxValidMs}
	if g.Score(cfg, glacial) != 0 {
		t.Errorf("Expected score clamped to zero, got %d", g.Score(cfg, glacial))
	}
}
