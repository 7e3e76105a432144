package games

import (
	"encoding/json"
	"time"

	"github.com/arcadeworks/arcade-go/internal/rng"
	"github.com/arcadeworks/arcade-go/internal/session"
)

// ReactionGame implements a reaction-time trial: the server fixes the
// stimulus delay for each round, the client reports the measured
// latency, and the score reflects the average. There is no secret
// content; the delays are intentionally visible so the client can
// schedule the stimulus.
type ReactionGame struct{}

const (
	reactionRounds     = 5
	reactionMinDelayMs = 1000
	reactionMaxDelayMs = 4000
	reactionMaxValidMs = 10000

	reactionBase      = 1000.0
	reactionMsPenalty = 1.5
)

type reactionContent struct {
	Rounds       int     `json:"rounds"`
	DelaysMs     []int   `json:"delays_ms"`
	LatenciesMs  []int   `json:"latencies_ms"`
	TotalLatency float64 `json:"total_latency_ms"`
}

type reactionReport struct {
	Round     int `json:"round"`
	LatencyMs int `json:"latency_ms"`
}

// Spec returns metadata about the reaction game.
func (g *ReactionGame) Spec() Spec {
	return Spec{
		ID:   "reaction",
		Name: "Reaction Time",
		Difficulties: []session.Difficulty{
			session.DifficultyEasy, session.DifficultyMedium, session.DifficultyHard,
		},
	}
}

// Generate fixes the stimulus delays.
func (g *ReactionGame) Generate(cfg session.Config, stream *rng.Stream) (json.RawMessage, error) {
	delays := make([]int, reactionRounds)
	for i := range delays {
		delays[i] = stream.IntRange(reactionMinDelayMs, reactionMaxDelayMs)
	}

	return json.Marshal(reactionContent{
		Rounds:      reactionRounds,
		DelaysMs:    delays,
		LatenciesMs: make([]int, 0, reactionRounds),
	})
}

// Apply records one round's latency. Rounds must be reported in order.
func (g *ReactionGame) Apply(s *session.Session, action json.RawMessage, now time.Time) (Outcome, error) {
	var report reactionReport
	if err := decodeAction(action, &report); err != nil {
		return Outcome{}, err
	}

	var content reactionContent
	if err := decodeContent(s, &content); err != nil {
		return Outcome{}, err
	}

	if report.Round != s.Progress.Index {
		return Outcome{}, session.InvalidActionError(
			"expected round %d, got %d", s.Progress.Index, report.Round)
	}
	if report.LatencyMs <= 0 || report.LatencyMs > reactionMaxValidMs {
		return Outcome{}, session.InvalidActionError(
			"latency %dms is outside (0, %d]", report.LatencyMs, reactionMaxValidMs)
	}

	content.LatenciesMs = append(content.LatenciesMs, report.LatencyMs)
	content.TotalLatency += float64(report.LatencyMs)

	s.Progress.Moves++
	s.Progress.Attempts++
	s.Progress.Index++
	// Running score holds the average latency, kept current on every
	// round so finalizing mid-game scores the rounds actually played.
	s.Progress.Score = int(content.TotalLatency) / len(content.LatenciesMs)

	outcome := Outcome{
		Result: ResultCorrect,
		Details: map[string]any{
			"round":      report.Round,
			"latency_ms": report.LatencyMs,
			"average_ms": content.TotalLatency / float64(len(content.LatenciesMs)),
		},
	}

	if s.Progress.Index == content.Rounds {
		s.Completed = true
	}

	if err := encodeContent(s, &content); err != nil {
		return Outcome{}, err
	}
	return outcome, nil
}

// Score is inversely proportional to the average latency held in the
// running score field, prorated by rounds reported. Quitting early
// can never outscore a full run at the same average.
func (g *ReactionGame) Score(cfg session.Config, p session.Progress) int {
	if p.Index == 0 {
		return 0
	}

	avgMs := float64(p.Score)
	raw := reactionBase*cfg.Difficulty.Multiplier() - avgMs*reactionMsPenalty
	raw *= float64(p.Index) / reactionRounds
	return clampScore(raw)
}

// SecretFields lists keys stripped from projected content.
func (g *ReactionGame) SecretFields() []string {
	return nil
}
