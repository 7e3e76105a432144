package games

import (
	"encoding/json"
	"time"

	"github.com/arcadeworks/arcade-go/internal/rng"
	"github.com/arcadeworks/arcade-go/internal/session"
)

// WhackAMoleGame implements a round-based mole hunt. The seeded
// generator fixes where the mole appears each round; the client reports
// one whack per round and scores a hit when the position agrees.
type WhackAMoleGame struct{}

const (
	whackGridSize = 9 // 3x3 board

	whackHitPoints    = 20.0
	whackStreakBonus  = 10.0
	whackTimePerRound = 0.5
)

type whackContent struct {
	Rounds   int   `json:"rounds"`
	GridSize int   `json:"grid_size"`
	Sequence []int `json:"sequence"` // secret: mole position per round
}

type whackMove struct {
	Round    int `json:"round"`
	Position int `json:"position"`
}

// Spec returns metadata about the whack-a-mole game.
func (g *WhackAMoleGame) Spec() Spec {
	return Spec{
		ID:   "whackamole",
		Name: "Whack-a-Mole",
		Difficulties: []session.Difficulty{
			session.DifficultyEasy, session.DifficultyMedium, session.DifficultyHard,
		},
	}
}

func whackRounds(d session.Difficulty) int {
	switch d {
	case session.DifficultyMedium:
		return 15
	case session.DifficultyHard:
		return 20
	default:
		return 10
	}
}

// Generate fixes the mole sequence for every round up front.
func (g *WhackAMoleGame) Generate(cfg session.Config, stream *rng.Stream) (json.RawMessage, error) {
	rounds := whackRounds(cfg.Difficulty)
	sequence := make([]int, rounds)
	for i := range sequence {
		sequence[i] = stream.Intn(whackGridSize)
	}

	return json.Marshal(whackContent{
		Rounds:   rounds,
		GridSize: whackGridSize,
		Sequence: sequence,
	})
}

// Apply grades one whack. Rounds must be played in order.
func (g *WhackAMoleGame) Apply(s *session.Session, action json.RawMessage, now time.Time) (Outcome, error) {
	var move whackMove
	if err := decodeAction(action, &move); err != nil {
		return Outcome{}, err
	}

	var content whackContent
	if err := decodeContent(s, &content); err != nil {
		return Outcome{}, err
	}

	if move.Round != s.Progress.Index {
		return Outcome{}, session.InvalidActionError(
			"expected round %d, got %d", s.Progress.Index, move.Round)
	}
	if move.Position < 0 || move.Position >= content.GridSize {
		return Outcome{}, session.InvalidActionError(
			"position %d is outside the %d-cell grid", move.Position, content.GridSize)
	}

	hit := move.Position == content.Sequence[move.Round]

	s.Progress.Moves++
	s.Progress.Attempts++
	s.Progress.Index++

	outcome := Outcome{
		Result: ResultIncorrect,
		Details: map[string]any{
			"round":         move.Round,
			"mole_position": content.Sequence[move.Round],
		},
	}

	if hit {
		s.Progress.Matches++
		s.Progress.Streak++
		if s.Progress.Streak > s.Progress.BestStreak {
			s.Progress.BestStreak = s.Progress.Streak
		}
		outcome.Result = ResultCorrect
	} else {
		s.Progress.Streak = 0
	}

	outcome.Details["hits"] = s.Progress.Matches
	outcome.Details["rounds_played"] = s.Progress.Index
	outcome.Details["rounds"] = content.Rounds

	if s.Progress.Index == content.Rounds {
		s.Completed = true
	}

	return outcome, nil
}

// Score rewards hits and sustained streaks.
func (g *WhackAMoleGame) Score(cfg session.Config, p session.Progress) int {
	raw := (float64(p.Matches)*whackHitPoints +
		float64(p.BestStreak)*whackStreakBonus) * cfg.Difficulty.Multiplier()
	raw -= timePenalty(p.ElapsedMs, whackTimePerRound)
	return clampScore(raw)
}

// SecretFields lists keys stripped from projected content.
func (g *WhackAMoleGame) SecretFields() []string {
	return []string{"sequence"}
}
