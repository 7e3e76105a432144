package games

import (
	"encoding/json"
	"time"

	"github.com/arcadeworks/arcade-go/internal/rng"
	"github.com/arcadeworks/arcade-go/internal/session"
)

// NumberHuntGame implements target-number guessing with higher/lower
// feedback. The range and attempt budget scale with difficulty.
type NumberHuntGame struct{}

const (
	numberHuntBase          = 500.0
	numberHuntGuessPenalty  = 40.0
	numberHuntTimePerSecond = 1.0
)

type numberHuntContent struct {
	Target      int  `json:"target"` // secret
	Min         int  `json:"min"`
	Max         int  `json:"max"`
	MaxAttempts int  `json:"max_attempts"`
	Found       bool `json:"found"`
}

type numberHuntGuess struct {
	Guess int `json:"guess"`
}

// Spec returns metadata about the number hunt game.
func (g *NumberHuntGame) Spec() Spec {
	return Spec{
		ID:   "numberhunt",
		Name: "Number Hunt",
		Difficulties: []session.Difficulty{
			session.DifficultyEasy, session.DifficultyMedium, session.DifficultyHard,
		},
	}
}

func numberHuntShape(d session.Difficulty) (max, attempts int) {
	switch d {
	case session.DifficultyMedium:
		return 500, 10
	case session.DifficultyHard:
		return 1000, 10
	default:
		return 100, 8
	}
}

// Generate picks the hidden target.
func (g *NumberHuntGame) Generate(cfg session.Config, stream *rng.Stream) (json.RawMessage, error) {
	max, attempts := numberHuntShape(cfg.Difficulty)
	return json.Marshal(numberHuntContent{
		Target:      stream.IntRange(1, max),
		Min:         1,
		Max:         max,
		MaxAttempts: attempts,
	})
}

// Apply grades one guess and hints the direction.
func (g *NumberHuntGame) Apply(s *session.Session, action json.RawMessage, now time.Time) (Outcome, error) {
	var guess numberHuntGuess
	if err := decodeAction(action, &guess); err != nil {
		return Outcome{}, err
	}

	var content numberHuntContent
	if err := decodeContent(s, &content); err != nil {
		return Outcome{}, err
	}

	if guess.Guess < content.Min || guess.Guess > content.Max {
		return Outcome{}, session.InvalidActionError(
			"guess %d is outside [%d, %d]", guess.Guess, content.Min, content.Max)
	}

	s.Progress.Moves++
	s.Progress.Attempts++

	outcome := Outcome{
		Result: ResultIncorrect,
		Details: map[string]any{
			"attempts":     s.Progress.Attempts,
			"max_attempts": content.MaxAttempts,
		},
	}

	switch {
	case guess.Guess == content.Target:
		content.Found = true
		s.Progress.Matches = 1
		s.Completed = true
		outcome.Result = ResultCorrect
	case guess.Guess < content.Target:
		outcome.Details["hint"] = "higher"
	default:
		outcome.Details["hint"] = "lower"
	}

	if !content.Found && s.Progress.Attempts >= content.MaxAttempts {
		s.Completed = true
		outcome.Details["target"] = content.Target
	}

	if err := encodeContent(s, &content); err != nil {
		return Outcome{}, err
	}
	return outcome, nil
}

// Score rewards finding the target in few guesses.
func (g *NumberHuntGame) Score(cfg session.Config, p session.Progress) int {
	if p.Matches == 0 {
		return 0
	}

	raw := numberHuntBase*cfg.Difficulty.Multiplier() -
		excessPenalty(p.Attempts, 1, numberHuntGuessPenalty) -
		timePenalty(p.ElapsedMs, numberHuntTimePerSecond)
	return clampScore(raw)
}

// SecretFields lists keys stripped from projected content.
func (g *NumberHuntGame) SecretFields() []string {
	return []string{"target"}
}
