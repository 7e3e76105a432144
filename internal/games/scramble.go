package games

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/arcadeworks/arcade-go/internal/rng"
	"github.com/arcadeworks/arcade-go/internal/session"
)

// ScrambleGame implements word unscrambling. The session holds one
// hidden word and its scrambled form; guesses are case-insensitive and
// the round ends on a correct guess or when the attempt budget runs out.
type ScrambleGame struct{}

const (
	scrambleMaxAttempts = 5

	scrambleBasePerLetter = 50.0
	scrambleRetryPenalty  = 25.0
	scrambleTimePerSecond = 1.5
)

var scrambleWords = map[session.Difficulty][]string{
	session.DifficultyEasy: {
		"apple", "bread", "chair", "dance", "eagle",
		"flame", "grape", "house", "light", "mouse",
	},
	session.DifficultyMedium: {
		"blanket", "caravan", "dolphin", "exhibit", "factory",
		"gallery", "harvest", "journey", "lantern", "mystery",
	},
	session.DifficultyHard: {
		"avalanche", "blueprint", "carpenter", "dirigible", "escalator",
		"framework", "gyroscope", "hurricane", "labyrinth", "xylophone",
	},
}

type scrambleContent struct {
	Word        string `json:"word"` // secret
	Scrambled   string `json:"scrambled"`
	MaxAttempts int    `json:"max_attempts"`
	Solved      bool   `json:"solved"`
}

type scrambleGuess struct {
	Guess string `json:"guess"`
}

// Spec returns metadata about the scramble game.
func (g *ScrambleGame) Spec() Spec {
	return Spec{
		ID:   "scramble",
		Name: "Word Scramble",
		Difficulties: []session.Difficulty{
			session.DifficultyEasy, session.DifficultyMedium, session.DifficultyHard,
		},
	}
}

// Generate picks a word from the bank and scrambles it. The shuffle
// retries a few times so the scrambled form differs from the word.
func (g *ScrambleGame) Generate(cfg session.Config, stream *rng.Stream) (json.RawMessage, error) {
	bank := scrambleWords[cfg.Difficulty]
	if bank == nil {
		bank = scrambleWords[session.DifficultyEasy]
	}
	word := bank[stream.Intn(len(bank))]

	letters := []byte(word)
	scrambled := word
	for i := 0; i < 10 && scrambled == word; i++ {
		stream.Shuffle(len(letters), func(a, b int) {
			letters[a], letters[b] = letters[b], letters[a]
		})
		scrambled = string(letters)
	}

	return json.Marshal(scrambleContent{
		Word:        word,
		Scrambled:   scrambled,
		MaxAttempts: scrambleMaxAttempts,
	})
}

// Apply grades one guess.
func (g *ScrambleGame) Apply(s *session.Session, action json.RawMessage, now time.Time) (Outcome, error) {
	var guess scrambleGuess
	if err := decodeAction(action, &guess); err != nil {
		return Outcome{}, err
	}

	var content scrambleContent
	if err := decodeContent(s, &content); err != nil {
		return Outcome{}, err
	}

	normalized := strings.ToLower(strings.TrimSpace(guess.Guess))
	if normalized == "" {
		return Outcome{}, session.InvalidActionError("guess must not be empty")
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

	if normalized == content.Word {
		content.Solved = true
		s.Progress.Matches = 1
		s.Completed = true
		outcome.Result = ResultCorrect
	} else if s.Progress.Attempts >= content.MaxAttempts {
		// Budget exhausted: the round ends unsolved.
		s.Completed = true
		outcome.Details["word"] = content.Word
	}

	if err := encodeContent(s, &content); err != nil {
		return Outcome{}, err
	}
	return outcome, nil
}

// Score rewards solving long words on early attempts.
func (g *ScrambleGame) Score(cfg session.Config, p session.Progress) int {
	if p.Matches == 0 {
		return 0
	}

	wordLen := scrambleWordLength(cfg.Difficulty)
	base := float64(wordLen) * scrambleBasePerLetter * cfg.Difficulty.Multiplier()
	raw := base -
		excessPenalty(p.Attempts, 1, scrambleRetryPenalty) -
		timePenalty(p.ElapsedMs, scrambleTimePerSecond)
	return clampScore(raw)
}

func scrambleWordLength(d session.Difficulty) int {
	switch d {
	case session.DifficultyMedium:
		return 7
	case session.DifficultyHard:
		return 9
	default:
		return 5
	}
}

// SecretFields lists keys stripped from projected content.
func (g *ScrambleGame) SecretFields() []string {
	return []string{"word"}
}
