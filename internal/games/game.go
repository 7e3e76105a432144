// Package games holds the per-game logic: content generation, move
// application, scoring, and the secret fields each game must keep out
// of client responses.
package games

import (
	"encoding/json"
	"time"

	"github.com/arcadeworks/arcade-go/internal/rng"
	"github.com/arcadeworks/arcade-go/internal/session"
)

// Spec describes a game's identity and allowed config values.
type Spec struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Difficulties []session.Difficulty `json:"difficulties"`
	Modes        []string             `json:"modes,omitempty"`
}

// Result is the tri-state outcome of a processed action.
type Result string

const (
	ResultCorrect   Result = "correct"
	ResultIncorrect Result = "incorrect"
	ResultNoEffect  Result = "no_effect"
)

// Outcome is what a move produced, with game-specific details for the
// response (revealed cards, higher/lower hints, per-question points).
type Outcome struct {
	Result  Result         `json:"result"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// Game is one arcade mini-game plugged into the session engine.
type Game interface {
	// Spec returns the game's metadata and allowed config values.
	Spec() Spec

	// Generate builds the session content, including secret fields,
	// from the validated config and the seeded stream.
	Generate(cfg session.Config, stream *rng.Stream) (json.RawMessage, error)

	// Apply validates the action against current session state and
	// mutates progress and content. The engine guarantees the session
	// is not completed. Apply sets s.Completed when a terminal
	// condition holds; scoring and endTime belong to the engine.
	Apply(s *session.Session, action json.RawMessage, now time.Time) (Outcome, error)

	// Score maps accumulated progress metrics to a final score. Pure:
	// identical inputs always yield identical output.
	Score(cfg session.Config, p session.Progress) int

	// SecretFields lists content keys that must never reach a client
	// through a default projection.
	SecretFields() []string
}

// Registry holds all available games.
var Registry = make(map[string]Game)

// Register adds a game to the registry.
func Register(g Game) {
	Registry[g.Spec().ID] = g
}

// Get retrieves a game by id.
func Get(id string) (Game, bool) {
	g, ok := Registry[id]
	return g, ok
}

// List returns the specs of all registered games.
func List() []Spec {
	specs := make([]Spec, 0, len(Registry))
	for _, g := range Registry {
		specs = append(specs, g.Spec())
	}
	return specs
}

// init registers all games.
func init() {
	Register(&MemoryGame{})
	Register(&MathQuizGame{})
	Register(&ScrambleGame{})
	Register(&NumberHuntGame{})
	Register(&WhackAMoleGame{})
	Register(&ReactionGame{})
}

// decodeContent unmarshals session content into the game's own struct.
func decodeContent(s *session.Session, v any) error {
	if err := json.Unmarshal(s.Content, v); err != nil {
		return session.StoreError("content decode", err)
	}
	return nil
}

// encodeContent writes the game's struct back onto the session.
func encodeContent(s *session.Session, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return session.StoreError("content encode", err)
	}
	s.Content = b
	return nil
}

// decodeAction unmarshals a move payload, mapping malformed JSON to an
// invalid-action error before anything is mutated.
func decodeAction(action json.RawMessage, v any) error {
	if len(action) == 0 {
		return session.InvalidActionError("action payload is required")
	}
	if err := json.Unmarshal(action, v); err != nil {
		return session.InvalidActionError("malformed action payload: %v", err)
	}
	return nil
}
