// Package session defines the session record shared by every game, the
// domain error taxonomy, and the Store boundary with its drivers.
package session

import (
	"encoding/json"
	"time"
)

// Difficulty is the enumerated difficulty level of a session config.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of the enumerated levels.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Multiplier returns the score multiplier for the difficulty.
func (d Difficulty) Multiplier() float64 {
	switch d {
	case DifficultyMedium:
		return 1.5
	case DifficultyHard:
		return 2.0
	default:
		return 1.0
	}
}

// Config holds the immutable creation-time parameters of a session.
// It is never mutated after the session is created.
type Config struct {
	Game         string     `json:"game"`
	Difficulty   Difficulty `json:"difficulty"`
	Mode         string     `json:"mode,omitempty"`
	TimeLimitSec int        `json:"time_limit_sec,omitempty"`
	// Seed drives content generation. It can reconstruct answers, so it
	// is treated as a secret until the session completes.
	Seed string `json:"seed,omitempty"`
}

// Progress holds the mutable per-move counters. Moves and Attempts only
// ever increase.
type Progress struct {
	Moves      int   `json:"moves"`
	Attempts   int   `json:"attempts"`
	Matches    int   `json:"matches"`
	Index      int   `json:"index"`
	Streak     int   `json:"streak"`
	BestStreak int   `json:"best_streak"`
	Hints      int   `json:"hints"`
	Score      int   `json:"score"`
	ElapsedMs  int64 `json:"elapsed_ms"`
}

// Session is one round of one game tracked server-side. Content is
// owned by the game that generated it and may contain secret fields;
// those must only ever reach a client through the projector.
type Session struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id,omitempty"`
	Config    Config          `json:"config"`
	Content   json.RawMessage `json:"content"`
	Progress  Progress        `json:"progress"`
	Completed bool            `json:"completed"`
	StartTime time.Time       `json:"start_time"`
	EndTime   *time.Time      `json:"end_time,omitempty"`
	Score     int             `json:"score"`
	// Version increases on every Put; stores use it to detect lost
	// updates across processes.
	Version int64 `json:"version"`
}

// ElapsedAt returns wall-clock time since the session started.
func (s *Session) ElapsedAt(now time.Time) time.Duration {
	return now.Sub(s.StartTime)
}

// Clone returns a deep copy so store drivers never alias caller state.
func (s *Session) Clone() *Session {
	cp := *s
	if s.Content != nil {
		cp.Content = make(json.RawMessage, len(s.Content))
		copy(cp.Content, s.Content)
	}
	if s.EndTime != nil {
		t := *s.EndTime
		cp.EndTime = &t
	}
	return &cp
}
