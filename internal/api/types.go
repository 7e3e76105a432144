package api

import (
	"encoding/json"

	"github.com/arcadeworks/arcade-go/internal/games"
	"github.com/arcadeworks/arcade-go/internal/play"
	"github.com/arcadeworks/arcade-go/internal/session"
	"github.com/arcadeworks/arcade-go/internal/stats"
)

// StartRequest creates a new session for the game in the URL.
type StartRequest struct {
	Difficulty   string `json:"difficulty,omitempty"`
	Mode         string `json:"mode,omitempty"`
	TimeLimitSec int    `json:"time_limit_sec,omitempty"`
	// Seed makes content generation reproducible. Optional.
	Seed string `json:"seed,omitempty"`
}

// MoveRequest carries one game-specific action payload.
type MoveRequest struct {
	Action json.RawMessage `json:"action"`
}

// SessionResponse wraps a projected session.
type SessionResponse struct {
	Session       play.View `json:"session"`
	EngineVersion string    `json:"engine_version"`
}

// MoveResponse pairs a move outcome with the updated projection.
type MoveResponse struct {
	Outcome       games.Outcome `json:"outcome"`
	Session       play.View     `json:"session"`
	EngineVersion string        `json:"engine_version"`
}

// GamesResponse lists the registered games.
type GamesResponse struct {
	Games         []games.Spec `json:"games"`
	EngineVersion string       `json:"engine_version"`
}

// StatsResponse wraps a user's aggregates.
type StatsResponse struct {
	Stats         *stats.UserStats `json:"stats"`
	EngineVersion string           `json:"engine_version"`
}

// LeaderboardResponse wraps a game's top scores.
type LeaderboardResponse struct {
	Game          string                   `json:"game"`
	Entries       []stats.LeaderboardEntry `json:"entries"`
	EngineVersion string                   `json:"engine_version"`
}

// ErrorBody is the JSON error envelope. Kind is the machine-readable
// discriminator clients switch on; messages are for humans.
type ErrorBody struct {
	Error struct {
		Kind    session.Kind `json:"kind"`
		Message string       `json:"message"`
	} `json:"error"`
}
