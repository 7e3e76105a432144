package api

import (
	"fmt"

	"github.com/arcadeworks/arcade-go/internal/session"
)

const (
	maxSeedLength    = 128
	maxTimeLimitSec  = 3600
	maxActionPayload = 4096
)

// ValidateStartRequest validates a start request's shape before it is
// turned into a session config. Enumerated-value checks (difficulty
// membership per game) belong to the engine.
func ValidateStartRequest(req *StartRequest) error {
	if req.TimeLimitSec < 0 {
		return fmt.Errorf("time_limit_sec must be >= 0")
	}
	if req.TimeLimitSec > maxTimeLimitSec {
		return fmt.Errorf("time_limit_sec too large (max %d)", maxTimeLimitSec)
	}

	if len(req.Seed) > maxSeedLength {
		return fmt.Errorf("seed too long (max %d characters)", maxSeedLength)
	}

	return nil
}

// ValidateMoveRequest validates a move request's shape. The action
// payload itself is game-specific and validated by the game.
func ValidateMoveRequest(req *MoveRequest) error {
	if len(req.Action) == 0 {
		return fmt.Errorf("action is required")
	}
	if len(req.Action) > maxActionPayload {
		return fmt.Errorf("action payload too large (max %d bytes)", maxActionPayload)
	}

	return nil
}

// startConfig converts a validated start request into a session config.
func startConfig(game string, req *StartRequest) session.Config {
	return session.Config{
		Game:         game,
		Difficulty:   session.Difficulty(req.Difficulty),
		Mode:         req.Mode,
		TimeLimitSec: req.TimeLimitSec,
		Seed:         req.Seed,
	}
}
