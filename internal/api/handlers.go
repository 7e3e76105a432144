package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/arcadeworks/arcade-go/internal/auth"
	"github.com/arcadeworks/arcade-go/internal/games"
	"github.com/arcadeworks/arcade-go/internal/play"
	"github.com/arcadeworks/arcade-go/internal/session"
)

// handleListGames returns the registered game specs.
func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	specs := games.List()

	log.Printf("games_request total_games=%d", len(specs))

	s.writeJSON(w, http.StatusOK, GamesResponse{
		Games:         specs,
		EngineVersion: EngineVersion,
	})
}

// handleStart creates a new session for the requested game.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	game := chi.URLParam(r, "game")

	var req StartRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, session.KindInvalidConfig, "invalid JSON format")
			return
		}
	}

	if err := ValidateStartRequest(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, session.KindInvalidConfig, err.Error())
		return
	}

	userID := auth.UserID(r.Context())

	// Never log the seed: it can regenerate the answers.
	log.Printf(
		"start_request game=%s difficulty=%s mode=%s time_limit=%d seed_set=%t user_set=%t",
		game, req.Difficulty, req.Mode, req.TimeLimitSec, req.Seed != "", userID != "",
	)

	sess, err := s.engine.Start(r.Context(), userID, startConfig(game, &req))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	view, err := play.Project(sess, play.ProjectOptions{})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	log.Printf("start_completed game=%s session=%s", game, sess.ID)

	s.writeJSON(w, http.StatusCreated, SessionResponse{
		Session:       view,
		EngineVersion: EngineVersion,
	})
}

// handleGetSession returns the projected state of a session.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sess, err := s.engine.Get(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	view, err := play.Project(sess, play.ProjectOptions{})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, SessionResponse{
		Session:       view,
		EngineVersion: EngineVersion,
	})
}

// handleMove processes one action against a session.
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, session.KindInvalidAction, "invalid JSON format")
		return
	}

	if err := ValidateMoveRequest(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, session.KindInvalidAction, err.Error())
		return
	}

	log.Printf("move_request session=%s payload_bytes=%d", id, len(req.Action))

	outcome, sess, err := s.engine.Move(r.Context(), id, req.Action)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	view, err := play.Project(sess, play.ProjectOptions{})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	log.Printf(
		"move_completed session=%s result=%s moves=%d completed=%t",
		id, outcome.Result, sess.Progress.Moves, sess.Completed,
	)

	s.writeJSON(w, http.StatusOK, MoveResponse{
		Outcome:       outcome,
		Session:       view,
		EngineVersion: EngineVersion,
	})
}

// handleComplete finalizes a session. The response includes answers:
// once a session is terminal its secrets may be revealed.
func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	log.Printf("complete_request session=%s", id)

	sess, err := s.engine.Complete(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	view, err := play.Project(sess, play.ProjectOptions{IncludeAnswers: true})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	log.Printf("complete_completed session=%s score=%d", id, sess.Score)

	s.writeJSON(w, http.StatusOK, SessionResponse{
		Session:       view,
		EngineVersion: EngineVersion,
	})
}

// handleUserStats returns the caller's per-game aggregates.
func (s *Server) handleUserStats(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if userID == "" {
		s.writeError(w, http.StatusUnauthorized, session.KindInvalidConfig, "authentication required")
		return
	}

	userStats, err := s.stats.UserStats(r.Context(), userID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, StatsResponse{
		Stats:         userStats,
		EngineVersion: EngineVersion,
	})
}

// handleLeaderboard returns the top scores for a game.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	game := chi.URLParam(r, "game")
	if _, ok := games.Get(game); !ok {
		s.writeError(w, http.StatusNotFound, session.KindInvalidConfig, "game not found")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := s.stats.Leaderboard(r.Context(), game, limit)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, LeaderboardResponse{
		Game:          game,
		Entries:       entries,
		EngineVersion: EngineVersion,
	})
}
