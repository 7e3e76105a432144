// Package api exposes the session engine over HTTP.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/arcadeworks/arcade-go/internal/auth"
	"github.com/arcadeworks/arcade-go/internal/play"
	"github.com/arcadeworks/arcade-go/internal/stats"
)

// Server handles HTTP requests.
type Server struct {
	engine   *play.Engine
	stats    *stats.Store
	verifier *auth.Verifier
}

// NewServer creates a new API server. stats and verifier are optional;
// without a verifier all play is anonymous, without stats the stats
// and leaderboard endpoints report 404.
func NewServer(engine *play.Engine, statsStore *stats.Store, verifier *auth.Verifier) *Server {
	return &Server{
		engine:   engine,
		stats:    statsStore,
		verifier: verifier,
	}
}

// Routes sets up the HTTP routes.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.Heartbeat("/health"))

	// CORS for development
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	if s.verifier != nil {
		r.Use(s.verifier.Middleware)
	}

	// Routes
	r.Get("/games", s.handleListGames)
	r.Post("/games/{game}/start", s.handleStart)
	r.Get("/sessions/{id}", s.handleGetSession)
	r.Post("/sessions/{id}/move", s.handleMove)
	r.Post("/sessions/{id}/complete", s.handleComplete)

	if s.stats != nil {
		r.Get("/stats/me", s.handleUserStats)
		r.Get("/leaderboard/{game}", s.handleLeaderboard)
	}

	return r
}

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Engine-Version", EngineVersion)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
