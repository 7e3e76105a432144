// Package play is the game session engine: it creates sessions,
// processes moves against them, and finalizes them, with the Store as
// its only persistence boundary.
package play

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arcadeworks/arcade-go/internal/games"
	"github.com/arcadeworks/arcade-go/internal/rng"
	"github.com/arcadeworks/arcade-go/internal/session"
)

const maxTimeLimitSec = 3600

// Recorder receives finalized sessions for durable stats. Recording is
// best effort; a recorder failure never fails the player's request.
type Recorder interface {
	Record(ctx context.Context, s *session.Session) error
}

// Engine wires the factory, move processor, and finalizer around one
// session store.
type Engine struct {
	store    session.Store
	recorder Recorder
	now      func() time.Time

	// locks serializes fetch-mutate-put per session id so concurrent
	// moves cannot lose updates or observe partial writes.
	locks sync.Map // session id -> *sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithRecorder attaches a stats recorder for finalized sessions.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithClock overrides the engine clock.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an engine on top of the given store.
func NewEngine(store session.Store, opts ...Option) *Engine {
	e := &Engine{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) lock(id string) func() {
	v, _ := e.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// evict drops a session's mutex once the session is terminal, so the
// lock table does not grow with every session ever played. Only safe
// for completed sessions: completion is monotonic, so a waiter still
// parked on the old mutex can only observe the terminal state.
func (e *Engine) evict(id string) {
	e.locks.Delete(id)
}

// Start validates the config, generates content, and persists a fresh
// session. The returned session still contains secrets; callers project
// it before responding.
func (e *Engine) Start(ctx context.Context, userID string, cfg session.Config) (*session.Session, error) {
	g, ok := games.Get(cfg.Game)
	if !ok {
		return nil, session.InvalidConfigError("game %q not found", cfg.Game)
	}

	if err := validateConfig(g.Spec(), &cfg); err != nil {
		return nil, err
	}

	if cfg.Seed == "" {
		// A recorded random seed keeps every session reproducible.
		cfg.Seed = uuid.NewString()
	}

	content, err := g.Generate(cfg, rng.New(cfg.Seed))
	if err != nil {
		return nil, err
	}

	sess := &session.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Config:    cfg,
		Content:   content,
		StartTime: e.now().UTC(),
	}

	if err := e.put(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get fetches a session by id.
func (e *Engine) Get(ctx context.Context, id string) (*session.Session, error) {
	return e.fetch(ctx, id)
}

// Move processes one action against a session. Moves for a given
// session are applied strictly in lock order; a completed session
// rejects every further move.
func (e *Engine) Move(ctx context.Context, id string, action json.RawMessage) (games.Outcome, *session.Session, error) {
	unlock := e.lock(id)
	defer unlock()

	sess, err := e.fetch(ctx, id)
	if err != nil {
		return games.Outcome{}, nil, err
	}
	if sess.Completed {
		e.evict(id)
		return games.Outcome{}, nil, session.CompletedError(id)
	}

	g, ok := games.Get(sess.Config.Game)
	if !ok {
		return games.Outcome{}, nil, session.InvalidConfigError("game %q not found", sess.Config.Game)
	}

	now := e.now()

	// Time limits are data: an expired session finalizes instead of
	// accepting the move.
	if expired(sess, now) {
		e.finalize(sess, g, now)
		if err := e.put(ctx, sess); err != nil {
			return games.Outcome{}, nil, err
		}
		e.record(ctx, sess)
		e.evict(id)
		return games.Outcome{}, nil, session.CompletedError(id)
	}

	outcome, err := g.Apply(sess, action, now)
	if err != nil {
		return games.Outcome{}, nil, err
	}

	sess.Progress.ElapsedMs = sess.ElapsedAt(now).Milliseconds()
	if sess.Completed {
		e.finalize(sess, g, now)
	}

	if err := e.put(ctx, sess); err != nil {
		return games.Outcome{}, nil, err
	}
	if sess.Completed {
		e.record(ctx, sess)
		e.evict(id)
	}
	return outcome, sess, nil
}

// Complete finalizes a session: computes the final score, stamps
// endTime, and flips completed. Calling it on an already-terminal
// session returns that session unchanged.
func (e *Engine) Complete(ctx context.Context, id string) (*session.Session, error) {
	unlock := e.lock(id)
	defer unlock()

	sess, err := e.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Completed {
		e.evict(id)
		return sess, nil
	}

	g, ok := games.Get(sess.Config.Game)
	if !ok {
		return nil, session.InvalidConfigError("game %q not found", sess.Config.Game)
	}

	e.finalize(sess, g, e.now())
	if err := e.put(ctx, sess); err != nil {
		return nil, err
	}
	e.record(ctx, sess)
	e.evict(id)
	return sess, nil
}

// finalize performs the one-time terminal transition in memory. The
// caller persists.
func (e *Engine) finalize(sess *session.Session, g games.Game, now time.Time) {
	sess.Progress.ElapsedMs = sess.ElapsedAt(now).Milliseconds()
	sess.Score = g.Score(sess.Config, sess.Progress)
	end := now.UTC()
	sess.EndTime = &end
	sess.Completed = true
}

func (e *Engine) fetch(ctx context.Context, id string) (*session.Session, error) {
	sess, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, session.NotFoundError(id)
	}
	return sess, nil
}

func (e *Engine) put(ctx context.Context, sess *session.Session) error {
	if err := e.store.Put(ctx, sess); err != nil {
		var domain *session.Error
		if errors.As(err, &domain) {
			return err
		}
		return session.StoreError("put", err)
	}
	return nil
}

func (e *Engine) record(ctx context.Context, sess *session.Session) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.Record(ctx, sess); err != nil {
		log.Printf("stats_record_failed session=%s game=%s err=%v", sess.ID, sess.Config.Game, err)
	}
}

func expired(sess *session.Session, now time.Time) bool {
	limit := sess.Config.TimeLimitSec
	return limit > 0 && sess.ElapsedAt(now) > time.Duration(limit)*time.Second
}

// validateConfig checks the config against the game's enumerated
// allowed values. An empty difficulty defaults to easy.
func validateConfig(spec games.Spec, cfg *session.Config) error {
	if cfg.Difficulty == "" {
		cfg.Difficulty = session.DifficultyEasy
	}
	if !cfg.Difficulty.Valid() {
		return session.InvalidConfigError("difficulty %q is not recognized", cfg.Difficulty)
	}

	allowed := false
	for _, d := range spec.Difficulties {
		if d == cfg.Difficulty {
			allowed = true
			break
		}
	}
	if !allowed {
		return session.InvalidConfigError("game %q does not support difficulty %q", spec.ID, cfg.Difficulty)
	}

	if cfg.Mode != "" {
		found := false
		for _, m := range spec.Modes {
			if m == cfg.Mode {
				found = true
				break
			}
		}
		if !found {
			return session.InvalidConfigError("game %q does not support mode %q", spec.ID, cfg.Mode)
		}
	}

	if cfg.TimeLimitSec < 0 || cfg.TimeLimitSec > maxTimeLimitSec {
		return session.InvalidConfigError("time limit must be between 0 and %d seconds", maxTimeLimitSec)
	}

	return nil
}
