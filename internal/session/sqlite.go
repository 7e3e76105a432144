package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// SQLiteStore is a SQLite-backed Store. The session record is stored as
// a JSON payload next to indexed lookup columns, and an optimistic
// version column guards Put against lost updates.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens/creates a SQLite database at path and runs
// migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&cache=shared", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite is not concurrent for writes

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL DEFAULT '',
			game TEXT NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0,
			version INTEGER NOT NULL DEFAULT 1,
			payload TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_game_completed ON sessions(game, completed)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at DESC)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Session, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM sessions WHERE id = ?`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, StoreError("get", err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(payload), &sess); err != nil {
		return nil, StoreError("decode", err)
	}
	return &sess, nil
}

// Put implements Store.
func (s *SQLiteStore) Put(ctx context.Context, sess *Session) error {
	completed := 0
	if sess.Completed {
		completed = 1
	}

	next := sess.Version + 1
	payload, err := marshalWithVersion(sess, next)
	if err != nil {
		return StoreError("encode", err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET user_id = ?, game = ?, completed = ?, version = ?,
			payload = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND version = ?`,
		sess.UserID, sess.Config.Game, completed, next, payload, sess.ID, sess.Version)
	if err != nil {
		return StoreError("put", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return StoreError("put", err)
	}
	if rows == 1 {
		sess.Version = next
		return nil
	}

	// No row updated: either the session is new or a concurrent writer
	// bumped the version.
	var stored int64
	err = s.db.QueryRowContext(ctx,
		`SELECT version FROM sessions WHERE id = ?`, sess.ID).Scan(&stored)
	if err == nil {
		return NewError(KindConflict,
			"session %q version %d does not match stored version %d",
			sess.ID, sess.Version, stored)
	}
	if err != sql.ErrNoRows {
		return StoreError("put", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, game, completed, version, payload)
		VALUES (?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.UserID, sess.Config.Game, completed, next, payload)
	if err != nil {
		return StoreError("put", err)
	}

	sess.Version = next
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func marshalWithVersion(sess *Session, version int64) (string, error) {
	cp := *sess
	cp.Version = version
	b, err := json.Marshal(&cp)
	return string(b), err
}
