package play

import (
	"encoding/json"
	"time"

	"github.com/arcadeworks/arcade-go/internal/games"
	"github.com/arcadeworks/arcade-go/internal/session"
)

// View is the client-safe projection of a session.
type View struct {
	SessionID string           `json:"session_id"`
	Game      string           `json:"game"`
	Config    session.Config   `json:"config"`
	Content   any              `json:"content,omitempty"`
	Progress  session.Progress `json:"progress"`
	Completed bool             `json:"completed"`
	StartTime time.Time        `json:"start_time"`
	EndTime   *time.Time       `json:"end_time,omitempty"`
	Score     int              `json:"score"`
}

// ProjectOptions controls what a projection reveals.
type ProjectOptions struct {
	// IncludeAnswers keeps secret content fields in the view. It is
	// only honored once the session is completed; secrets never leak
	// from an active session regardless of this flag.
	IncludeAnswers bool
}

// Project builds the public view of a session. The default projection
// recursively removes every secret field the game declares, plus the
// config seed (which can regenerate the answers). Projection is pure;
// calling it twice yields identical output.
func Project(sess *session.Session, opts ProjectOptions) (View, error) {
	revealed := opts.IncludeAnswers && sess.Completed

	var content any
	if len(sess.Content) > 0 {
		if err := json.Unmarshal(sess.Content, &content); err != nil {
			return View{}, session.StoreError("content decode", err)
		}
	}

	cfg := sess.Config
	if !revealed {
		cfg.Seed = ""
		if g, ok := games.Get(sess.Config.Game); ok {
			content = stripSecrets(content, secretSet(g.SecretFields()))
		}
	}

	return View{
		SessionID: sess.ID,
		Game:      sess.Config.Game,
		Config:    cfg,
		Content:   content,
		Progress:  sess.Progress,
		Completed: sess.Completed,
		StartTime: sess.StartTime,
		EndTime:   sess.EndTime,
		Score:     sess.Score,
	}, nil
}

func secretSet(fields []string) map[string]struct{} {
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// stripSecrets removes secret keys from decoded JSON at any nesting
// depth, walking both objects and arrays.
func stripSecrets(v any, secrets map[string]struct{}) any {
	if len(secrets) == 0 {
		return v
	}

	switch t := v.(type) {
	case map[string]any:
		for key, val := range t {
			if _, secret := secrets[key]; secret {
				delete(t, key)
				continue
			}
			t[key] = stripSecrets(val, secrets)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = stripSecrets(val, secrets)
		}
		return t
	default:
		return v
	}
}
