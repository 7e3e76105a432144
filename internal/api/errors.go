package api

import (
	"net/http"

	"github.com/arcadeworks/arcade-go/internal/session"
)

// statusForKind maps a domain error kind to an HTTP status. The kind
// discriminator drives the mapping; message text is never matched.
func statusForKind(kind session.Kind) int {
	switch kind {
	case session.KindInvalidConfig, session.KindInvalidAction:
		return http.StatusBadRequest
	case session.KindNotFound:
		return http.StatusNotFound
	case session.KindCompleted, session.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeDomainError maps a domain error onto the wire.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	kind := session.KindOf(err)
	status := statusForKind(kind)

	message := err.Error()
	if status == http.StatusInternalServerError {
		// Store internals stay in logs, not responses.
		message = "internal error"
	}

	s.writeError(w, status, kind, message)
}

func (s *Server) writeError(w http.ResponseWriter, status int, kind session.Kind, message string) {
	var body ErrorBody
	body.Error.Kind = kind
	body.Error.Message = message

	w.Header().Set("X-Error-Kind", string(kind))
	s.writeJSON(w, status, body)
}
