package session

import (
	"time"

	"github.com/flipmatch/flipmatch-go/internal/model"
)

// Registry maps a game code to exactly one live session. Sessions are
// created lazily on first join and removed when their last participant
// leaves.
//
// The registry carries no lock of its own: every access goes through
// the Controller's command lock, which serializes all commands for the
// whole process.
type Registry struct {
	sessions map[model.GameCode]*model.Session
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[model.GameCode]*model.Session),
	}
}

// GetOrCreate returns the session for code, creating and registering a
// fresh empty one if none exists. Never returns nil.
func (r *Registry) GetOrCreate(code model.GameCode, now time.Time) *model.Session {
	if sess, ok := r.sessions[code]; ok {
		return sess
	}

	sess := &model.Session{
		Code:      code,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.sessions[code] = sess
	return sess
}

// Get returns the session for code, or nil if none exists
func (r *Registry) Get(code model.GameCode) *model.Session {
	return r.sessions[code]
}

// Remove deletes the entry for code. Called only when a session's
// roster empties.
func (r *Registry) Remove(code model.GameCode) {
	delete(r.sessions, code)
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	return len(r.sessions)
}
