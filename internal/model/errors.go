package model

import "errors"

// Common errors used across the application.
//
// The session command handlers themselves surface almost nothing: a
// well-formed but currently-invalid command (wrong turn, stale pair,
// settled card, finished round) is dropped silently because network
// races produce those constantly. These sentinels exist for the read
// paths and the storage layer.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNotParticipant  = errors.New("connection is not a participant of this session")
)
