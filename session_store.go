package authclient

import (
	"context"
	"encoding/json"
)

// SessionStore exposes the persisted session over a KeyValue backend. It is
// the single shared mutable resource of the session layer: the TokenManager
// writes on refresh/clear, the Coordinator writes on sign-out, everything
// else only reads.
//
// Storage failures never propagate: they are logged and callers proceed as
// if the value were absent, so a broken backend degrades to an anonymous
// session instead of an error path nobody handles.
type SessionStore struct {
	kv     KeyValue
	logger Logger
}

// NewSessionStore wraps a KeyValue backend.
func NewSessionStore(kv KeyValue) *SessionStore {
	return &SessionStore{kv: kv, logger: defLogger{}}
}

func (s *SessionStore) WithLogger(logger Logger) *SessionStore {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Read returns the stored value for key, or the empty string when the key is
// absent or the backend fails.
func (s *SessionStore) Read(ctx context.Context, key string) string {
	value, err := s.kv.Read(ctx, key)
	if err != nil {
		s.logger.Warn("session store read failed, treating %q as absent: %v", key, err)
		return ""
	}
	return value
}

// Write stores value under key; an empty value removes it. Failures are
// logged and swallowed.
func (s *SessionStore) Write(ctx context.Context, key, value string) {
	if err := s.kv.Write(ctx, key, value); err != nil {
		s.logger.Warn("session store write failed for %q: %v", key, err)
	}
}

// ReadSession assembles the logical session from the three reserved keys.
func (s *SessionStore) ReadSession(ctx context.Context) *Session {
	session := &Session{
		AccessToken:  s.Read(ctx, StorageKeyAccessToken),
		RefreshToken: s.Read(ctx, StorageKeyRefreshToken),
	}

	if raw := s.Read(ctx, StorageKeyUserSnapshot); raw != "" {
		snapshot := &UserSnapshot{}
		if err := json.Unmarshal([]byte(raw), snapshot); err != nil {
			s.logger.Warn("session store has a corrupt user snapshot, dropping it: %v", err)
		} else {
			session.User = snapshot
		}
	}

	return session
}

// SaveSession persists the triple. Credentials are written even when the
// user snapshot is nil; the both-or-neither invariant applies to the logical
// session, not to each write call.
func (s *SessionStore) SaveSession(ctx context.Context, session *Session) {
	if session == nil {
		s.ClearSession(ctx)
		return
	}

	s.Write(ctx, StorageKeyAccessToken, session.AccessToken)
	s.Write(ctx, StorageKeyRefreshToken, session.RefreshToken)

	if session.User == nil {
		s.Write(ctx, StorageKeyUserSnapshot, "")
		return
	}

	raw, err := json.Marshal(session.User)
	if err != nil {
		s.logger.Warn("session store could not encode user snapshot: %v", err)
		s.Write(ctx, StorageKeyUserSnapshot, "")
		return
	}
	s.Write(ctx, StorageKeyUserSnapshot, string(raw))
}

// ClearSession removes all three values. Idempotent.
func (s *SessionStore) ClearSession(ctx context.Context) {
	s.Write(ctx, StorageKeyAccessToken, "")
	s.Write(ctx, StorageKeyRefreshToken, "")
	s.Write(ctx, StorageKeyUserSnapshot, "")
}
