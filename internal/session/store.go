// Package session owns client-held authentication state: the in-memory
// credential slot, the persisted login flag, and the one-shot expiry handler.
//
// DESIGN: The credential is scoped to the process lifetime and is never
// written to durable storage. The persisted flag is a best-effort mirror of
// "session believed active" used only to seed the initial UI display; actual
// authorization is re-validated by the server on the first protected call.
package session

import "sync"

// Store holds the current bearer credential, or none. It is the only shared
// mutable resource in the client; a single instance is injected into the
// interceptors and the auth controller rather than reached globally.
type Store struct {
	mu    sync.RWMutex
	token string
}

// NewStore returns an empty credential store. A fresh process always starts
// unauthenticated; the store is never restored from the persisted flag.
func NewStore() *Store {
	return &Store{}
}

// Set replaces the current credential.
func (s *Store) Set(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// Get returns the current credential and whether one is held. It never blocks
// on I/O.
func (s *Store) Get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// Clear removes the credential and reports whether one was actually held.
// The non-empty to empty transition gates the one-shot expiry side effects:
// of several concurrent clears, exactly one observes true.
func (s *Store) Clear() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	had := s.token != ""
	s.token = ""
	return had
}
