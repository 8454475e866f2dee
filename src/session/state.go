// Package session owns the client-side view of the login session and the
// switch between the unauthenticated and authenticated regions of a front end.
package session

import "sync"

// State is the controller's record of who is logged in. The server cookie is
// the source of truth; State only mirrors what the last calls observed.
type State struct {
	mu            sync.RWMutex
	authenticated bool
	user          string
}

func (s *State) set(user string) {
	s.mu.Lock()
	s.authenticated = true
	s.user = user
	s.mu.Unlock()
}

// clear marks the session unauthenticated and reports whether it was
// authenticated before.
func (s *State) clear() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	was := s.authenticated
	s.authenticated = false
	s.user = ""
	return was
}

// Authenticated reports whether the last observation was a live session.
func (s *State) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// User is the username given at login. It is empty for a session restored by
// the startup probe.
func (s *State) User() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}
