// Package focustrap keeps keyboard focus inside a container while a layer is
// open, cooperating with other traps through a shared Stack so that only the
// most recently mounted trap is active.
package focustrap

import (
	"slices"
	"sync"

	"github.com/oklog/ulid/v2"
)

// Scope is the active/paused state of one trap.
type Scope struct {
	id     string
	mu     sync.Mutex
	paused bool
}

// NewScope creates an unpaused scope with a unique id.
func NewScope() *Scope {
	return &Scope{id: ulid.Make().String()}
}

// ID returns the scope id.
func (s *Scope) ID() string { return s.id }

// Pause deactivates the scope.
func (s *Scope) Pause() {
	s.mu.Lock()
	s.paused = true
	s.mu.Unlock()
}

// Resume reactivates the scope.
func (s *Scope) Resume() {
	s.mu.Lock()
	s.paused = false
	s.mu.Unlock()
}

// Paused reports whether the scope is inactive.
func (s *Scope) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// Stack orders trap scopes. Only the top scope is unpaused. One Stack is
// shared by every trap in an application.
type Stack struct {
	mu     sync.Mutex
	scopes []*Scope
}

// NewStack creates an empty stack.
func NewStack() *Stack {
	return &Stack{}
}

// Add moves scope to the top, pausing the previous top.
func (s *Stack) Add(scope *Scope) {
	if scope == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if n := len(s.scopes); n > 0 && s.scopes[n-1] != scope {
		s.scopes[n-1].Pause()
	}
	s.scopes = slices.DeleteFunc(s.scopes, func(other *Scope) bool { return other == scope })
	s.scopes = append(s.scopes, scope)
	scope.Resume()
}

// Remove drops scope and resumes whichever scope is now on top.
func (s *Stack) Remove(scope *Scope) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scopes = slices.DeleteFunc(s.scopes, func(other *Scope) bool { return other == scope })
	if n := len(s.scopes); n > 0 {
		s.scopes[n-1].Resume()
	}
}

// Top returns the active scope, or nil.
func (s *Stack) Top() *Scope {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.scopes) == 0 {
		return nil
	}
	return s.scopes[len(s.scopes)-1]
}

// Len returns the number of scopes.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.scopes)
}

// Scopes returns the scopes bottom to top.
func (s *Stack) Scopes() []*Scope {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.scopes)
}
