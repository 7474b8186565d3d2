package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// State holds the per-repository in-flight flags and the owned timer
// handles, so enable/disable cannot leak a dangling timer.
//
// The three operation flags are the engine's only concurrency-control
// primitive: each implements at-most-one-concurrent-operation-of-its-kind.
// A concurrent caller observing a set flag returns immediately with no
// side effects; nothing is queued.
type State struct {
	enabled    atomic.Bool
	committing atomic.Bool
	pushing    atomic.Bool
	pulling    atomic.Bool

	mu      sync.Mutex
	pending *time.Timer   // debounce timer, at most one alive
	stopCh  chan struct{} // closes to tear down interval timers
}

// NewState creates a disabled State.
func NewState() *State {
	return &State{}
}

// Enabled reports the lifecycle flag.
func (s *State) Enabled() bool {
	return s.enabled.Load()
}

// SetEnabled flips the lifecycle flag.
func (s *State) SetEnabled(v bool) {
	s.enabled.Store(v)
}

// TryBeginCommit sets the committing flag; false means a commit is in flight.
func (s *State) TryBeginCommit() bool {
	return s.committing.CompareAndSwap(false, true)
}

// EndCommit clears the committing flag.
func (s *State) EndCommit() {
	s.committing.Store(false)
}

// TryBeginPush sets the pushing flag; false means a push is in flight.
func (s *State) TryBeginPush() bool {
	return s.pushing.CompareAndSwap(false, true)
}

// EndPush clears the pushing flag.
func (s *State) EndPush() {
	s.pushing.Store(false)
}

// TryBeginPull sets the pulling flag; false means a pull is in flight.
func (s *State) TryBeginPull() bool {
	return s.pulling.CompareAndSwap(false, true)
}

// EndPull clears the pulling flag.
func (s *State) EndPull() {
	s.pulling.Store(false)
}

// Arm replaces any pending debounce timer with a new one. N saves inside
// the window coalesce into one fire, keyed to the state after the last.
func (s *State) Arm(d time.Duration, fire func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil {
		s.pending.Stop()
	}
	s.pending = time.AfterFunc(d, func() {
		s.mu.Lock()
		s.pending = nil
		s.mu.Unlock()
		fire()
	})
}

// Disarm cancels any pending debounce timer.
func (s *State) Disarm() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}

// TimerStop returns a channel that closes when interval timers must stop,
// creating it on first use after a reset.
func (s *State) TimerStop() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopCh == nil {
		s.stopCh = make(chan struct{})
	}
	return s.stopCh
}

// StopTimers tears down all interval timers.
func (s *State) StopTimers() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopCh != nil {
		close(s.stopCh)
		s.stopCh = nil
	}
}
