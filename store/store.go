// Package store holds the process-wide mutable state the UI observes:
// the current approval status and the latest swap execution result. The
// pipeline treats both as write-once-per-transition outputs; there is no
// concurrent writer, so a single mutex guards observation only.
package store

import (
	"sync"

	"github.com/hgraphpay/swapflow/types"
)

// Event is pushed to subscribers on every transition. Exactly one field is
// set per event.
type Event struct {
	Approval *types.ApprovalStatus
	Result   *types.SwapExecutionResult
}

// Store is the shared status store.
type Store struct {
	mu       sync.Mutex
	approval *types.ApprovalStatus
	result   *types.SwapExecutionResult
	subs     []func(Event)
}

func New() *Store {
	return &Store{}
}

// Subscribe registers an observer callback. Callbacks run synchronously on
// the writing goroutine, matching the single-threaded event model.
func (s *Store) Subscribe(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// SetApproval records an approval transition and notifies observers.
func (s *Store) SetApproval(status types.ApprovalStatus) {
	s.mu.Lock()
	copied := status
	s.approval = &copied
	subs := s.subs
	s.mu.Unlock()

	for _, fn := range subs {
		fn(Event{Approval: &copied})
	}
}

// Approval returns the current approval status, if any.
func (s *Store) Approval() (types.ApprovalStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.approval == nil {
		return types.ApprovalStatus{}, false
	}
	return *s.approval, true
}

// SetResult records the outcome of an execution attempt.
func (s *Store) SetResult(result types.SwapExecutionResult) {
	s.mu.Lock()
	copied := result
	s.result = &copied
	subs := s.subs
	s.mu.Unlock()

	for _, fn := range subs {
		fn(Event{Result: &copied})
	}
}

// Result returns the latest execution result, if any.
func (s *Store) Result() (types.SwapExecutionResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return types.SwapExecutionResult{}, false
	}
	return *s.result, true
}

// Reset clears both records. Called at the start of each swap attempt and
// on component teardown.
func (s *Store) Reset() {
	s.mu.Lock()
	s.approval = nil
	s.result = nil
	s.mu.Unlock()
}
