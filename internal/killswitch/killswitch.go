// Package killswitch implements a broadcast, one-shot stop signal shared by
// the goroutines of a benchmark run: the dispatcher, every worker, and the
// deadline timer itself all watch the same Switch and stop feeding/consuming
// work at their next check after it trips (a worker first finishes the
// pattern it is executing). The decoder does not watch it; it is only ever
// driven by the dispatcher.
//
// It is deliberately simpler than context.Context: there is no value bag, no
// cancellation cause, no parent/child tree — just the single edge a
// benchmark run needs, "keep going" to "stop now", which never reverses.
package killswitch

import "sync"

// Switch is a broadcast one-shot trip wire. Construct one with New; a
// Switch must not be copied after first use.
type Switch struct {
	once sync.Once
	done chan struct{}
}

// New returns a ready-to-use Switch.
func New() *Switch {
	return &Switch{done: make(chan struct{})}
}

// Trip fires the kill switch. It is safe to call concurrently and safe to
// call more than once — only the first call has any effect.
func (s *Switch) Trip() {
	s.once.Do(func() { close(s.done) })
}

// Done returns a channel that is closed once Trip has been called. Every
// pipeline stage selects on this alongside its normal work so it unblocks
// immediately rather than waiting on a timeout.
func (s *Switch) Done() <-chan struct{} {
	return s.done
}

// HasFired reports whether Trip has already been called, without blocking.
func (s *Switch) HasFired() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}
