package engine

import "sync"

// Result is the settled outcome of one submitted update. Finished means the
// animation reached its goal; Cancelled means it was displaced or cancelled;
// Noop marks an update that settled immediately without starting anything.
// All three false is the stopped shape: the value was halted in place, short
// of its goal, by Stop(false) or Set.
type Result struct {
	Values    []float64
	Finished  bool
	Cancelled bool
	Noop      bool
}

// Handle is the deferred result of a submitted update. It resolves exactly
// once, when the update's effect (finish, cancel, no-op) is determined.
type Handle struct {
	mu     sync.Mutex
	done   chan struct{}
	result Result
	err    error
}

func newHandle() *Handle {
	return &Handle{done: make(chan struct{})}
}

func (h *Handle) resolve(r Result, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	select {
	case <-h.done:
		return
	default:
	}
	h.result = r
	h.err = err
	close(h.done)
}

// Done is closed once the handle has resolved.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Result blocks until the handle resolves.
func (h *Handle) Result() Result {
	<-h.done
	return h.result
}

// Err reports a fatal error surfaced after an asynchronous merge (for example
// a kind mismatch behind a delay). It is nil for finished, cancelled, and
// no-op outcomes.
func (h *Handle) Err() error {
	<-h.done
	return h.err
}

// Resolved reports whether the handle has already settled.
func (h *Handle) Resolved() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}
