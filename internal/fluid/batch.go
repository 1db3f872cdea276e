package fluid

import (
	"slices"
	"sync"
)

// Batch coalesces observer notifications. While a batch is open, notifications
// queue and each observer fires at most once, with its latest event, when the
// outermost batch closes. Outside a batch, notifications fire immediately.
// Safe for concurrent use; queued observers always fire outside the lock.
type Batch struct {
	mu      sync.Mutex
	depth   int
	pending []Observer
	events  map[Observer]Event
}

func NewBatch() *Batch {
	return &Batch{events: make(map[Observer]Event)}
}

func (b *Batch) Run(fn func()) {
	b.mu.Lock()
	b.depth++
	b.mu.Unlock()

	fn()

	b.mu.Lock()
	b.depth--
	var pending []Observer
	var events map[Observer]Event
	if b.depth == 0 {
		pending = b.pending
		events = b.events
		b.pending = nil
		b.events = make(map[Observer]Event)
	}
	b.mu.Unlock()

	for _, o := range pending {
		o.OnParentChange(events[o])
	}
}

func (b *Batch) notify(o Observer, e Event) {
	if b == nil {
		o.OnParentChange(e)
		return
	}

	b.mu.Lock()
	if b.depth == 0 {
		b.mu.Unlock()
		o.OnParentChange(e)
		return
	}
	if !slices.Contains(b.pending, o) {
		b.pending = append(b.pending, o)
	}
	b.events[o] = e
	b.mu.Unlock()
}
