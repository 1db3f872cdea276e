package driver

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/zoobzio/clockz"

	"github.com/san-kum/kinetic/internal/engine"
	"github.com/san-kum/kinetic/internal/fluid"
)

// Loop is the frame driver: it ticks every registered value with a monotonic
// non-negative dt and batches the resulting change notifications so observers
// see one coherent update per tick.
type Loop struct {
	mu     sync.Mutex
	clock  clockz.Clock
	batch  *fluid.Batch
	values []*engine.Value
	last   time.Time
}

type Option func(*Loop)

func WithClock(c clockz.Clock) Option {
	return func(l *Loop) { l.clock = c }
}

func New(opts ...Option) *Loop {
	l := &Loop{
		clock: clockz.RealClock,
		batch: fluid.NewBatch(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Batch is the notification batch values should bind to.
func (l *Loop) Batch() *fluid.Batch { return l.batch }

func (l *Loop) Register(v *engine.Value) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !slices.Contains(l.values, v) {
		l.values = append(l.values, v)
	}
}

func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.values) > 0
}

// Tick advances every registered value by dt milliseconds inside one
// notification batch, then drops values that went idle.
func (l *Loop) Tick(dt float64) {
	if dt < 0 {
		dt = 0
	}

	l.mu.Lock()
	values := slices.Clone(l.values)
	l.mu.Unlock()

	l.batch.Run(func() {
		for _, v := range values {
			v.Advance(dt)
		}
	})

	l.mu.Lock()
	kept := l.values[:0]
	for _, v := range l.values {
		if !v.Idle() {
			kept = append(kept, v)
		}
	}
	l.values = kept
	l.mu.Unlock()
}

// Run ticks at the given frame rate until ctx is done. Wall-clock deltas feed
// Tick so a stalled frame integrates the full elapsed time.
func (l *Loop) Run(ctx context.Context, fps int) error {
	if fps <= 0 {
		fps = 60
	}
	interval := time.Second / time.Duration(fps)
	timer := l.clock.NewTimer(interval)
	defer timer.Stop()

	l.last = l.clock.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-timer.C():
			dt := float64(now.Sub(l.last)) / float64(time.Millisecond)
			l.last = now
			l.Tick(dt)
			timer.Reset(interval)
		}
	}
}
