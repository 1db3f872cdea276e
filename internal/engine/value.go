package engine

import (
	"fmt"
	"slices"
	"sync"

	"github.com/zoobzio/clockz"

	"github.com/san-kum/kinetic/internal/anim"
	"github.com/san-kum/kinetic/internal/fluid"
	"github.com/san-kum/kinetic/internal/motion"
)

// Registrar enters a value into the frame loop. The driver package provides
// the real one; tests tick values directly.
type Registrar interface {
	Register(v *Value)
}

type restEntry struct {
	fn func(Result)
	h  *Handle
	u  *Update
}

type pendingUpdate struct {
	id    uint64
	u     *Update
	h     *Handle
	timer clockz.Timer
	stop  chan struct{}
	gated bool
}

// Value is one logical animated value. Lifecycle callbacks and observer
// notifications always fire outside the value's lock.
type Value struct {
	mu     sync.Mutex
	clock  clockz.Clock
	driver Registrar
	batch  *fluid.Batch

	node *fluid.Node
	anim *anim.Animation

	onFault func(error)

	frozen       bool
	paused       bool
	animating    bool
	hasAnimated  bool
	onStartFired bool

	// calls is the per-value callID counter; lastToID is the highest callID
	// that has taken control of the to/from range. asyncID names the chain
	// allowed to submit; elements of an older chain resolve cancelled.
	calls    uint64
	lastToID uint64
	asyncID  uint64

	pending map[uint64]*pendingUpdate
	waiters []uint64

	queue []Update

	onStart  func(*Value)
	onChange func(*Value, []float64)
	onPause  func(*Value)
	onResume func(*Value)

	restQueue []restEntry
}

type Option func(*Value)

func WithClock(c clockz.Clock) Option {
	return func(v *Value) { v.clock = c }
}

func WithDriver(d Registrar) Option {
	return func(v *Value) { v.driver = d }
}

func WithBatch(b *fluid.Batch) Option {
	return func(v *Value) { v.batch = b }
}

func WithFault(fn func(error)) Option {
	return func(v *Value) { v.onFault = fn }
}

func WithPriority(p int) Option {
	return func(v *Value) { v.node.SetPriority(p) }
}

func New(initial *Target, opts ...Option) *Value {
	var node *fluid.Node
	switch initial.kind {
	case fluid.Vector:
		node = fluid.NewVector(initial.Values())
	case fluid.Interpolated:
		node = fluid.NewInterpolated(initial.text)
	default:
		node = fluid.NewScalar(initial.Values()[0])
	}

	v := &Value{
		clock:   clockz.RealClock,
		node:    node,
		anim:    anim.New(),
		pending: make(map[uint64]*pendingUpdate),
	}
	vs := node.Values()
	v.anim.From = slices.Clone(vs)
	v.anim.To = slices.Clone(vs)
	v.anim.Channels = makeChannels(vs, nil)
	v.anim.ForceDone()

	for _, opt := range opts {
		opt(v)
	}
	node.Bind(v.batch)
	return v
}

func makeChannels(positions, velocities []float64) []*anim.Channel {
	cs := make([]*anim.Channel, len(positions))
	for i, p := range positions {
		vel := 0.0
		if i < len(velocities) {
			vel = velocities[i]
		}
		cs[i] = anim.NewChannel(p, vel)
	}
	return cs
}

// Set snaps the value to target immediately, halting any active animation.
func (v *Value) Set(t *Target) error {
	v.mu.Lock()
	if v.frozen {
		v.mu.Unlock()
		return ErrFrozen
	}

	v.asyncID++
	fire := v.haltLocked(false)

	if !t.Compatible(v.node) {
		v.node.Replace(t.kind, t.Values(), t.text)
		v.anim.Channels = makeChannels(t.Values(), nil)
	} else {
		v.node.Set(t.Values())
	}
	vs := v.node.Values()
	v.anim.From = slices.Clone(vs)
	v.anim.To = slices.Clone(vs)
	v.anim.ToSource = nil
	for i, c := range v.anim.Channels {
		c.Restart(vs[i], 0)
		c.Done = true
	}

	node := v.node
	fire = append(fire, func() { node.Notify(fluid.Event{Values: vs, Idle: true}) })
	v.mu.Unlock()

	for _, fn := range fire {
		fn()
	}
	return nil
}

func (v *Value) Start(u Update) (*Handle, error) {
	v.mu.Lock()
	if v.frozen {
		v.mu.Unlock()
		return nil, ErrFrozen
	}
	h := newHandle()
	fire, err := v.submitLocked(&u, h)
	v.mu.Unlock()

	for _, fn := range fire {
		fn()
	}
	return h, err
}

// Update enqueues without applying; StartQueued flushes in order.
func (v *Value) Update(u Update) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.frozen {
		return ErrFrozen
	}
	v.queue = append(v.queue, u)
	return nil
}

func (v *Value) StartQueued() ([]*Handle, error) {
	v.mu.Lock()
	if v.frozen {
		v.mu.Unlock()
		return nil, ErrFrozen
	}
	queue := v.queue
	v.queue = nil

	var fire []func()
	var firstErr error
	handles := make([]*Handle, 0, len(queue))
	for i := range queue {
		h := newHandle()
		f, err := v.submitLocked(&queue[i], h)
		fire = append(fire, f...)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		handles = append(handles, h)
	}
	v.mu.Unlock()

	for _, fn := range fire {
		fn()
	}
	return handles, firstErr
}

// Stop halts in place. With cancel set, outstanding results resolve
// cancelled and the range precedence resets.
func (v *Value) Stop(cancel bool) {
	v.mu.Lock()
	v.asyncID++
	fire := v.releasePendingLocked(0, cancel)
	fire = append(fire, v.haltLocked(cancel)...)
	if cancel {
		v.lastToID = 0
	}
	v.mu.Unlock()

	for _, fn := range fire {
		fn()
	}
}

func (v *Value) Pause() {
	v.mu.Lock()
	if v.paused {
		v.mu.Unlock()
		return
	}
	v.paused = true
	onPause := v.onPause
	v.mu.Unlock()

	if onPause != nil {
		onPause(v)
	}
}

// Resume releases the pause gate; gated updates proceed in callID order.
func (v *Value) Resume() {
	v.mu.Lock()
	if !v.paused {
		v.mu.Unlock()
		return
	}
	v.paused = false
	onResume := v.onResume

	waiters := v.waiters
	v.waiters = nil
	var fire []func()
	for _, id := range waiters {
		p, ok := v.pending[id]
		if !ok {
			continue
		}
		delete(v.pending, id)
		f, _ := v.mergeLocked(p.u, p.h)
		fire = append(fire, f...)
	}
	v.mu.Unlock()

	if onResume != nil {
		onResume(v)
	}
	for _, fn := range fire {
		fn()
	}
}

// Finish snaps to the goal, except decay whose goal is implicit.
func (v *Value) Finish() {
	v.mu.Lock()
	if !v.animating {
		v.mu.Unlock()
		return
	}

	var fire []func()
	if !v.onStartFired {
		v.onStartFired = true
		if fn := v.onStart; fn != nil {
			fire = append(fire, func() { fn(v) })
		}
	}

	if v.anim.Config.Mode() != motion.Decay {
		goal := v.anim.GoalValues()
		v.node.Set(goal)
		for i, c := range v.anim.Channels {
			if i < len(goal) {
				c.Position = goal[i]
				c.LastPosition = goal[i]
			}
			c.Velocity = 0
		}
		vs := v.node.Values()
		if fn := v.onChange; fn != nil {
			fire = append(fire, func() { fn(v, vs) })
		}
		node := v.node
		fire = append(fire, func() { node.Notify(fluid.Event{Values: vs}) })
	}

	v.anim.ForceDone()
	fire = append(fire, v.settleLocked(Result{Values: v.node.Values(), Finished: true})...)
	v.mu.Unlock()

	for _, fn := range fire {
		fn()
	}
}

func (v *Value) Reset() (*Handle, error) {
	return v.Start(Update{Reset: true})
}

// Freeze finalizes the value; any further mutation errors.
func (v *Value) Freeze() {
	v.mu.Lock()
	v.frozen = true
	v.mu.Unlock()
}

// Advance moves the animation forward by dt milliseconds.
func (v *Value) Advance(dt float64) {
	v.mu.Lock()
	if v.paused || !v.animating {
		v.mu.Unlock()
		return
	}

	var fire []func()
	changed, idle := anim.Advance(v.anim, v.node, dt, func(i int) {
		if v.onFault != nil {
			err := fmt.Errorf("engine: NaN position on channel %d, forcing done", i)
			fn := v.onFault
			fire = append(fire, func() { fn(err) })
		}
	})

	if changed {
		if !v.onStartFired {
			v.onStartFired = true
			if fn := v.onStart; fn != nil {
				fire = append(fire, func() { fn(v) })
			}
		}
		vs := v.node.Values()
		if fn := v.onChange; fn != nil {
			fire = append(fire, func() { fn(v, vs) })
		}
		node := v.node
		fire = append(fire, func() { node.Notify(fluid.Event{Values: vs}) })
	}

	if idle {
		fire = append(fire, v.settleLocked(Result{Values: v.node.Values(), Finished: true})...)
	}
	v.mu.Unlock()

	for _, fn := range fire {
		fn()
	}
}

// settleLocked drains the rest queue in registration order.
func (v *Value) settleLocked(r Result) []func() {
	v.animating = false

	var fire []func()
	if src := v.anim.ToSource; src != nil {
		fire = append(fire, func() { src.RemoveChild(v) })
	}
	node := v.node
	idleEvent := fluid.Event{Values: v.node.Values(), Idle: true}
	fire = append(fire, func() { node.Notify(idleEvent) })

	entries := v.restQueue
	v.restQueue = nil

	for _, e := range entries {
		e := e
		fire = append(fire, func() {
			if e.fn != nil {
				e.fn(r)
			}
			if e.h != nil {
				e.h.resolve(r, nil)
			}
			if e.u != nil && r.Finished && !r.Cancelled {
				v.maybeLoop(e.u, r)
			}
		})
	}
	return fire
}

func (v *Value) haltLocked(cancel bool) []func() {
	if !v.animating {
		return nil
	}
	v.anim.ForceDone()
	return v.settleLocked(Result{Values: v.node.Values(), Cancelled: cancel})
}

func (v *Value) Idle() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return !v.animating
}

func (v *Value) Get() []float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.node.Values()
}

func (v *Value) String() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.node.String()
}

func (v *Value) Goal() []float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.anim.GoalValues()
}

func (v *Value) Velocity() []float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.anim.Velocities()
}

func (v *Value) HasAnimated() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.hasAnimated
}

func (v *Value) IsAnimating() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.animating
}

func (v *Value) IsPaused() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.paused
}

func (v *Value) Node() *fluid.Node { return v.node }

// fluid.Source, so a value can serve as the live target of another value.

func (v *Value) Priority() int { return v.node.Priority() }

func (v *Value) AddChild(o fluid.Observer) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.node.AddObserver(o)
}

func (v *Value) RemoveChild(o fluid.Observer) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.node.RemoveObserver(o)
}

// OnParentChange re-enters the frame loop when a live goal's parent moves.
func (v *Value) OnParentChange(e fluid.Event) {
	v.mu.Lock()
	if v.anim.ToSource == nil || v.frozen {
		v.mu.Unlock()
		return
	}
	var register Registrar
	if !e.Idle && !v.animating {
		v.animating = true
		for _, c := range v.anim.Channels {
			c.Done = false
		}
		register = v.driver
	}
	v.mu.Unlock()

	if register != nil {
		register.Register(v)
	}
}
