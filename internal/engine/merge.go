package engine

import (
	"fmt"
	"slices"

	"github.com/san-kum/kinetic/internal/fluid"
	"github.com/san-kum/kinetic/internal/motion"
)

// mergeLocked is the single decision point for a parsed update: it computes
// the new range, decides start/restart/finish-now/no-op, reconciles the rest
// queue, and mutates the animation state.
func (v *Value) mergeLocked(u *Update, h *Handle) ([]func(), error) {
	var fire []func()

	// A chain element whose sequence has been superseded or stopped.
	if u.chainID != 0 && u.chainID != v.asyncID {
		h.resolve(Result{Values: v.node.Values(), Cancelled: true}, nil)
		return fire, nil
	}

	if u.Cancel {
		fire = append(fire, v.releasePendingLocked(u.CancelBefore, true)...)
		if u.CancelBefore == 0 {
			fire = append(fire, v.haltLocked(true)...)
			v.lastToID = 0
		}
		h.resolve(Result{Values: v.node.Values(), Cancelled: true}, nil)
		return fire, nil
	}

	// Range precedence: a range-setting update loses to any later-submitted
	// one that already reached the merge stage.
	if u.hasRange() && u.callID <= v.lastToID {
		h.resolve(Result{Values: v.node.Values(), Cancelled: true}, nil)
		return fire, nil
	}

	toT, fromT := u.To, u.From
	if u.Reverse {
		toT, fromT = fromT, toT
	}
	if toT == nil && fromT != nil {
		toT = fromT
	}

	async := len(u.Chain) > 0
	immediate := u.Immediate && !async

	// Kind transitions must be immediate; validate before any state is
	// touched.
	replace := false
	if toT != nil && !toT.Compatible(v.node) {
		if !immediate {
			err := fmt.Errorf("%w: %s -> %s", ErrKindMismatch, v.node.Kind(), toT.Kind())
			h.resolve(Result{Values: v.node.Values(), Cancelled: true}, err)
			return fire, err
		}
		replace = true
	}
	if fromT != nil && !fromT.Compatible(v.node) && !replace {
		err := fmt.Errorf("%w: %s -> %s", ErrKindMismatch, v.node.Kind(), fromT.Kind())
		h.resolve(Result{Values: v.node.Values(), Cancelled: true}, err)
		return fire, err
	}

	reset := u.Reset || (u.From != nil && !u.Default)

	prevTo := slices.Clone(v.anim.To)

	fromVals := slices.Clone(v.anim.From)
	if fromT != nil {
		fromVals = fromT.Values()
	}

	start := v.node.Values()
	if reset {
		start = slices.Clone(fromVals)
	}

	goal := prevTo
	goalSrc := v.anim.ToSource
	if toT != nil {
		goal = toT.Values()
		goalSrc = toT.source
	}

	// A live goal is future-uncertain and always starts. Otherwise the range
	// must have moved relative to the current value, or the motion seed must
	// have changed.
	started := false
	if !async {
		if goalSrc != nil {
			started = true
		} else {
			goalChanged := !slices.Equal(goal, prevTo)
			currentMoved := !slices.Equal(start, prevTo)
			started = (goalChanged || currentMoved || reset) && !slices.Equal(goal, start)
			if u.Config != nil && motionSeedChanged(v.anim.Config, u.Config) {
				started = true
			}
		}
	}

	// Finished-without-starting against an active animation: restart if it
	// has visibly changed, stop cleanly if no frame has moved it yet.
	if !started && !async && v.animating {
		if v.anim.Changed {
			started = true
		} else {
			fire = append(fire, v.haltLocked(false)...)
		}
	}

	if u.hasRange() {
		v.lastToID = u.callID
		if u.chainID != v.asyncID {
			v.asyncID++
		}
	}

	if !async {
		if replace {
			v.node.Replace(toT.kind, toT.Values(), toT.text)
			v.anim.Channels = makeChannels(v.node.Values(), nil)
			goal = toT.Values()
			if reset && fromT != nil && len(fromT.Values()) == len(goal) {
				start = fromT.Values()
				fromVals = fromT.Values()
			} else {
				start = v.node.Values()
				fromVals = v.node.Values()
			}
		}

		if u.Config != nil {
			v.anim.Config = u.Config.Clone().Normalize()
		}

		wasImmediate := v.anim.Immediate
		v.anim.Immediate = immediate
		if wasImmediate && !immediate && !reset {
			fromVals = v.node.Values()
		}

		if prev := v.anim.ToSource; prev != nil && prev != goalSrc {
			fire = append(fire, func() { prev.RemoveChild(v) })
		}
		v.anim.To = slices.Clone(goal)
		v.anim.ToSource = goalSrc
		if started {
			v.anim.From = slices.Clone(start)
		} else if fromT != nil {
			v.anim.From = slices.Clone(fromVals)
		}

		if started {
			v.onStart = u.OnStart
			v.onChange = u.OnChange
			v.onPause = u.OnPause
			v.onResume = u.OnResume

			// Drain-then-replace: stale completions from the superseded run
			// flush before the new primary entry registers.
			stale := v.restQueue
			v.restQueue = nil
			if len(stale) > 0 {
				r := Result{Values: v.node.Values(), Cancelled: true}
				for _, e := range stale {
					e := e
					fire = append(fire, func() {
						if e.fn != nil {
							e.fn(r)
						}
						if e.h != nil {
							e.h.resolve(r, nil)
						}
					})
				}
			}

			restFn := u.OnRest
			if reset && restFn == nil && len(stale) > 0 {
				restFn = stale[0].fn
			}
			v.restQueue = append(v.restQueue, restEntry{fn: restFn, h: h, u: u})
		}

		if reset {
			v.node.Set(start)
			e := fluid.Event{Values: v.node.Values()}
			node := v.node
			fire = append(fire, func() { node.Notify(e) })
		}
	}

	switch {
	case async:
		// A nested chain inherits its parent's token so finishing it does not
		// retire the parent.
		if u.chainID == 0 || u.chainID != v.asyncID {
			v.asyncID++
		}
		token := v.asyncID
		fire = append(fire, func() { v.runChain(u, h, token) })

	case started:
		v.hasAnimated = true
		carry := v.anim.Velocities()
		v.anim.Restart(start, carry)
		v.anim.Changed = false
		v.anim.HasStarted = false
		v.onStartFired = false
		v.animating = true
		if goalSrc != nil {
			fire = append(fire, func() { goalSrc.AddChild(v) })
		}
		if v.driver != nil {
			d := v.driver
			fire = append(fire, func() { d.Register(v) })
		}

	case v.animating && slices.Equal(goal, prevTo):
		// Joining an in-flight animation toward the same goal.
		v.restQueue = append(v.restQueue, restEntry{fn: u.OnRest, h: h, u: u})

	default:
		r := Result{Values: v.node.Values(), Finished: true, Noop: true}
		h.resolve(r, nil)
		if u.Loop != nil && !u.fromLoop {
			fire = append(fire, func() { v.maybeLoop(u, r) })
		}
	}

	return fire, nil
}

func motionSeedChanged(old, next *motion.Config) bool {
	if (old.Decay == nil) != (next.Decay == nil) {
		return true
	}
	if old.Decay != nil && next.Decay != nil && *old.Decay != *next.Decay {
		return true
	}
	return !slices.Equal(old.Velocity, next.Velocity)
}
