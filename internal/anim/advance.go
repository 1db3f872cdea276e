package anim

import (
	"math"

	"github.com/san-kum/kinetic/internal/fluid"
	"github.com/san-kum/kinetic/internal/motion"
)

const (
	// subStep is the fixed spring integration step in milliseconds. Sub-stepping
	// keeps the semi-implicit Euler integration stable regardless of frame dt.
	subStep = 1.0

	// decayRestDelta finishes a decay once consecutive positions differ by less
	// than this.
	decayRestDelta = 0.1
)

// Advance moves every non-done channel forward by dt milliseconds, writing
// changed positions into the node. It reports whether any channel changed and
// whether all channels are now done. A NaN position is a recoverable fault:
// the channel is forced done and reported through fault.
func Advance(a *Animation, node *fluid.Node, dt float64, fault func(channel int)) (changed, idle bool) {
	a.HasStarted = true
	idle = true

	for i, c := range a.Channels {
		if c.Done {
			continue
		}

		to := a.Goal(i)
		from := a.fromAt(i)
		finished := false

		if a.Immediate {
			c.Position = to
			finished = true
		} else {
			c.ElapsedTime += dt

			switch a.Config.Mode() {
			case motion.Duration:
				finished = advanceDuration(a.Config, c, from, to, dt)
			case motion.Decay:
				finished = advanceDecay(a.Config, c, from)
			default:
				finished = advanceSpring(a.Config, c, from, to, dt)
			}
		}

		if math.IsNaN(c.Position) {
			c.Position = c.LastPosition
			c.Done = true
			if fault != nil {
				fault(i)
			}
			continue
		}

		// Children of a live goal wait for the parent to settle.
		if finished && a.ToSource != nil && !a.ToSource.Idle() {
			finished = false
		}

		value := c.Position
		if a.Config.Round != nil && *a.Config.Round > 0 {
			value = math.Round(value / *a.Config.Round) * *a.Config.Round
		}
		if value != node.Value(i) {
			node.SetValue(i, value)
			changed = true
		}

		c.LastPosition = c.Position
		c.Done = finished
		if !finished {
			idle = false
		}
	}

	if changed {
		a.Changed = true
	}
	return changed, idle
}

func advanceDuration(cfg *motion.Config, c *Channel, from, to, dt float64) bool {
	d := *cfg.Duration
	if d <= 0 {
		c.Position = to
		c.Velocity = 0
		return true
	}

	p := cfg.Progress + (1-cfg.Progress)*math.Min(1, c.ElapsedTime/d)
	p = clamp01(p)

	prev := c.Position
	c.Position = from + cfg.Easing(p)*(to-from)
	if dt > 0 {
		c.Velocity = (c.Position - prev) / dt
	}
	return p == 1
}

func advanceDecay(cfg *motion.Config, c *Channel, from float64) bool {
	rate := cfg.DecayRate()
	e := math.Exp(-(1 - rate) * c.ElapsedTime)

	c.Position = from + c.SeedVelocity/(1-rate)*(1-e)
	c.Velocity = c.SeedVelocity * e

	return math.Abs(c.Position-c.LastPosition) < decayRestDelta
}

func advanceSpring(cfg *motion.Config, c *Channel, from, to, dt float64) bool {
	if cfg.Tension <= 0 {
		c.Velocity = 0
		return true
	}

	precision := 0.005
	if cfg.Precision != nil {
		precision = *cfg.Precision
	} else if from != to {
		precision = math.Min(1, math.Abs(to-from)*0.001)
	}

	restVelocity := precision / 10
	if cfg.RestVelocity != nil {
		restVelocity = *cfg.RestVelocity
	}

	// Clamp is bounce with factor zero; an explicit bounce factor loses to
	// clamp.
	bounceFactor := 0.0
	canBounce := cfg.Clamp
	if !cfg.Clamp && cfg.Bounce != nil {
		bounceFactor = *cfg.Bounce
		canBounce = true
	}

	steps := int(math.Ceil(dt / subStep))
	for s := 0; s < steps; s++ {
		if math.Abs(c.Velocity) <= restVelocity && math.Abs(to-c.Position) <= precision {
			c.Position = to
			c.Velocity = 0
			return true
		}

		if canBounce {
			crossed := c.Position == to || (c.Position > to) == (from < to)
			if crossed {
				c.Velocity = -c.Velocity * bounceFactor
				c.Position = to
			}
		}

		springForce := -cfg.Tension * 1e-6 * (c.Position - to)
		dampingForce := -cfg.Friction * 1e-3 * c.Velocity
		acceleration := (springForce + dampingForce) / cfg.Mass

		c.Velocity += acceleration * subStep
		c.Position += c.Velocity * subStep
	}

	if math.Abs(c.Velocity) <= restVelocity && math.Abs(to-c.Position) <= precision {
		c.Position = to
		c.Velocity = 0
		return true
	}
	return false
}

func (a *Animation) fromAt(i int) float64 {
	if i < len(a.From) {
		return a.From[i]
	}
	return 0
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
