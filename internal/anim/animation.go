package anim

import (
	"slices"

	"github.com/san-kum/kinetic/internal/fluid"
	"github.com/san-kum/kinetic/internal/motion"
)

// Animation is the mutable motion record for one logical value: the active
// config, the from/to range, and one channel per scalar component.
type Animation struct {
	Config *motion.Config

	From []float64
	To   []float64

	// ToSource is set when the goal is a live composed value; its current
	// components are re-read every tick and channels may not finish until the
	// source itself is idle.
	ToSource fluid.Source

	Channels []*Channel

	Immediate bool

	// Changed reports whether any channel has visibly moved since the
	// animation started. HasStarted flips once the first frame has run.
	Changed    bool
	HasStarted bool
}

func New() *Animation {
	return &Animation{Config: motion.Default().Normalize()}
}

// Goal returns the target for channel i, reading through the live source when
// one is attached.
func (a *Animation) Goal(i int) float64 {
	if a.ToSource != nil {
		vs := a.ToSource.Get()
		if i < len(vs) {
			return vs[i]
		}
	}
	if i < len(a.To) {
		return a.To[i]
	}
	return 0
}

func (a *Animation) GoalValues() []float64 {
	if a.ToSource != nil {
		return slices.Clone(a.ToSource.Get())
	}
	return slices.Clone(a.To)
}

func (a *Animation) Idle() bool {
	for _, c := range a.Channels {
		if !c.Done {
			return false
		}
	}
	return true
}

func (a *Animation) Velocities() []float64 {
	vs := make([]float64, len(a.Channels))
	for i, c := range a.Channels {
		vs[i] = c.Velocity
	}
	return vs
}

// Restart rewinds every channel from the given positions, reseeding velocity
// from the config when one is set and otherwise preserving carry-over
// velocities.
func (a *Animation) Restart(positions []float64, carry []float64) {
	for i, c := range a.Channels {
		pos := c.Position
		if i < len(positions) {
			pos = positions[i]
		}
		vel := 0.0
		if i < len(carry) {
			vel = carry[i]
		}
		if a.Config.HasVelocity() {
			vel = a.Config.SeedVelocity(i)
		}
		c.Restart(pos, vel)
	}
}

// ForceDone marks every channel done without moving it.
func (a *Animation) ForceDone() {
	for _, c := range a.Channels {
		c.Done = true
	}
}
