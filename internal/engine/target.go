package engine

import (
	"slices"

	"github.com/san-kum/kinetic/internal/fluid"
)

// Target is the closed variant of animation endpoints: a plain scalar, a
// vector, an interpolable string, or a live composed value.
type Target struct {
	kind   fluid.Kind
	values []float64
	text   fluid.Interpolable
	source fluid.Source
}

func Scalar(v float64) *Target {
	return &Target{kind: fluid.Scalar, values: []float64{v}}
}

func Vector(vs ...float64) *Target {
	return &Target{kind: fluid.Vector, values: slices.Clone(vs)}
}

func Interpolated(text fluid.Interpolable) *Target {
	return &Target{kind: fluid.Interpolated, values: text.Components(), text: text}
}

// Live targets another observable value; its components are re-read every
// tick and the goal follows it.
func Live(src fluid.Source) *Target {
	return &Target{kind: fluid.Vector, values: slices.Clone(src.Get()), source: src}
}

func (t *Target) Kind() fluid.Kind { return t.kind }

func (t *Target) IsLive() bool { return t.source != nil }

func (t *Target) Values() []float64 {
	if t.source != nil {
		return slices.Clone(t.source.Get())
	}
	return slices.Clone(t.values)
}

// Compatible reports whether the target can replace the node payload without
// an immediate transition: same kind and same component count.
func (t *Target) Compatible(n *fluid.Node) bool {
	if t.source != nil {
		return len(t.source.Get()) == len(n.Values())
	}
	return t.kind == n.Kind() && len(t.values) == len(n.Values())
}
