package fluid

// Kind identifies the concrete shape of an animatable payload. It is resolved
// once per update and never branched on per tick.
type Kind int

const (
	Scalar Kind = iota
	Vector
	Interpolated
)

func (k Kind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case Vector:
		return "vector"
	case Interpolated:
		return "interpolated"
	default:
		return "unknown"
	}
}

// Interpolable is an opaque string-like payload: a fixed set of numeric
// components that can be rendered back into text.
type Interpolable interface {
	Components() []float64
	Render(components []float64) string
}

// Event carries a change notification from a parent value to its children.
type Event struct {
	Values []float64
	Idle   bool
}

// Observer receives change notifications from a parent value.
type Observer interface {
	OnParentChange(e Event)
}

// Source is an externally observable value that can act as a live animation
// target. Children query Idle to decide whether they may finish.
type Source interface {
	Get() []float64
	Idle() bool
	Priority() int
	AddChild(o Observer)
	RemoveChild(o Observer)
}
