package fluid

import (
	"slices"
	"sync"
)

// Node holds the externally visible payload of one logical value: its kind,
// the current component values, and the observers watching it. The payload is
// mutated only by the owning value; the observer list has its own lock since
// observers attach from other values' goroutines.
type Node struct {
	kind     Kind
	values   []float64
	text     Interpolable
	batch    *Batch
	priority int

	obsMu     sync.Mutex
	observers []Observer
}

func NewScalar(v float64) *Node {
	return &Node{kind: Scalar, values: []float64{v}}
}

func NewVector(vs []float64) *Node {
	return &Node{kind: Vector, values: slices.Clone(vs)}
}

func NewInterpolated(text Interpolable) *Node {
	return &Node{kind: Interpolated, values: slices.Clone(text.Components()), text: text}
}

func (n *Node) Kind() Kind    { return n.kind }
func (n *Node) Priority() int { return n.priority }

func (n *Node) SetPriority(p int) { n.priority = p }

// Bind attaches the batch used to coalesce notifications. A nil batch means
// observers fire immediately.
func (n *Node) Bind(b *Batch) { n.batch = b }

func (n *Node) Values() []float64 {
	return slices.Clone(n.values)
}

func (n *Node) Value(i int) float64 {
	return n.values[i]
}

// Set writes component values without notifying observers. Notification is a
// separate step so a tick can write many channels and notify once.
func (n *Node) Set(vs []float64) {
	copy(n.values, vs)
}

func (n *Node) SetValue(i int, v float64) {
	n.values[i] = v
}

// Replace swaps the node's payload outright. Used only for immediate
// transitions between incompatible kinds.
func (n *Node) Replace(kind Kind, vs []float64, text Interpolable) {
	n.kind = kind
	n.values = slices.Clone(vs)
	n.text = text
}

func (n *Node) String() string {
	if n.kind == Interpolated && n.text != nil {
		return n.text.Render(n.values)
	}
	return ""
}

func (n *Node) AddObserver(o Observer) {
	n.obsMu.Lock()
	defer n.obsMu.Unlock()
	if !slices.Contains(n.observers, o) {
		n.observers = append(n.observers, o)
	}
}

func (n *Node) RemoveObserver(o Observer) {
	n.obsMu.Lock()
	defer n.obsMu.Unlock()
	if i := slices.Index(n.observers, o); i != -1 {
		n.observers = slices.Delete(n.observers, i, i+1)
	}
}

// Notify dispatches an event to every observer, through the batch when one is
// bound. The observer list is cloned so mutation during iteration is safe.
func (n *Node) Notify(e Event) {
	n.obsMu.Lock()
	observers := slices.Clone(n.observers)
	n.obsMu.Unlock()

	for _, o := range observers {
		n.batch.notify(o, e)
	}
}
