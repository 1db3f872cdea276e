// Package engine drives one logical animated value through its lifecycle.
//
// The package defines the update pipeline for a value:
//
//   - [Value]: one logical animated value and its async update state
//   - [Update]: a submitted instruction (range, config, flags, callbacks)
//   - [Target]: a closed variant over scalar, vector, interpolated, and live goals
//   - [Handle]: the deferred result of a submitted update
//
// Submitted updates are assigned a strictly increasing call identifier per
// value; the identifier, not wall-clock completion order, decides which of
// several overlapping updates controls the animated range.
//
// # Example
//
//	v := engine.New(engine.Scalar(0))
//	h, _ := v.Start(engine.Update{To: engine.Scalar(100)})
//	for !v.Idle() {
//	    v.Advance(16.7)
//	}
//	r := h.Result()
//
// # Thread Safety
//
// Value operations are safe for concurrent use. Lifecycle callbacks and
// observer notifications always fire outside the value's internal lock.
package engine
