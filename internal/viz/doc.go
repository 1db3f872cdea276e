// Package viz provides the interactive terminal view for a live animated
// value.
//
// The package implements a Bubble Tea model that ticks one engine value at a
// fixed frame rate and plots its recent history as an ascii graph.
//
// # Key Bindings
//
//	T     - Retarget to a random goal
//	Space - Pause/Resume the animation
//	L     - Toggle a reversing loop
//	F     - Force immediate completion
//	R     - Reset to the stored from value
//	C     - Cancel the active animation
//	Q     - Quit
package viz
