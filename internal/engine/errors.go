package engine

import "errors"

var (
	// ErrFrozen is returned when mutating a value that has been finalized.
	ErrFrozen = errors.New("engine: value is frozen")

	// ErrKindMismatch is returned when a non-immediate update targets a payload
	// kind incompatible with the value's current one.
	ErrKindMismatch = errors.New("engine: incompatible animatable kinds")
)
