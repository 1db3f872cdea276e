package anim

// Channel is one scalar degree of freedom of an animated value. A vector value
// owns several, an interpolated string one per numeric component.
type Channel struct {
	Position     float64
	Velocity     float64
	SeedVelocity float64
	ElapsedTime  float64
	LastPosition float64
	Done         bool
}

func NewChannel(position, velocity float64) *Channel {
	return &Channel{
		Position:     position,
		Velocity:     velocity,
		SeedVelocity: velocity,
		LastPosition: position,
	}
}

// Restart rewinds the channel for a fresh run from position with the given
// velocity seed.
func (c *Channel) Restart(position, velocity float64) {
	c.Position = position
	c.Velocity = velocity
	c.SeedVelocity = velocity
	c.ElapsedTime = 0
	c.LastPosition = position
	c.Done = false
}
