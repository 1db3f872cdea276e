package motion

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultMass     = 1.0
	DefaultTension  = 170.0
	DefaultFriction = 26.0

	// DecayDefault is the decay rate used when decay is requested without an
	// explicit rate.
	DecayDefault = 0.998
)

// Mode selects which advance semantics are active for a config. Exactly one
// mode applies per advance call: duration wins over decay, decay over spring.
type Mode int

const (
	Spring Mode = iota
	Duration
	Decay
)

func (m Mode) String() string {
	switch m {
	case Duration:
		return "duration"
	case Decay:
		return "decay"
	default:
		return "spring"
	}
}

// Config describes how a value moves toward its goal. Pointer fields are
// optional: nil means unset.
type Config struct {
	Mass     float64   `yaml:"mass"`
	Tension  float64   `yaml:"tension"`
	Friction float64   `yaml:"friction"`
	Velocity []float64 `yaml:"velocity,omitempty"`
	Clamp    bool      `yaml:"clamp,omitempty"`

	Bounce       *float64 `yaml:"bounce,omitempty"`
	Duration     *float64 `yaml:"duration,omitempty"`
	Decay        *float64 `yaml:"decay,omitempty"`
	Precision    *float64 `yaml:"precision,omitempty"`
	RestVelocity *float64 `yaml:"rest_velocity,omitempty"`
	Round        *float64 `yaml:"round,omitempty"`

	Easing   Easing  `yaml:"-"`
	Progress float64 `yaml:"progress,omitempty"`
}

func Default() *Config {
	return &Config{
		Mass:     DefaultMass,
		Tension:  DefaultTension,
		Friction: DefaultFriction,
	}
}

// Normalize fills unset core fields with defaults and returns the config.
func (c *Config) Normalize() *Config {
	if c.Mass == 0 {
		c.Mass = DefaultMass
	}
	if c.Tension == 0 && c.Duration == nil && c.Decay == nil {
		c.Tension = DefaultTension
	}
	if c.Friction == 0 && c.Duration == nil && c.Decay == nil {
		c.Friction = DefaultFriction
	}
	if c.Easing == nil {
		c.Easing = Linear
	}
	return c
}

func (c *Config) Mode() Mode {
	switch {
	case c.Duration != nil:
		return Duration
	case c.Decay != nil:
		return Decay
	default:
		return Spring
	}
}

func (c *Config) DecayRate() float64 {
	if c.Decay == nil {
		return DecayDefault
	}
	return *c.Decay
}

// SeedVelocity returns the configured velocity seed for channel i, 0 if unset.
func (c *Config) SeedVelocity(i int) float64 {
	if i < len(c.Velocity) {
		return c.Velocity[i]
	}
	return 0
}

func (c *Config) HasVelocity() bool { return len(c.Velocity) > 0 }

func (c *Config) Clone() *Config {
	clone := *c
	clone.Velocity = append([]float64(nil), c.Velocity...)
	clone.Bounce = clonePtr(c.Bounce)
	clone.Duration = clonePtr(c.Duration)
	clone.Decay = clonePtr(c.Decay)
	clone.Precision = clonePtr(c.Precision)
	clone.RestVelocity = clonePtr(c.RestVelocity)
	clone.Round = clonePtr(c.Round)
	return &clone
}

func clonePtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg.Normalize(), nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Ptr is a convenience for optional config fields.
func Ptr(v float64) *float64 { return &v }
