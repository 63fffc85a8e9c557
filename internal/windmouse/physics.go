package windmouse

import (
	"errors"
	"fmt"
	"math/rand"
)

// Library-wide default physics parameters. These are the canonical WindMouse
// constants and produce convincing cursor paths at typical screen scales.
const (
	DefaultGravityMagnitude = 9.0
	DefaultWindMagnitude    = 3.0
	DefaultMaxStep          = 15.0
	DefaultDampedDistance   = 12.0
)

// ErrInvalidConfig is returned when physics parameters cannot produce a
// terminating simulation, or when a step is requested without a destination.
var ErrInvalidConfig = errors.New("windmouse: invalid configuration")

// PhysicsConfig holds the four parameters of the trajectory simulation.
// A config is immutable per movement: it is captured when a Generator is
// constructed and changes never affect a path already in flight.
type PhysicsConfig struct {
	// GravityMagnitude is the strength of the constant pull toward the
	// destination. Must be positive; gravity is the only force that
	// guarantees termination.
	GravityMagnitude float64 `mapstructure:"gravity_magnitude" yaml:"gravity_magnitude" json:"gravity_magnitude"`
	// WindMagnitude scales the random perturbation applied each step.
	WindMagnitude float64 `mapstructure:"wind_magnitude" yaml:"wind_magnitude" json:"wind_magnitude"`
	// MaxStep caps the per-step velocity. The working copy inside a
	// Generator ratchets down as the cursor lingers near the target.
	MaxStep float64 `mapstructure:"max_step" yaml:"max_step" json:"max_step"`
	// DampedDistance is the pixel radius around the destination inside
	// which wind stops receiving new random input and only decays.
	DampedDistance float64 `mapstructure:"damped_distance" yaml:"damped_distance" json:"damped_distance"`

	// Rng, when set, supplies the random draws for every generator built
	// from this config. Tests inject a seeded source here; production
	// leaves it nil and each generator seeds its own.
	Rng *rand.Rand `mapstructure:"-" yaml:"-" json:"-"`
}

// DefaultPhysicsConfig returns the library defaults (9 / 3 / 15 / 12).
func DefaultPhysicsConfig() PhysicsConfig {
	return PhysicsConfig{
		GravityMagnitude: DefaultGravityMagnitude,
		WindMagnitude:    DefaultWindMagnitude,
		MaxStep:          DefaultMaxStep,
		DampedDistance:   DefaultDampedDistance,
	}
}

// Validate rejects parameter combinations that would stall or never
// terminate the simulation. It is called before any movement side effect.
func (c PhysicsConfig) Validate() error {
	if c.GravityMagnitude <= 0 {
		return fmt.Errorf("%w: gravity_magnitude must be > 0, got %v", ErrInvalidConfig, c.GravityMagnitude)
	}
	if c.WindMagnitude < 0 {
		return fmt.Errorf("%w: wind_magnitude must be >= 0, got %v", ErrInvalidConfig, c.WindMagnitude)
	}
	if c.MaxStep <= 0 {
		return fmt.Errorf("%w: max_step must be > 0, got %v", ErrInvalidConfig, c.MaxStep)
	}
	if c.DampedDistance < 0 {
		return fmt.Errorf("%w: damped_distance must be >= 0, got %v", ErrInvalidConfig, c.DampedDistance)
	}
	return nil
}
