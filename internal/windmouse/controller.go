package windmouse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// ErrNoDestination is returned when a step is requested before any
// destination has been set.
var ErrNoDestination = errors.New("windmouse: no destination set")

// Controller owns at most one live Generator and sequences its points into
// a Driver. It exposes a single-step primitive (Tick) for caller-controlled
// pacing and a run-to-completion convenience (MoveToTarget).
//
// A Controller is confined to one logical thread of control; it performs no
// internal locking and spawns no goroutines.
type Controller struct {
	driver Driver
	cfg    PhysicsConfig

	pos     Position
	havePos bool
	dest    *Position
	gen     *Generator
}

// Option configures a Controller at construction.
type Option func(*Controller)

// WithStart pins the controller's initial position instead of resolving it
// from the driver on first use.
func WithStart(p Position) Option {
	return func(c *Controller) {
		c.pos = p
		c.havePos = true
	}
}

// NewController validates the physics configuration and builds an idle
// controller around the given driver.
func NewController(driver Driver, cfg PhysicsConfig, opts ...Option) (*Controller, error) {
	if driver == nil {
		return nil, fmt.Errorf("%w: driver is required", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Controller{driver: driver, cfg: cfg}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SetDestination records a new destination. A change of destination
// invalidates any in-progress generator; the replacement is built lazily on
// the next step, rooted at the controller's last known real position, so a
// mid-flight redirect continues smoothly from wherever the pointer is now.
func (c *Controller) SetDestination(dest Position) {
	if c.dest != nil && *c.dest == dest && c.gen != nil {
		return
	}
	d := dest
	c.dest = &d
	c.gen = nil
}

// Target returns the current destination, if one is set.
func (c *Controller) Target() (Position, bool) {
	if c.dest == nil {
		return Position{}, false
	}
	return *c.dest, true
}

// Current returns the controller's last known pointer position, if any.
func (c *Controller) Current() (Position, bool) {
	return c.pos, c.havePos
}

// Moving reports whether a trajectory is in flight.
func (c *Controller) Moving() bool {
	return c.gen != nil
}

// Tick advances the movement by exactly one point. It lazily constructs the
// generator on first use, forwards the produced point to the driver over
// stepDuration with held pressed, and reports whether more points remain.
// Exhaustion returns (false, nil) and leaves the controller idle at the
// destination. Calling Tick with no destination set fails before any driver
// side effect; driver errors propagate unchanged.
func (c *Controller) Tick(ctx context.Context, stepDuration time.Duration, held HoldMouseButton) (bool, error) {
	if c.dest == nil {
		return false, ErrNoDestination
	}
	if c.gen == nil {
		start, err := c.startPosition(ctx)
		if err != nil {
			return false, err
		}
		gen, err := NewGenerator(start, *c.dest, c.cfg)
		if err != nil {
			return false, err
		}
		c.gen = gen
	}

	p, ok := c.gen.Next()
	if !ok {
		c.gen = nil
		return false, nil
	}

	if err := c.driver.MoveCursorTo(ctx, p, stepDuration, held); err != nil {
		return false, err
	}
	c.pos = p
	c.havePos = true
	return true, nil
}

// MoveToTarget drives Tick until the trajectory is exhausted, pacing the
// loop to one tick per tickDelay and honoring context cancellation between
// ticks. When the movement was a drag (held != ButtonNone) a final
// zero-duration move with ButtonNone is issued so the driver releases the
// button at the destination.
func (c *Controller) MoveToTarget(ctx context.Context, tickDelay, stepDuration time.Duration, held HoldMouseButton) error {
	var limiter *rate.Limiter
	if tickDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(tickDelay), 1)
	}

	for {
		more, err := c.Tick(ctx, stepDuration, held)
		if err != nil {
			return err
		}
		if !more {
			break
		}
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
	}

	if held != ButtonNone && c.havePos {
		return c.driver.MoveCursorTo(ctx, c.pos, 0, ButtonNone)
	}
	return nil
}

// startPosition resolves where the next generator should root: the last
// visited point when one exists, otherwise the driver's real cursor
// position. A driver that cannot report its position needs WithStart.
func (c *Controller) startPosition(ctx context.Context) (Position, error) {
	if c.havePos {
		return c.pos, nil
	}
	if reader, ok := c.driver.(PositionReader); ok {
		p, err := reader.CurrentPosition(ctx)
		if err != nil {
			return Position{}, err
		}
		c.pos = p
		c.havePos = true
		return p, nil
	}
	return Position{}, fmt.Errorf("%w: start position unknown and driver cannot report one", ErrInvalidConfig)
}
