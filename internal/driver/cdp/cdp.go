// Package cdp implements a windmouse.Driver that dispatches pointer events
// into a Chrome DevTools Protocol session. The context passed to
// MoveCursorTo must be a chromedp context; the browser lifecycle is owned by
// the caller.
package cdp

import (
	"context"
	"time"

	"github.com/aquilax/go-perlin"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/windmouse-cli/internal/windmouse"
)

// CDP buttons bitfield values (1: left, 2: right, 4: middle).
func buttonsBitfield(b windmouse.HoldMouseButton) int64 {
	switch b {
	case windmouse.ButtonLeft:
		return 1
	case windmouse.ButtonRight:
		return 2
	case windmouse.ButtonMiddle:
		return 4
	default:
		return 0
	}
}

// Driver drives the in-page cursor through cdproto input events. It tracks
// held-button state across calls so drags emit a single press/release pair
// around the move frames. Not safe for concurrent use; a movement is one
// logical thread of control.
type Driver struct {
	logger *zap.Logger
	held   windmouse.HoldMouseButton

	// jitter is the Perlin micro-drift amplitude in pixels; 0 disables it.
	// Real hands never hold a sub-pixel-exact line, so a touch of coherent
	// noise on top of the trajectory makes the dispatched stream look like
	// hardware input rather than synthesized coordinates.
	jitter  float64
	noiseX  *perlin.Perlin
	noiseY  *perlin.Perlin
	started time.Time
}

// Option configures the driver.
type Option func(*Driver)

// WithJitter sets the Perlin drift amplitude in pixels.
func WithJitter(amplitude float64) Option {
	return func(d *Driver) {
		d.jitter = amplitude
	}
}

// New creates a CDP driver. The default jitter of 1.5px is subtle enough to
// stay inside any sensible click target.
func New(logger *zap.Logger, opts ...Option) *Driver {
	seed := time.Now().UnixNano()
	d := &Driver{
		logger:  logger,
		held:    windmouse.ButtonNone,
		jitter:  1.5,
		noiseX:  perlin.NewPerlin(2, 2, 3, seed),
		noiseY:  perlin.NewPerlin(2, 2, 3, seed+1),
		started: time.Now(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// MoveCursorTo dispatches the press/release transition for the held button,
// then a mouseMoved event at pos (with micro-drift applied), then sleeps the
// remaining step duration inside the chromedp context.
func (d *Driver) MoveCursorTo(ctx context.Context, pos windmouse.Position, duration time.Duration, held windmouse.HoldMouseButton) error {
	x, y := d.perturb(float64(pos.X), float64(pos.Y))

	if held != d.held {
		if d.held != windmouse.ButtonNone {
			if err := d.dispatchButton(ctx, input.MouseReleased, d.held, x, y); err != nil {
				return err
			}
		}
		if held != windmouse.ButtonNone {
			if err := d.dispatchButton(ctx, input.MousePressed, held, x, y); err != nil {
				return err
			}
		}
		d.held = held
	}

	move := input.DispatchMouseEvent(input.MouseMoved, x, y)
	if bf := buttonsBitfield(d.held); bf > 0 {
		move = move.WithButtons(bf)
	}
	if err := move.Do(ctx); err != nil {
		return err
	}
	d.logger.Debug("dispatched mouse move",
		zap.Float64("x", x), zap.Float64("y", y), zap.String("held", string(d.held)))

	if duration > 0 {
		return chromedp.Sleep(duration).Do(ctx)
	}
	return nil
}

// dispatchButton sends a mousePressed or mouseReleased event at (x, y).
func (d *Driver) dispatchButton(ctx context.Context, typ input.MouseType, button windmouse.HoldMouseButton, x, y float64) error {
	p := input.DispatchMouseEvent(typ, x, y).
		WithButton(input.MouseButton(button)).
		WithClickCount(1)
	if typ == input.MousePressed {
		p = p.WithButtons(buttonsBitfield(button))
	}
	return p.Do(ctx)
}

// perturb applies time-coherent Perlin drift to the target coordinates.
func (d *Driver) perturb(x, y float64) (float64, float64) {
	if d.jitter <= 0 {
		return x, y
	}
	const frequency = 0.8
	t := time.Since(d.started).Seconds() * frequency
	return x + d.noiseX.Noise1D(t)*d.jitter, y + d.noiseY.Noise1D(t)*d.jitter
}
