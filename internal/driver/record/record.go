// Package record provides an in-memory windmouse.Driver that captures every
// emitted trajectory point instead of moving a real pointer. The trace
// command uses it to export paths for inspection, and tests use it as the
// integration seam.
package record

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xkilldash9x/windmouse-cli/internal/windmouse"
)

// Step is one recorded driver invocation.
type Step struct {
	Movement uuid.UUID                 `json:"movement"`
	Position windmouse.Position        `json:"position"`
	Duration time.Duration             `json:"duration_ns"`
	Held     windmouse.HoldMouseButton `json:"held"`
}

// Driver records cursor moves. It implements both windmouse.Driver and
// windmouse.PositionReader, reporting the position it was seeded with until
// the first move arrives.
type Driver struct {
	mu       sync.Mutex
	movement uuid.UUID
	steps    []Step
	pos      windmouse.Position
}

// New creates a recording driver whose reported cursor starts at startPos.
func New(startPos windmouse.Position) *Driver {
	return &Driver{
		movement: uuid.New(),
		pos:      startPos,
	}
}

// MoveCursorTo records the step. The context is only consulted for
// cancellation; no time actually passes.
func (d *Driver) MoveCursorTo(ctx context.Context, pos windmouse.Position, duration time.Duration, held windmouse.HoldMouseButton) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.steps = append(d.steps, Step{
		Movement: d.movement,
		Position: pos,
		Duration: duration,
		Held:     held,
	})
	d.pos = pos
	return nil
}

// CurrentPosition implements windmouse.PositionReader.
func (d *Driver) CurrentPosition(ctx context.Context) (windmouse.Position, error) {
	if err := ctx.Err(); err != nil {
		return windmouse.Position{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pos, nil
}

// Steps returns a copy of everything recorded so far.
func (d *Driver) Steps() []Step {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Step, len(d.steps))
	copy(out, d.steps)
	return out
}

// NextMovement stamps subsequently recorded steps with a fresh movement id.
func (d *Driver) NextMovement() uuid.UUID {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.movement = uuid.New()
	return d.movement
}
