package windmouse

import (
	"context"
	"time"
)

// Driver is the platform collaborator that relocates the real or virtual
// pointer. The core depends only on this boundary; pressing and releasing
// buttons at the right moments is the implementation's concern.
//
// MoveCursorTo relocates the pointer to pos, taking approximately duration,
// with held indicating which button should stay down throughout the move.
// A driver holding a button keeps it pressed across consecutive calls and
// releases it when a call arrives with ButtonNone.
type Driver interface {
	MoveCursorTo(ctx context.Context, pos Position, duration time.Duration, held HoldMouseButton) error
}

// PositionReader is an optional Driver capability. When a Controller is
// built without an explicit start position it asks the driver for the real
// cursor location before the first step, so the generated path begins where
// the pointer actually is.
type PositionReader interface {
	CurrentPosition(ctx context.Context) (Position, error)
}
