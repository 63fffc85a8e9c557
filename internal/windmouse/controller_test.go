package windmouse

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// moveCall records one MoveCursorTo invocation.
type moveCall struct {
	pos      Position
	duration time.Duration
	held     HoldMouseButton
}

// mockDriver implements Driver for controller tests.
type mockDriver struct {
	mu    sync.Mutex
	calls []moveCall

	failOn    int // 1-based call number to fail on; 0 disables
	returnErr error
}

func (m *mockDriver) MoveCursorTo(ctx context.Context, pos Position, duration time.Duration, held HoldMouseButton) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failOn > 0 && len(m.calls)+1 >= m.failOn && m.returnErr != nil {
		return m.returnErr
	}
	m.calls = append(m.calls, moveCall{pos: pos, duration: duration, held: held})
	return nil
}

func (m *mockDriver) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockDriver) lastCall() moveCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[len(m.calls)-1]
}

// positionedDriver additionally implements PositionReader.
type positionedDriver struct {
	mockDriver
	at Position
}

func (d *positionedDriver) CurrentPosition(ctx context.Context) (Position, error) {
	return d.at, nil
}

func newTestController(t *testing.T, driver Driver, seed int64, opts ...Option) *Controller {
	t.Helper()
	cfg := DefaultPhysicsConfig()
	cfg.Rng = rand.New(rand.NewSource(seed))
	c, err := NewController(driver, cfg, opts...)
	require.NoError(t, err)
	return c
}

func TestNewControllerRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultPhysicsConfig()
	cfg.GravityMagnitude = 0
	_, err := NewController(&mockDriver{}, cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewController(nil, DefaultPhysicsConfig())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestTickWithoutDestinationFails(t *testing.T) {
	driver := &mockDriver{}
	c := newTestController(t, driver, 1, WithStart(Position{0, 0}))

	more, err := c.Tick(context.Background(), 0, ButtonNone)
	assert.False(t, more)
	assert.ErrorIs(t, err, ErrNoDestination)
	assert.Zero(t, driver.callCount(), "no driver side effect on configuration error")
}

func TestMoveToTargetReachesDestination(t *testing.T) {
	driver := &mockDriver{}
	c := newTestController(t, driver, 2, WithStart(Position{0, 0}))

	dest := Position{320, 240}
	c.SetDestination(dest)
	require.NoError(t, c.MoveToTarget(context.Background(), 0, 0, ButtonNone))

	require.NotZero(t, driver.callCount())
	final := driver.lastCall().pos
	assert.LessOrEqual(t, chebyshev(final, dest), 1)
	assert.False(t, c.Moving())

	cur, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, final, cur)
}

func TestMoveToTargetCompletesQuicklyWithZeroDelay(t *testing.T) {
	driver := &mockDriver{}
	c := newTestController(t, driver, 3, WithStart(Position{0, 0}))
	c.SetDestination(Position{1400, 1400})

	start := time.Now()
	require.NoError(t, c.MoveToTarget(context.Background(), 0, 0, ButtonNone))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestRedirectMidFlightRootsAtCurrentPosition(t *testing.T) {
	driver := &mockDriver{}
	c := newTestController(t, driver, 4, WithStart(Position{0, 0}))

	c.SetDestination(Position{600, 0})
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		more, err := c.Tick(ctx, 0, ButtonNone)
		require.NoError(t, err)
		require.True(t, more)
	}
	assert.True(t, c.Moving())

	mid, ok := c.Current()
	require.True(t, ok)

	// Redirect: the in-progress generator is discarded and the next tick
	// roots the fresh path at the actual last-visited point.
	newDest := Position{50, 400}
	c.SetDestination(newDest)
	assert.False(t, c.Moving())

	more, err := c.Tick(ctx, 0, ButtonNone)
	require.NoError(t, err)
	require.True(t, more)

	first := driver.lastCall().pos
	// One step moves at most MaxStep px plus rounding slack; the original
	// start (0,0) is hundreds of pixels away by now.
	assert.LessOrEqual(t, first.Vector().Dist(mid.Vector()), DefaultMaxStep+3,
		"first redirected point %+v should be near the redirect origin %+v", first, mid)

	require.NoError(t, c.MoveToTarget(ctx, 0, 0, ButtonNone))
	assert.LessOrEqual(t, chebyshev(driver.lastCall().pos, newDest), 1)
}

func TestSetDestinationSameTargetKeepsGenerator(t *testing.T) {
	driver := &mockDriver{}
	c := newTestController(t, driver, 5, WithStart(Position{0, 0}))

	dest := Position{200, 200}
	c.SetDestination(dest)
	_, err := c.Tick(context.Background(), 0, ButtonNone)
	require.NoError(t, err)
	require.True(t, c.Moving())

	c.SetDestination(dest)
	assert.True(t, c.Moving(), "re-setting the identical destination must not discard the path")
}

func TestDriverErrorPropagatesUnchanged(t *testing.T) {
	sentinel := errors.New("backend unavailable")
	driver := &mockDriver{failOn: 3, returnErr: sentinel}
	c := newTestController(t, driver, 6, WithStart(Position{0, 0}))
	c.SetDestination(Position{300, 300})

	err := c.MoveToTarget(context.Background(), 0, 0, ButtonNone)
	assert.ErrorIs(t, err, sentinel)
	// Already-executed steps are not rolled back.
	assert.Equal(t, 2, driver.callCount())
}

func TestMoveToTargetCancellation(t *testing.T) {
	driver := &mockDriver{}
	c := newTestController(t, driver, 7, WithStart(Position{0, 0}))
	c.SetDestination(Position{1000, 1000})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.MoveToTarget(ctx, time.Millisecond, 0, ButtonNone)
	assert.ErrorIs(t, err, context.Canceled)
	// At most one tick slips through before the cancellation check.
	assert.LessOrEqual(t, driver.callCount(), 1)
}

func TestDragHoldsButtonAndReleasesAtEnd(t *testing.T) {
	driver := &mockDriver{}
	c := newTestController(t, driver, 8, WithStart(Position{10, 10}))
	c.SetDestination(Position{150, 90})

	require.NoError(t, c.MoveToTarget(context.Background(), 0, 0, ButtonLeft))

	driver.mu.Lock()
	defer driver.mu.Unlock()
	require.NotEmpty(t, driver.calls)

	last := driver.calls[len(driver.calls)-1]
	assert.Equal(t, ButtonNone, last.held, "final move releases the drag")
	for _, call := range driver.calls[:len(driver.calls)-1] {
		assert.Equal(t, ButtonLeft, call.held)
	}
}

func TestStartResolvedFromPositionReader(t *testing.T) {
	driver := &positionedDriver{at: Position{777, 333}}
	c := newTestController(t, driver, 9)

	c.SetDestination(Position{800, 333})
	more, err := c.Tick(context.Background(), 0, ButtonNone)
	require.NoError(t, err)
	require.True(t, more)

	first := driver.lastCall().pos
	assert.LessOrEqual(t, first.Vector().Dist(Position{777, 333}.Vector()), DefaultMaxStep+3)
}

func TestStartUnknownWithoutReaderFails(t *testing.T) {
	driver := &mockDriver{}
	c := newTestController(t, driver, 10) // no WithStart, no PositionReader
	c.SetDestination(Position{100, 100})

	_, err := c.Tick(context.Background(), 0, ButtonNone)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Zero(t, driver.callCount())
}

func TestTickAfterExhaustionReturnsFalse(t *testing.T) {
	driver := &mockDriver{}
	c := newTestController(t, driver, 11, WithStart(Position{0, 0}))
	c.SetDestination(Position{30, 30})

	ctx := context.Background()
	require.NoError(t, c.MoveToTarget(ctx, 0, 0, ButtonNone))

	// The controller is idle at the destination. A repeated run may emit a
	// point or two of sub-pixel settling, then exhausts immediately.
	calls := driver.callCount()
	require.NoError(t, c.MoveToTarget(ctx, 0, 0, ButtonNone))
	assert.LessOrEqual(t, driver.callCount()-calls, 16)
	assert.False(t, c.Moving())
}
