package windmouse

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// maxSteps bounds every test loop; default-config paths across a screen are
// a few hundred points at most.
const maxSteps = 100000

// newTestGenerator builds a generator with a seeded RNG for deterministic tests.
func newTestGenerator(t *testing.T, start, dest Position, seed int64) *Generator {
	t.Helper()
	cfg := DefaultPhysicsConfig()
	cfg.Rng = rand.New(rand.NewSource(seed))
	gen, err := NewGenerator(start, dest, cfg)
	require.NoError(t, err)
	return gen
}

// drain pulls the generator to exhaustion, failing the test if it does not
// terminate within maxSteps.
func drain(t *testing.T, gen *Generator) []Position {
	t.Helper()
	var points []Position
	for i := 0; i < maxSteps; i++ {
		p, ok := gen.Next()
		if !ok {
			return points
		}
		points = append(points, p)
	}
	t.Fatalf("generator did not terminate within %d points", maxSteps)
	return nil
}

func chebyshev(a, b Position) int {
	dx := int(math.Abs(float64(a.X - b.X)))
	dy := int(math.Abs(float64(a.Y - b.Y)))
	if dx > dy {
		return dx
	}
	return dy
}

func TestGeneratorConvergesToDestination(t *testing.T) {
	cases := []struct {
		name  string
		start Position
		dest  Position
	}{
		{"short hop", Position{0, 0}, Position{10, 5}},
		{"diagonal", Position{0, 0}, Position{100, 100}},
		{"leftward", Position{500, 300}, Position{20, 280}},
		{"long haul", Position{0, 0}, Position{1900, 1050}},
		{"vertical", Position{640, 0}, Position{640, 900}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for seed := int64(1); seed <= 5; seed++ {
				gen := newTestGenerator(t, tc.start, tc.dest, seed)
				points := drain(t, gen)
				require.NotEmpty(t, points)

				final := points[len(points)-1]
				assert.LessOrEqual(t, chebyshev(final, tc.dest), 1,
					"seed %d: final point %+v too far from %+v", seed, final, tc.dest)
			}
		})
	}
}

func TestGeneratorEmptyWhenStartEqualsDest(t *testing.T) {
	gen := newTestGenerator(t, Position{50, 50}, Position{50, 50}, 1)

	p, ok := gen.Next()
	assert.False(t, ok)
	assert.Equal(t, Position{}, p)

	// Exhaustion is sticky.
	_, ok = gen.Next()
	assert.False(t, ok)
}

func TestGeneratorNotRestartable(t *testing.T) {
	gen := newTestGenerator(t, Position{0, 0}, Position{40, 40}, 7)
	drain(t, gen)

	for i := 0; i < 3; i++ {
		_, ok := gen.Next()
		assert.False(t, ok, "exhausted generator must stay exhausted")
	}
}

func TestGeneratorRejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*PhysicsConfig)
	}{
		{"zero gravity", func(c *PhysicsConfig) { c.GravityMagnitude = 0 }},
		{"negative gravity", func(c *PhysicsConfig) { c.GravityMagnitude = -1 }},
		{"zero max step", func(c *PhysicsConfig) { c.MaxStep = 0 }},
		{"negative wind", func(c *PhysicsConfig) { c.WindMagnitude = -0.5 }},
		{"negative damped distance", func(c *PhysicsConfig) { c.DampedDistance = -1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultPhysicsConfig()
			tc.mutate(&cfg)
			_, err := NewGenerator(Position{0, 0}, Position{10, 10}, cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestVelocityNeverExceedsWorkingCap(t *testing.T) {
	gen := newTestGenerator(t, Position{0, 0}, Position{800, 600}, 3)

	for i := 0; i < maxSteps; i++ {
		_, ok := gen.Next()
		if !ok {
			return
		}
		// The clamp runs after the cap ratchet inside every step, so the
		// post-step velocity is bounded by the current working cap.
		assert.LessOrEqual(t, gen.velocity.Mag(), gen.maxStep+1e-9)
	}
	t.Fatal("generator did not terminate")
}

func TestWindOnlyDecaysInsideDampedRadius(t *testing.T) {
	cfg := DefaultPhysicsConfig()
	cfg.Rng = rand.New(rand.NewSource(11))
	// Start inside the damped radius so every step takes the close-range branch.
	gen, err := NewGenerator(Position{0, 0}, Position{8, 0}, cfg)
	require.NoError(t, err)

	gen.wind = Vector2D{X: 6, Y: -6}
	for i := 0; i < 20; i++ {
		dist := gen.pos.Dist(gen.dest)
		if dist < 1.0 || dist >= cfg.DampedDistance {
			break
		}
		prev := gen.wind
		gen.step(dist)
		assert.InDelta(t, prev.X/sqrt3, gen.wind.X, 1e-12)
		assert.InDelta(t, prev.Y/sqrt3, gen.wind.Y, 1e-12)
		assert.LessOrEqual(t, math.Abs(gen.wind.X), math.Abs(prev.X))
		assert.LessOrEqual(t, math.Abs(gen.wind.Y), math.Abs(prev.Y))
	}
}

func TestMaxStepRatchetNearDestination(t *testing.T) {
	cfg := DefaultPhysicsConfig()
	cfg.Rng = rand.New(rand.NewSource(13))
	gen, err := NewGenerator(Position{0, 0}, Position{6, 6}, cfg)
	require.NoError(t, err)

	// First close-range step divides the working cap by sqrt(5).
	gen.step(gen.pos.Dist(gen.dest))
	assert.InDelta(t, DefaultMaxStep/sqrt5, gen.maxStep, 1e-12)

	// Once below 3 the cap resets into [3, 6).
	gen.maxStep = 1.0
	if dist := gen.pos.Dist(gen.dest); dist >= 1.0 && dist < cfg.DampedDistance {
		gen.step(dist)
		assert.GreaterOrEqual(t, gen.maxStep, 3.0)
		assert.Less(t, gen.maxStep, 6.0)
	}
}

func TestTwoRunsProduceDifferentPaths(t *testing.T) {
	cfg := DefaultPhysicsConfig()
	start, dest := Position{0, 0}, Position{400, 300}

	genA, err := NewGenerator(start, dest, cfg)
	require.NoError(t, err)
	genB, err := NewGenerator(start, dest, cfg)
	require.NoError(t, err)

	pathA := drain(t, genA)
	pathB := drain(t, genB)

	require.NotEmpty(t, pathA)
	require.NotEmpty(t, pathB)

	// Both converge...
	assert.LessOrEqual(t, chebyshev(pathA[len(pathA)-1], dest), 1)
	assert.LessOrEqual(t, chebyshev(pathB[len(pathB)-1], dest), 1)

	// ...but the intermediate sequences differ.
	same := len(pathA) == len(pathB)
	if same {
		for i := range pathA {
			if pathA[i] != pathB[i] {
				same = false
				break
			}
		}
	}
	assert.False(t, same, "two time-seeded runs emitted identical paths")
}

func TestScenarioDefaultConfigDiagonal(t *testing.T) {
	gen := newTestGenerator(t, Position{0, 0}, Position{100, 100}, 42)
	points := drain(t, gen)

	require.NotEmpty(t, points)
	final := points[len(points)-1]
	assert.LessOrEqual(t, chebyshev(final, Position{100, 100}), 1)

	// Consecutive emissions are coalesced: no point repeats its predecessor.
	for i := 1; i < len(points); i++ {
		assert.NotEqual(t, points[i-1], points[i], "duplicate consecutive point at index %d", i)
	}

	// A curved path is longer than the 100-step straight line would suggest,
	// but nowhere near unbounded.
	assert.Less(t, len(points), 2000)
}
