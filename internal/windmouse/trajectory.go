package windmouse

import (
	"math"
	"math/rand"
	"time"
)

// Decay divisors of the wind and max-step damping. The asymmetric pair is
// what gives WindMouse paths their characteristic late-path settle.
var (
	sqrt3 = math.Sqrt(3)
	sqrt5 = math.Sqrt(5)
)

// Generator produces a lazy, finite sequence of trajectory points from a
// start position to a destination. It is bound to one (start, dest, config)
// triple for its whole life and is not restartable: every logical movement
// needs a fresh instance.
//
// The sequence terminates exactly when the simulated position comes within
// 1.0px of the destination. Two generators built with identical parameters
// produce different paths; the per-step random draws are the point.
type Generator struct {
	cfg  PhysicsConfig
	rng  *rand.Rand
	pos  Vector2D
	dest Vector2D

	velocity Vector2D
	wind     Vector2D
	// maxStep is the working velocity cap. It starts at cfg.MaxStep and
	// ratchets down once the cursor enters the damped radius.
	maxStep float64

	last Position
	done bool
}

// NewGenerator constructs a generator rooted at start. The config is
// validated up front so a non-terminating simulation is rejected before any
// point is produced.
func NewGenerator(start, dest Position, cfg PhysicsConfig) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rng := cfg.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{
		cfg:     cfg,
		rng:     rng,
		pos:     start.Vector(),
		dest:    dest.Vector(),
		maxStep: cfg.MaxStep,
		last:    start,
	}, nil
}

// Next advances the simulation and returns the next rounded point. ok is
// false once the destination has been reached; the generator stays
// exhausted afterwards.
//
// Steps whose rounded position does not move the cursor are coalesced, so
// consecutive emitted points always differ.
func (g *Generator) Next() (Position, bool) {
	if g.done {
		return Position{}, false
	}
	for {
		dist := g.pos.Dist(g.dest)
		if dist < 1.0 {
			g.done = true
			return Position{}, false
		}
		g.step(dist)
		p := g.pos.Round()
		if p != g.last {
			g.last = p
			return p, true
		}
	}
}

// step applies one iteration of the physics simulation.
func (g *Generator) step(dist float64) {
	// Wind never exceeds the remaining distance, so the perturbation
	// cannot blow the cursor past a close target.
	windMag := math.Min(g.cfg.WindMagnitude, dist)

	if dist >= g.cfg.DampedDistance {
		// Far from the target: decay the old wind and mix in a fresh
		// uniform draw per axis.
		g.wind.X = g.wind.X/sqrt3 + (2*g.rng.Float64()-1)*windMag/sqrt5
		g.wind.Y = g.wind.Y/sqrt3 + (2*g.rng.Float64()-1)*windMag/sqrt5
	} else {
		// Close range: wind only decays, and the velocity cap ratchets
		// down so the cursor settles instead of orbiting the target.
		g.wind.X /= sqrt3
		g.wind.Y /= sqrt3
		if g.maxStep < 3 {
			g.maxStep = 3 + g.rng.Float64()*3
		} else {
			g.maxStep /= sqrt5
		}
	}

	// Directed pull toward the destination plus the perturbation.
	g.velocity.X += g.wind.X + g.cfg.GravityMagnitude*(g.dest.X-g.pos.X)/dist
	g.velocity.Y += g.wind.Y + g.cfg.GravityMagnitude*(g.dest.Y-g.pos.Y)/dist

	// Clamp speed, with slight per-step variability near the cap.
	if mag := g.velocity.Mag(); mag > g.maxStep {
		clip := g.maxStep/2 + g.rng.Float64()*g.maxStep/2
		g.velocity = g.velocity.Mul(clip / mag)
	}

	g.pos = g.pos.Add(g.velocity)
}
