// Package windmouse generates human-like, non-linear pointer trajectories
// between two screen points and drives them through a pluggable Driver.
//
// The path model is the WindMouse simulation: a constant gravitational pull
// toward the destination, a stochastic wind force that decays every step, a
// velocity cap that ratchets down near the target, and integer rounding on
// emission. The result curves, wobbles and decelerates the way a real hand
// does, instead of the straight constant-speed line that automation
// heuristics flag.
package windmouse

// Coordinate is an integer screen pixel value. It is a distinct type so raw
// pixel positions do not mix silently with unrelated integer quantities.
type Coordinate int

// Position is a point on the screen in pixels.
type Position struct {
	X Coordinate `json:"x"`
	Y Coordinate `json:"y"`
}

// Vector converts the position to float precision for the simulation.
func (p Position) Vector() Vector2D {
	return Vector2D{X: float64(p.X), Y: float64(p.Y)}
}

// HoldMouseButton identifies which button, if any, is held down for the
// duration of a movement (drag semantics). Press and release timing is the
// Driver's concern; the controller only reports the desired held state.
type HoldMouseButton string

const (
	ButtonNone   HoldMouseButton = "none"
	ButtonLeft   HoldMouseButton = "left"
	ButtonRight  HoldMouseButton = "right"
	ButtonMiddle HoldMouseButton = "middle"
)
