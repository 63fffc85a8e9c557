package windmouse

import "math"

// Vector2D represents a point or force in a 2D Cartesian coordinate system.
// The simulation carries positions, velocities and wind forces at float
// precision; only emitted trajectory points are rounded to Coordinates.
type Vector2D struct {
	X float64
	Y float64
}

// Add returns `v + other`.
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub returns `v - other`.
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{X: v.X - other.X, Y: v.Y - other.Y}
}

// Mul returns `v * scalar`.
func (v Vector2D) Mul(scalar float64) Vector2D {
	return Vector2D{X: v.X * scalar, Y: v.Y * scalar}
}

// Mag returns the Euclidean length of the vector. math.Hypot keeps the
// result stable for very large or very small components.
func (v Vector2D) Mag() float64 {
	return math.Hypot(v.X, v.Y)
}

// Dist returns the Euclidean distance between the points `v` and `other`.
func (v Vector2D) Dist(other Vector2D) float64 {
	return math.Hypot(v.X-other.X, v.Y-other.Y)
}

// Round converts the vector to the nearest integer Position.
func (v Vector2D) Round() Position {
	return Position{
		X: Coordinate(math.Round(v.X)),
		Y: Coordinate(math.Round(v.Y)),
	}
}
