// Package geometry supplies the spatial collaborators of the simulator:
// a small 3D vector, spawn layouts and a synthetic path planner.
// Nothing here models real terrain; distances only feed the informational
// truck travel speed.
package geometry

import "math"

// Vector is a point or direction in world space.
type Vector struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vector) Add(o Vector) Vector { return Vector{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v - o.
func (v Vector) Sub(o Vector) Vector { return Vector{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale returns v * s.
func (v Vector) Scale(s float64) Vector { return Vector{v.X * s, v.Y * s, v.Z * s} }

// Length returns the Euclidean norm of v.
func (v Vector) Length() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// Distance returns |a - b|.
func Distance(a, b Vector) float64 { return a.Sub(b).Length() }

// Normalize returns v scaled to unit length. The zero vector is returned unchanged.
func (v Vector) Normalize() Vector {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Lerp interpolates between a and b; t=0 yields a, t=1 yields b.
func Lerp(a, b Vector, t float64) Vector {
	return a.Add(b.Sub(a).Scale(t))
}
