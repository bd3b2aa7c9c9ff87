package geometry

import (
	"github.com/ojrac/opensimplex-go"
)

// PathPlanner produces the length of a synthetic path between two points.
// Implementations must return a non-negative value.
type PathPlanner interface {
	PathLength(from, to Vector) float64
}

// StraightLine plans the direct segment between the endpoints.
type StraightLine struct{}

// PathLength implements PathPlanner for StraightLine.
func (StraightLine) PathLength(from, to Vector) float64 {
	return Distance(from, to)
}

// NoisePath fabricates a winding path: waypoints are spaced evenly along the
// straight segment and displaced sideways by OpenSimplex noise, and the path
// length is the sum of the segment lengths. Every call samples a fresh slice
// of the noise field, so repeated trips between the same points differ, but
// a given seed always reproduces the same sequence of lengths.
type NoisePath struct {
	noise     opensimplex.Noise
	waypoints int
	jitter    float64
	calls     int
}

const (
	defaultWaypoints = 20
	noiseFrequency   = 0.35
)

// NewNoisePath creates a planner with the given seed. jitter is the maximum
// lateral displacement of a waypoint in world units.
func NewNoisePath(seed int64, jitter float64) *NoisePath {
	if jitter < 0 {
		jitter = 0
	}
	return &NoisePath{
		noise:     opensimplex.New(seed),
		waypoints: defaultWaypoints,
		jitter:    jitter,
	}
}

// PathLength implements PathPlanner for NoisePath.
func (p *NoisePath) PathLength(from, to Vector) float64 {
	p.calls++
	row := float64(p.calls)

	length := 0.0
	prev := from
	for i := 1; i < p.waypoints; i++ {
		t := float64(i) / float64(p.waypoints-1)
		point := Lerp(from, to, t)
		// endpoints stay pinned
		if i < p.waypoints-1 {
			x := float64(i) * noiseFrequency
			point = point.Add(Vector{
				X: p.noise.Eval2(x, row) * p.jitter,
				Y: p.noise.Eval2(x, row+0.5) * p.jitter,
			})
		}
		length += Distance(prev, point)
		prev = point
	}
	return length
}
