package geometry

import (
	"math"
	"math/rand"
)

// SpawnHeight is the Z coordinate every spawned entity sits at.
const SpawnHeight = 50.0

// CircularLayout places n points evenly on a ring of the given radius
// around the origin, starting on the +X axis.
func CircularLayout(n int, radius float64) []Vector {
	if n <= 0 {
		return nil
	}
	points := make([]Vector, n)
	step := 2 * math.Pi / float64(n)
	for i := range points {
		angle := step * float64(i)
		points[i] = Vector{X: math.Cos(angle) * radius, Y: math.Sin(angle) * radius, Z: SpawnHeight}
	}
	return points
}

// AnnulusLayout scatters n points uniformly by angle and radius inside the
// ring [minRadius, maxRadius].
func AnnulusLayout(n int, minRadius, maxRadius float64, rng *rand.Rand) []Vector {
	if n <= 0 {
		return nil
	}
	points := make([]Vector, n)
	for i := range points {
		angle := rng.Float64() * 2 * math.Pi
		r := minRadius + rng.Float64()*(maxRadius-minRadius)
		points[i] = Vector{X: math.Cos(angle) * r, Y: math.Sin(angle) * r, Z: SpawnHeight}
	}
	return points
}
