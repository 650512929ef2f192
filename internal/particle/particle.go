// Package particle simulates the drifting particle field drawn behind the
// portfolio's foreground content.
//
// The field owns a fixed-size cohort of particles. The cohort is generated
// from the current viewport, regenerated wholesale whenever the viewport
// changes, and advanced on a fixed tick. The package knows nothing about
// drawing: renderers read positions and sizes from a Snapshot.
package particle

import (
	"math"
	"math/rand"
)

// Cohort parameters.
const (
	Count    = 50   // Particles alive at any time after initialization
	MinSize  = 2.0  // Inclusive lower bound of particle size
	MaxSize  = 6.0  // Exclusive upper bound of particle size
	MaxSpeed = 0.25 // Velocity components are drawn from [-MaxSpeed, MaxSpeed)
)

// Vec is a 2D point or displacement in viewport pixels.
type Vec struct {
	X, Y float64
}

// Particle is a single point of the background cohort.
// Size and Velocity are fixed for the particle's lifetime.
type Particle struct {
	ID       int
	Position Vec
	Size     float64
	Velocity Vec
}

// Viewport holds the dimensions, in pixels, of the area particles live in.
type Viewport struct {
	Width  int
	Height int
}

// Generate creates a fresh cohort of Count particles for the viewport.
// IDs run from 0 to Count-1 and are unique within the cohort.
func Generate(rng *rand.Rand, vp Viewport) []Particle {
	w := float64(vp.Width)
	h := float64(vp.Height)

	particles := make([]Particle, Count)
	for i := range particles {
		particles[i] = Particle{
			ID: i,
			Position: Vec{
				X: uniform(rng, 0, w),
				Y: uniform(rng, 0, h),
			},
			Size: uniform(rng, MinSize, MaxSize),
			Velocity: Vec{
				X: uniform(rng, -MaxSpeed, MaxSpeed),
				Y: uniform(rng, -MaxSpeed, MaxSpeed),
			},
		}
	}
	return particles
}

// Step advances a particle by its velocity and applies the edge policy:
// a coordinate past the far edge resets to 0, a negative coordinate resets
// to the far edge. The reset is to the boundary itself, not a modulo wrap.
func Step(p Particle, vp Viewport) Particle {
	p.Position.X = resetAtEdge(p.Position.X+p.Velocity.X, float64(vp.Width))
	p.Position.Y = resetAtEdge(p.Position.Y+p.Velocity.Y, float64(vp.Height))
	return p
}

func resetAtEdge(v, limit float64) float64 {
	switch {
	case v > limit:
		return 0
	case v < 0:
		return limit
	default:
		return v
	}
}

// uniform returns a value in [lo, hi). An empty range yields lo.
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	v := lo + rng.Float64()*(hi-lo)
	// Float rounding can land exactly on hi for wide ranges.
	if v >= hi {
		v = math.Nextafter(hi, lo)
	}
	return v
}
