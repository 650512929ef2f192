// Package draw renders to ANSI terminals: a scaled half-block canvas,
// a chunked writer for network sessions and small cursor helpers.
package draw

import (
	"time"
)

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Pulse animation: opacity 0.3 → 0.8 → 0.3 and scale 1 → 1.2 → 1 over PulsePeriod.
const (
	PulsePeriod     = 3 * time.Second
	PulseMinOpacity = 0.3
	PulseMaxOpacity = 0.8
	PulseMaxScale   = 1.2
)

// Pulse returns the opacity and scale of the looping particle pulse after
// elapsed time. Both ease in and out between keyframes.
// It only affects how particles look, never where they are.
func Pulse(elapsed time.Duration) (opacity, scale float64) {
	if elapsed < 0 {
		elapsed = -elapsed
	}
	t := float64(elapsed%PulsePeriod) / float64(PulsePeriod)

	// Rise during the first half, fall during the second.
	var k float64
	if t < 0.5 {
		k = easeInOut(t * 2)
	} else {
		k = easeInOut((1 - t) * 2)
	}

	opacity = PulseMinOpacity + (PulseMaxOpacity-PulseMinOpacity)*k
	scale = 1 + (PulseMaxScale-1)*k
	return opacity, scale
}

// easeInOut is the smoothstep curve on [0, 1].
func easeInOut(x float64) float64 {
	return x * x * (3 - 2*x)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
