package background

import "time"

// Logical pixels per terminal cell. A row holds two 8x8 sub-pixels.
const (
	PixelsPerColumn = 8
	PixelsPerRow    = 16
)

// Client rendering
const (
	TargetFPS       = 30
	TargetFrameTime = time.Second / TargetFPS
)

// Max render resolution in cells. Larger terminals get a centred canvas.
const (
	MaxRenderWidth  = 200
	MaxRenderHeight = 60
)

// Overlay layout
const (
	MaxTextWidth = 64 // Tagline wrap width in columns
	MinTextWidth = 20
)

// DefaultIdleTimeout disconnects sessions that sent no input for this long.
// Zero in Options disables the limit.
const DefaultIdleTimeout = 10 * time.Minute
