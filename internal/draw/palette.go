package draw

import (
	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Palette quantization. Intensity picks the brightness level, the column
// picks the position along the gradient.
const (
	paletteLevels = 8
	paletteHues   = 12
)

// Default gradient endpoints: blue on the left, purple on the right.
const (
	GradientFrom = "#3B82F6"
	GradientTo   = "#9333EA"
)

// Palette holds precomputed lipgloss styles for a horizontal gradient at a
// fixed number of brightness levels.
type Palette struct {
	styles [paletteLevels][paletteHues]lipgloss.Style
}

// NewPalette builds a gradient palette from one hex colour to another,
// rendered through r. Invalid hex colours fall back to the defaults.
func NewPalette(r *lipgloss.Renderer, from, to string) *Palette {
	start, err := colorful.Hex(from)
	if err != nil {
		start, _ = colorful.Hex(GradientFrom)
	}
	end, err := colorful.Hex(to)
	if err != nil {
		end, _ = colorful.Hex(GradientTo)
	}
	black := colorful.Color{}

	p := &Palette{}
	for hue := 0; hue < paletteHues; hue++ {
		base := start.BlendLab(end, float64(hue)/float64(paletteHues-1)).Clamped()
		for level := 0; level < paletteLevels; level++ {
			brightness := float64(level+1) / float64(paletteLevels)
			c := black.BlendRgb(base, brightness).Clamped()
			p.styles[level][hue] = r.NewStyle().Foreground(lipgloss.Color(c.Hex()))
		}
	}
	return p
}

// Render styles ch for the given intensity and gradient position, both in [0, 1].
func (p *Palette) Render(ch rune, intensity, position float64) string {
	level, hue := quantize(intensity, position)
	return p.styles[level][hue].Render(string(ch))
}

func quantize(intensity, position float64) (level, hue int) {
	level = int(clamp01(intensity) * float64(paletteLevels-1))
	hue = int(clamp01(position) * float64(paletteHues-1))
	return level, hue
}
