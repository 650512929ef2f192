package background

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tomz197/portfolio/internal/portfolio"
)

// navigation mirrors the sections of the web site.
var navigation = []string{"Home", "About", "Projects", "Contact"}

const quitHint = "Press q to quit"

// line is one piece of foreground text at a 1-based terminal position.
type line struct {
	col, row int
	width    int // Display width in cells
	text     string
}

// overlay renders the centred headline drawn over the particles.
type overlay struct {
	content *portfolio.Content

	name    lipgloss.Style
	title   lipgloss.Style
	tagline lipgloss.Style
	nav     lipgloss.Style
	hint    lipgloss.Style
}

func newOverlay(r *lipgloss.Renderer, content *portfolio.Content) *overlay {
	return &overlay{
		content: content,
		name:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#60A5FA")),
		title:   r.NewStyle().Foreground(lipgloss.Color("#C084FC")),
		tagline: r.NewStyle().Foreground(lipgloss.Color("#D1D5DB")),
		nav:     r.NewStyle().Foreground(lipgloss.Color("#9CA3AF")),
		hint:    r.NewStyle().Faint(true),
	}
}

// layout places the overlay lines centred in a cols x rows terminal.
// Lines that do not fit are dropped.
func (o *overlay) layout(cols, rows int) []line {
	if cols <= 0 || rows <= 0 {
		return nil
	}

	type entry struct {
		raw   string
		style lipgloss.Style
	}
	var entries []entry
	p := o.content.Profile
	if p.Name != "" {
		entries = append(entries, entry{p.Name, o.name})
	}
	if p.Title != "" {
		entries = append(entries, entry{p.Title, o.title})
	}
	if p.Tagline != "" {
		entries = append(entries, entry{"", o.tagline})
		for _, l := range wrap(p.Tagline, textWidth(cols)) {
			entries = append(entries, entry{l, o.tagline})
		}
	}
	entries = append(entries,
		entry{"", o.nav},
		entry{strings.Join(navigation, "  ·  "), o.nav},
		entry{"", o.hint},
		entry{quitHint, o.hint},
	)

	if len(entries) > rows {
		entries = entries[:rows]
	}
	top := (rows-len(entries))/2 + 1

	lines := make([]line, 0, len(entries))
	for i, e := range entries {
		if e.raw == "" {
			continue
		}
		raw := e.raw
		if lipgloss.Width(raw) > cols {
			raw = truncate(raw, cols)
		}
		w := lipgloss.Width(raw)
		lines = append(lines, line{
			col:   (cols-w)/2 + 1,
			row:   top + i,
			width: w,
			text:  e.style.Render(raw),
		})
	}
	return lines
}

func textWidth(cols int) int {
	w := cols - 4
	if w > MaxTextWidth {
		w = MaxTextWidth
	}
	if w < MinTextWidth {
		w = MinTextWidth
	}
	return w
}

// wrap breaks s into lines of at most width cells at word boundaries.
// Words longer than width get a line of their own.
func wrap(s string, width int) []string {
	var out []string
	var cur strings.Builder
	for _, word := range strings.Fields(s) {
		if cur.Len() > 0 && lipgloss.Width(cur.String())+1+lipgloss.Width(word) > width {
			out = append(out, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(word)
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

func truncate(s string, width int) string {
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes)) > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes)
}
