package draw

import (
	"io"
	"math"
	"strconv"
	"strings"
)

// cell is what was last written to one terminal cell.
type cell struct {
	ch    rune
	level int
	hue   int
}

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// Each sub-pixel carries an intensity in [0, 1]. Drawing happens in logical
// coordinates which are scaled to terminal sub-pixels.
//
// Render only emits cells that changed since the previous Render, so the
// terminal never needs a full clear between frames.
type Canvas struct {
	termWidth      int       // Actual terminal columns
	termHeight     int       // Actual terminal rows
	subPixelHeight int       // termHeight * 2
	pixels         []float64 // Flat slice: [y * termWidth + x] intensity

	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// 0-based terminal offsets (columns/rows to skip).
	offsetCol int
	offsetRow int

	palette   *Palette // Plain half-blocks when nil
	reserved  []bool   // Cells owned by foreground text; Render leaves them alone
	prev      []cell   // Last rendered frame; nil forces a full redraw
	renderBuf strings.Builder
	numBuf    [20]byte
}

// NewCanvas creates a canvas for the given terminal dimensions with a 1:1
// mapping between logical coordinates and sub-pixels.
func NewCanvas(width, height int) *Canvas {
	return NewScaledCanvas(width, height, float64(width), float64(height*2))
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{}
	c.logicalWidth = logicalWidth
	c.logicalHeight = logicalHeight
	c.Resize(termWidth, termHeight)
	return c
}

// SetPalette sets the colour palette used by Render. nil renders plain blocks.
func (c *Canvas) SetPalette(p *Palette) {
	c.palette = p
	c.prev = nil
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	if termWidth < 0 {
		termWidth = 0
	}
	if termHeight < 0 {
		termHeight = 0
	}
	if termWidth != c.termWidth || termHeight != c.termHeight || c.pixels == nil {
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = termHeight * 2
		c.pixels = make([]float64, c.subPixelHeight*termWidth)
		c.reserved = make([]bool, termWidth*termHeight)
		c.prev = nil
	}
	c.updateScale()
}

// SetLogicalSize changes the logical coordinate space.
func (c *Canvas) SetLogicalSize(width, height float64) {
	c.logicalWidth = width
	c.logicalHeight = height
	c.updateScale()
}

func (c *Canvas) updateScale() {
	c.scaleX, c.scaleY = 0, 0
	if c.logicalWidth > 0 {
		c.scaleX = float64(c.termWidth) / c.logicalWidth
	}
	if c.logicalHeight > 0 {
		c.scaleY = float64(c.subPixelHeight) / c.logicalHeight
	}
}

// SetOffset sets the column and row offset for centering the canvas.
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.prev = nil
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// ForceRedraw makes the next Render emit every cell.
func (c *Canvas) ForceRedraw() {
	c.prev = nil
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// Reserve marks width cells starting at the 1-based canvas position (col, row)
// as foreground. Render does not draw over reserved cells.
func (c *Canvas) Reserve(col, row, width int) {
	y := row - 1
	if y < 0 || y >= c.termHeight {
		return
	}
	for x := col - 1; x < col-1+width; x++ {
		if x >= 0 && x < c.termWidth {
			c.reserved[y*c.termWidth+x] = true
		}
	}
}

// ReleaseReserved gives every reserved cell back to the canvas.
func (c *Canvas) ReleaseReserved() {
	clear(c.reserved)
}

// setPixel raises the intensity of a sub-pixel (no scaling).
func (c *Canvas) setPixel(x, y int, intensity float64) {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return
	}
	i := y*c.termWidth + x
	if intensity > c.pixels[i] {
		c.pixels[i] = intensity
	}
}

// Plot lights the sub-pixel under a logical coordinate.
func (c *Canvas) Plot(x, y, intensity float64) {
	px := int(math.Floor(x * c.scaleX))
	py := int(math.Floor(y * c.scaleY))
	c.setPixel(px, py, clamp01(intensity))
}

// FillCircle fills a circle given in logical coordinates. Circles smaller
// than a sub-pixel still light the sub-pixel under their centre.
func (c *Canvas) FillCircle(center Point, radius, intensity float64) {
	intensity = clamp01(intensity)
	cx := center.X * c.scaleX
	cy := center.Y * c.scaleY
	rx := radius * c.scaleX
	ry := radius * c.scaleY

	c.setPixel(int(math.Floor(cx)), int(math.Floor(cy)), intensity)
	if rx < 0.5 && ry < 0.5 {
		return
	}

	// Work in a space where the ellipse is a unit-ish circle of radius rx.
	ratio := 1.0
	if ry > 0 {
		ratio = rx / ry
	}
	for y := int(math.Floor(cy - ry)); y <= int(math.Ceil(cy+ry)); y++ {
		for x := int(math.Floor(cx - rx)); x <= int(math.Ceil(cx+rx)); x++ {
			sx := float64(x) + 0.5
			sy := cy + (float64(y)+0.5-cy)*ratio
			if inCircle(sx, sy, cx, cy, rx) {
				c.setPixel(x, y, intensity)
			}
		}
	}
}

// inCircle checks if a point is within radius of a centre.
func inCircle(px, py, cx, cy, radius float64) bool {
	dx := px - cx
	dy := py - cy
	return dx*dx+dy*dy <= radius*radius
}

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
const maxChunkSize = 1400

// Render writes the cells that changed since the last Render to w.
func (c *Canvas) Render(w io.Writer) error {
	c.renderBuf.Reset()

	full := c.prev == nil
	if full {
		c.prev = make([]cell, c.termWidth*c.termHeight)
	}

	for row := 0; row < c.termHeight; row++ {
		top := c.pixels[row*2*c.termWidth:]
		bottom := c.pixels[(row*2+1)*c.termWidth:]

		for col := 0; col < c.termWidth; col++ {
			t, b := top[col], bottom[col]

			var ch rune
			switch {
			case t > 0 && b > 0:
				ch = BlockFull
			case t > 0:
				ch = BlockUpperHalf
			case b > 0:
				ch = BlockLowerHalf
			default:
				ch = BlockEmpty
			}

			position := 0.0
			if c.termWidth > 1 {
				position = float64(col) / float64(c.termWidth-1)
			}
			level, hue := quantize(math.Max(t, b), position)
			next := cell{ch: ch, level: level, hue: hue}

			i := row*c.termWidth + col
			if c.reserved[i] {
				// Whatever the foreground wrote there must be repainted once released.
				c.prev[i] = cell{ch: -1}
				continue
			}
			if !full && c.prev[i] == next {
				continue
			}
			if full && ch == BlockEmpty {
				c.prev[i] = next
				continue
			}
			c.prev[i] = next

			c.moveCursor(col+1+c.offsetCol, row+1+c.offsetRow)
			if c.palette != nil && ch != BlockEmpty {
				c.renderBuf.WriteString(c.palette.Render(ch, math.Max(t, b), position))
			} else {
				c.renderBuf.WriteRune(ch)
			}
		}
	}

	return writeChunks(w, c.renderBuf.String())
}

func (c *Canvas) moveCursor(col, row int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col), 10))
	c.renderBuf.WriteByte('H')
}

// writeChunks writes data in pieces no larger than maxChunkSize.
func writeChunks(w io.Writer, data string) error {
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		if _, err := io.WriteString(w, chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return nil
}

// LogicalWidth returns the logical width.
func (c *Canvas) LogicalWidth() float64 {
	return c.logicalWidth
}

// LogicalHeight returns the logical height.
func (c *Canvas) LogicalHeight() float64 {
	return c.logicalHeight
}

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}
