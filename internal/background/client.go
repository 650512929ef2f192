// Package background runs the animated Home screen in a terminal: a
// particle field drawn behind the portfolio headline.
package background

import (
	"bufio"
	"context"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/tomz197/portfolio/internal/draw"
	"github.com/tomz197/portfolio/internal/input"
	"github.com/tomz197/portfolio/internal/particle"
	"github.com/tomz197/portfolio/internal/portfolio"
	"github.com/tomz197/portfolio/internal/viewport"
)

// Options configures the client.
type Options struct {
	TermSizeFunc draw.TermSizeFunc // Terminal size in cells; DefaultTermSizeFunc when nil
	Content      *portfolio.Content
	Logger       *zap.Logger
	Renderer     *lipgloss.Renderer // Colour output; lipgloss default renderer when nil
	Rand         *rand.Rand
	IdleTimeout  time.Duration // Zero keeps the session open indefinitely
}

// Client renders the background and overlay for a single terminal.
type Client struct {
	reader       *bufio.Reader
	writer       io.Writer
	inputStream  *input.Stream
	termSizeFunc draw.TermSizeFunc
	logger       *zap.Logger
	idleTimeout  time.Duration

	canvas      *draw.Canvas
	chunkWriter *draw.ChunkWriter
	tracker     *viewport.Tracker // Viewport in logical pixels
	field       *particle.Field
	overlay     *overlay

	start     time.Time
	lastInput time.Time
	frames    int
	sent      int // Frame bytes written
}

// NewClient creates a client that reads keys from r and draws to w.
func NewClient(r *bufio.Reader, w io.Writer, opts Options) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = lipgloss.DefaultRenderer()
	}
	content := opts.Content
	if content == nil {
		content = &portfolio.Content{}
	}

	cols, rows, err := termSizeFunc()
	if err != nil {
		cols, rows = 0, 0
	}
	cols, rows, offsetCol, offsetRow := clampTermSize(cols, rows)

	canvas := draw.NewScaledCanvas(cols, rows,
		float64(cols*PixelsPerColumn), float64(rows*PixelsPerRow))
	canvas.SetOffset(offsetCol, offsetRow)
	canvas.SetPalette(draw.NewPalette(renderer, draw.GradientFrom, draw.GradientTo))

	now := time.Now()
	return &Client{
		reader:       r,
		writer:       w,
		termSizeFunc: termSizeFunc,
		logger:       logger,
		idleTimeout:  opts.IdleTimeout,
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		tracker:      viewport.NewTracker(cols*PixelsPerColumn, rows*PixelsPerRow),
		field:        particle.NewField(particle.FieldOptions{Rand: opts.Rand}),
		overlay:      newOverlay(renderer, content),
		start:        now,
		lastInput:    now,
	}
}

// Run draws frames until the user quits, the input closes, the session is
// idle for too long or ctx is cancelled. The particle field is released
// before Run returns.
func (c *Client) Run(ctx context.Context) error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.inputStream = input.StartStream(ctx, c.reader)
	unmount := c.field.Mount(c.tracker)
	defer unmount()

	c.logger.Debug("Background started", zap.Any("viewport", c.tracker.Size()))
	defer func() {
		c.logger.Debug("Background stopped", zap.Int("frames", c.frames), zap.Int("bytes", c.sent))
	}()

	ticker := time.NewTicker(TargetFrameTime)
	defer ticker.Stop()

	for {
		if !c.processInput() {
			break
		}
		c.updateScreen()
		if err := c.drawFrame(time.Since(c.start)); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			draw.ClearScreen(c.writer)
			return nil
		case <-ticker.C:
		}
	}

	draw.ClearScreen(c.writer)
	return nil
}

// processInput drains pending keys. It reports whether the client should
// keep running.
func (c *Client) processInput() bool {
	in := input.ReadInput(c.inputStream)
	if in.Quit {
		return false
	}
	if len(in.Pressed) > 0 {
		c.lastInput = time.Now()
	} else if c.idleTimeout > 0 && time.Since(c.lastInput) > c.idleTimeout {
		c.logger.Info("Disconnecting idle session", zap.Duration("idle", time.Since(c.lastInput)))
		return false
	}
	return true
}

// updateScreen follows terminal resizes, clamping to the max render
// resolution. The pixel viewport is pushed to the tracker, which regenerates
// the particle field.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	cols, rows, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if cols != c.canvas.TerminalWidth() || rows != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		// Old cells outside the new canvas would linger otherwise.
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
	}
	c.canvas.Resize(cols, rows)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
	c.tracker.Update(cols*PixelsPerColumn, rows*PixelsPerRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and
// computes the offset that centres the render area.
func clampTermSize(termWidth, termHeight int) (cols, rows, offsetCol, offsetRow int) {
	cols = min(termWidth, MaxRenderWidth)
	rows = min(termHeight, MaxRenderHeight)
	offsetCol = (termWidth - cols) / 2
	offsetRow = (termHeight - rows) / 2
	return
}

// drawFrame draws the particles, then the overlay on top of them.
func (c *Client) drawFrame(elapsed time.Duration) error {
	c.canvas.Clear()
	c.canvas.ReleaseReserved()

	snap := c.field.Snapshot()
	w, h := float64(snap.Viewport.Width), float64(snap.Viewport.Height)
	if w != c.canvas.LogicalWidth() || h != c.canvas.LogicalHeight() {
		c.canvas.SetLogicalSize(w, h)
	}

	opacity, scale := draw.Pulse(elapsed)
	for _, p := range snap.Particles {
		center := draw.Point{X: p.Position.X, Y: p.Position.Y}
		c.canvas.FillCircle(center, p.Size*scale/2, opacity)
	}

	lines := c.overlay.layout(c.canvas.TerminalWidth(), c.canvas.TerminalHeight())
	for _, l := range lines {
		c.canvas.Reserve(l.col, l.row, l.width)
	}

	if err := c.canvas.Render(c.chunkWriter); err != nil {
		return err
	}
	for _, l := range lines {
		c.chunkWriter.WriteAt(l.col, l.row, l.text)
	}

	n := c.chunkWriter.Len()
	if n == 0 {
		return nil
	}
	c.frames++
	c.sent += n
	return c.chunkWriter.Flush()
}
