package draw

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ANSI sequences used by the helpers below.
const (
	seqClear      = "\033[H\033[2J"
	seqHideCursor = "\033[?25l"
	seqShowCursor = "\033[?25h"
	seqReset      = "\033[0m"
)

// ChunkWriter accumulates a frame of terminal output and writes it in
// MTU-sized chunks on Flush, which keeps SSH sessions smooth.
type ChunkWriter struct {
	buf    strings.Builder
	bufw   *bufio.Writer
	numBuf [20]byte // Scratch buffer for allocation-free integer formatting
	offCol int
	offRow int
}

// NewChunkWriter creates a ChunkWriter that writes to w. offsetCol and offsetRow
// are added to all cursor coordinates.
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{
		bufw:   bufio.NewWriterSize(w, 8192),
		offCol: offsetCol,
		offRow: offsetRow,
	}
}

// SetOffset updates the cursor offset (e.g. after terminal resize).
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.offCol = offsetCol
	cw.offRow = offsetRow
}

// MoveCursor appends a cursor position sequence. col and row are 1-based.
func (cw *ChunkWriter) MoveCursor(col, row int) {
	cw.buf.WriteString("\033[")
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(row+cw.offRow), 10))
	cw.buf.WriteByte(';')
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(col+cw.offCol), 10))
	cw.buf.WriteByte('H')
}

// Write implements io.Writer so a Canvas can render into the frame.
func (cw *ChunkWriter) Write(p []byte) (n int, err error) {
	return cw.buf.Write(p)
}

// WriteString appends a string to the frame.
func (cw *ChunkWriter) WriteString(s string) {
	cw.buf.WriteString(s)
}

// WriteAt writes s at a 1-based position.
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.MoveCursor(col, row)
	cw.buf.WriteString(s)
}

// Len returns the number of buffered bytes.
func (cw *ChunkWriter) Len() int {
	return cw.buf.Len()
}

var _ io.Writer = (*ChunkWriter)(nil)

// Flush writes the accumulated frame to the underlying writer and resets the buffer.
func (cw *ChunkWriter) Flush() error {
	data := cw.buf.String()
	cw.buf.Reset()
	if err := writeChunks(cw.bufw, data); err != nil {
		return err
	}
	return cw.bufw.Flush()
}

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// ClearScreen clears the terminal and moves cursor to top-left.
func ClearScreen(w io.Writer) {
	fmt.Fprint(w, seqClear)
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) {
	fmt.Fprint(w, seqHideCursor)
}

// ShowCursor shows the terminal cursor and resets attributes.
func ShowCursor(w io.Writer) {
	fmt.Fprint(w, seqReset+seqShowCursor)
}

// ColorProfile guesses the colour support of a remote terminal from its
// TERM value and environment, since there is no local TTY to query.
func ColorProfile(termName string, environ []string) termenv.Profile {
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok && k == "COLORTERM" {
			if v == "truecolor" || v == "24bit" {
				return termenv.TrueColor
			}
		}
	}
	switch {
	case termName == "" || termName == "dumb":
		return termenv.Ascii
	case strings.Contains(termName, "truecolor") || strings.Contains(termName, "direct"):
		return termenv.TrueColor
	case strings.Contains(termName, "256color"), strings.HasPrefix(termName, "alacritty"),
		strings.HasPrefix(termName, "xterm-kitty"), strings.HasPrefix(termName, "wezterm"):
		return termenv.ANSI256
	default:
		return termenv.ANSI
	}
}
