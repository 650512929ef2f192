// Package input reads raw terminal bytes without blocking the render loop.
package input

import (
	"bufio"
	"context"
)

// Input represents the keys seen since the previous read.
type Input struct {
	Quit    bool
	Closed  bool // The underlying reader is exhausted
	Pressed []byte
}

// Stream delivers input bytes via a channel.
type Stream struct {
	ch     chan byte
	closed bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
// The goroutine exits when r returns an error (e.g. the session closed), or on
// its next byte once ctx is done.
func StartStream(ctx context.Context, r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		defer close(s.ch)
		for {
			b, err := r.ReadByte()
			if err != nil {
				return
			}
			select {
			case s.ch <- b:
			case <-ctx.Done():
				return
			}
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream without blocking.
func ReadInput(s *Stream) Input {
	var in Input

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			in.Pressed = append(in.Pressed, b)
		default:
			break drain
		}
	}

	in.Closed = s.closed
	in.Quit = s.closed || isQuit(in.Pressed)
	return in
}

// isQuit reports whether buf holds a quit key: q, Ctrl-C, Ctrl-D or a lone
// Escape. Escape followed by '[' starts an arrow-key sequence and is ignored.
func isQuit(buf []byte) bool {
	for i, b := range buf {
		switch b {
		case 'q', 'Q', 0x03, 0x04:
			return true
		case 0x1b:
			if i+1 >= len(buf) || buf[i+1] != '[' {
				return true
			}
		}
	}
	return false
}
