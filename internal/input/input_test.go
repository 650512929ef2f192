package input

import (
	"bufio"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestIsQuit(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"abc", false},
		{"q", true},
		{"xQ", true},
		{"\x03", true},
		{"\x04", true},
		{"\x1b", true},
		{"\x1b[A", false},
		{"\x1b[Ax\x1b", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isQuit([]byte(tt.in)), "%q", tt.in)
	}
}

func TestReadInput(t *testing.T) {
	pr, pw := io.Pipe()
	s := StartStream(context.Background(), bufio.NewReader(pr))

	in := ReadInput(s)
	assert.False(t, in.Quit)
	assert.Empty(t, in.Pressed)

	go func() { _, _ = pw.Write([]byte("ab")) }()
	var pressed []byte
	require.Eventually(t, func() bool {
		pressed = append(pressed, ReadInput(s).Pressed...)
		return len(pressed) == 2
	}, time.Second, time.Millisecond)
	assert.Equal(t, "ab", string(pressed))

	go func() { _, _ = pw.Write([]byte("q")) }()
	require.Eventually(t, func() bool { return ReadInput(s).Quit }, time.Second, time.Millisecond)

	require.NoError(t, pw.Close())
	require.Eventually(t, func() bool {
		in := ReadInput(s)
		return in.Closed && in.Quit
	}, time.Second, time.Millisecond)
}

func TestReadInputEOF(t *testing.T) {
	s := StartStream(context.Background(), bufio.NewReader(strings.NewReader("")))
	require.Eventually(t, func() bool { return ReadInput(s).Closed }, time.Second, time.Millisecond)
}

// endless never runs out of input.
type endless struct{}

func (endless) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 'a'
	}
	return len(p), nil
}

func TestStreamStopsWhenNobodyReads(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := StartStream(ctx, bufio.NewReader(endless{}))

	// The channel fills up with nobody draining it.
	require.Eventually(t, func() bool { return len(s.ch) == cap(s.ch) }, time.Second, time.Millisecond)
	cancel()

	done := make(chan struct{})
	go func() {
		for range s.ch {
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reader goroutine still running after cancel")
	}
}
