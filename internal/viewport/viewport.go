// Package viewport tracks the dimensions of a display surface and notifies
// subscribers when they change.
package viewport

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/ssh"

	"github.com/tomz197/portfolio/internal/particle"
)

// Tracker holds the current dimensions of a surface (terminal cells or
// pixels, depending on the owner) and fans out changes to subscribers.
//
// Subscribers are called synchronously from Update while the tracker's lock
// is held, so they must not block or call back into the Tracker. Holding
// the lock guarantees that once an unsubscribe function returns, its
// handler is not running and will never run again.
type Tracker struct {
	mu     sync.Mutex
	size   particle.Viewport
	subs   map[int]func(particle.Viewport)
	nextID int
}

// Ensure Tracker can drive a particle field.
var _ particle.Notifier = (*Tracker)(nil)

// NewTracker creates a tracker with the given initial dimensions.
func NewTracker(width, height int) *Tracker {
	return &Tracker{
		size: particle.Viewport{Width: width, Height: height},
		subs: make(map[int]func(particle.Viewport)),
	}
}

// Size returns the current dimensions.
func (t *Tracker) Size() particle.Viewport {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.size
}

// Dimensions returns the current width and height. It matches the shape of
// draw.TermSizeFunc so a tracker fed by SSH window changes can stand in for
// a real terminal.
func (t *Tracker) Dimensions() (width, height int, err error) {
	s := t.Size()
	return s.Width, s.Height, nil
}

// Update records new dimensions. Subscribers are notified only when the
// dimensions actually changed. Reports whether they did.
func (t *Tracker) Update(width, height int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := particle.Viewport{Width: width, Height: height}
	if next == t.size {
		return false
	}
	t.size = next
	for _, fn := range t.subs {
		fn(next)
	}
	return true
}

// Subscribe registers fn for resize notifications. The returned function
// removes the subscription and may be called more than once.
func (t *Tracker) Subscribe(fn func(particle.Viewport)) (unsubscribe func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextID
	t.nextID++
	t.subs[id] = fn

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.subs, id)
	}
}

// Subscribers returns the number of active subscriptions.
func (t *Tracker) Subscribers() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.subs)
}

// Watch polls sizeFunc every interval and feeds the result into t until ctx
// is cancelled. Polling errors are skipped; the last known size stays.
func Watch(ctx context.Context, t *Tracker, sizeFunc func() (int, int, error), interval time.Duration) {
	poll := func() {
		if w, h, err := sizeFunc(); err == nil {
			t.Update(w, h)
		}
	}

	poll()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			poll()
		}
	}
}

// Follow feeds SSH window-change events into t until ch closes or ctx is
// cancelled.
func Follow(ctx context.Context, t *Tracker, ch <-chan ssh.Window) {
	for {
		select {
		case <-ctx.Done():
			return
		case win, ok := <-ch:
			if !ok {
				return
			}
			t.Update(win.Width, win.Height)
		}
	}
}
