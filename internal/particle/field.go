package particle

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"
)

// TickInterval is the period between two position updates.
const TickInterval = 50 * time.Millisecond

// Notifier delivers viewport resize notifications.
// Subscribe returns a function that removes the subscription; after it
// returns, fn is never called again.
type Notifier interface {
	Size() Viewport
	Subscribe(fn func(Viewport)) (unsubscribe func())
}

// Snapshot is an immutable view of the cohort, safe to share between goroutines.
type Snapshot struct {
	Viewport   Viewport
	Particles  []Particle
	Generation uint64 // Incremented every time the cohort is regenerated
}

// FieldOptions configures a Field.
type FieldOptions struct {
	Rand         *rand.Rand    // Random source; seeded from the clock when nil
	TickInterval time.Duration // Defaults to TickInterval
}

// Field owns the particle cohort.
//
// Initialize, Resize and Tick mutate the cohort and must be called from a
// single goroutine; Run and Mount provide that goroutine. Snapshot may be
// called from anywhere.
type Field struct {
	rng        *rand.Rand
	interval   time.Duration
	viewport   Viewport
	particles  []Particle
	generation uint64
	snapshot   atomic.Pointer[Snapshot]
}

// NewField creates an empty field. Call Initialize, Run or Mount to populate it.
func NewField(opts FieldOptions) *Field {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	interval := opts.TickInterval
	if interval <= 0 {
		interval = TickInterval
	}

	f := &Field{rng: rng, interval: interval}
	f.snapshot.Store(&Snapshot{})
	return f
}

// Initialize discards the current cohort and generates a new one for vp.
func (f *Field) Initialize(vp Viewport) {
	f.viewport = vp
	f.particles = Generate(f.rng, vp)
	f.generation++
	f.publish()
}

// Resize regenerates the cohort for the new viewport dimensions.
// Nothing carries over from the previous cohort.
func (f *Field) Resize(vp Viewport) {
	f.Initialize(vp)
}

// Tick advances every particle by one step.
func (f *Field) Tick() {
	// Copy before mutating: published snapshots share the old backing array.
	next := make([]Particle, len(f.particles))
	for i, p := range f.particles {
		next[i] = Step(p, f.viewport)
	}
	f.particles = next
	f.publish()
}

// Snapshot returns the most recently published state of the cohort.
func (f *Field) Snapshot() *Snapshot {
	return f.snapshot.Load()
}

// Particles returns a copy of the current cohort.
func (f *Field) Particles() []Particle {
	s := f.Snapshot()
	out := make([]Particle, len(s.Particles))
	copy(out, s.Particles)
	return out
}

func (f *Field) publish() {
	f.snapshot.Store(&Snapshot{
		Viewport:   f.viewport,
		Particles:  f.particles,
		Generation: f.generation,
	})
}

// Run initializes the field from n, then regenerates on every resize and
// ticks at the configured interval until ctx is cancelled. The resize
// subscription and the ticker are released before Run returns.
func (f *Field) Run(ctx context.Context, n Notifier) {
	resizes, unsubscribe := subscribe(n)
	defer unsubscribe()

	f.Initialize(n.Size())
	f.loop(ctx, resizes)
}

// Mount initializes the field synchronously and keeps it running in a
// background goroutine. The returned function stops the goroutine, releases
// the subscription and waits for both; it is safe to call more than once.
func (f *Field) Mount(n Notifier) (unmount func()) {
	resizes, unsubscribe := subscribe(n)
	f.Initialize(n.Size())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		f.loop(ctx, resizes)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			unsubscribe()
			cancel()
			<-done
		})
	}
}

// loop serializes resize handling and ticks on one goroutine.
func (f *Field) loop(ctx context.Context, resizes <-chan Viewport) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case vp := <-resizes:
			f.Resize(vp)
		case <-ticker.C:
			f.Tick()
		}
	}
}

// subscribe registers a handler that forwards resize events to the loop.
// Only the latest pending size is kept: a burst of resizes collapses into a
// single regeneration for the final dimensions.
func subscribe(n Notifier) (<-chan Viewport, func()) {
	resizes := make(chan Viewport, 1)
	unsubscribe := n.Subscribe(func(vp Viewport) {
		for {
			select {
			case resizes <- vp:
				return
			default:
			}
			select {
			case <-resizes:
			default:
			}
		}
	})
	return resizes, unsubscribe
}
