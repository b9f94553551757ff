// Package debounce collapses bursts of calls into a single trailing call.
package debounce

import (
	"sync"
	"time"

	"github.com/Veraticus/shopfront/pkg/interfaces"
)

// Debouncer delays calls to its target until no new call has arrived for
// the configured quiet period. The target then runs once, with the
// argument of the most recent call.
type Debouncer[T any] struct {
	sched  interfaces.Scheduler
	delay  time.Duration
	target func(T)

	mu      sync.Mutex
	pending interfaces.Timer
	gen     uint64
}

// New creates a debouncer. Negative delays are treated as zero; a zero
// delay still defers the call to the scheduler's next turn.
func New[T any](sched interfaces.Scheduler, delay time.Duration, target func(T)) *Debouncer[T] {
	if delay < 0 {
		delay = 0
	}
	return &Debouncer[T]{
		sched:  sched,
		delay:  delay,
		target: target,
	}
}

// Call cancels any pending invocation and schedules a new one with arg.
func (d *Debouncer[T]) Call(arg T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending != nil {
		d.pending.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = d.sched.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.gen == gen {
			d.pending = nil
		}
		d.mu.Unlock()

		// Panics from target are left to the scheduler.
		d.target(arg)
	})
}

// Wrap returns a function with target's signature whose calls are debounced.
func Wrap[T any](sched interfaces.Scheduler, delay time.Duration, target func(T)) func(T) {
	return New(sched, delay, target).Call
}

// WrapFunc is Wrap for functions without arguments.
func WrapFunc(sched interfaces.Scheduler, delay time.Duration, target func()) func() {
	d := New(sched, delay, func(struct{}) { target() })
	return func() { d.Call(struct{}{}) }
}
