// Package eventloop runs deferred callbacks one at a time on a single goroutine.
package eventloop

import (
	"context"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/Veraticus/shopfront/pkg/interfaces"
)

const defaultQueueSize = 256

// Loop serializes all callbacks posted to it or scheduled through it.
type Loop struct {
	queue chan func()
	done  chan struct{}
	log   zerolog.Logger

	closeOnce sync.Once

	mu      sync.Mutex
	onPanic func(any)
}

// New creates a loop. Callbacks do not run until Run is called.
func New(log zerolog.Logger) *Loop {
	return &Loop{
		queue: make(chan func(), defaultQueueSize),
		done:  make(chan struct{}),
		log:   log,
	}
}

// SetPanicHandler installs a hook that receives the value of any panic
// raised by a callback. The loop keeps running afterwards.
func (l *Loop) SetPanicHandler(fn func(any)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onPanic = fn
}

// Post enqueues fn. It returns false if the loop is closed.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}

	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	}
}

// AfterFunc schedules fn on the loop after d.
func (l *Loop) AfterFunc(d time.Duration, fn func()) interfaces.Timer {
	if d < 0 {
		d = 0
	}
	t := &timer{}
	t.t = time.AfterFunc(d, func() {
		l.Post(func() {
			if t.state.CompareAndSwap(timerPending, timerFired) {
				fn()
			}
		})
	})
	return t
}

// Run executes callbacks until ctx is cancelled or Close is called.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			l.Close()
			return ctx.Err()
		case <-l.done:
			return nil
		case fn := <-l.queue:
			l.invoke(fn)
		}
	}
}

// Close stops the loop. Pending and future callbacks are dropped.
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		close(l.done)
	})
}

// Done is closed once the loop stops.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error().
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Msg("callback panicked")

			l.mu.Lock()
			handler := l.onPanic
			l.mu.Unlock()
			if handler != nil {
				handler(r)
			}
		}
	}()
	fn()
}

const (
	timerPending int32 = iota
	timerStopped
	timerFired
)

// timer wraps a runtime timer. The state flag is checked on the loop
// goroutine so a Stop that races with delivery still wins.
type timer struct {
	t     *time.Timer
	state atomic.Int32
}

func (t *timer) Stop() bool {
	if !t.state.CompareAndSwap(timerPending, timerStopped) {
		return false
	}
	t.t.Stop()
	return true
}

// Ensure Loop implements Scheduler
var _ interfaces.Scheduler = (*Loop)(nil)
