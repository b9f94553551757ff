package debounce

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Veraticus/shopfront/pkg/eventloop"
	"github.com/Veraticus/shopfront/pkg/testutil"
)

func TestWrap_BurstCollapsesToLastCall(t *testing.T) {
	sched := testutil.NewManualScheduler()

	var calls []int
	var firedAt time.Duration
	wrapped := Wrap(sched, 10*time.Millisecond, func(v int) {
		calls = append(calls, v)
		firedAt = sched.Now()
	})

	for i := 1; i <= 5; i++ {
		wrapped(i)
		if i < 5 {
			sched.Advance(2 * time.Millisecond)
		}
	}
	lastCall := sched.Now()

	sched.Advance(9 * time.Millisecond)
	if len(calls) != 0 {
		t.Fatalf("target fired before quiet period elapsed: %v", calls)
	}

	sched.Advance(1 * time.Millisecond)
	if len(calls) != 1 {
		t.Fatalf("expected exactly 1 call, got %d", len(calls))
	}
	if calls[0] != 5 {
		t.Errorf("expected last argument 5, got %d", calls[0])
	}
	if firedAt-lastCall < 10*time.Millisecond {
		t.Errorf("fired %v after last call, want >= 10ms", firedAt-lastCall)
	}

	sched.Advance(time.Second)
	if len(calls) != 1 {
		t.Errorf("expected no further calls, got %d", len(calls))
	}
}

func TestWrap_SeparateWindows(t *testing.T) {
	sched := testutil.NewManualScheduler()

	var calls []string
	wrapped := Wrap(sched, 10*time.Millisecond, func(s string) { calls = append(calls, s) })

	wrapped("a")
	sched.Advance(20 * time.Millisecond)
	wrapped("b")
	wrapped("c")
	sched.Advance(20 * time.Millisecond)

	if len(calls) != 2 || calls[0] != "a" || calls[1] != "c" {
		t.Errorf("expected [a c], got %v", calls)
	}
}

func TestWrap_ZeroDelayIsNeverSynchronous(t *testing.T) {
	sched := testutil.NewManualScheduler()

	called := 0
	wrapped := Wrap(sched, 0, func(int) { called++ })

	wrapped(1)
	if called != 0 {
		t.Fatal("target ran synchronously")
	}

	sched.Advance(0)
	if called != 1 {
		t.Errorf("expected 1 call after next turn, got %d", called)
	}
}

func TestNew_NegativeDelayClamped(t *testing.T) {
	sched := testutil.NewManualScheduler()

	called := false
	d := New(sched, -time.Second, func(bool) { called = true })
	d.Call(true)

	if called {
		t.Fatal("target ran synchronously")
	}
	sched.Advance(0)
	if !called {
		t.Error("expected target to run on next turn")
	}
}

func TestWrap_AtMostOnePendingTimer(t *testing.T) {
	sched := testutil.NewManualScheduler()
	wrapped := Wrap(sched, 10*time.Millisecond, func(int) {})

	for i := 0; i < 20; i++ {
		wrapped(i)
	}

	if got := sched.Pending(); got != 1 {
		t.Errorf("expected 1 pending timer, got %d", got)
	}
}

func TestWrapFunc(t *testing.T) {
	sched := testutil.NewManualScheduler()

	count := 0
	wrapped := WrapFunc(sched, 5*time.Millisecond, func() { count++ })
	wrapped()
	wrapped()
	wrapped()

	sched.Advance(5 * time.Millisecond)
	if count != 1 {
		t.Errorf("expected 1 call, got %d", count)
	}
}

func TestWrap_PanicReachesScheduler(t *testing.T) {
	loop := eventloop.New(zerolog.Nop())
	go func() { _ = loop.Run(context.Background()) }()
	defer loop.Close()

	panics := make(chan any, 1)
	loop.SetPanicHandler(func(v any) { panics <- v })

	wrapped := Wrap(loop, time.Millisecond, func(string) { panic("target failed") })
	wrapped("x")

	select {
	case v := <-panics:
		if v != "target failed" {
			t.Errorf("unexpected panic value %v", v)
		}
	case <-time.After(time.Second):
		t.Fatal("panic did not reach the loop")
	}
}

func TestWrap_ConcurrentCallers(t *testing.T) {
	loop := eventloop.New(zerolog.Nop())
	go func() { _ = loop.Run(context.Background()) }()
	defer loop.Close()

	var mu sync.Mutex
	calls := 0
	done := make(chan struct{}, 1)
	wrapped := Wrap(loop, 30*time.Millisecond, func(int) {
		mu.Lock()
		calls++
		mu.Unlock()
		done <- struct{}{}
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			wrapped(v)
		}(i)
	}
	wg.Wait()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("debounced call never fired")
	}
	time.Sleep(60 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}
