package testutil

import (
	"sort"
	"sync"
	"time"

	"github.com/Veraticus/shopfront/pkg/interfaces"
)

// ManualScheduler is a virtual-time implementation of interfaces.Scheduler.
// Callbacks only run inside Advance, in due-time order, so tests can step
// through timer chains deterministically.
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	s       *ManualScheduler
	when    time.Duration
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

// NewManualScheduler creates a scheduler at virtual time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// AfterFunc implements the Scheduler interface
func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) interfaces.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d < 0 {
		d = 0
	}
	s.seq++
	t := &manualTimer{s: s, when: s.now + d, seq: s.seq, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves virtual time forward by d, running every callback that
// becomes due, including ones scheduled by callbacks during the advance.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d

	for {
		next := s.nextDue(target)
		if next == nil {
			break
		}
		next.fired = true
		s.now = next.when
		s.mu.Unlock()
		next.fn()
		s.mu.Lock()
	}

	s.now = target
	s.mu.Unlock()
}

// Now returns the virtual time elapsed since creation.
func (s *ManualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Pending returns how many timers are waiting to fire.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			count++
		}
	}
	return count
}

// nextDue pops the earliest live timer due at or before target.
// Must be called with s.mu held.
func (s *ManualScheduler) nextDue(target time.Duration) *manualTimer {
	live := s.timers[:0]
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			live = append(live, t)
		}
	}
	s.timers = live

	sort.SliceStable(s.timers, func(i, j int) bool {
		if s.timers[i].when != s.timers[j].when {
			return s.timers[i].when < s.timers[j].when
		}
		return s.timers[i].seq < s.timers[j].seq
	})

	if len(s.timers) == 0 || s.timers[0].when > target {
		return nil
	}
	return s.timers[0]
}

// Stop implements the Timer interface
func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// PhaseRecord is one transition seen by a RecordingReporter.
type PhaseRecord struct {
	ID    string
	Kind  string
	Phase string
	At    time.Duration
}

// RecordingReporter is a thread-safe PhaseReporter that records every
// transition with the scheduler's virtual time.
type RecordingReporter struct {
	mu      sync.Mutex
	clock   *ManualScheduler
	records []PhaseRecord
}

// NewRecordingReporter creates a reporter stamping records with clock.
// clock may be nil.
func NewRecordingReporter(clock *ManualScheduler) *RecordingReporter {
	return &RecordingReporter{clock: clock}
}

// ReportPhase implements the PhaseReporter interface
func (r *RecordingReporter) ReportPhase(id, kind, phase string) {
	var at time.Duration
	if r.clock != nil {
		at = r.clock.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, PhaseRecord{ID: id, Kind: kind, Phase: phase, At: at})
}

// Records returns a copy of all transitions.
func (r *RecordingReporter) Records() []PhaseRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]PhaseRecord, len(r.records))
	copy(result, r.records)
	return result
}

// PhasesFor returns the phases recorded for one toast, in order.
func (r *RecordingReporter) PhasesFor(id string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var phases []string
	for _, rec := range r.records {
		if rec.ID == id {
			phases = append(phases, rec.Phase)
		}
	}
	return phases
}

// MockRateLimiter is a mock implementation of interfaces.RateLimiter for testing
type MockRateLimiter struct {
	mu          sync.Mutex
	allowResult bool
	allowCount  int
	resetCount  int
}

// NewMockRateLimiter creates a new mock rate limiter
func NewMockRateLimiter(allowResult bool) *MockRateLimiter {
	return &MockRateLimiter{
		allowResult: allowResult,
	}
}

// Allow implements the RateLimiter interface
func (m *MockRateLimiter) Allow() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.allowCount++
	return m.allowResult
}

// Reset implements the RateLimiter interface
func (m *MockRateLimiter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetCount++
}

// SetAllowResult sets the result that Allow() will return
func (m *MockRateLimiter) SetAllowResult(allow bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.allowResult = allow
}

// GetAllowCount returns how many times Allow was called
func (m *MockRateLimiter) GetAllowCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.allowCount
}

// GetResetCount returns how many times Reset was called
func (m *MockRateLimiter) GetResetCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resetCount
}

// Ensure mocks implement their interfaces
var (
	_ interfaces.Scheduler     = (*ManualScheduler)(nil)
	_ interfaces.PhaseReporter = (*RecordingReporter)(nil)
	_ interfaces.RateLimiter   = (*MockRateLimiter)(nil)
)
