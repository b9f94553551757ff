package notification

import (
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Veraticus/shopfront/pkg/interfaces"
)

const (
	transformOnScreen  = "translateX(0)"
	transformOffScreen = "translateX(100%)"
)

// Timings controls how long each lifecycle phase lasts.
type Timings struct {
	// EnterDelay is the wait between appending a toast and sliding it in.
	EnterDelay time.Duration `yaml:"enter_delay"`
	// DisplayDuration is how long a toast stays on screen.
	DisplayDuration time.Duration `yaml:"display_duration"`
	// ExitDuration is the slide-out transition; the element is detached
	// when it ends.
	ExitDuration time.Duration `yaml:"exit_duration"`
}

// DefaultTimings returns 100ms / 3s / 300ms.
func DefaultTimings() Timings {
	return Timings{
		EnterDelay:      100 * time.Millisecond,
		DisplayDuration: 3 * time.Second,
		ExitDuration:    300 * time.Millisecond,
	}
}

// Lifetime is the total time from Notify to removal.
func (t Timings) Lifetime() time.Duration {
	return t.EnterDelay + t.DisplayDuration + t.ExitDuration
}

// delayAfter returns how long a toast stays in p before advancing.
func (t Timings) delayAfter(p Phase) (time.Duration, bool) {
	switch p {
	case PhaseEntering:
		return t.EnterDelay, true
	case PhaseVisible:
		return t.DisplayDuration, true
	case PhaseExiting:
		return t.ExitDuration, true
	}
	return 0, false
}

func (t Timings) transition() string {
	return "transform " + strconv.FormatFloat(t.ExitDuration.Seconds(), 'g', -1, 64) + "s ease"
}

// Notifier shows toasts. Every call to Notify runs its own lifecycle:
// entering, visible, exiting, removed. Toasts are never merged,
// deduplicated or dismissed early.
type Notifier struct {
	display interfaces.Display
	sched   interfaces.Scheduler
	timings Timings
	now     func() time.Time

	mu       sync.Mutex
	theme    Theme
	reporter interfaces.PhaseReporter
	log      zerolog.Logger
	active   []*Notification
}

// NewNotifier creates a notifier drawing into display and timing its
// phases with sched.
func NewNotifier(display interfaces.Display, sched interfaces.Scheduler, timings Timings) *Notifier {
	return &Notifier{
		display: display,
		sched:   sched,
		timings: timings,
		now:     time.Now,
		theme:   DefaultTheme(),
		log:     zerolog.Nop(),
	}
}

// SetTheme replaces the theme for toasts created from now on.
func (n *Notifier) SetTheme(theme Theme) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.theme = theme
}

// SetPhaseReporter installs an observer for lifecycle transitions.
func (n *Notifier) SetPhaseReporter(r interfaces.PhaseReporter) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reporter = r
}

// SetLogger sets the logger.
func (n *Notifier) SetLogger(log zerolog.Logger) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.log = log
}

// Info shows an info toast.
func (n *Notifier) Info(message string) { n.Notify(message, KindInfo) }

// Success shows a success toast.
func (n *Notifier) Success(message string) { n.Notify(message, KindSuccess) }

// Error shows an error toast.
func (n *Notifier) Error(message string) { n.Notify(message, KindError) }

// Notify shows message as a toast of the given kind. An empty kind means
// info; unknown kinds render like info. Notify never blocks on the
// toast's lifecycle.
func (n *Notifier) Notify(message string, kind Kind) {
	if kind == "" {
		kind = KindInfo
	}

	n.mu.Lock()
	pres := n.theme.For(kind)
	n.mu.Unlock()

	id := n.display.CreateElement("notification "+kind.class(), message)
	toast := &Notification{
		ID:      id,
		Message: message,
		Kind:    kind,
		Phase:   PhaseCreated,
		Created: n.now(),
	}
	n.report(*toast)

	n.applyStyle(id, pres)
	n.display.AppendChild(id)

	n.mu.Lock()
	toast.Phase = PhaseEntering
	n.active = append(n.active, toast)
	snapshot := *toast
	n.mu.Unlock()

	n.report(snapshot)
	n.schedule(toast, snapshot.Phase)
}

// Active returns copies of the toasts that have not been removed yet, in
// creation order.
func (n *Notifier) Active() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	result := make([]Notification, 0, len(n.active))
	for _, t := range n.active {
		result = append(result, *t)
	}
	return result
}

func (n *Notifier) applyStyle(id string, pres Presentation) {
	styles := [][2]string{
		{"position", "fixed"},
		{"top", "100px"},
		{"right", "20px"},
		{"background", pres.Background},
		{"color", pres.Color},
		{"padding", "1rem 2rem"},
		{"border-radius", "10px"},
		{"box-shadow", "0 4px 15px rgba(0,0,0,0.2)"},
		{"z-index", "10000"},
		{"transform", transformOffScreen},
		{"transition", n.timings.transition()},
	}
	for _, s := range styles {
		n.display.SetStyle(id, s[0], s[1])
	}
}

func (n *Notifier) schedule(toast *Notification, phase Phase) {
	d, ok := n.timings.delayAfter(phase)
	if !ok {
		return
	}
	n.sched.AfterFunc(d, func() { n.advance(toast) })
}

// advance moves toast to its next phase and applies that phase's visual
// change. Removed is terminal.
func (n *Notifier) advance(toast *Notification) {
	n.mu.Lock()
	if toast.Phase == PhaseRemoved {
		n.mu.Unlock()
		return
	}
	toast.Phase++
	snapshot := *toast
	if snapshot.Phase == PhaseRemoved {
		n.active = slices.DeleteFunc(n.active, func(t *Notification) bool { return t == toast })
	}
	log := n.log
	n.mu.Unlock()

	switch snapshot.Phase {
	case PhaseVisible:
		n.display.SetStyle(snapshot.ID, "transform", transformOnScreen)
	case PhaseExiting:
		n.display.SetStyle(snapshot.ID, "transform", transformOffScreen)
	case PhaseRemoved:
		if !n.display.RemoveChild(snapshot.ID) {
			log.Debug().Str("id", snapshot.ID).Msg("toast already detached")
		}
	}

	n.report(snapshot)
	n.schedule(toast, snapshot.Phase)
}

func (n *Notifier) report(snapshot Notification) {
	n.mu.Lock()
	r := n.reporter
	n.mu.Unlock()

	if r != nil {
		r.ReportPhase(snapshot.ID, string(snapshot.Kind), snapshot.Phase.String())
	}
}
