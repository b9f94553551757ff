package storefront

import (
	"sync"

	"github.com/Veraticus/shopfront/pkg/interfaces"
)

const (
	revealThreshold    = 0.1
	revealBottomMargin = 50
	revealClass        = "fade-in-up"
)

// Section is a block of the page that fades in when scrolled into view.
// Top and Height are in pixels from the top of the page.
type Section struct {
	Name   string
	Top    int
	Height int
}

type revealTarget struct {
	Section
	id       string
	revealed bool
}

// Revealer marks sections with the fade-in class the first time at least
// a tenth of them is inside the viewport, less a 50px bottom margin.
type Revealer struct {
	doc      interfaces.Document
	viewport int

	mu      sync.Mutex
	targets []revealTarget
}

// NewRevealer creates a revealer; ids[i] belongs to sections[i].
func NewRevealer(doc interfaces.Document, viewport int, sections []Section, ids []string) *Revealer {
	targets := make([]revealTarget, 0, len(sections))
	for i, s := range sections {
		if i >= len(ids) {
			break
		}
		targets = append(targets, revealTarget{Section: s, id: ids[i]})
	}
	return &Revealer{doc: doc, viewport: viewport, targets: targets}
}

// Check reveals sections intersecting the viewport at scroll offset y and
// returns the names of newly revealed sections.
func (r *Revealer) Check(y int) []string {
	top := y
	bottom := y + r.viewport - revealBottomMargin

	r.mu.Lock()
	var revealed []revealTarget
	for i := range r.targets {
		t := &r.targets[i]
		if t.revealed || !intersects(t.Section, top, bottom) {
			continue
		}
		t.revealed = true
		revealed = append(revealed, *t)
	}
	r.mu.Unlock()

	names := make([]string, 0, len(revealed))
	for _, t := range revealed {
		r.doc.SetClass(t.id, revealClass, true)
		names = append(names, t.Name)
	}
	return names
}

// Revealed reports whether the named section has been revealed.
func (r *Revealer) Revealed(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.targets {
		if t.Name == name {
			return t.revealed
		}
	}
	return false
}

func intersects(s Section, top, bottom int) bool {
	if bottom <= top {
		return false
	}
	visible := min(s.Top+s.Height, bottom) - max(s.Top, top)
	if s.Height <= 0 {
		return s.Top >= top && s.Top <= bottom
	}
	if visible <= 0 {
		return false
	}
	return float64(visible)/float64(s.Height) >= revealThreshold
}
