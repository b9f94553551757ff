// Package storefront implements the storefront page widgets: cart, menu,
// navbar, catalog filters, contact form and newsletter signup.
package storefront

import (
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/shopfront/pkg/interfaces"
	"github.com/Veraticus/shopfront/pkg/notification"
)

// Notifier shows toasts.
type Notifier interface {
	Notify(message string, kind notification.Kind)
}

const (
	cartPulseDuration   = 200 * time.Millisecond
	buttonPressDuration = 150 * time.Millisecond
)

// Cart counts items added during the session. The count is not persisted.
type Cart struct {
	doc      interfaces.Document
	sched    interfaces.Scheduler
	notifier Notifier
	iconID   string
	render   func(count int)

	mu    sync.Mutex
	count int
}

// NewCart creates a cart that renders its count with render and pulses the
// cart icon element on every add.
func NewCart(doc interfaces.Document, sched interfaces.Scheduler, notifier Notifier, iconID string, render func(count int)) *Cart {
	return &Cart{
		doc:      doc,
		sched:    sched,
		notifier: notifier,
		iconID:   iconID,
		render:   render,
	}
}

// Add adds one item. buttonID is the pressed button, or empty.
func (c *Cart) Add(buttonID string) int {
	c.mu.Lock()
	c.count++
	count := c.count
	c.mu.Unlock()

	if c.render != nil {
		c.render(count)
	}

	c.pulse(c.iconID, "scale(1.2)", cartPulseDuration)
	if buttonID != "" {
		c.pulse(buttonID, "scale(0.95)", buttonPressDuration)
	}

	c.notifier.Notify("Item added to cart!", notification.KindSuccess)
	return count
}

// Count returns the number of items in the cart.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

func (c *Cart) pulse(id, transform string, d time.Duration) {
	if id == "" {
		return
	}
	c.doc.SetStyle(id, "transform", transform)
	c.sched.AfterFunc(d, func() {
		c.doc.SetStyle(id, "transform", "scale(1)")
	})
}

// Menu is the mobile navigation menu behind the hamburger button.
type Menu struct {
	doc         interfaces.Document
	hamburgerID string
	menuID      string

	mu     sync.Mutex
	active bool
}

// NewMenu creates a closed menu.
func NewMenu(doc interfaces.Document, hamburgerID, menuID string) *Menu {
	return &Menu{doc: doc, hamburgerID: hamburgerID, menuID: menuID}
}

// Toggle opens a closed menu or closes an open one.
func (m *Menu) Toggle() bool {
	m.mu.Lock()
	m.active = !m.active
	active := m.active
	m.mu.Unlock()

	m.apply(active)
	return active
}

// Close closes the menu, as clicking a navigation link does.
func (m *Menu) Close() {
	m.mu.Lock()
	m.active = false
	m.mu.Unlock()

	m.apply(false)
}

// Active reports whether the menu is open.
func (m *Menu) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

func (m *Menu) apply(active bool) {
	m.doc.SetClass(m.hamburgerID, "active", active)
	m.doc.SetClass(m.menuID, "active", active)
}

// Navbar switches to a more opaque style once the page scrolls past a
// threshold.
type Navbar struct {
	doc       interfaces.Document
	id        string
	threshold int
}

// NewNavbar creates a navbar styler.
func NewNavbar(doc interfaces.Document, id string, threshold int) *Navbar {
	return &Navbar{doc: doc, id: id, threshold: threshold}
}

// HandleScroll restyles the navbar for scroll offset y.
func (n *Navbar) HandleScroll(y int) {
	if y > n.threshold {
		n.doc.SetStyle(n.id, "background", "rgba(255, 255, 255, 0.98)")
		n.doc.SetStyle(n.id, "box-shadow", "0 2px 20px rgba(0, 0, 0, 0.1)")
		return
	}
	n.doc.SetStyle(n.id, "background", "rgba(255, 255, 255, 0.95)")
	n.doc.SetStyle(n.id, "box-shadow", "none")
}

// ContactForm validates contact messages. Nothing is sent anywhere.
type ContactForm struct {
	notifier Notifier
	limiter  interfaces.RateLimiter
	onReset  func()
}

// NewContactForm creates a form. limiter may be nil for no limit.
func NewContactForm(notifier Notifier, limiter interfaces.RateLimiter, onReset func()) *ContactForm {
	return &ContactForm{notifier: notifier, limiter: limiter, onReset: onReset}
}

// Submit reports whether the message was accepted.
func (f *ContactForm) Submit(name, email, message string) bool {
	if name == "" || email == "" || message == "" {
		f.notifier.Notify("Please fill in all fields", notification.KindError)
		return false
	}

	if f.limiter != nil && !f.limiter.Allow() {
		f.notifier.Notify("Please wait before sending another message", notification.KindError)
		return false
	}

	f.notifier.Notify("Message sent successfully!", notification.KindSuccess)
	if f.onReset != nil {
		f.onReset()
	}
	return true
}

// Newsletter handles newsletter signups.
type Newsletter struct {
	notifier Notifier
}

// NewNewsletter creates a signup handler.
func NewNewsletter(notifier Notifier) *Newsletter {
	return &Newsletter{notifier: notifier}
}

// Subscribe reports whether email looked valid.
func (n *Newsletter) Subscribe(email string) bool {
	if email != "" && strings.Contains(email, "@") {
		n.notifier.Notify("Thank you for subscribing!", notification.KindSuccess)
		return true
	}
	n.notifier.Notify("Please enter a valid email address", notification.KindError)
	return false
}
