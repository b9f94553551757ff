// Package interfaces defines the core interfaces used throughout the application.
package interfaces

import "time"

// Display mutates the page's display tree.
// All operations are synchronous and never fail; unknown ids are ignored.
type Display interface {
	CreateElement(class, text string) string
	AppendChild(id string)
	// RemoveChild detaches the element and reports whether it was attached.
	RemoveChild(id string) bool
	SetStyle(id, property, value string)
}

// Document is a Display that can also change text and class lists.
type Document interface {
	Display
	SetText(id, text string)
	SetClass(id, class string, on bool)
}

// Timer is a pending scheduled callback.
type Timer interface {
	// Stop prevents the callback from running. It returns false if the
	// callback already ran or the timer was already stopped.
	Stop() bool
}

// Scheduler runs callbacks after a delay. A callback never runs
// synchronously inside AfterFunc, even with a zero delay.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// PhaseReporter observes toast lifecycle transitions.
type PhaseReporter interface {
	ReportPhase(id, kind, phase string)
}

// RateLimiter limits how often an action may happen.
type RateLimiter interface {
	Allow() bool
	Reset()
}
