// Package notification provides transient on-screen toast notifications.
package notification

import "time"

// Kind selects a toast's presentation.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Known reports whether k has a presentation of its own.
func (k Kind) Known() bool {
	switch k {
	case KindInfo, KindSuccess, KindError:
		return true
	}
	return false
}

// class returns the CSS class for k. An empty kind means info; unknown
// kinds keep their own name.
func (k Kind) class() string {
	if k == "" {
		return string(KindInfo)
	}
	return string(k)
}

// Phase is a toast's position in its lifecycle.
type Phase int

const (
	PhaseCreated Phase = iota
	PhaseEntering
	PhaseVisible
	PhaseExiting
	PhaseRemoved
)

func (p Phase) String() string {
	switch p {
	case PhaseCreated:
		return "created"
	case PhaseEntering:
		return "entering"
	case PhaseVisible:
		return "visible"
	case PhaseExiting:
		return "exiting"
	case PhaseRemoved:
		return "removed"
	}
	return "unknown"
}

// Notification is a copy of a toast's state at one point in time.
type Notification struct {
	ID      string
	Message string
	Kind    Kind
	Phase   Phase
	Created time.Time
}
