// Package display provides an in-memory display tree and a terminal renderer for it.
package display

import (
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Veraticus/shopfront/pkg/interfaces"
)

// Element is a snapshot of a node in the tree.
type Element struct {
	ID       string
	Classes  []string
	Text     string
	Style    map[string]string
	Attached bool
}

// HasClass reports whether the element carries class.
func (e Element) HasClass(class string) bool {
	return slices.Contains(e.Classes, class)
}

type node struct {
	id      string
	classes []string
	text    string
	style   map[string]string
}

func (n *node) snapshot(attached bool) Element {
	style := make(map[string]string, len(n.style))
	for k, v := range n.style {
		style[k] = v
	}
	return Element{
		ID:       n.id,
		Classes:  slices.Clone(n.classes),
		Text:     n.text,
		Style:    style,
		Attached: attached,
	}
}

// Tree is a flat display tree: every attached element is a child of the
// body, kept in append order.
type Tree struct {
	mu       sync.Mutex
	nodes    map[string]*node
	children []string

	listeners []func()
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{
		nodes: make(map[string]*node),
	}
}

// OnChange registers fn to be called after every mutation.
// Listeners run outside the tree lock.
func (t *Tree) OnChange(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, fn)
}

// CreateElement creates a detached element and returns its id.
// class may hold several space separated class names.
func (t *Tree) CreateElement(class, text string) string {
	id := uuid.NewString()

	t.mu.Lock()
	t.nodes[id] = &node{
		id:      id,
		classes: strings.Fields(class),
		text:    text,
		style:   make(map[string]string),
	}
	t.mu.Unlock()

	return id
}

// AppendChild attaches the element after all current children.
// Appending an attached element moves it to the end.
func (t *Tree) AppendChild(id string) {
	t.mu.Lock()
	if _, ok := t.nodes[id]; !ok {
		t.mu.Unlock()
		return
	}
	t.children = slices.DeleteFunc(t.children, func(c string) bool { return c == id })
	t.children = append(t.children, id)
	t.mu.Unlock()

	t.notify()
}

// RemoveChild detaches and discards the element. It reports false if the
// element was not attached, in which case nothing changes.
func (t *Tree) RemoveChild(id string) bool {
	t.mu.Lock()
	idx := slices.Index(t.children, id)
	if idx < 0 {
		t.mu.Unlock()
		return false
	}
	t.children = slices.Delete(t.children, idx, idx+1)
	delete(t.nodes, id)
	t.mu.Unlock()

	t.notify()
	return true
}

// SetStyle sets one style property on the element.
func (t *Tree) SetStyle(id, property, value string) {
	t.mu.Lock()
	n, ok := t.nodes[id]
	if !ok {
		t.mu.Unlock()
		return
	}
	n.style[property] = value
	t.mu.Unlock()

	t.notify()
}

// SetText replaces the element's text content.
func (t *Tree) SetText(id, text string) {
	t.mu.Lock()
	n, ok := t.nodes[id]
	if !ok {
		t.mu.Unlock()
		return
	}
	n.text = text
	t.mu.Unlock()

	t.notify()
}

// SetClass adds or removes a class on the element.
func (t *Tree) SetClass(id, class string, on bool) {
	t.mu.Lock()
	n, ok := t.nodes[id]
	if !ok {
		t.mu.Unlock()
		return
	}
	has := slices.Contains(n.classes, class)
	switch {
	case on && !has:
		n.classes = append(n.classes, class)
	case !on && has:
		n.classes = slices.DeleteFunc(n.classes, func(c string) bool { return c == class })
	default:
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	t.notify()
}

// Style returns one style property of the element.
func (t *Tree) Style(id, property string) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if n, ok := t.nodes[id]; ok {
		return n.style[property]
	}
	return ""
}

// Lookup returns a snapshot of a live element. Removed elements are
// discarded and no longer found.
func (t *Tree) Lookup(id string) (Element, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	n, ok := t.nodes[id]
	if !ok {
		return Element{}, false
	}
	return n.snapshot(slices.Contains(t.children, id)), true
}

// Children returns snapshots of the attached elements in append order.
func (t *Tree) Children() []Element {
	t.mu.Lock()
	defer t.mu.Unlock()

	result := make([]Element, 0, len(t.children))
	for _, id := range t.children {
		result = append(result, t.nodes[id].snapshot(true))
	}
	return result
}

func (t *Tree) notify() {
	t.mu.Lock()
	listeners := slices.Clone(t.listeners)
	t.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// Ensure Tree implements Document
var _ interfaces.Document = (*Tree)(nil)
