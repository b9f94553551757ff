package display

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/creack/pty"
)

const (
	defaultColumns = 80
	pixelsPerRow   = 20
	pixelsPerCol   = 10
	labelPadding   = "  "
)

// Renderer draws the topmost on-screen overlay of a Tree into a terminal.
// An overlay is an attached element with "position: fixed"; it is on screen
// unless its transform moves it out of the viewport.
type Renderer struct {
	mu      sync.Mutex
	tree    *Tree
	writer  io.Writer
	enabled bool

	// drawnRow is the terminal row we last painted, 0 if none.
	drawnRow int
}

// NewRenderer creates a renderer for tree writing to writer.
func NewRenderer(tree *Tree, writer io.Writer, enabled bool) *Renderer {
	return &Renderer{
		tree:    tree,
		writer:  writer,
		enabled: enabled,
	}
}

// Attach redraws the terminal on every tree change.
func (r *Renderer) Attach() {
	r.tree.OnChange(func() {
		_ = r.Refresh() // Best effort
	})
}

// Refresh repaints the overlay line.
func (r *Renderer) Refresh() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.enabled || r.writer == nil {
		return nil
	}

	var sb strings.Builder

	top, ok := topOverlay(r.tree.Children())
	row := 0
	if ok {
		row = rowFor(top.Style["top"])
	}

	if r.drawnRow != 0 {
		// \0337 DECSC, move, clear line, \0338 DECRC
		fmt.Fprintf(&sb, "\0337\033[%d;1H\033[2K\0338", r.drawnRow)
		r.drawnRow = 0
	}

	if ok {
		label := labelPadding + top.Text + labelPadding
		col := r.columns() - utf8.RuneCountInString(label) - parsePixels(top.Style["right"])/pixelsPerCol + 1
		if col < 1 {
			col = 1
		}
		fmt.Fprintf(&sb, "\0337\033[%d;%dH%s%s%s\033[0m\0338",
			row, col,
			ansiBackground(top.Style["background"]),
			ansiForeground(top.Style["color"]),
			label)
		r.drawnRow = row
	}

	if sb.Len() == 0 {
		return nil
	}
	_, err := io.WriteString(r.writer, sb.String())
	return err
}

// Clear removes anything the renderer painted.
func (r *Renderer) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.enabled || r.writer == nil || r.drawnRow == 0 {
		return nil
	}

	row := r.drawnRow
	r.drawnRow = 0
	_, err := fmt.Fprintf(r.writer, "\0337\033[%d;1H\033[2K\0338", row)
	return err
}

func (r *Renderer) columns() int {
	f, ok := r.writer.(*os.File)
	if !ok {
		return defaultColumns
	}
	size, err := pty.GetsizeFull(f)
	if err != nil || size.Cols == 0 {
		return defaultColumns
	}
	return int(size.Cols)
}

// topOverlay returns the last attached overlay that is on screen.
func topOverlay(children []Element) (Element, bool) {
	for i := len(children) - 1; i >= 0; i-- {
		el := children[i]
		if el.Style["position"] != "fixed" {
			continue
		}
		if isOffScreen(el.Style["transform"]) {
			continue
		}
		return el, true
	}
	return Element{}, false
}

func isOffScreen(transform string) bool {
	return strings.Contains(transform, "100%")
}

// rowFor maps a CSS top offset to a 1-based terminal row.
func rowFor(top string) int {
	return parsePixels(top)/pixelsPerRow + 1
}

func parsePixels(v string) int {
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(v), "px"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

var namedForeground = map[string]string{
	"white": "\033[97m",
	"black": "\033[30m",
}

func ansiForeground(color string) string {
	if seq, ok := namedForeground[strings.ToLower(color)]; ok {
		return seq
	}
	if r, g, b, ok := parseHex(color); ok {
		return fmt.Sprintf("\033[38;2;%d;%d;%dm", r, g, b)
	}
	return ""
}

func ansiBackground(color string) string {
	if r, g, b, ok := parseHex(color); ok {
		return fmt.Sprintf("\033[48;2;%d;%d;%dm", r, g, b)
	}
	return ""
}

func parseHex(color string) (r, g, b uint8, ok bool) {
	hex := strings.TrimPrefix(strings.TrimSpace(color), "#")
	if len(hex) != 6 || len(hex) == len(color) {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}
