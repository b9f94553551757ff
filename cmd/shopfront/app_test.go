package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Veraticus/shopfront/pkg/config"
	"github.com/Veraticus/shopfront/pkg/display"
	"github.com/Veraticus/shopfront/pkg/notification"
	"github.com/Veraticus/shopfront/pkg/testutil"
)

func newTestApp(t *testing.T, cfg *config.Config) (*Application, *testutil.ManualScheduler, *bytes.Buffer) {
	t.Helper()
	sched := testutil.NewManualScheduler()
	deps := buildDependencies(cfg, zerolog.Nop(), sched, nil, false)
	out := &bytes.Buffer{}
	return NewApplication(deps, out, ""), sched, out
}

func toasts(tree *display.Tree) []display.Element {
	var result []display.Element
	for _, el := range tree.Children() {
		if el.HasClass("notification") {
			result = append(result, el)
		}
	}
	return result
}

func TestNewDependencies(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Log.Level = "error"

	deps, err := NewDependencies(cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer deps.Close()

	if deps.Config != cfg {
		t.Error("expected config to be set")
	}
	if deps.Loop == nil {
		t.Error("expected event loop to be created")
	}
	if deps.Scheduler != deps.Loop {
		t.Error("expected the loop to be the scheduler")
	}
	if deps.Tree == nil || deps.Renderer == nil {
		t.Error("expected display to be created")
	}
	if deps.Notifier == nil {
		t.Error("expected notifier to be created")
	}
	if deps.Page == nil {
		t.Error("expected page to be created")
	}
}

func TestNewDependencies_BadLogFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Log.File = t.TempDir() // a directory cannot be opened as a log file

	if _, err := NewDependencies(cfg, nil); err == nil {
		t.Error("expected error for unusable log file")
	}
}

func TestApplication_ExecuteAdd(t *testing.T) {
	app, sched, _ := newTestApp(t, config.DefaultConfig())
	tree := app.deps.Tree

	app.Execute(Command{Name: "add", Number: 2})

	if app.deps.Page.Cart.Count() != 1 {
		t.Errorf("expected 1 item in cart, got %d", app.deps.Page.Cart.Count())
	}

	shown := toasts(tree)
	if len(shown) != 1 {
		t.Fatalf("expected 1 toast, got %d", len(shown))
	}
	if shown[0].Text != "Item added to cart!" || !shown[0].HasClass("success") {
		t.Errorf("unexpected toast %+v", shown[0])
	}

	sched.Advance(notification.DefaultTimings().Lifetime())
	if n := len(toasts(tree)); n != 0 {
		t.Errorf("expected toast to be removed, %d left", n)
	}
}

func TestApplication_ExecuteOutput(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
		want string
	}{
		{name: "search", cmd: Command{Name: "search", Text: "watch"}, want: "1 product(s): [Smart Watch]"},
		{name: "filter", cmd: Command{Name: "filter", Number: 50}, want: "2 product(s): [Laptop Stand USB-C Hub]"},
		{name: "menu", cmd: Command{Name: "menu"}, want: "menu open: true"},
		{name: "cart", cmd: Command{Name: "cart"}, want: "cart: 0 item(s)"},
		{name: "link unknown", cmd: Command{Name: "link", Text: "checkout"}, want: `no section "checkout"`},
		{name: "help", cmd: Command{Name: "help"}, want: "subscribe <email>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _, out := newTestApp(t, config.DefaultConfig())
			app.Execute(tt.cmd)
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("expected output to contain %q, got %q", tt.want, out.String())
			}
		})
	}
}

func TestApplication_ExecuteForms(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Contact.RateLimit.MaxMessages = 1

	app, _, _ := newTestApp(t, cfg)
	tree := app.deps.Tree

	app.Execute(Command{Name: "contact", Fields: []string{"Ann", "ann@example.com", "Hi"}})
	app.Execute(Command{Name: "contact", Fields: []string{"Ann", "ann@example.com", "Again"}})
	app.Execute(Command{Name: "subscribe", Text: "nobody"})

	want := []struct {
		text string
		kind string
	}{
		{"Message sent successfully!", "success"},
		{"Please wait before sending another message", "error"},
		{"Please enter a valid email address", "error"},
	}

	shown := toasts(tree)
	if len(shown) != len(want) {
		t.Fatalf("expected %d toasts, got %d", len(want), len(shown))
	}
	for i, w := range want {
		if shown[i].Text != w.text || !shown[i].HasClass(w.kind) {
			t.Errorf("toast %d: expected %q (%s), got %+v", i, w.text, w.kind, shown[i])
		}
	}
}

func TestApplication_ExecuteLink(t *testing.T) {
	app, sched, out := newTestApp(t, config.DefaultConfig())

	app.Execute(Command{Name: "link", Text: "about"})
	sched.Advance(app.deps.Config.Scroll.Debounce)

	if !app.deps.Page.Reveal.Revealed("about") {
		t.Error("expected linked section revealed")
	}
	if out.Len() != 0 {
		t.Errorf("expected no output for a known section, got %q", out.String())
	}
}

func TestApplication_ThemeFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Notification.Theme = notification.Theme{
		notification.KindSuccess: {Background: "#000000"},
	}

	app, _, _ := newTestApp(t, cfg)
	app.Execute(Command{Name: "notify", Kind: notification.KindSuccess, Text: "ok"})

	shown := toasts(app.deps.Tree)
	if len(shown) != 1 {
		t.Fatalf("expected 1 toast, got %d", len(shown))
	}
	if got := shown[0].Style["background"]; got != "#000000" {
		t.Errorf("expected overridden background, got %q", got)
	}
	if got := shown[0].Style["color"]; got != "white" {
		t.Errorf("expected default text colour, got %q", got)
	}
}

func TestApplication_Run(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Log.Level = "error"
	cfg.Notification.EnterDelay = time.Millisecond
	cfg.Notification.DisplayDuration = 5 * time.Millisecond
	cfg.Notification.ExitDuration = time.Millisecond

	deps, err := NewDependencies(cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer deps.Close()

	var created int
	deps.Tree.OnChange(func() {
		// Runs on the loop goroutine only.
		if n := len(toasts(deps.Tree)); n > created {
			created = n
		}
	})

	out := &bytes.Buffer{}
	app := NewApplication(deps, out, "")

	input := strings.NewReader("add\nbogus\n\ncart\n")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.Run(ctx, input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.Err() != nil {
		t.Fatal("Run did not finish before the deadline")
	}

	if created != 2 {
		t.Errorf("expected 2 toasts on screen at once, got %d", created)
	}
	if n := len(deps.Notifier.Active()); n != 0 {
		t.Errorf("expected all toasts to finish, %d active", n)
	}
	if !strings.Contains(out.String(), "cart: 1 item(s)") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestApplication_RunQuit(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Log.Level = "error"

	deps, err := NewDependencies(cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer deps.Close()

	app := NewApplication(deps, &bytes.Buffer{}, "")

	done := make(chan error, 1)
	go func() {
		done <- app.Run(context.Background(), strings.NewReader("quit\nadd\n"))
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after quit")
	}

	if app.deps.Page.Cart.Count() != 0 {
		t.Error("expected commands after quit to be ignored")
	}
}

func TestApplication_RunCancel(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Log.Level = "error"

	deps, err := NewDependencies(cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer deps.Close()

	app := NewApplication(deps, &bytes.Buffer{}, "")

	// A pipe that never closes keeps Run reading.
	reader, writer := io.Pipe()
	defer writer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- app.Run(ctx, reader)
	}()

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
