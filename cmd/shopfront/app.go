package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/Veraticus/shopfront/pkg/config"
	"github.com/Veraticus/shopfront/pkg/display"
	"github.com/Veraticus/shopfront/pkg/eventloop"
	"github.com/Veraticus/shopfront/pkg/interfaces"
	"github.com/Veraticus/shopfront/pkg/logging"
	"github.com/Veraticus/shopfront/pkg/notification"
	"github.com/Veraticus/shopfront/pkg/storefront"
)

// drainPoll is how often Run checks for toasts still on screen at EOF.
const drainPoll = 50 * time.Millisecond

// Dependencies holds all the dependencies for the application
type Dependencies struct {
	Config    *config.Config
	Logger    zerolog.Logger
	Loop      *eventloop.Loop
	Scheduler interfaces.Scheduler
	Tree      *display.Tree
	Renderer  *display.Renderer
	Notifier  *notification.Notifier
	Page      *storefront.Page

	logCloser io.Closer
}

// NewDependencies creates all dependencies with the given configuration.
// Toasts are drawn on term when it is a terminal and quiet mode is off.
func NewDependencies(cfg *config.Config, term *os.File) (*Dependencies, error) {
	log, closer, err := logging.Open(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	loop := eventloop.New(log)

	render := term != nil && !cfg.Quiet && isatty(term.Fd())
	var out io.Writer
	if term != nil {
		out = term
	}

	deps := buildDependencies(cfg, log, loop, out, render)
	deps.Loop = loop
	deps.logCloser = closer
	return deps, nil
}

// buildDependencies wires the page on top of any scheduler.
func buildDependencies(cfg *config.Config, log zerolog.Logger, sched interfaces.Scheduler, out io.Writer, render bool) *Dependencies {
	deps := &Dependencies{
		Config:    cfg,
		Logger:    log,
		Scheduler: sched,
		Tree:      display.NewTree(),
	}

	deps.Renderer = display.NewRenderer(deps.Tree, out, render)
	deps.Renderer.Attach()

	deps.Notifier = notification.NewNotifier(deps.Tree, sched, cfg.Notification.Timings)
	deps.Notifier.SetTheme(cfg.Theme())
	deps.Notifier.SetLogger(log)
	deps.Notifier.SetPhaseReporter(notification.NewLogReporter(log))

	// max_messages 0 turns the contact form limit off.
	var limiter interfaces.RateLimiter
	if rl := cfg.Contact.RateLimit; rl.MaxMessages > 0 {
		limiter = storefront.NewWindowLimiter(rl.MaxMessages, rl.Window)
	}

	deps.Page = storefront.NewPage(deps.Tree, sched, deps.Notifier, limiter, storefront.Options{
		NavbarThreshold: cfg.Scroll.NavbarThreshold,
		ViewportHeight:  cfg.Scroll.ViewportHeight,
		ScrollDebounce:  cfg.Scroll.Debounce,
	})

	return deps
}

// Close cleans up all dependencies
func (d *Dependencies) Close() {
	if d.Renderer != nil {
		_ = d.Renderer.Clear() // Best effort
	}

	if d.Loop != nil {
		d.Loop.Close()
	}

	if d.logCloser != nil {
		_ = d.logCloser.Close()
		d.logCloser = nil
	}
}

// Application represents the main application
type Application struct {
	deps       *Dependencies
	out        io.Writer
	configPath string
}

// NewApplication creates a new application with the given dependencies.
// Command output goes to out. A non-empty configPath is watched for changes.
func NewApplication(deps *Dependencies, out io.Writer, configPath string) *Application {
	return &Application{
		deps:       deps,
		out:        out,
		configPath: configPath,
	}
}

// Run reads commands from in until quit, EOF or ctx cancellation. At EOF it
// waits for toasts still on screen to finish.
func (a *Application) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		_ = a.deps.Loop.Run(ctx)
	}()

	if a.configPath != "" {
		if _, err := os.Stat(a.configPath); err == nil {
			go a.watchConfig(ctx)
		}
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	err := a.readLoop(ctx, lines)

	cancel()
	<-loopDone
	return err
}

func (a *Application) readLoop(ctx context.Context, lines <-chan string) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				a.drain(ctx)
				return nil
			}
			cmd, err := ParseCommand(line)
			if err != nil {
				a.deps.Loop.Post(func() { a.deps.Notifier.Error(err.Error()) })
				continue
			}
			if cmd.Name == "quit" {
				return nil
			}
			if cmd.Name == "" {
				continue
			}
			a.deps.Loop.Post(func() { a.Execute(cmd) })
		}
	}
}

// drain waits until no toast is active or ctx ends.
func (a *Application) drain(ctx context.Context) {
	ticker := time.NewTicker(drainPoll)
	defer ticker.Stop()

	for {
		// Let queued commands create their toasts first.
		flushed := make(chan struct{})
		if !a.deps.Loop.Post(func() { close(flushed) }) {
			return
		}
		select {
		case <-flushed:
		case <-ctx.Done():
			return
		}

		if len(a.deps.Notifier.Active()) == 0 {
			return
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

func (a *Application) watchConfig(ctx context.Context) {
	err := config.Watch(ctx, a.configPath, a.deps.Loop, a.deps.Logger, func(cfg *config.Config) {
		a.deps.Notifier.SetTheme(cfg.Theme())
	})
	if err != nil {
		a.deps.Logger.Warn().Err(err).Msg("config watching disabled")
	}
}

// Execute runs one command. It must be called on the scheduler's goroutine.
func (a *Application) Execute(cmd Command) {
	page := a.deps.Page
	log := a.deps.Logger.With().Str("command", cmd.Name).Logger()

	switch cmd.Name {
	case "add":
		count := page.AddToCart(int(cmd.Number) - 1)
		log.Debug().Int("count", count).Msg("cart updated")
	case "menu":
		open := page.Menu.Toggle()
		fmt.Fprintf(a.out, "menu open: %v\n", open)
	case "close":
		page.Menu.Close()
	case "link":
		if !page.FollowLink(cmd.Text) {
			fmt.Fprintf(a.out, "no section %q\n", cmd.Text)
		}
	case "scroll":
		page.Scroll(int(cmd.Number))
	case "search":
		shown := page.Catalog.Search(cmd.Text)
		fmt.Fprintf(a.out, "%d product(s): %v\n", shown, page.Catalog.Visible())
	case "filter":
		shown := page.Catalog.FilterByPrice(cmd.Number)
		fmt.Fprintf(a.out, "%d product(s): %v\n", shown, page.Catalog.Visible())
	case "contact":
		page.Contact.Submit(cmd.Fields[0], cmd.Fields[1], cmd.Fields[2])
	case "subscribe":
		page.Newsletter.Subscribe(cmd.Text)
	case "notify":
		a.deps.Notifier.Notify(cmd.Text, cmd.Kind)
	case "cart":
		fmt.Fprintf(a.out, "cart: %d item(s)\n", page.Cart.Count())
	case "help":
		fmt.Fprintln(a.out, commandHelp)
	default:
		log.Warn().Msg("unhandled command")
	}
}
