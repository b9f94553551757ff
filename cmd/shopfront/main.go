package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/Veraticus/shopfront/pkg/config"
)

func main() {
	var (
		configPath string
		logLevel   string
		quiet      bool
		help       bool
	)

	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&quiet, "quiet", false, "Do not draw toasts on the terminal")
	flag.BoolVar(&help, "help", false, "Show help message")
	flag.Parse()

	if help {
		printUsage()
		os.Exit(0)
	}

	// The path must be in place before Load resolves it.
	if configPath != "" {
		if err := os.Setenv("SHOPFRONT_CONFIG", configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error setting config path: %v\n", err)
			os.Exit(1)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if quiet {
		cfg.Quiet = true
	}

	deps, err := NewDependencies(cfg, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating dependencies: %v\n", err)
		os.Exit(1)
	}
	defer deps.Close()

	app := NewApplication(deps, os.Stdout, config.Path())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	deps.Logger.Info().Msg("shopfront started, type 'help' for commands")

	if err := app.Run(ctx, os.Stdin); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("shopfront - terminal storefront with toast notifications")
	fmt.Println()
	fmt.Println("Usage: shopfront [OPTIONS]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println(commandHelp)
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  SHOPFRONT_CONFIG            Path to config file")
	fmt.Println("  SHOPFRONT_LOG_LEVEL         Log level (default: info)")
	fmt.Println("  SHOPFRONT_LOG_FILE          Write JSON logs to this file")
	fmt.Println("  SHOPFRONT_QUIET             Do not draw toasts (true/false)")
	fmt.Println("  SHOPFRONT_DISPLAY_DURATION  How long a toast stays visible (default: 3s)")
	fmt.Println("  SHOPFRONT_SCROLL_DEBOUNCE   Scroll settle delay (default: 10ms)")
	fmt.Println()
	fmt.Println("Configuration file: ~/.config/shopfront/config.yaml")
}
