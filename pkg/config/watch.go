package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/Veraticus/shopfront/pkg/debounce"
	"github.com/Veraticus/shopfront/pkg/interfaces"
)

// reloadDelay absorbs the burst of events editors produce for one save.
const reloadDelay = 250 * time.Millisecond

// Watch reloads the config file at path whenever it changes and passes the
// new configuration to onChange. Invalid files are logged and skipped.
// Callbacks run on sched. Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, path string, sched interfaces.Scheduler, log zerolog.Logger, onChange func(*Config)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = w.Close() }()

	// Watch the directory so editors that replace the file are seen.
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	reload := debounce.WrapFunc(sched, reloadDelay, func() {
		cfg, err := LoadFrom(path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("config reload failed")
			return
		}
		log.Info().Str("path", path).Msg("config reloaded")
		onChange(cfg)
	})

	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				reload()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("config watcher error")
		}
	}
}
