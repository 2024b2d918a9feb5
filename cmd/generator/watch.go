package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
)

// Watch runs the script at path once and again after every change until
// ctx is done. Script and plan errors are logged and do not stop the
// watch. The parent directory is watched so that editors replacing the
// file on save are still seen.
func (a *App) Watch(ctx context.Context, path string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	a.rerun(ctx, path)
	a.log.Info("watching", "script", path)

	return a.watchLoop(ctx, w.Events, w.Errors, abs, func() { a.rerun(ctx, path) })
}

// watchLoop calls fire once per burst of events touching target. A burst
// ends when no event arrives for the configured debounce interval. fire
// always runs on the loop's goroutine, so reruns never overlap.
func (a *App) watchLoop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, target string, fire func()) error {
	debounced := debounce.New(a.cfg.WatchDebounce)
	settled := make(chan struct{}, 1)
	signal := func() {
		select {
		case settled <- struct{}{}:
		default:
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			debounced(signal)

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			a.log.Warn("watch", "err", err)

		case <-settled:
			fire()
		}
	}
}

// rerun evaluates and runs the script, logging instead of returning errors.
func (a *App) rerun(ctx context.Context, path string) {
	if err := a.Script(ctx, path); err != nil {
		a.log.Error("run failed", "script", path, "err", err)
	}
}
