// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package exercise

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchOptions configures Watch.
type WatchOptions struct {
	// Debounce is how long to wait for more changes before re-running.
	// Default: 200ms
	Debounce time.Duration

	// RunOnStart analyzes once before the first change.
	RunOnStart bool
}

// WatchHandler receives the outcome of every run.
type WatchHandler func(BatchResult)

// Watch re-analyzes desc every time its submission file changes.
//
// Description:
//
//	The submission's directory is watched rather than the file so that
//	editors that save by rename are still seen. Events for other files,
//	including the analysis.json written by each run, are ignored. Every
//	run uses a fresh Dispatcher.
//
// Inputs:
//
//	ctx    - Watching stops when ctx is canceled.
//	reg    - Registry to resolve the slug against. Nil means Default().
//	desc   - Submission to watch.
//	p      - Pipeline. Nil means NewPipeline().
//	opts   - Debounce and start behavior.
//	handle - Called synchronously after each run. May be nil.
//
// Outputs:
//
//	error - Nil once ctx is canceled. Non-nil if the slug is unknown or
//	        the watcher could not be set up.
func Watch(ctx context.Context, reg *Registry, desc Descriptor, p *Pipeline, opts WatchOptions, handle WatchHandler) error {
	if reg == nil {
		reg = Default()
	}
	if _, err := reg.Lookup(desc.Slug); err != nil {
		return err
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 200 * time.Millisecond
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(desc.InputPath)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	target := filepath.Base(desc.InputPath)
	run := func() {
		result, path, err := Run(ctx, reg, desc, p)
		if err != nil {
			slog.Warn("Watch run failed", slog.String("exercise", desc.Slug), slog.String("error", err.Error()))
		}
		if handle != nil {
			handle(BatchResult{Descriptor: desc, Result: result, Path: path, Err: err})
		}
	}

	if opts.RunOnStart {
		run()
	}

	var timer *time.Timer
	var timerC <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(opts.Debounce)
				timerC = timer.C
			} else {
				timer.Reset(opts.Debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			run()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", slog.String("error", err.Error()))
		}
	}
}
