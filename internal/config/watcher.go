// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the config whenever its file changes and calls onChange
// with the new value. Editors tend to write via rename, so the parent
// directory is watched rather than the file itself. Returns a stop
// function that releases the watcher.
func Watch(onChange func(*Config)) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	path := Path()
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Name != path {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if cfg, err := Load(); err == nil {
					onChange(cfg)
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Watch errors are non-fatal; keep the last good config.
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		watcher.Close()
	}, nil
}
