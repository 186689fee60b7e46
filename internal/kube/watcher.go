package kube

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lensdock/injectable"
	"github.com/lensdock/injectable/internal/config"
)

// Watcher monitors the cluster file and signals when it changed.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	debounce  time.Duration
	onChange  chan struct{}
	done      chan struct{}
}

// NewWatcher creates a watcher for path. Nothing is watched until Start.
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		path:      filepath.Clean(path),
		debounce:  debounce,
		onChange:  make(chan struct{}, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching the directory of the cluster file. Editors replace
// files instead of writing them, so the directory is watched rather than the
// file.
func (w *Watcher) Start() (<-chan struct{}, error) {
	dir := filepath.Dir(w.path)
	if err := w.fsWatcher.Add(dir); err != nil {
		return nil, fmt.Errorf("watching directory %s: %w", dir, err)
	}

	go w.loop()

	return w.onChange, nil
}

// Changes returns the notification channel. It is nil for a watcher that
// watches nothing.
func (w *Watcher) Changes() <-chan struct{} {
	if w == nil || w.fsWatcher == nil {
		return nil
	}
	return w.onChange
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	if w.fsWatcher == nil {
		return nil
	}
	close(w.done)
	return w.fsWatcher.Close()
}

func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		pending bool
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.isRelevantEvent(event) {
				continue
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			pending = true

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			if pending {
				// drop the signal when one is already queued
				select {
				case w.onChange <- struct{}{}:
				default:
				}
				pending = false
			}

		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	return filepath.Clean(event.Name) == w.path
}

// WatcherInjectable starts watching the configured cluster file. Starting a
// goroutine on the host file system is a side effect; the watcher is stopped
// when the container is disposed.
var WatcherInjectable = injectable.Define("cluster-file-watcher", func(ctx *injectable.ResolveCtx) (*Watcher, error) {
	cfg, err := injectable.Inject(ctx, config.StateInjectable)
	if err != nil {
		return nil, err
	}
	current := cfg.Peek()
	if current.ClusterFile == "" {
		return &Watcher{}, nil
	}

	w, err := NewWatcher(current.ClusterFile, current.WatchDebounce)
	if err != nil {
		return nil, err
	}
	if _, err := w.Start(); err != nil {
		_ = w.fsWatcher.Close()
		return nil, err
	}
	ctx.OnCleanup(w.Stop)
	return w, nil
}, injectable.CausesSideEffects())
