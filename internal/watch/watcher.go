// Package watch re-runs synchronization when Composer manifests change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is the quiet period that ends a burst of events.
const DefaultDebounce = 500 * time.Millisecond

// ComposerStateDir holds installed.json after composer install/update.
const ComposerStateDir = "vendor/composer"

// TriggerFiles are the file names whose changes start a pass.
var TriggerFiles = map[string]bool{
	"composer.json":  true,
	"composer.lock":  true,
	"installed.json": true,
}

// Watcher watches the project root and vendor/composer for manifest changes
// and coalesces bursts of events into single triggers.
type Watcher struct {
	watcher  *fsnotify.Watcher
	root     string
	debounce time.Duration
	logger   zerolog.Logger

	triggers chan struct{}
	errors   chan error
	done     chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
	running  bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period; non-positive values keep the default.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// New creates a Watcher for the project at root. It must be started with
// Start before it emits triggers.
func New(root string, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fw,
		root:     root,
		debounce: DefaultDebounce,
		logger:   zerolog.Nop(),
		triggers: make(chan struct{}, 1),
		errors:   make(chan error, 10),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start begins watching. vendor and vendor/composer are watched once they
// exist, so a first composer install is seen too.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return errors.New("watcher already running")
	}

	if err := w.watcher.Add(w.root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.root, err)
	}
	w.addStateDir()

	w.running = true
	w.wg.Add(1)
	go w.processEvents()

	return nil
}

func (w *Watcher) addStateDir() {
	for _, rel := range []string{"vendor", ComposerStateDir} {
		w.addDir(filepath.Join(w.root, filepath.FromSlash(rel)))
	}
}

func (w *Watcher) addDir(dir string) {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return
	}
	if err := w.watcher.Add(dir); err != nil {
		w.logger.Debug().Err(err).Str("dir", dir).Msg("directory not watched")
		return
	}
	w.logger.Debug().Str("dir", dir).Msg("watching directory")
}

// Stop stops watching and blocks until the event loop has exited.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return w.watcher.Close()
	}
	w.running = false
	w.mu.Unlock()

	close(w.done)
	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	w.wg.Wait()

	return nil
}

// Triggers emits once per debounced burst of relevant changes.
func (w *Watcher) Triggers() <-chan struct{} {
	return w.triggers
}

// Errors emits watcher errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// IsRunning reports whether the watcher has been started and not stopped.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.isStateDirCreated(event) {
				w.addDir(event.Name)
				if filepath.Base(event.Name) == "composer" {
					timer.Reset(w.debounce)
				}
				continue
			}
			if !Relevant(event) {
				continue
			}
			w.logger.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("manifest changed")
			timer.Reset(w.debounce)

		case <-timer.C:
			// the buffer holds one pending trigger, so a busy consumer sees one more pass
			select {
			case w.triggers <- struct{}{}:
			default:
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			case <-w.done:
				return
			}
		}
	}
}

func (w *Watcher) isStateDirCreated(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) {
		return false
	}
	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	return rel == "vendor" || rel == ComposerStateDir
}

// Relevant reports whether event touches a trigger file. Chmod-only events
// are ignored.
func Relevant(event fsnotify.Event) bool {
	if !TriggerFiles[filepath.Base(event.Name)] {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

// Run starts the watcher and calls fn on every trigger until ctx is done.
// Calls to fn never overlap. An error from fn is logged and watching
// continues.
func (w *Watcher) Run(ctx context.Context, fn func(context.Context) error) error {
	if err := w.Start(); err != nil {
		if !w.IsRunning() {
			w.watcher.Close()
		}
		return err
	}
	defer w.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.triggers:
			if err := fn(ctx); err != nil {
				w.logger.Error().Err(err).Msg("pass failed")
			}
		case err := <-w.errors:
			w.logger.Warn().Err(err).Msg("watcher error")
		}
	}
}
