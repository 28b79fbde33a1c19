// Package watcher notices edits to a single file, the stitch config, so the
// running TUI can pick up new voice and motion settings without a restart.
//
// fsnotify is used on the file's directory, which survives editors that
// save by renaming a temp file over the original. When the directory cannot
// be watched (it does not exist yet, or inotify is exhausted) or
// STITCH_FORCE_POLL is set, the watcher polls mtime and size instead.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultPollInterval is how often the polling fallback stats the file.
const DefaultPollInterval = 2 * time.Second

// EnvForcePoll forces polling mode when set to a true value.
const EnvForcePoll = "STITCH_FORCE_POLL"

var (
	ErrFileRemoved    = errors.New("watched file was removed")
	ErrPermission     = errors.New("permission denied")
	ErrAlreadyStarted = errors.New("watcher already started")
)

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounceDuration sets how long a burst of events is coalesced.
func WithDebounceDuration(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithPollInterval sets the stat interval used in polling mode.
func WithPollInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.interval = d }
}

// WithOnChange registers a callback run after each debounced change.
func WithOnChange(fn func()) WatcherOption {
	return func(w *Watcher) { w.onChange = fn }
}

// WithOnError registers a callback for removal, permission and fsnotify
// errors.
func WithOnError(fn func(error)) WatcherOption {
	return func(w *Watcher) { w.onError = fn }
}

// WithForcePoll skips fsnotify entirely.
func WithForcePoll(force bool) WatcherOption {
	return func(w *Watcher) { w.forcePoll = force }
}

// stamp is what polling compares between ticks.
type stamp struct {
	mod  time.Time
	size int64
}

func (s stamp) exists() bool { return !s.mod.IsZero() }

// Watcher reports changes to one file.
type Watcher struct {
	path      string
	debounce  time.Duration
	interval  time.Duration
	onChange  func()
	onError   func(error)
	forcePoll bool

	mu      sync.RWMutex
	fsw     *fsnotify.Watcher
	polling bool
	last    stamp
	ctx     context.Context
	cancel  context.CancelFunc
	started bool

	deb     *Debouncer
	changed chan struct{}
}

// NewWatcher prepares a watcher for path. Nothing is watched until Start.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path:     abs,
		debounce: DefaultDebounceDuration,
		interval: DefaultPollInterval,
		onChange: func() {},
		onError:  func(error) {},
		changed:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.deb = NewDebouncer(w.debounce)
	return w, nil
}

// Start begins watching. A missing file is not an error: its first save is
// reported as a change.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return ErrAlreadyStarted
	}

	st, err := statFile(w.path)
	if err != nil && os.IsPermission(err) {
		return ErrPermission
	}
	w.last = st

	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.polling = w.forcePoll || envBool(EnvForcePoll) || !w.startNotifyLocked()
	if w.polling {
		go w.poll(w.ctx)
	}
	w.started = true
	return nil
}

// startNotifyLocked watches the parent directory with fsnotify and reports
// whether that worked.
func (w *Watcher) startNotifyLocked() bool {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return false
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return false
	}
	w.fsw = fsw
	go w.notify(w.ctx, fsw.Events, fsw.Errors)
	return true
}

// Stop ends watching. Changed stays open so a blocked tea.Cmd does not spin
// on a closed channel; select on Done to stop waiting.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.started {
		return
	}
	w.cancel()
	if w.fsw != nil {
		w.fsw.Close()
		w.fsw = nil
	}
	w.deb.Cancel()
	w.started = false
}

// IsPolling reports whether the polling fallback is active.
func (w *Watcher) IsPolling() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.polling
}

// IsStarted reports whether Start has run without a matching Stop.
func (w *Watcher) IsStarted() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.started
}

// Changed receives once per debounced change. Sends never block, so bursts
// while nobody is listening collapse into one pending signal.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changed
}

// Path is the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Done is closed by Stop. It is nil before the first Start.
func (w *Watcher) Done() <-chan struct{} {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.ctx == nil {
		return nil
	}
	return w.ctx.Done()
}

// PollInterval is the stat interval used in polling mode.
func (w *Watcher) PollInterval() time.Duration {
	return w.interval
}

func envBool(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}

func statFile(path string) (stamp, error) {
	info, err := os.Stat(path)
	if err != nil {
		return stamp{}, err
	}
	return stamp{mod: info.ModTime(), size: info.Size()}, nil
}

// notify filters directory events down to the watched file.
func (w *Watcher) notify(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) {
	name := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != name {
				continue
			}
			if ev.Has(fsnotify.Remove) {
				w.onError(ErrFileRemoved)
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				w.deb.Trigger(w.fire)
			}
		case err, ok := <-errs:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

// poll compares stamps every interval.
func (w *Watcher) poll(ctx context.Context) {
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}

		st, err := statFile(w.path)
		w.mu.Lock()
		prev := w.last
		if err == nil {
			w.last = st
		}
		w.mu.Unlock()

		switch {
		case err == nil:
			if st.mod.After(prev.mod) || st.size != prev.size {
				w.deb.Trigger(w.fire)
			}
		case os.IsNotExist(err):
			if prev.exists() {
				w.onError(ErrFileRemoved)
			}
		case os.IsPermission(err):
			w.onError(ErrPermission)
		default:
			w.onError(err)
		}
	}
}

// fire runs the change callback and signals Changed, unless Stop won the
// race with the debounce timer.
func (w *Watcher) fire() {
	if !w.IsStarted() {
		return
	}
	w.onChange()
	select {
	case w.changed <- struct{}{}:
	default:
	}
}
