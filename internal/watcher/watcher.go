package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/formulary/internal/logging"
)

// DefaultDebounce is the quiet period before an event is delivered.
const DefaultDebounce = 100 * time.Millisecond

// Config configures a Watcher.
type Config struct {
	// Debounce is the quiet period used to coalesce events. Zero delivers
	// every event immediately.
	Debounce time.Duration
	// Logger receives fsnotify errors.
	Logger *logging.Logger
}

// Option configures a Watcher.
type Option func(*Config)

// WithDebounce sets the debounce period.
func WithDebounce(d time.Duration) Option {
	return func(c *Config) {
		if d >= 0 {
			c.Debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// Watcher watches a set of files.
type Watcher struct {
	mu sync.Mutex

	fsw    *fsnotify.Watcher
	config Config

	// files are absolute file paths; dirs counts watched files per directory.
	files map[string]bool
	dirs  map[string]int

	handlers []Handler

	started bool
	closed  bool
	closeCh chan struct{}
	done    chan struct{}
}

// New creates a watcher. Call Add for each file and Start to begin
// delivering events.
func New(opts ...Option) (*Watcher, error) {
	config := Config{
		Debounce: DefaultDebounce,
		Logger:   logging.Null,
	}
	for _, opt := range opts {
		opt(&config)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	return &Watcher{
		fsw:     fsw,
		config:  config,
		files:   make(map[string]bool),
		dirs:    make(map[string]int),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}, nil
}

// Add starts watching a file. Adding a watched file again is a no-op.
func (w *Watcher) Add(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrPathNotExist, path)
		}
		return err
	}
	if w.files[absPath] {
		return nil
	}

	dir := filepath.Dir(absPath)
	if w.dirs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	w.dirs[dir]++
	w.files[absPath] = true
	return nil
}

// Remove stops watching a file.
func (w *Watcher) Remove(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if !w.files[absPath] {
		return ErrNotWatching
	}
	delete(w.files, absPath)

	dir := filepath.Dir(absPath)
	w.dirs[dir]--
	if w.dirs[dir] == 0 {
		delete(w.dirs, dir)
		return w.fsw.Remove(dir)
	}
	return nil
}

// Files returns the watched files, sorted.
func (w *Watcher) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	files := make([]string, 0, len(w.files))
	for f := range w.files {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// OnChange registers a handler for file events.
func (w *Watcher) OnChange(h Handler) {
	if h == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, h)
}

// Start begins delivering events in a background goroutine. The watcher
// closes itself when ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if w.started {
		return ErrAlreadyStarted
	}
	w.started = true

	go w.loop(ctx)
	return nil
}

// Done is closed when the event loop has stopped.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

// Close stops the watcher and waits for the event loop to exit.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	started := w.started
	w.mu.Unlock()

	if started {
		<-w.done
	} else {
		close(w.done)
	}
	return w.fsw.Close()
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)

	pending := make(map[string]Event)
	flush := time.NewTimer(time.Hour)
	flush.Stop()
	defer flush.Stop()

	for {
		select {
		case <-w.closeCh:
			return

		case <-ctx.Done():
			go w.Close()
			return

		case fsEvent, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			ev, ok := w.convert(fsEvent)
			if !ok {
				continue
			}
			if w.config.Debounce == 0 {
				w.dispatch(ev)
				continue
			}
			if prev, ok := pending[ev.Path]; ok {
				ev.Op |= prev.Op
			}
			pending[ev.Path] = ev
			flush.Reset(w.config.Debounce)

		case <-flush.C:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			for _, p := range paths {
				w.dispatch(pending[p])
				delete(pending, p)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.config.Logger.Warn("watch error: %v", err)
		}
	}
}

func (w *Watcher) convert(fsEvent fsnotify.Event) (Event, bool) {
	op := convertOp(fsEvent.Op)
	if op == 0 {
		return Event{}, false
	}

	absPath, err := filepath.Abs(fsEvent.Name)
	if err != nil {
		return Event{}, false
	}

	w.mu.Lock()
	watched := w.files[absPath]
	w.mu.Unlock()
	if !watched {
		return Event{}, false
	}
	return Event{Path: absPath, Op: op, Time: time.Now()}, true
}

func (w *Watcher) dispatch(ev Event) {
	w.mu.Lock()
	handlers := make([]Handler, len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.Unlock()

	for _, h := range handlers {
		h(ev)
	}
}
