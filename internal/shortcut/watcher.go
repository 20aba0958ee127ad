package shortcut

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/dshills/termdesk/internal/logging"
)

// DefaultDebounce is the quiet period before a reload.
const DefaultDebounce = 200 * time.Millisecond

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.delay = d
	}
}

// WithWatchLogger sets the watcher logger.
func WithWatchLogger(l *clog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = l
	}
}

// WithExclude skips the given files on every reload.
func WithExclude(paths ...string) WatcherOption {
	return func(w *Watcher) {
		w.load = append(w.load, Exclude(paths...))
	}
}

// WithErrorHandler sets a callback for reload failures and skipped files.
func WithErrorHandler(fn func(error)) WatcherOption {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// Watcher reloads a shortcut directory when its files change.
type Watcher struct {
	dir      string
	fsw      *fsnotify.Watcher
	debounce *debouncer
	delay    time.Duration
	onChange func([]Shortcut)
	onError  func(error)
	logger   *clog.Logger
	load     []LoadOption
	options  *loadOptions

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewWatcher starts watching dir and its subdirectories. onChange receives
// the full reloaded catalogue; it runs on the watcher's goroutine.
func NewWatcher(dir string, onChange func([]Shortcut), opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		dir:      dir,
		fsw:      fsw,
		delay:    DefaultDebounce,
		onChange: onChange,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = logging.Component(w.logger, "shortcut-watcher")
	w.options = newLoadOptions(w.load)
	w.debounce = newDebouncer(w.delay, w.reload)

	if err := w.addTree(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// addTree watches root and every directory below it.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "err", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
		return
	}

	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addTree(ev.Name); err != nil {
				w.logger.Warn("watch new directory", "path", ev.Name, "err", err)
			}
			w.debounce.Call()
			return
		}
	}

	if w.options.excluded(ev.Name) {
		return
	}

	// A removed or renamed path may have been a directory of shortcuts.
	if Supported(ev.Name) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
		w.logger.Debug("change", "path", ev.Name, "op", ev.Op.String())
		w.debounce.Call()
	}
}

func (w *Watcher) reload() {
	select {
	case <-w.done:
		return
	default:
	}

	shortcuts, skipped, err := loadDir(w.dir, w.options)
	if err != nil {
		w.logger.Warn("reload failed", "err", err)
		w.report(err)
		return
	}
	if skipped != nil {
		w.logger.Warn("reload skipped files", "err", skipped)
		w.report(skipped)
	}

	w.logger.Info("reloaded", "shortcuts", len(shortcuts))
	if w.onChange != nil {
		w.onChange(shortcuts)
	}
}

func (w *Watcher) report(err error) {
	if w.onError != nil {
		w.onError(err)
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		w.debounce.Cancel()
		err = w.fsw.Close()
		w.wg.Wait()
	})
	if errors.Is(err, fsnotify.ErrClosed) {
		return nil
	}
	return err
}
