package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	vetErrors "github.com/Aman-CERP/logvet/internal/errors"
	"github.com/Aman-CERP/logvet/internal/logging"
	"github.com/Aman-CERP/logvet/internal/scanner"
)

// Operation represents a file system operation type.
type Operation int

const (
	// OpCreate indicates a new file was created.
	OpCreate Operation = iota
	// OpModify indicates an existing file was written to.
	OpModify
	// OpDelete indicates a file was removed or renamed away.
	OpDelete
)

// String returns a human-readable representation of the operation.
func (op Operation) String() string {
	switch op {
	case OpCreate:
		return "CREATE"
	case OpModify:
		return "MODIFY"
	case OpDelete:
		return "DELETE"
	default:
		return "UNKNOWN"
	}
}

// FileEvent represents a file system event.
type FileEvent struct {
	// Path is the path of the file as reported by the OS, rooted at the
	// watched directory.
	Path string

	// Operation is the type of file system operation.
	Operation Operation

	// Timestamp is when the event was detected.
	Timestamp time.Time
}

// Options configures the watcher behavior.
type Options struct {
	// DebounceWindow is the quiet time to wait before emitting coalesced
	// events.
	// Default: 200ms
	DebounceWindow time.Duration

	// MaxWait caps how long a busy file's events are held back.
	// Default: 10 * DebounceWindow
	MaxWait time.Duration

	// Patterns are the base-name globs of files to report.
	// Default: scanner.DefaultPatterns
	Patterns []string
}

// DefaultOptions returns the default watcher options.
func DefaultOptions() Options {
	return Options{
		DebounceWindow: 200 * time.Millisecond,
		Patterns:       scanner.DefaultPatterns,
	}
}

// WithDefaults returns options with defaults applied for zero values.
func (o Options) WithDefaults() Options {
	defaults := DefaultOptions()
	if o.DebounceWindow <= 0 {
		o.DebounceWindow = defaults.DebounceWindow
	}
	if o.MaxWait <= 0 {
		o.MaxWait = 10 * o.DebounceWindow
	}
	if len(o.Patterns) == 0 {
		o.Patterns = defaults.Patterns
	}
	return o
}

// Watcher watches a single directory, non-recursively.
type Watcher struct {
	opts      Options
	logger    *slog.Logger
	fsw       *fsnotify.Watcher
	debouncer *Debouncer
	errors    chan error

	wg       sync.WaitGroup
	stopOnce sync.Once
}

// New creates a watcher. Call Start to begin watching.
func New(opts Options, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	opts = opts.WithDefaults()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, vetErrors.New(vetErrors.ErrCodeWatchFailed, "failed to create file watcher", err)
	}

	return &Watcher{
		opts:      opts,
		logger:    logger,
		fsw:       fsw,
		debouncer: NewDebouncer(opts.DebounceWindow, opts.MaxWait, logger),
		errors:    make(chan error, 16),
	}, nil
}

// Start begins watching dir. Events flow until ctx is cancelled or Stop is
// called.
func (w *Watcher) Start(ctx context.Context, dir string) error {
	if err := w.fsw.Add(dir); err != nil {
		return vetErrors.New(vetErrors.ErrCodeWatchFailed, fmt.Sprintf("failed to watch %s", dir), err).
			WithDetail("path", dir)
	}

	w.logger.Info("Watching directory",
		slog.String("path", dir),
		slog.Any("patterns", w.opts.Patterns),
		slog.Duration("debounce", w.opts.DebounceWindow))

	w.wg.Add(1)
	go w.loop(ctx)
	return nil
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Watcher error", slog.String("error", err.Error()))
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

// handle converts and filters one fsnotify event.
func (w *Watcher) handle(event fsnotify.Event) {
	if !scanner.Match(event.Name, w.opts.Patterns) {
		return
	}

	var op Operation
	switch {
	case event.Has(fsnotify.Create):
		op = OpCreate
	case event.Has(fsnotify.Write):
		op = OpModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		op = OpDelete
	default:
		return
	}

	w.logger.Debug("File event",
		slog.String("path", event.Name),
		slog.String("op", op.String()))
	w.debouncer.Add(FileEvent{Path: event.Name, Operation: op, Timestamp: time.Now()})
}

// Events returns debounced batches of file events. The channel is closed by
// Stop.
func (w *Watcher) Events() <-chan []FileEvent {
	return w.debouncer.Output()
}

// Errors returns non-fatal watcher errors. The channel is closed by Stop.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Stop releases the watcher. Safe to call multiple times.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		err = w.fsw.Close()
		w.wg.Wait()
		w.debouncer.Stop()
		close(w.errors)
	})
	return err
}
