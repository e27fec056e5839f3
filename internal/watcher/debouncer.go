package watcher

import (
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Aman-CERP/logvet/internal/logging"
)

// Debouncer turns a stream of file events into batches of files worth
// revalidating. Events for one path inside the window merge into one:
//   - CREATE then MODIFY stays CREATE
//   - CREATE then DELETE drops the path, since nothing is left to validate
//   - DELETE then CREATE becomes MODIFY (the file was replaced, as in log
//     rotation by rename)
//   - otherwise the latest operation wins
//
// The window restarts with every event, but a batch is never held longer
// than maxWait after its oldest event. A log that is appended to without
// pause is still revalidated every maxWait.
type Debouncer struct {
	window  time.Duration
	maxWait time.Duration
	logger  *slog.Logger

	mu      sync.Mutex
	pending map[string]FileEvent
	oldest  time.Time
	timer   *time.Timer
	stopped bool
	output  chan []FileEvent
}

// NewDebouncer creates a debouncer. maxWait <= 0 disables the cap.
func NewDebouncer(window, maxWait time.Duration, logger *slog.Logger) *Debouncer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Debouncer{
		window:  window,
		maxWait: maxWait,
		logger:  logger,
		pending: make(map[string]FileEvent),
		output:  make(chan []FileEvent, 10),
	}
}

// Add queues event, merging it with any pending event for the same path.
func (d *Debouncer) Add(event FileEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	now := time.Now()
	if len(d.pending) == 0 {
		d.oldest = now
	}

	if prev, ok := d.pending[event.Path]; ok {
		if merged, keep := merge(prev, event); keep {
			d.pending[event.Path] = merged
		} else {
			delete(d.pending, event.Path)
		}
	} else {
		d.pending[event.Path] = event
	}

	d.schedule(now)
}

// merge folds next into prev. keep is false when the pair leaves nothing
// to revalidate.
func merge(prev, next FileEvent) (merged FileEvent, keep bool) {
	switch {
	case prev.Operation == OpCreate && next.Operation == OpDelete:
		return FileEvent{}, false
	case prev.Operation == OpCreate:
		prev.Timestamp = next.Timestamp
		return prev, true
	case prev.Operation == OpDelete && next.Operation == OpCreate:
		next.Operation = OpModify
		return next, true
	default:
		return next, true
	}
}

// schedule rearms the flush timer. Callers hold d.mu.
func (d *Debouncer) schedule(now time.Time) {
	if d.timer != nil {
		d.timer.Stop()
	}

	delay := d.window
	if d.maxWait > 0 {
		delay = min(delay, d.oldest.Add(d.maxWait).Sub(now))
	}
	d.timer = time.AfterFunc(delay, d.flush)
}

// flush emits all pending events, sorted by path.
func (d *Debouncer) flush() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped || len(d.pending) == 0 {
		return
	}

	events := make([]FileEvent, 0, len(d.pending))
	for _, e := range d.pending {
		events = append(events, e)
	}
	clear(d.pending)
	slices.SortFunc(events, func(a, b FileEvent) int { return strings.Compare(a.Path, b.Path) })

	select {
	case d.output <- events:
	default:
		d.logger.Warn("Debouncer output full, dropping batch",
			slog.Int("batch_size", len(events)))
	}
}

// Output returns the channel of debounced batches.
func (d *Debouncer) Output() <-chan []FileEvent {
	return d.output
}

// Stop drops pending events and closes the output channel. Safe to call
// multiple times.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	close(d.output)
}
