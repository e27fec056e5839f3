// Package dispatch fans file validation out over a bounded worker pool.
//
// Results are index-aligned with the input: reports[i] always describes
// paths[i], whatever order the workers finish in. A failure in one file
// becomes that file's report and never affects the others.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	vetErrors "github.com/Aman-CERP/logvet/internal/errors"
	"github.com/Aman-CERP/logvet/internal/logging"
	"github.com/Aman-CERP/logvet/internal/report"
	"github.com/Aman-CERP/logvet/internal/validate"
)

// FileValidator validates one file. *validate.Validator satisfies it.
type FileValidator interface {
	ValidateFile(path string) validate.Result
}

// Batch is the outcome of one Run.
type Batch struct {
	Reports []report.Report
	Summary report.Summary
}

// Coordinator runs batches of files through a FileValidator.
type Coordinator struct {
	validator  FileValidator
	aggregator *report.Aggregator
	workers    int
	now        func() time.Time
	newID      func() string
	logger     *slog.Logger
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithWorkers bounds how many files are validated at once. Zero selects the
// host's available parallelism.
func WithWorkers(n int) Option {
	return func(c *Coordinator) { c.workers = n }
}

// WithAggregator sets the report aggregator.
func WithAggregator(a *report.Aggregator) Option {
	return func(c *Coordinator) {
		if a != nil {
			c.aggregator = a
		}
	}
}

// WithLogger sets the logger for batch progress.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock sets the clock used for batch start and finish times.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		if now != nil {
			c.now = now
		}
	}
}

// WithBatchIDs sets the batch identifier generator.
func WithBatchIDs(newID func() string) Option {
	return func(c *Coordinator) {
		if newID != nil {
			c.newID = newID
		}
	}
}

// New creates a Coordinator. A worker count below one, after defaulting,
// is rejected.
func New(v FileValidator, opts ...Option) (*Coordinator, error) {
	if v == nil {
		return nil, vetErrors.New(vetErrors.ErrCodePoolFailed, "no validator configured", nil)
	}
	c := &Coordinator{
		validator:  v,
		aggregator: report.NewAggregator(),
		now:        time.Now,
		newID:      report.NewBatchID,
		logger:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.workers == 0 {
		c.workers = runtime.NumCPU()
	}
	if c.workers < 1 {
		return nil, vetErrors.New(vetErrors.ErrCodeInvalidWorkers,
			fmt.Sprintf("worker count must be at least 1, got %d", c.workers), nil).
			WithSuggestion("Set system.max_workers to 0 for host parallelism or a positive number")
	}
	return c, nil
}

// Workers returns the effective worker bound.
func (c *Coordinator) Workers() int { return c.workers }

// Run validates every path and returns one report per path, in input order.
// ctx is only consulted before the batch starts: a cancelled context fails
// the whole call, while a started batch always runs every file to its
// report.
func (c *Coordinator) Run(ctx context.Context, paths []string) (*Batch, error) {
	batchID := c.newID()
	if err := ctx.Err(); err != nil {
		return nil, vetErrors.New(vetErrors.ErrCodePoolFailed, "batch not started", err).
			WithDetail("batch_id", batchID)
	}

	started := c.now()
	reports := make([]report.Report, len(paths))

	c.logger.Info("batch started",
		slog.String("batch_id", batchID),
		slog.Int("files", len(paths)),
		slog.Int("workers", c.workers))

	var g errgroup.Group
	g.SetLimit(c.workers)
	for i, path := range paths {
		g.Go(func() error {
			reports[i] = c.process(path)
			return nil // per-file failures live in the report
		})
	}
	_ = g.Wait()

	summary := report.Summarize(batchID, started, c.now(), reports)
	c.logger.Info("batch finished",
		slog.String("batch_id", batchID),
		slog.Int("files", summary.TotalFiles),
		slog.Int("valid", summary.ValidFiles),
		slog.Int("invalid", summary.InvalidFiles),
		slog.Int("errors", summary.TotalErrors),
		slog.Duration("duration", summary.Duration()))

	return &Batch{Reports: reports, Summary: summary}, nil
}

// process validates one file. A panic anywhere in validation or report
// assembly becomes an unexpected_validation_error report for that file.
func (c *Coordinator) process(path string) (r report.Report) {
	defer func() {
		if rec := recover(); rec != nil {
			c.logger.Error("file task panicked",
				slog.String("path", path),
				slog.Any("panic", rec))
			r = c.aggregator.Generate(path, validate.NewResult(validate.UnexpectedError{
				ErrorMessage: fmt.Sprint(rec),
				FilePath:     path,
			}))
		}
	}()

	res := c.validator.ValidateFile(path)
	if !res.Valid() {
		c.logger.Debug("file invalid",
			slog.String("path", path),
			slog.Int("errors", res.Len()))
	}
	return c.aggregator.Generate(path, res)
}
