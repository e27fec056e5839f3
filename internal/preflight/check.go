package preflight

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/Aman-CERP/logvet/internal/logging"
)

// CheckStatus represents the result of a preflight check.
type CheckStatus int

const (
	// StatusPass indicates the check passed successfully.
	StatusPass CheckStatus = iota
	// StatusWarn indicates a capacity concern worth surfacing.
	StatusWarn
	// StatusFail indicates a serious capacity problem. The run still proceeds.
	StatusFail
)

// Summary statuses returned by SummaryStatus.
const (
	SummaryReady             = "ready"
	SummaryReadyWithWarnings = "ready_with_warnings"
	SummaryDegraded          = "degraded"
)

// String returns the string representation of a CheckStatus.
func (s CheckStatus) String() string {
	switch s {
	case StatusPass:
		return "PASS"
	case StatusWarn:
		return "WARN"
	case StatusFail:
		return "FAIL"
	default:
		return "UNKNOWN"
	}
}

// MarshalText encodes the status as its lower-case name.
func (s CheckStatus) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(s.String())), nil
}

// CheckResult holds the result of a single preflight check.
type CheckResult struct {
	Name    string      `json:"name"`
	Status  CheckStatus `json:"status"`
	Message string      `json:"message"`
	Details string      `json:"details,omitempty"`
}

// MemoryStat is a snapshot of system memory.
type MemoryStat struct {
	Total       uint64
	Available   uint64
	UsedPercent float64
}

// DiskStat is a snapshot of one filesystem.
type DiskStat struct {
	Total       uint64
	Free        uint64
	UsedPercent float64
}

// Checker performs preflight checks. Probes are replaceable for tests.
type Checker struct {
	verbose bool
	output  io.Writer
	logger  *slog.Logger

	cpuCount    func() int
	memoryProbe func(context.Context) (MemoryStat, error)
	diskProbe   func(context.Context, string) (DiskStat, error)
	fileLimit   func() (uint64, error)
}

// Option configures a Checker.
type Option func(*Checker)

// WithVerbose enables detail lines in PrintResults.
func WithVerbose(verbose bool) Option {
	return func(c *Checker) {
		c.verbose = verbose
	}
}

// WithOutput sets the output writer.
func WithOutput(w io.Writer) Option {
	return func(c *Checker) {
		c.output = w
	}
}

// WithLogger sets the logger that receives one record per non-passing check.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCPUCount replaces the CPU count source.
func WithCPUCount(fn func() int) Option {
	return func(c *Checker) {
		c.cpuCount = fn
	}
}

// WithMemoryProbe replaces the memory statistics source.
func WithMemoryProbe(fn func(context.Context) (MemoryStat, error)) Option {
	return func(c *Checker) {
		c.memoryProbe = fn
	}
}

// WithDiskProbe replaces the disk statistics source.
func WithDiskProbe(fn func(context.Context, string) (DiskStat, error)) Option {
	return func(c *Checker) {
		c.diskProbe = fn
	}
}

// WithFileLimitProbe replaces the file descriptor limit source.
func WithFileLimitProbe(fn func() (uint64, error)) Option {
	return func(c *Checker) {
		c.fileLimit = fn
	}
}

// New creates a new Checker with the given options.
func New(opts ...Option) *Checker {
	c := &Checker{
		output:      os.Stdout,
		logger:      logging.Discard(),
		cpuCount:    runtime.NumCPU,
		memoryProbe: systemMemory,
		diskProbe:   systemDisk,
		fileLimit:   systemFileLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RunAll runs every check for a batch using workers workers over dir and
// logs each non-passing result.
func (c *Checker) RunAll(ctx context.Context, workers int, dir string) []CheckResult {
	results := []CheckResult{
		c.CheckWorkers(workers),
		c.CheckMemory(ctx),
		c.CheckDiskSpace(ctx, dir),
		c.CheckFileDescriptors(),
	}
	for _, r := range results {
		c.log(ctx, r)
	}
	return results
}

func (c *Checker) log(ctx context.Context, r CheckResult) {
	attrs := []any{slog.String("check", r.Name)}
	if r.Details != "" {
		attrs = append(attrs, slog.String("details", r.Details))
	}
	switch r.Status {
	case StatusWarn:
		c.logger.Warn(r.Message, attrs...)
	case StatusFail:
		logging.Critical(ctx, c.logger, r.Message, attrs...)
	default:
		c.logger.Debug(r.Message, attrs...)
	}
}

// SummaryStatus condenses results into ready, ready_with_warnings or degraded.
func (c *Checker) SummaryStatus(results []CheckResult) string {
	hasWarnings := false
	for _, r := range results {
		switch r.Status {
		case StatusFail:
			return SummaryDegraded
		case StatusWarn:
			hasWarnings = true
		}
	}
	if hasWarnings {
		return SummaryReadyWithWarnings
	}
	return SummaryReady
}

// PrintResults prints check results to the configured output.
func (c *Checker) PrintResults(results []CheckResult) {
	_, _ = fmt.Fprintln(c.output, "logvet Resource Check")
	_, _ = fmt.Fprintln(c.output, "=====================")
	_, _ = fmt.Fprintln(c.output)

	for _, r := range results {
		_, _ = fmt.Fprintf(c.output, "[%s] %s: %s\n", r.Status, r.Name, r.Message)
		if c.verbose && r.Details != "" {
			_, _ = fmt.Fprintf(c.output, "      %s\n", r.Details)
		}
	}

	_, _ = fmt.Fprintln(c.output)
	_, _ = fmt.Fprintf(c.output, "Status: %s\n", strings.ToUpper(c.SummaryStatus(results)))

	var failures, warnings []string
	for _, r := range results {
		switch r.Status {
		case StatusFail:
			failures = append(failures, r.Name+": "+r.Message)
		case StatusWarn:
			warnings = append(warnings, r.Name+": "+r.Message)
		}
	}

	printList(c.output, "failure(s)", failures)
	printList(c.output, "warning(s)", warnings)
}

func printList(w io.Writer, label string, items []string) {
	if len(items) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "%d %s:\n", len(items), label)
	for _, item := range items {
		_, _ = fmt.Fprintf(w, "  - %s\n", item)
	}
}

// CheckWorkers warns when more workers are configured than CPUs exist.
func (c *Checker) CheckWorkers(workers int) CheckResult {
	result := CheckResult{Name: "workers"}

	cpus := c.cpuCount()
	if workers > cpus {
		result.Status = StatusWarn
		result.Message = fmt.Sprintf("%d workers exceed %d available CPUs", workers, cpus)
		result.Details = "Lower system.max_workers or set it to 0 for host parallelism"
		return result
	}

	result.Status = StatusPass
	result.Message = fmt.Sprintf("%d workers (%d CPUs)", workers, cpus)
	return result
}
