package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/logvet/internal/dispatch"
	vetErrors "github.com/Aman-CERP/logvet/internal/errors"
	"github.com/Aman-CERP/logvet/internal/preflight"
	"github.com/Aman-CERP/logvet/internal/report"
	"github.com/Aman-CERP/logvet/internal/scanner"
	"github.com/Aman-CERP/logvet/internal/validate"
)

// batchOptions are the flags shared by run, validate and watch.
type batchOptions struct {
	workers    int
	jsonOutput bool
	outputPath string
	strict     bool
}

func (o *batchOptions) register(cmd *cobra.Command, withStrict bool) {
	cmd.Flags().IntVarP(&o.workers, "workers", "w", 0, "Worker count (default system.max_workers)")
	cmd.Flags().BoolVar(&o.jsonOutput, "json", false, "Output reports as JSON")
	cmd.Flags().StringVarP(&o.outputPath, "output", "o", "", "Append reports to a JSONL file")
	if withStrict {
		cmd.Flags().BoolVar(&o.strict, "strict", false, "Exit non-zero when any file is invalid")
	}
}

// batchJSON is the --json document for one batch.
type batchJSON struct {
	Summary report.Summary  `json:"summary"`
	Reports []report.Report `json:"reports"`
}

func newRunCmd(a *app) *cobra.Command {
	var (
		opts      batchOptions
		skipCheck bool
	)

	cmd := &cobra.Command{
		Use:   "run [DIR]",
		Short: "Validate every log file in a directory",
		Long: `Validate every file in DIR (default system.log_directory) whose name
matches system.patterns.

A resource check runs first. Its findings are logged and never stop the run.
Reports are printed in file-name order.`,
		Example: `  # Validate the configured log directory
  logvet run

  # Validate ./logs with 4 workers and keep a JSONL history
  logvet run ./logs --workers 4 --output reports.jsonl

  # Fail CI when any file is invalid
  logvet run --strict`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			dir := a.cfg.System.LogDirectory
			if len(args) == 1 {
				dir = args[0]
			} else if err := a.cfg.RequireLogDirectory(); err != nil {
				return err
			}
			return runDirectory(ctx, cmd, a, dir, opts, skipCheck)
		},
	}

	opts.register(cmd, true)
	cmd.Flags().BoolVar(&skipCheck, "skip-check", false, "Skip the resource check")

	return cmd
}

func newValidateCmd(a *app) *cobra.Command {
	var opts batchOptions

	cmd := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Validate the named files",
		Long: `Validate each named file and print one report per file, in argument order.

The format is chosen by extension. Files with other extensions are reported
as unsupported_file_type.`,
		Example: `  logvet validate app.csv events.json server.log
  logvet validate --json app.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			_, err := runBatch(ctx, cmd, a, args, opts)
			return err
		},
	}

	opts.register(cmd, true)

	return cmd
}

func runDirectory(ctx context.Context, cmd *cobra.Command, a *app, dir string, opts batchOptions, skipCheck bool) error {
	coord, err := a.newCoordinator(cmd, opts)
	if err != nil {
		return err
	}

	if !skipCheck {
		checker := preflight.New(
			preflight.WithLogger(a.logger),
			preflight.WithOutput(io.Discard),
		)
		results := checker.RunAll(ctx, coord.Workers(), dir)
		a.logger.Info("Resource check complete",
			slog.String("status", checker.SummaryStatus(results)))
	}

	paths, err := scanner.Discover(dir, a.cfg.System.Patterns)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		if opts.strict {
			return vetErrors.New(vetErrors.ErrCodeNoFiles, fmt.Sprintf("no log files found in %s", dir), nil).
				WithDetail("patterns", fmt.Sprint(a.cfg.System.Patterns))
		}
		a.writer(cmd).Warningf("No files in %s match %v", dir, a.cfg.System.Patterns)
		return nil
	}

	_, err = runCoordinated(ctx, cmd, a, coord, paths, opts)
	return err
}

// runBatch validates paths and prints the outcome.
func runBatch(ctx context.Context, cmd *cobra.Command, a *app, paths []string, opts batchOptions) (*dispatch.Batch, error) {
	coord, err := a.newCoordinator(cmd, opts)
	if err != nil {
		return nil, err
	}
	return runCoordinated(ctx, cmd, a, coord, paths, opts)
}

func runCoordinated(ctx context.Context, cmd *cobra.Command, a *app, coord *dispatch.Coordinator, paths []string, opts batchOptions) (*dispatch.Batch, error) {
	batch, err := coord.Run(ctx, paths)
	if err != nil {
		return nil, err
	}

	if opts.outputPath != "" {
		if err := report.AppendJSONL(opts.outputPath, batch.Reports); err != nil {
			return batch, err
		}
	}

	if err := printBatch(cmd, a, batch, opts.jsonOutput); err != nil {
		return batch, err
	}

	if opts.strict && !batch.Summary.AllValid() {
		return batch, vetErrors.New(vetErrors.ErrCodeFilesInvalid,
			fmt.Sprintf("%d of %d files failed validation", batch.Summary.InvalidFiles, batch.Summary.TotalFiles), nil)
	}
	return batch, nil
}

func printBatch(cmd *cobra.Command, a *app, batch *dispatch.Batch, jsonOutput bool) error {
	out := a.writer(cmd)
	if jsonOutput {
		return out.JSON(batchJSON{Summary: batch.Summary, Reports: batch.Reports})
	}
	out.Reports(batch.Reports)
	out.Newline()
	out.Summary(batch.Summary)
	return nil
}

// newCoordinator builds the validator and coordinator from the loaded config.
// A --workers flag overrides system.max_workers.
func (a *app) newCoordinator(cmd *cobra.Command, opts batchOptions) (*dispatch.Coordinator, error) {
	workers := a.cfg.System.MaxWorkers
	if cmd.Flags().Changed("workers") {
		workers = opts.workers
	}

	v := validate.New(
		validate.WithRequiredColumns(a.cfg.Validation.RequiredColumns...),
		validate.WithLogger(a.logger),
	)
	return dispatch.New(v,
		dispatch.WithWorkers(workers),
		dispatch.WithLogger(a.logger),
	)
}
