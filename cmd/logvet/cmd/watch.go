package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	vetErrors "github.com/Aman-CERP/logvet/internal/errors"
	"github.com/Aman-CERP/logvet/internal/scanner"
	"github.com/Aman-CERP/logvet/internal/watcher"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		opts    batchOptions
		watchOp watcher.Options
	)

	cmd := &cobra.Command{
		Use:   "watch [DIR]",
		Short: "Re-validate log files as they change",
		Long: `Validate DIR (default system.log_directory) once, then validate again
every file that is created or written, batching changes that arrive within
the debounce window. A file that keeps being written is still validated at
least once per --max-wait. Deleted files, and files created and removed
within one window, are ignored. Press Ctrl+C to stop.`,
		Example: `  logvet watch ./logs
  logvet watch --debounce 1s --output reports.jsonl`,
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
			watchOp.Patterns = a.cfg.System.Patterns
			return runWatch(ctx, cmd, a, dir, opts, watchOp)
		},
	}

	opts.register(cmd, false)
	cmd.Flags().DurationVar(&watchOp.DebounceWindow, "debounce", watcher.DefaultOptions().DebounceWindow, "Debounce window for file events")
	cmd.Flags().DurationVar(&watchOp.MaxWait, "max-wait", 0, "Longest delay for a file that keeps changing (default 10x --debounce)")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, a *app, dir string, opts batchOptions, watchOp watcher.Options) error {
	coord, err := a.newCoordinator(cmd, opts)
	if err != nil {
		return err
	}

	paths, err := scanner.Discover(dir, a.cfg.System.Patterns)
	if err != nil {
		return err
	}
	if len(paths) > 0 {
		if _, err := runCoordinated(ctx, cmd, a, coord, paths, opts); err != nil {
			return err
		}
	}

	w, err := watcher.New(watchOp, a.logger)
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	if err := w.Start(ctx, dir); err != nil {
		return err
	}

	out := a.writer(cmd)
	out.Statusf("👀", "Watching %s (Ctrl+C to stop)", dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case events, ok := <-w.Events():
			if !ok {
				return nil
			}
			changed := changedPaths(events)
			if len(changed) == 0 {
				continue
			}
			out.Newline()
			if _, err := runCoordinated(ctx, cmd, a, coord, changed, opts); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				if vetErrors.GetCode(err) == vetErrors.ErrCodeReportSinkLock {
					a.logger.Warn("Report sink busy, batch not recorded", vetErrors.LogAttrs(err)...)
					continue
				}
				return err
			}
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			a.logger.Warn("Watch error", slog.String("error", err.Error()))
		}
	}
}

// changedPaths returns the paths of events that leave a file to validate,
// in event order.
func changedPaths(events []watcher.FileEvent) []string {
	paths := make([]string, 0, len(events))
	for _, e := range events {
		if e.Operation == watcher.OpDelete {
			continue
		}
		paths = append(paths, e.Path)
	}
	return paths
}
