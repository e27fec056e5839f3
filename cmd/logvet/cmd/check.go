package cmd

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/logvet/internal/preflight"
)

// checkJSON is the --json document for the check command.
type checkJSON struct {
	Status  string                  `json:"status"`
	Workers int                     `json:"workers"`
	Checks  []preflight.CheckResult `json:"checks"`
}

func newCheckCmd(a *app) *cobra.Command {
	var (
		verbose    bool
		jsonOutput bool
		workers    int
	)

	cmd := &cobra.Command{
		Use:   "check [DIR]",
		Short: "Check system resources before a batch",
		Long: `Run the resource preflight checks used at the start of 'logvet run'.

Checks:
  - Workers against available CPUs
  - Memory utilisation (warns above 90%)
  - Disk utilisation of DIR (fails above 85%)
  - File descriptor limit (warns below 1024)

Every finding is advisory: the command exits zero unless it cannot run.`,
		Example: `  # Check the configured log directory
  logvet check

  # Verbose output with details
  logvet check --verbose

  # JSON output for scripting
  logvet check --json /var/log/app`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.cfg.System.LogDirectory
			if len(args) == 1 {
				dir = args[0]
			}
			if dir == "" {
				dir = "."
			}
			n := a.cfg.Workers()
			if cmd.Flags().Changed("workers") {
				n = workers
			}
			return runCheck(cmd, a, dir, n, verbose, jsonOutput)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed diagnostic info")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Worker count to check (default system.max_workers)")

	return cmd
}

func runCheck(cmd *cobra.Command, a *app, dir string, workers int, verbose, jsonOutput bool) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checker := preflight.New(
		preflight.WithVerbose(verbose),
		preflight.WithOutput(cmd.OutOrStdout()),
		preflight.WithLogger(a.logger),
	)

	results := checker.RunAll(ctx, workers, dir)

	if jsonOutput {
		return outputCheckJSON(cmd, checker, workers, results)
	}

	checker.PrintResults(results)
	return nil
}

func outputCheckJSON(cmd *cobra.Command, checker *preflight.Checker, workers int, results []preflight.CheckResult) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(checkJSON{
		Status:  checker.SummaryStatus(results),
		Workers: workers,
		Checks:  results,
	})
}
