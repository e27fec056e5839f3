// Package cmd provides the CLI commands for logvet.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/logvet/internal/config"
	vetErrors "github.com/Aman-CERP/logvet/internal/errors"
	"github.com/Aman-CERP/logvet/internal/logging"
	"github.com/Aman-CERP/logvet/internal/output"
	"github.com/Aman-CERP/logvet/internal/profiling"
	"github.com/Aman-CERP/logvet/internal/ui"
	"github.com/Aman-CERP/logvet/pkg/version"
)

// skipConfigAnnotation marks commands that run without loading config.yaml.
const skipConfigAnnotation = "logvet/skip-config"

// app carries the state shared by every command of one invocation. It is
// filled in by the root PersistentPreRunE and read by the subcommands.
type app struct {
	configPath string
	logLevel   string
	noColor    bool
	profiles   profiling.Options

	cfg      *config.Config
	logger   *slog.Logger
	cleanup  func()
	profiler *profiling.Session
}

// NewRootCmd creates the root command for logvet CLI.
func NewRootCmd() *cobra.Command {
	a := &app{logger: logging.Discard()}

	cmd := &cobra.Command{
		Use:   "logvet",
		Short: "Validate CSV, JSON and text log files in parallel",
		Long: `logvet checks log files for structural problems and reports every
diagnostic it finds, one report per file, in input order.

Supported formats:
  .csv         header row with the required columns, no duplicate rows
  .json        an array of entries carrying the required fields
  .txt, .log   "timestamp | LEVEL | message" per line

Run 'logvet run' to validate every file in system.log_directory.`,
		Version:       version.Short(),
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.SetVersionTemplate("logvet version {{.Version}}\n")

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to config file (default ./config.yaml)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Override logging.level")
	cmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	cmd.PersistentFlags().StringVar(&a.profiles.CPU, "profile-cpu", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&a.profiles.Heap, "profile-mem", "", "Write memory profile to file")
	cmd.PersistentFlags().StringVar(&a.profiles.Trace, "profile-trace", "", "Write execution trace to file")

	cmd.PersistentPreRunE = a.setup
	cmd.PersistentPostRunE = a.teardown

	cmd.AddCommand(newRunCmd(a))
	cmd.AddCommand(newValidateCmd(a))
	cmd.AddCommand(newCheckCmd(a))
	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newSubmitCmd(a))
	cmd.AddCommand(newWatchCmd(a))
	cmd.AddCommand(newReportCmd(a))
	cmd.AddCommand(newConfigCmd(a))
	cmd.AddCommand(newVersionCmd())
	a.releaseAfterRun(cmd)

	return cmd
}

// setup starts any requested profiles, loads the configuration and builds
// the logger.
func (a *app) setup(cmd *cobra.Command, args []string) (err error) {
	if a.profiles.Enabled() {
		session, perr := profiling.Start(a.profiles)
		if perr != nil {
			return vetErrors.New(vetErrors.ErrCodeFilePermission, "failed to start profiling", perr)
		}
		a.profiler = session
	}
	defer func() {
		if err != nil {
			_ = a.teardown(cmd, args)
		}
	}()

	if cmd.Annotations[skipConfigAnnotation] == "true" {
		return nil
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}

	logger, cleanup, err := logging.Setup(logging.Config{
		Level:        cfg.Logging.Level,
		Format:       cfg.Logging.Format,
		FilePath:     cfg.Logging.File,
		MaxSizeBytes: cfg.Logging.MaxLogSize,
		MaxFiles:     cfg.Logging.MaxFiles,
		Stderr:       cmd.ErrOrStderr(),
	})
	if err != nil {
		return vetErrors.New(vetErrors.ErrCodeFilePermission, "failed to open log file", err).
			WithDetail("path", cfg.Logging.File)
	}

	a.cfg = cfg
	a.logger = logger
	a.cleanup = cleanup
	return nil
}

// releaseAfterRun makes every RunE in the tree end with teardown. cobra
// skips PersistentPostRunE once RunE has failed.
func (a *app) releaseAfterRun(cmd *cobra.Command) {
	for _, sub := range cmd.Commands() {
		a.releaseAfterRun(sub)
	}
	if cmd.RunE == nil {
		return
	}
	run := cmd.RunE
	cmd.RunE = func(c *cobra.Command, args []string) error {
		err := run(c, args)
		if terr := a.teardown(c, args); err == nil {
			err = terr
		}
		return err
	}
}

// teardown writes the profiles and flushes the log file. It is safe to
// call more than once.
func (a *app) teardown(_ *cobra.Command, _ []string) error {
	var err error
	if a.profiler != nil {
		if perr := a.profiler.Stop(); perr != nil {
			err = vetErrors.New(vetErrors.ErrCodeFilePermission, "failed to write profiles", perr)
		}
		a.profiler = nil
	}
	if a.cleanup != nil {
		a.cleanup()
		a.cleanup = nil
	}
	return err
}

// writer returns an output writer styled for cmd's stdout.
func (a *app) writer(cmd *cobra.Command) *output.Writer {
	out := cmd.OutOrStdout()
	return output.NewStyled(out, ui.StylesFor(out, a.noColor))
}

// Execute runs the root command and prints any error in CLI form.
func Execute() error {
	err := NewRootCmd().Execute()
	if err != nil {
		_, _ = fmt.Fprint(os.Stderr, vetErrors.FormatForCLI(err))
	}
	return err
}
