package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	vetErrors "github.com/Aman-CERP/logvet/internal/errors"
	"github.com/Aman-CERP/logvet/internal/taskserver"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr    string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Accept validation tasks over TCP",
		Long: `Start the task server on network.host:network.port.

Each connection carries one JSON task and receives one JSON response:

  {"task_id": 7, "log_files": ["/var/log/app.csv"]}

At most network.max_connections connections are served at once; each must
finish within network.timeout. Press Ctrl+C to stop.`,
		Example: `  # Serve on the configured address
  logvet serve

  # Serve on a specific address
  logvet serve --addr 0.0.0.0:9400`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if addr == "" {
				addr = a.cfg.Address()
			}
			opts := batchOptions{workers: workers}
			return runServe(ctx, cmd, a, addr, opts)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default network.host:network.port)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Worker count per task (default system.max_workers)")

	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, a *app, addr string, opts batchOptions) error {
	coord, err := a.newCoordinator(cmd, opts)
	if err != nil {
		return err
	}

	timeout, err := a.cfg.NetworkTimeout()
	if err != nil {
		return vetErrors.ConfigError("invalid network.timeout", err)
	}

	srv, err := taskserver.NewServer(coord,
		taskserver.WithAddress(addr),
		taskserver.WithMaxConnections(a.cfg.Network.MaxConnections),
		taskserver.WithTimeout(timeout),
		taskserver.WithLogger(a.logger),
	)
	if err != nil {
		return err
	}

	a.writer(cmd).Statusf("🚀", "Task server listening on %s (Ctrl+C to stop)", addr)

	err = srv.ListenAndServe(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func newSubmitCmd(a *app) *cobra.Command {
	var (
		addr    string
		taskID  string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "submit FILE...",
		Short: "Send a validation task to a running server",
		Long: `Submit the named files to a 'logvet serve' instance and print its response.

Paths are resolved by the server, so they must be valid on the server host.
The command exits non-zero when the server reports the task as failed.`,
		Example: `  logvet submit /var/log/app.csv /var/log/app.log
  logvet submit --addr 10.0.0.5:9400 --task-id nightly-42 /var/log/app.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Address()
			}
			if taskID == "" {
				taskID = uuid.NewString()
			}
			if timeout <= 0 {
				t, err := a.cfg.NetworkTimeout()
				if err != nil {
					return vetErrors.ConfigError("invalid network.timeout", err)
				}
				timeout = t
			}
			task := taskserver.Task{ID: taskID, LogFiles: args}
			return runSubmit(cmd, a, taskserver.NewClient(addr, timeout), task)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Server address (default network.host:network.port)")
	cmd.Flags().StringVar(&taskID, "task-id", "", "Task identifier (default random UUID)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Request timeout (default network.timeout)")

	return cmd
}

func runSubmit(cmd *cobra.Command, a *app, client *taskserver.Client, task taskserver.Task) error {
	resp, err := client.Submit(cmd.Context(), task)
	if err != nil {
		return err
	}

	out := a.writer(cmd)
	if err := out.JSON(resp); err != nil {
		return err
	}
	if !resp.OK() {
		return vetErrors.New(vetErrors.ErrCodeBadResponse, fmt.Sprintf("task failed: %s", resp.Error), nil)
	}
	return nil
}
