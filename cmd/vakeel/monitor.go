package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vakeel-dev/vakeel/internal/logging"
	"github.com/vakeel-dev/vakeel/internal/monitor"
	"github.com/vakeel-dev/vakeel/pkg/observability"
)

func newMonitorCmd() *cobra.Command {
	var (
		schedule string
		port     int
	)

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Poll backend health on a schedule and serve metrics",
		Long: `monitor polls the backend on a cron schedule and serves /metrics and
/health over HTTP until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if schedule == "" {
				schedule = cfg.Monitor.Schedule
			}
			if port == 0 {
				port = cfg.Monitor.Port
			}

			checker := observability.NewHealthChecker()
			mon := monitor.New(newClient(), checker, logging.Log)
			if err := mon.Start(schedule); err != nil {
				return fmt.Errorf("start schedule %q: %w", schedule, err)
			}
			defer mon.Stop()

			server := observability.NewServer(port, checker)
			errChan := make(chan error, 1)
			go func() {
				logging.Log.Infof("serving metrics and health on :%d", port)
				errChan <- server.Start()
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errChan:
				return err
			case <-quit:
				logging.Log.Info("shutting down monitor")
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(ctx)
		},
	}

	cmd.Flags().StringVar(&schedule, "schedule", "", "cron schedule for polls (default from config)")
	cmd.Flags().IntVar(&port, "port", 0, "metrics/health port (default from config)")
	return cmd
}
