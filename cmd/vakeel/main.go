// Package main provides the vakeel CLI entrypoint.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/vakeel-dev/vakeel/internal/logging"
	"github.com/vakeel-dev/vakeel/internal/observability"
	"github.com/vakeel-dev/vakeel/internal/transport"
	"github.com/vakeel-dev/vakeel/pkg/chat"
	"github.com/vakeel-dev/vakeel/pkg/config"
	obsmetrics "github.com/vakeel-dev/vakeel/pkg/observability"
)

var version = "0.1.0"

var (
	cfg *config.Config

	flagConfig  string
	flagBackend string
	flagLocal   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vakeel",
		Short: "Legal research assistant client",
		Long: `vakeel talks to a legal-research backend: ask questions about
statutes and case law, or attach a PDF for analysis.

Run with no arguments to start the interactive chat interface.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(flagConfig)
			if err != nil {
				return err
			}
			if flagBackend != "" {
				cfg.Backend.BaseURL = flagBackend
			}
			if flagLocal {
				cfg.Backend.Local = true
			}

			logging.Init(cfg.Logging.Level)
			obsmetrics.InitMetrics()

			return observability.Init(observability.Config{
				Enabled:      cfg.Tracing.Enabled,
				ExporterType: cfg.Tracing.Exporter,
				OTLPEndpoint: cfg.Tracing.Endpoint,
			})
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = observability.Shutdown(context.Background())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, args)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", defaultConfigPath(), "configuration file")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend-url", "", "backend base URL override")
	rootCmd.PersistentFlags().BoolVar(&flagLocal, "local", false, "use the local development backend")

	rootCmd.AddCommand(
		newChatCmd(),
		newAskCmd(),
		newAnalyzeCmd(),
		newUploadCmd(),
		newHealthCmd(),
		newMonitorCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home + "/.vakeel/config.yaml"
	}
	return "vakeel.yaml"
}

// newClient builds the transport client from the resolved configuration.
func newClient() *transport.Client {
	var limiter *rate.Limiter
	if rpm := cfg.Backend.RequestsPerMinute; rpm > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1)
	}

	return transport.NewClient(transport.Config{
		BaseURL:        transport.ResolveBaseURL(cfg.Backend.Local, cfg.Backend.BaseURL),
		APIKey:         cfg.Backend.APIKey,
		UserID:         cfg.Backend.UserID,
		ChatTimeout:    cfg.Backend.ChatTimeout(),
		AnalyzeTimeout: cfg.Backend.AnalyzeTimeout(),
		Limiter:        limiter,
	})
}

// newManager builds a session manager over an instrumented transport.
func newManager() *chat.Manager {
	return chat.NewManager(transport.NewInstrumented(newClient()))
}

// opTimeout bounds one-shot commands a little beyond the transport's own
// bound so the transport, not the command, reports the timeout.
func opTimeout(base time.Duration) time.Duration {
	return base + 10*time.Second
}
