package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vakeel-dev/vakeel/internal/transport"
)

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <file.pdf> [question...]",
		Short: "Analyze a PDF document",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			question := "Please analyze this document and summarize the key legal points."
			if len(args) > 1 {
				question = strings.Join(args[1:], " ")
			}

			client := newClient()
			ctx, cancel := context.WithTimeout(cmd.Context(), opTimeout(cfg.Backend.AnalyzeTimeout()))
			defer cancel()

			result, err := client.AnalyzeDocument(ctx, transport.Document{
				Name: filepath.Base(path),
				Data: data,
			}, question)
			if err != nil {
				return err
			}

			fmt.Println(result.Analysis)
			fmt.Printf("\n(analyzed in %.1fs)\n", result.LatencySeconds)
			return nil
		},
	}
}
