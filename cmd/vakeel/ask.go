package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a single question and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()

			ctx, cancel := context.WithTimeout(cmd.Context(), opTimeout(cfg.Backend.ChatTimeout()))
			defer cancel()

			result, err := client.SendChat(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}

			fmt.Println(result.Answer)
			fmt.Printf("\n(answered in %.1fs)\n", result.LatencySeconds)
			return nil
		},
	}
}
