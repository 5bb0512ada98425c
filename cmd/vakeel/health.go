package main

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check backend health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			report, err := client.Health(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("backend: %s\n", client.BaseURL())
			fmt.Printf("status:  %s\n", report.Status)
			if report.Uptime != "" {
				fmt.Printf("uptime:  %s\n", report.Uptime)
			}

			if len(report.Features) > 0 {
				names := make([]string, 0, len(report.Features))
				for name := range report.Features {
					names = append(names, name)
				}
				sort.Strings(names)
				fmt.Println("features:")
				for _, name := range names {
					state := "unavailable"
					if report.Features[name] {
						state = "available"
					}
					fmt.Printf("  %-20s %s\n", name, state)
				}
			}

			for _, w := range report.Warnings {
				fmt.Println("warning:", w)
			}
			return nil
		},
	}
}
