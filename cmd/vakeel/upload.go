package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vakeel-dev/vakeel/internal/transport"
)

func newUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a document to the backend without analyzing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			client := newClient()
			ctx, cancel := context.WithTimeout(cmd.Context(), opTimeout(cfg.Backend.ChatTimeout()))
			defer cancel()

			result, err := client.Upload(ctx, transport.Document{
				Name: filepath.Base(path),
				Data: data,
			})
			if err != nil {
				return err
			}

			fmt.Printf("uploaded %s (%d bytes)\n", result.Filename, result.Size)
			return nil
		},
	}
}
