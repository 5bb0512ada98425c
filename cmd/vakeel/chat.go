package main

import (
	"github.com/spf13/cobra"

	"github.com/vakeel-dev/vakeel/internal/repl"
	"github.com/vakeel-dev/vakeel/internal/tui"
)

var flagPlain bool

func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start the interactive chat interface",
		RunE:  runChat,
	}
	cmd.Flags().BoolVar(&flagPlain, "plain", false, "plain readline mode instead of the full-screen interface")
	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	mgr := newManager()
	if flagPlain {
		return repl.Run(mgr)
	}
	return tui.Run(mgr)
}
