package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joss/lawchat/internal/client"
	"github.com/joss/lawchat/internal/tui"
)

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start the interactive chat TUI",
		Run: func(cmd *cobra.Command, args []string) {
			if err := tui.Run(client.New(serverURL)); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		},
	}
}
