// Package main provides the lawchat CLI entrypoint.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/joss/lawchat/internal/client"
	"github.com/joss/lawchat/internal/config"
	"github.com/joss/lawchat/internal/graph"
	"github.com/joss/lawchat/internal/tui"
)

var (
	version   = "0.1.0"
	serverURL string
	pretty    bool
	jsonOut   bool
)

func main() {
	graph.SetEnvLookup(os.LookupEnv)

	env := config.Env()

	rootCmd := &cobra.Command{
		Use:   "lawchat",
		Short: "Family law chat client",
		Long: `lawchat: a chat client for general family law questions.

Usage modes:
  lawchat              Start the interactive chat TUI
  lawchat serve        Run the backend server
  lawchat ask <text>   Ask a one-shot question
  lawchat list         List conversations

Answers are general information, not legal advice.`,
		Version: version,
		Run: func(cmd *cobra.Command, args []string) {
			if err := tui.Run(client.New(serverURL)); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", env.ServerURL, "Backend server URL")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", term.IsTerminal(int(os.Stdout.Fd())), "Pretty print output")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output as JSON")

	rootCmd.AddCommand(chatCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(listCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
