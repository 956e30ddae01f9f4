package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joss/lawchat/internal/client"
	"github.com/joss/lawchat/internal/render"
)

func listCmd() *cobra.Command {
	var transcript int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List conversations",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(serverURL)
			ctx := cmd.Context()
			r := render.New(pretty)

			if transcript != 0 {
				messages, err := c.GetMessages(ctx, transcript)
				if err != nil {
					return fmt.Errorf("get messages: %w", err)
				}
				if jsonOut {
					return json.NewEncoder(os.Stdout).Encode(messages)
				}
				fmt.Print(r.Transcript(fmt.Sprintf("Conversation %d", transcript), messages))
				return nil
			}

			conversations, err := c.ListConversations(ctx)
			if err != nil {
				return fmt.Errorf("list conversations: %w", err)
			}
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(conversations)
			}
			fmt.Println(r.Conversations(conversations))
			return nil
		},
	}

	cmd.Flags().Int64Var(&transcript, "transcript", 0, "Print the transcript of one conversation")

	return cmd
}
