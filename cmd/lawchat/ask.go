package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joss/lawchat/internal/client"
	"github.com/joss/lawchat/internal/render"
	lawstrings "github.com/joss/lawchat/internal/strings"
)

func askCmd() *cobra.Command {
	var conversationID int64

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a one-shot question",
		Long: `Ask a question without the TUI. Without --conversation a new
conversation is created, titled from the question.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")
			c := client.New(serverURL)
			ctx := cmd.Context()

			if conversationID == 0 {
				id, err := c.CreateConversation(ctx, lawstrings.Ellipsize(question, 20))
				if err != nil {
					return fmt.Errorf("create conversation: %w", err)
				}
				conversationID = id
			}

			reply, err := c.Ask(ctx, conversationID, question)
			if err != nil {
				return fmt.Errorf("ask: %w", err)
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(map[string]any{
					"conversation_id": conversationID,
					"answer":          reply,
				})
			}
			fmt.Print(render.New(pretty).Answer(reply))
			return nil
		},
	}

	cmd.Flags().Int64Var(&conversationID, "conversation", 0, "Existing conversation id")

	return cmd
}
