package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/notes/pkg/notes"
)

func createCmd(g *globals) *cobra.Command {
	var in notes.NoteInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a note",
		Long: `Create a note through the notes API.

The input is checked locally before it is sent; both local and server
validation failures list the offending fields.

Examples:
  notes create --title="Groceries" --body="eggs, milk"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.UserID == 0 {
				in.UserID = int64(g.cfg.API.UserID)
			}
			n, err := g.client().CreateNote(cmd.Context(), in)
			if err != nil {
				return apiError(err)
			}
			success("Created note %d", n.ID)
			fmt.Fprintln(cmd.OutOrStdout(), n.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&in.Title, "title", "t", "", "Note title")
	cmd.Flags().StringVarP(&in.Note, "body", "b", "", "Note text")
	cmd.Flags().Int64Var(&in.UserID, "user-id", 0, "Owner id (default api.user_id)")

	return cmd
}
