package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/notes/pkg/notes"
)

func loginCmd(g *globals) *cobra.Command {
	var (
		creds notes.Credentials
		save  bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the notes API",
		Long: `Log in with an email and password. With --save the returned token and
user id are written to the config file (notes.yaml when none was loaded).

Examples:
  notes login --email=me@example.com --password=secret --save`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := g.client()
			user, err := client.Login(cmd.Context(), creds)
			if err != nil {
				return apiError(err)
			}
			if user != nil {
				success("Logged in as %s", user.Email)
			} else {
				success("Logged in")
			}

			if !save {
				return nil
			}
			g.cfg.API.Token = client.Token()
			if user != nil {
				g.cfg.API.UserID = int(user.ID)
			}
			path := g.cfg.Path()
			if path == "" {
				path = "notes.yaml"
			}
			if err := g.cfg.SaveTo(path); err != nil {
				return err
			}
			info("Saved token to %s", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&creds.Email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&creds.Password, "password", "p", "", "Account password")
	cmd.Flags().BoolVar(&save, "save", false, "Save the token to the config file")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}
