package main

import (
	"fmt"

	"github.com/erp/backoffice/internal/client"
	"github.com/spf13/cobra"
)

func loginCommand(a *app) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if username == "" {
				if username, err = a.term.ask("Username"); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = a.term.secret("Password"); err != nil {
					return err
				}
			}
			res, err := a.client.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Signed in as %s until %s\n",
				client.Icon("login"), res.User.Username, res.ExpiresAt.Local().Format("2006-01-02 15:04"))
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "user name (prompted when empty)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when empty)")
	return cmd
}

func logoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the token and clear the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.client.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Signed out\n", client.Icon("logout"))
			return nil
		},
	}
}

func whoamiCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := a.client.Me(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), u)
		},
	}
}

func themeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|system]",
		Short:     "Show or change the stored UI theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{client.ThemeLight, client.ThemeDark, client.ThemeSystem},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if err := a.client.State().SetTheme(args[0]); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.client.State().Snapshot().UI.Theme)
			return nil
		},
	}
}

func referenceCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reference",
		Short: "Load the reference data used by partner forms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ref, err := a.services.Lookups.ReferenceData(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), ref)
		},
	}
}
