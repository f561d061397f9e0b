package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCommand(application *app) *cobra.Command {
	var email string
	var password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			record, err := application.client.Login(ctx, email, password)
			if err != nil {
				return err
			}
			if !application.sessions.Persist(ctx, *record) {
				return fmt.Errorf("credential persist failed")
			}
			identity := application.sessions.CurrentUser(ctx)
			if identity == nil {
				return fmt.Errorf("session did not persist")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s\n", identity.DisplayName)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCommand(application *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the local session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			// Server-side logout is best effort; the local credential is
			// cleared no matter what the server said.
			if err := application.client.Logout(ctx); err != nil {
				application.logger.Warn("server logout failed")
			}
			application.sessions.Clear(ctx)
			fmt.Fprintln(cmd.OutOrStdout(), "signed out")
			return nil
		},
	}
}

func newWhoamiCommand(application *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !application.sessions.IsAuthenticated(ctx) {
				fmt.Fprintln(cmd.OutOrStdout(), "not signed in")
				return nil
			}
			identity := application.sessions.CurrentUser(ctx)
			if identity == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "not signed in")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>", identity.DisplayName, identity.Email)
			if identity.IsStaff {
				fmt.Fprint(cmd.OutOrStdout(), " (staff)")
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
}
