// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tokoadmin Contributors

package main

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/tokoadmin/tokoadmin/internal/session"
)

// newLoginCmd creates the sign-in screen.
func newLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the catalog backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}

			result := app.Auth.SignIn(cmd.Context(), email, password)
			if !result.OK {
				return fmt.Errorf("sign in failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")    //nolint:errcheck // flag is declared above
	_ = cmd.MarkFlagRequired("password") //nolint:errcheck // flag is declared above

	return cmd
}

// newRegisterCmd creates the sign-up screen.
func newRegisterCmd() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new backend account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}

			fields := url.Values{}
			fields.Set("name", name)
			fields.Set("email", email)
			fields.Set("password", password)

			result := app.Auth.SignUp(cmd.Context(), fields)
			if !result.OK {
				return fmt.Errorf("registration failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "account name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")    //nolint:errcheck // flag is declared above
	_ = cmd.MarkFlagRequired("password") //nolint:errcheck // flag is declared above

	return cmd
}

// newLogoutCmd creates the sign-out action.
func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the local session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}

			result := app.Auth.SignOut(cmd.Context())
			if !result.OK {
				return fmt.Errorf("sign out failed")
			}
			return nil
		},
	}
}

// newWhoamiCmd shows the signed-in identity decoded from the credential.
func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}

			sess := app.Store.Current()
			if sess == nil {
				app.out("not signed in")
				return fmt.Errorf("no active session")
			}

			claims, err := session.DecodeClaims(sess.Token)
			if err != nil {
				return err
			}

			app.out("name:  %s", claims.User.Name)
			app.out("email: %s", claims.User.Email)
			if len(claims.Roles) > 0 {
				app.out("roles: %v", claims.Roles)
			}
			app.out("session expires: %s", sess.ExpiresAt.Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}
