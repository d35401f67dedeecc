// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tokoadmin Contributors

package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the tokoadmin CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokoadmin",
		Short: "Tokoadmin - a product catalog admin console",
		Long: `Tokoadmin is an admin console for a product catalog REST backend.
It manages products, categories, and variants through an authenticated
API access layer with a uniform, typed request outcome.`,
		SilenceUsage: true,
	}

	// Global flags, overlaid onto the config file by the loader.
	cmd.PersistentFlags().String("config", "", "config file path")
	cmd.PersistentFlags().String("api.root", "", "backend root URL")
	cmd.PersistentFlags().String("log.format", "", "log format (json or text)")
	cmd.PersistentFlags().String("session.file", "", "session credential file path")

	// Auth screens
	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newRegisterCmd())
	cmd.AddCommand(newLogoutCmd())
	cmd.AddCommand(newWhoamiCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newConfigCmd())

	// Catalog screens: one command group per resource, added by
	// configuration rather than per-entity code.
	for _, res := range catalogResources() {
		cmd.AddCommand(newResourceCmd(res))
	}

	return cmd
}

// catalogResources lists the backend collections the console manages.
func catalogResources() []string {
	return []string{"product", "product-category", "product-variant"}
}
