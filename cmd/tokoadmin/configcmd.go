// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tokoadmin Contributors

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tokoadmin/tokoadmin/internal/config"
	"github.com/tokoadmin/tokoadmin/internal/xdg"
)

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and validate configuration",
	}

	cmd.AddCommand(newConfigValidateCmd())
	return cmd
}

// newConfigValidateCmd checks a config file against the generated JSON
// Schema without loading it into the application.
func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a config file against the schema",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := xdg.ConfigFile()
			if len(args) == 1 {
				path = args[0]
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			if err := config.ValidateYAML(data); err != nil {
				return err
			}

			cmd.Printf("%s is valid\n", path)
			return nil
		},
	}
}
