// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tokoadmin Contributors

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasExpectedSubcommands(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	subcommands := []string{
		"login", "register", "logout", "whoami", "status", "config",
		"product", "product-category", "product-variant",
	}
	for _, sub := range subcommands {
		assert.Contains(t, output, sub, "Help missing %q command", sub)
	}
}

func TestRootCommand_GlobalFlags(t *testing.T) {
	cmd := NewRootCmd()

	for _, flag := range []string{"config", "api.root", "log.format", "session.file"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "missing global flag %q", flag)
	}
}

func TestResourceCommand_HasCRUDSubcommands(t *testing.T) {
	for _, res := range catalogResources() {
		t.Run(res, func(t *testing.T) {
			cmd := newResourceCmd(res)
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetArgs([]string{"--help"})

			require.NoError(t, cmd.Execute())

			output := buf.String()
			for _, sub := range []string{"list", "show", "create", "edit", "delete"} {
				assert.Contains(t, output, sub, "Help missing %q subcommand", sub)
			}
		})
	}
}

func TestLoginCommand_RequiresCredentialFlags(t *testing.T) {
	cmd := newLoginCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err, "login without --email/--password must fail")
}
