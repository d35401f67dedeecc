// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tokoadmin Contributors

package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokoadmin/tokoadmin/internal/gate"
	"github.com/tokoadmin/tokoadmin/internal/session"
)

func testApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()

	g, err := gate.New(gate.DefaultProtectedPrefixes(), "/login")
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	return &App{
		Store: session.NewStore(filepath.Join(t.TempDir(), "session.json")),
		Gate:  g,
		out: func(format string, args ...any) {
			fmt.Fprintf(buf, format+"\n", args...)
		},
	}, buf
}

// appFromConfig builds the component graph from a config file, the way a
// real invocation does.
func appFromConfig(t *testing.T, configYAML string) *App {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(configYAML), 0o600))

	cmd := &cobra.Command{}
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.Flags().String("config", path, "")

	app, err := newApp(cmd)
	require.NoError(t, err)
	return app
}

func TestNewApp_SessionAndGateConfig(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":false,"data":{"message":"Welcome","data":{"token":"issued-jwt"}}}`)) //nolint:errcheck
	}))
	defer srv.Close()

	sessionFile := filepath.Join(t.TempDir(), "session.json")
	app := appFromConfig(t, fmt.Sprintf(`
api:
  root: %s
session:
  file: %s
  ttl_hours: 1
gate:
  home_path: /dashboard
`, srv.URL, sessionFile))

	result := app.Auth.SignIn(context.Background(), "admin@example.com", "secret")
	require.True(t, result.OK)
	assert.Equal(t, "/dashboard", result.RedirectTo, "configured home path must be the redirect target")

	sess := app.Store.Current()
	require.NotNil(t, sess)
	assert.Equal(t, time.Hour, sess.ExpiresAt.Sub(sess.IssuedAt),
		"configured ttl_hours must bound the persisted session")
}

func TestApp_Guard(t *testing.T) {
	t.Run("denies a protected path without a session", func(t *testing.T) {
		app, buf := testApp(t)

		err := app.guard("/product")
		require.Error(t, err)
		assert.Contains(t, buf.String(), "/login")
	})

	t.Run("allows a protected path with a session", func(t *testing.T) {
		app, _ := testApp(t)
		_, err := app.Store.Save("active-jwt", time.Hour)
		require.NoError(t, err)

		assert.NoError(t, app.guard("/product"))
	})

	t.Run("allows open paths regardless of session", func(t *testing.T) {
		app, _ := testApp(t)
		assert.NoError(t, app.guard("/login"))
		assert.NoError(t, app.guard("/"))
	})
}
