// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tokoadmin Contributors

package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/tokoadmin/tokoadmin/internal/api"
	"github.com/tokoadmin/tokoadmin/internal/auth"
	"github.com/tokoadmin/tokoadmin/internal/config"
	"github.com/tokoadmin/tokoadmin/internal/gate"
	"github.com/tokoadmin/tokoadmin/internal/listview"
	"github.com/tokoadmin/tokoadmin/internal/logging"
	"github.com/tokoadmin/tokoadmin/internal/notify"
	"github.com/tokoadmin/tokoadmin/internal/resource"
	"github.com/tokoadmin/tokoadmin/internal/session"
)

// App wires the access layer for one command invocation: config, session
// store, API client, gate, and the services built on them.
type App struct {
	Config    *config.Config
	Store     *session.Store
	Client    *api.Client
	Gate      *gate.Gate
	Resources *resource.Service
	Auth      *auth.Service
	Notifier  notify.Notifier
	Registry  *prometheus.Registry

	out func(format string, args ...any)
}

// newApp loads configuration and builds the component graph.
func newApp(cmd *cobra.Command) (*App, error) {
	flags := cmd.Flags()

	configPath, _ := flags.GetString("config") //nolint:errcheck // flag is declared on the root
	cfg, err := config.Load(configPath, flags)
	if err != nil {
		return nil, err
	}

	logger := logging.Setup("tokoadmin", version, cfg.Log.Format, cmd.ErrOrStderr())
	// Components that fall back to slog.Default get the configured format.
	slog.SetDefault(logger)

	store := session.NewStore(cfg.Session.File)

	client := api.NewClient(cfg.API.Root, store,
		api.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.API.TimeoutSeconds) * time.Second,
		}),
		api.WithLogger(logger),
		api.WithLoginPath(cfg.Gate.LoginPath),
	)

	g, err := gate.New(cfg.Gate.ProtectedPrefixes, cfg.Gate.LoginPath)
	if err != nil {
		return nil, err
	}

	notifier := notify.NewLogNotifier(logger)

	app := &App{
		Config:    cfg,
		Store:     store,
		Client:    client,
		Gate:      g,
		Resources: resource.NewService(client),
		Notifier:  notifier,
		Registry:  prometheus.NewRegistry(),
		out: func(format string, args ...any) {
			cmd.Printf(format+"\n", args...)
		},
	}
	app.Auth = auth.NewService(client, store, notifier,
		auth.WithNavigator(app.navigateTo),
		auth.WithSessionTTL(time.Duration(cfg.Session.TTLHours)*time.Hour),
		auth.WithHomePath(cfg.Gate.HomePath),
	)

	api.RegisterMetrics(app.Registry)

	return app, nil
}

// navigateTo is the console's navigation analog: it announces where the
// flow would take the user next.
func (a *App) navigateTo(path string) {
	a.out("→ %s", path)
}

// guard runs the session gate for a navigation target before any content
// is fetched or rendered. Denial announces the redirect and stops the
// command.
func (a *App) guard(path string) error {
	decision := a.Gate.Decide(path, a.Store.Current() != nil)
	if decision.Allow {
		return nil
	}
	a.navigateTo(decision.RedirectTo)
	return fmt.Errorf("sign in required for %s", path)
}

// listController builds the list screen controller for a resource.
func (a *App) listController(resourceName string) (*listview.Controller, error) {
	return listview.NewController(resourceName, a.Resources, a.Notifier,
		listview.WithNavigator(a.navigateTo),
	)
}
