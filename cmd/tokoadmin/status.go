// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tokoadmin Contributors

package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/tokoadmin/tokoadmin/internal/apierror"
)

// statusReport is the machine-readable shape of `tokoadmin status`.
type statusReport struct {
	Backend        string    `json:"backend"`
	Reachable      bool      `json:"reachable"`
	SignedIn       bool      `json:"signed_in"`
	SessionExpires time.Time `json:"session_expires,omitzero"`
	Requests       []counter `json:"requests,omitempty"`
}

type counter struct {
	Resource string  `json:"resource"`
	Method   string  `json:"method"`
	Status   string  `json:"status"`
	Count    float64 `json:"count"`
}

// newStatusCmd reports backend reachability, session state, and request
// counters for this invocation.
func newStatusCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show backend, session, and request status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}

			report := buildStatusReport(cmd.Context(), app)

			if asJSON {
				data, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return err
				}
				cmd.Println(string(data))
				return nil
			}

			reachability := "unreachable"
			if report.Reachable {
				reachability = "reachable"
			}
			app.out("backend: %s (%s)", report.Backend, reachability)
			if report.SignedIn {
				app.out("session: active, expires %s", report.SessionExpires.Format(time.RFC3339))
			} else {
				app.out("session: none")
			}
			for _, c := range report.Requests {
				app.out("requests %s %s %s: %.0f", c.Resource, c.Method, c.Status, c.Count)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

// buildStatusReport pings the backend with a list dispatch and snapshots
// the session and request counters. A classified backend error still
// proves reachability; only a transport failure does not.
func buildStatusReport(ctx context.Context, app *App) statusReport {
	report := statusReport{
		Backend: app.Config.API.Root,
	}

	outcome := app.Resources.List(ctx, "product")
	report.Reachable = outcome.OK || outcome.Failure.Kind != apierror.KindTransport

	if sess := app.Store.Current(); sess != nil {
		report.SignedIn = true
		report.SessionExpires = sess.ExpiresAt
	}
	report.Requests = gatherCounters(app)

	return report
}

// gatherCounters snapshots the request counter vector from the private
// registry.
func gatherCounters(app *App) []counter {
	families, err := app.Registry.Gather()
	if err != nil {
		return nil
	}

	var out []counter
	for _, fam := range families {
		if fam.GetName() != "tokoadmin_api_requests_total" {
			continue
		}
		for _, m := range fam.GetMetric() {
			c := counter{Count: m.GetCounter().GetValue()}
			for _, label := range m.GetLabel() {
				switch label.GetName() {
				case "resource":
					c.Resource = label.GetValue()
				case "method":
					c.Method = label.GetValue()
				case "status":
					c.Status = label.GetValue()
				}
			}
			out = append(out, c)
		}
	}
	return out
}
