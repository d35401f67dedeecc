// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tokoadmin Contributors

package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tokoadmin/tokoadmin/internal/api"
	"github.com/tokoadmin/tokoadmin/internal/apierror"
	"github.com/tokoadmin/tokoadmin/internal/listview"
)

// newResourceCmd builds the command group for one catalog resource. Every
// subcommand except none runs behind the session gate: the guard fires
// before any request is dispatched, mirroring route-level protection.
func newResourceCmd(res string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   res,
		Short: fmt.Sprintf("Manage %s records", res),
	}

	cmd.AddCommand(newListCmd(res))
	cmd.AddCommand(newShowCmd(res))
	cmd.AddCommand(newCreateCmd(res))
	cmd.AddCommand(newEditCmd(res))
	cmd.AddCommand(newDeleteCmd(res))

	return cmd
}

func newListCmd(res string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List all %s records", res),
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			if err := app.guard("/" + res); err != nil {
				return err
			}

			ctrl, err := app.listController(res)
			if err != nil {
				return err
			}

			ctrl.Load(cmd.Context())
			switch ctrl.State() {
			case listview.StateEmpty:
				app.out("no %s records", res)
				return nil
			case listview.StateErrored:
				return fmt.Errorf("failed to load %s", res)
			}

			renderRows(cmd, ctrl.Rows())
			return nil
		},
	}
}

func newShowCmd(res string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: fmt.Sprintf("Show one %s record", res),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			if err := app.guard("/" + res); err != nil {
				return err
			}

			outcome := app.Resources.Show(cmd.Context(), res, args[0])
			payload, err := app.surfaceOutcome(outcome)
			if err != nil {
				return err
			}

			renderRecord(cmd, payload)
			return nil
		},
	}
}

func newCreateCmd(res string) *cobra.Command {
	var fields []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: fmt.Sprintf("Create a %s record", res),
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			if err := app.guard("/" + res); err != nil {
				return err
			}

			form, err := parseFieldFlags(fields)
			if err != nil {
				return err
			}

			outcome := app.Resources.Create(cmd.Context(), res, form)
			if _, err := app.surfaceOutcome(outcome); err != nil {
				return err
			}

			app.out("created %s", res)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&fields, "set", nil, "record field as key=value (repeatable)")
	return cmd
}

func newEditCmd(res string) *cobra.Command {
	var fields []string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: fmt.Sprintf("Update a %s record", res),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			if err := app.guard("/" + res); err != nil {
				return err
			}

			form, err := parseFieldFlags(fields)
			if err != nil {
				return err
			}

			outcome := app.Resources.Update(cmd.Context(), res, args[0], form)
			if _, err := app.surfaceOutcome(outcome); err != nil {
				return err
			}

			app.out("updated %s %s", res, args[0])
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&fields, "set", nil, "record field as key=value (repeatable)")
	return cmd
}

func newDeleteCmd(res string) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a %s record", res),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			if err := app.guard("/" + res); err != nil {
				return err
			}

			ctrl, err := app.listController(res)
			if err != nil {
				return err
			}

			// Two-step delete: select first, execute only once
			// confirmed. Without --yes the selection is announced and
			// cleared, nothing is sent.
			ctrl.Select(args[0], res+" "+args[0])
			if !yes {
				sel := ctrl.Selection()
				app.out("would delete %s %s (re-run with --yes to confirm)", res, sel.ID)
				ctrl.ClearSelection()
				return nil
			}

			ctrl.ConfirmDelete(cmd.Context())
			if ctrl.State() == listview.StateErrored {
				return fmt.Errorf("failed to delete %s %s", res, args[0])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the delete")
	return cmd
}

// surfaceOutcome turns a failed outcome into printed feedback and an
// error, or returns the success payload. Session expiry announces the
// forced redirect; validation failures print one line per field.
func (a *App) surfaceOutcome(outcome api.Outcome) (json.RawMessage, error) {
	if outcome.OK {
		return outcome.Payload, nil
	}

	switch outcome.Failure.Kind {
	case apierror.KindSessionExpired:
		a.navigateTo(outcome.RedirectTo)
		return nil, fmt.Errorf("session expired")
	case apierror.KindValidation:
		for _, field := range outcome.Failure.Fields {
			for _, msg := range field.Messages {
				a.out("%s: %s", field.Field, msg)
			}
		}
		return nil, fmt.Errorf("request rejected")
	default:
		return nil, fmt.Errorf("%s", outcome.Failure.Surface())
	}
}

// parseFieldFlags converts repeated --set key=value flags into form values.
func parseFieldFlags(fields []string) (url.Values, error) {
	form := url.Values{}
	for _, f := range fields {
		key, value, ok := strings.Cut(f, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid field %q, expected key=value", f)
		}
		form.Set(key, value)
	}
	return form, nil
}

// renderRows prints decoded list rows as an aligned table. Columns are the
// union of row fields in sorted order, id first.
func renderRows(cmd *cobra.Command, rows []listview.Row) {
	columns := rowColumns(rows)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(columns, "\t")))
	for _, row := range rows {
		cells := make([]string, 0, len(columns))
		for _, col := range columns {
			if col == "id" {
				cells = append(cells, row.ID)
				continue
			}
			cells = append(cells, fieldString(row.Fields[col]))
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	w.Flush() //nolint:errcheck // best-effort terminal output
}

// renderRecord prints a single record's inner payload as key: value lines.
func renderRecord(cmd *cobra.Command, payload json.RawMessage) {
	env, err := api.DecodeEnvelope(payload)
	if err != nil {
		cmd.Println(string(payload))
		return
	}

	var record map[string]any
	if err := json.Unmarshal(env.Data.Data, &record); err != nil {
		cmd.Println(string(env.Data.Data))
		return
	}

	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, k := range keys {
		fmt.Fprintf(w, "%s:\t%s\n", k, fieldString(record[k]))
	}
	w.Flush() //nolint:errcheck // best-effort terminal output
}

// rowColumns returns the union of field names across rows, id first and
// the rest sorted.
func rowColumns(rows []listview.Row) []string {
	seen := map[string]bool{"id": true}
	var rest []string
	for _, row := range rows {
		for k := range row.Fields {
			if !seen[k] {
				seen[k] = true
				rest = append(rest, k)
			}
		}
	}
	sort.Strings(rest)
	return append([]string{"id"}, rest...)
}

// fieldString formats one field value for table output.
func fieldString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(b)
	}
}
