// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tokoadmin Contributors

// Package listview orchestrates a list screen per entity: fetch on mount,
// cache-busted refresh, delete confirmation with guarded execution, and
// re-fetch after every mutation. Consistency is re-established by
// re-fetch, never by local row mutation.
package listview

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/samber/oops"

	"github.com/tokoadmin/tokoadmin/internal/api"
	"github.com/tokoadmin/tokoadmin/internal/apierror"
	"github.com/tokoadmin/tokoadmin/internal/notify"
	"github.com/tokoadmin/tokoadmin/pkg/errutil"
)

// State identifies the list screen's position in its lifecycle.
type State int

// List screen states. Loading is re-entered on manual refresh and after a
// successful mutation elsewhere.
const (
	StateIdle State = iota
	StateLoading
	StatePopulated
	StateEmpty
	StateErrored
)

// String returns the state name for logs.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StatePopulated:
		return "populated"
	case StateEmpty:
		return "empty"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Catalog is the resource surface the controller consumes.
// Satisfied by *resource.Service.
type Catalog interface {
	List(ctx context.Context, name string) api.Outcome
	Destroy(ctx context.Context, name, id string) api.Outcome
}

// Row is one flat list entry decoded from the backend's nested envelope.
type Row struct {
	ID     string
	Fields map[string]any
}

// Selection records the pending delete target while the confirmation
// surface is open.
type Selection struct {
	ID   string
	Name string
}

// Controller drives one entity's list screen.
type Controller struct {
	resource string
	catalog  Catalog
	notifier notify.Notifier
	navigate func(path string)
	logger   *slog.Logger

	// positionalFallback restores the legacy behavior of substituting the
	// row index when a record carries no stable identity. Off by default:
	// unstable backend ordering can misattribute rows across refreshes,
	// so a missing identity is treated as a data error.
	positionalFallback bool

	state     State
	rows      []Row
	selection *Selection
}

// ControllerOption configures a Controller during construction.
type ControllerOption func(*Controller)

// WithNavigator sets the navigation callback invoked on forced redirects
// (session expiry). If unset, redirects are logged only.
func WithNavigator(navigate func(path string)) ControllerOption {
	return func(c *Controller) {
		c.navigate = navigate
	}
}

// WithPositionalFallback substitutes the row index for a missing record
// identity instead of treating it as a data error.
func WithPositionalFallback() ControllerOption {
	return func(c *Controller) {
		c.positionalFallback = true
	}
}

// WithLogger overrides the controller logger.
func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

// NewController creates a list controller for one named resource.
func NewController(resourceName string, catalog Catalog, notifier notify.Notifier, opts ...ControllerOption) (*Controller, error) {
	if resourceName == "" {
		return nil, oops.Code("LISTVIEW_INVALID_RESOURCE").Errorf("resource name cannot be empty")
	}
	if catalog == nil {
		return nil, oops.Code("LISTVIEW_NIL_CATALOG").Errorf("catalog cannot be nil")
	}
	if notifier == nil {
		return nil, oops.Code("LISTVIEW_NIL_NOTIFIER").Errorf("notifier cannot be nil")
	}

	c := &Controller{
		resource: resourceName,
		catalog:  catalog,
		notifier: notifier,
		logger:   slog.Default(),
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// State returns the current screen state.
func (c *Controller) State() State {
	return c.state
}

// Rows returns the decoded rows in backend order.
func (c *Controller) Rows() []Row {
	return append([]Row(nil), c.rows...)
}

// Load fetches the list and transitions to Populated, Empty, or Errored.
func (c *Controller) Load(ctx context.Context) {
	c.state = StateLoading

	outcome := c.catalog.List(ctx, c.resource)
	if !outcome.OK {
		c.state = StateErrored
		c.report(outcome)
		return
	}

	env, err := api.DecodeEnvelope(outcome.Payload)
	if err != nil {
		c.state = StateErrored
		c.notifier.Error("Failed to load " + c.resource)
		return
	}

	rows, err := c.decodeRows(env.Data.Data)
	if err != nil {
		c.state = StateErrored
		c.notifier.Error("Failed to load " + c.resource)
		errutil.LogError(c.logger, "list payload rejected", err)
		return
	}

	c.rows = rows
	if len(rows) == 0 {
		c.state = StateEmpty
	} else {
		c.state = StatePopulated
	}
}

// Refresh re-enters Loading and re-fetches. The underlying list request is
// cache-busted by the resource service.
func (c *Controller) Refresh(ctx context.Context) {
	c.Load(ctx)
}

// Select records a delete target and opens the confirmation surface.
func (c *Controller) Select(id, name string) {
	c.selection = &Selection{ID: id, Name: name}
}

// ClearSelection closes the confirmation surface without deleting.
func (c *Controller) ClearSelection() {
	c.selection = nil
}

// Selection returns the pending delete target, or nil.
func (c *Controller) Selection() *Selection {
	if c.selection == nil {
		return nil
	}
	sel := *c.selection
	return &sel
}

// ConfirmDelete executes the confirmed delete. An empty id short-circuits
// with a local error notification and no network call. On success the list
// is re-fetched rather than spliced locally.
func (c *Controller) ConfirmDelete(ctx context.Context) {
	if c.selection == nil || c.selection.ID == "" {
		c.notifier.Error("Record ID not found")
		return
	}
	sel := *c.selection

	outcome := c.catalog.Destroy(ctx, c.resource, sel.ID)
	if !outcome.OK {
		c.report(outcome)
		return
	}

	c.notifier.Success("Deleted " + sel.Name)
	c.selection = nil
	c.Load(ctx)
}

// report surfaces a failure outcome through the shared notification
// channel. Session expiry is never surfaced as a plain notification: it
// forces a redirect instead. Validation failures raise one notification
// per offending field, carrying that field's first message.
func (c *Controller) report(outcome api.Outcome) {
	switch outcome.Failure.Kind {
	case apierror.KindSessionExpired:
		if c.navigate != nil {
			c.navigate(outcome.RedirectTo)
			return
		}
		c.logger.Warn("session expired, redirect required", "redirect_to", outcome.RedirectTo)
	case apierror.KindValidation:
		for _, field := range outcome.Failure.Fields {
			if len(field.Messages) > 0 {
				c.notifier.Error(field.Messages[0])
			}
		}
	default:
		c.notifier.Error(outcome.Failure.Surface())
	}
}

// decodeRows flattens the inner envelope array into ordered rows.
func (c *Controller) decodeRows(data json.RawMessage) ([]Row, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var items []map[string]any
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, oops.Code("LISTVIEW_BAD_PAYLOAD").
			With("resource", c.resource).
			Wrap(err)
	}

	rows := make([]Row, 0, len(items))
	for i, item := range items {
		id := stringID(item["id"])
		if id == "" {
			if !c.positionalFallback {
				return nil, oops.Code("LISTVIEW_MISSING_ID").
					With("resource", c.resource).
					With("index", i).
					Errorf("list row is missing a stable identity")
			}
			id = strconv.Itoa(i)
			c.logger.Warn("substituting positional row identity",
				"resource", c.resource,
				"index", i,
			)
		}
		rows = append(rows, Row{ID: id, Fields: item})
	}
	return rows, nil
}

// stringID normalizes the backend's id field, which may arrive as a JSON
// number or string.
func stringID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case json.Number:
		return id.String()
	default:
		return ""
	}
}
