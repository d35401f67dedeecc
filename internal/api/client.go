// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tokoadmin Contributors

// Package api is the single chokepoint for all network I/O against the
// catalog backend. Every request goes through Client.Dispatch, which
// attaches the session credential, executes the request, and returns one
// normalized Outcome regardless of which resource was targeted.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/tokoadmin/tokoadmin/internal/apierror"
	"github.com/tokoadmin/tokoadmin/internal/gate"
	"github.com/tokoadmin/tokoadmin/internal/session"
)

var tracer = otel.Tracer("tokoadmin/api")

// Wire contract constants. These must match the backend exactly.
const (
	// APIVersion is the fixed path segment between the root and the resource.
	APIVersion = "api/v1"

	// methodOverrideField is the form field naming the spoofed verb.
	// Updates are sent as POST carrying this field, matching the backend's
	// method spoofing convention.
	methodOverrideField = "_method"

	requestIDHeader = "X-Request-ID"
	contentTypeForm = "application/x-www-form-urlencoded"
)

const defaultTimeout = 10 * time.Second

// Client dispatches requests against the backend. Construct with NewClient.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      *session.Store
	logger     *slog.Logger
	loginPath  string
}

// Option configures a Client during construction.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger overrides the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithLoginPath overrides the redirect target used when the backend
// declares the credential expired.
func WithLoginPath(path string) Option {
	return func(c *Client) {
		c.loginPath = path
	}
}

// NewClient creates a Client for the given backend root. The store is
// read on every dispatch and cleared when the backend declares the
// credential expired; it is never written otherwise.
func NewClient(baseURL string, store *session.Store, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		store:     store,
		logger:    slog.Default(),
		loginPath: gate.DefaultLoginPath,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dispatch executes one request and returns a normalized outcome. It is
// total: transport failures, parse failures, and backend errors all come
// back as a Failure outcome, never as a panic or a Go error.
//
// The session credential, when present, is attached as a bearer header.
// Absence is not an error here — unauthenticated calls (sign-in, sign-up)
// are allowed to attempt dispatch and rely on the backend to reject.
//
// PUT is spoofed: sent as POST with the override field set, because the
// backend cannot reliably parse native update bodies. This is a wire
// contract, preserved bit-exact.
func (c *Client) Dispatch(ctx context.Context, method, resourcePath string, form url.Values) Outcome {
	resource := resourceLabel(resourcePath)
	start := time.Now()

	ctx, span := tracer.Start(ctx, "api.dispatch")
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("api.resource", resource),
	)
	defer span.End()

	outcome := c.dispatch(ctx, method, resourcePath, form)

	RecordRequest(resource, method, outcome.Status())
	RecordDuration(resource, method, time.Since(start))
	if !outcome.OK {
		span.SetStatus(codes.Error, outcome.Failure.Kind.String())
		c.logger.WarnContext(ctx, "dispatch failed",
			"method", method,
			"resource", resource,
			"kind", outcome.Failure.Kind.String(),
		)
	} else {
		span.SetStatus(codes.Ok, "")
	}

	return outcome
}

func (c *Client) dispatch(ctx context.Context, method, resourcePath string, form url.Values) Outcome {
	endpoint := fmt.Sprintf("%s/%s/%s", c.baseURL, APIVersion, strings.TrimLeft(resourcePath, "/"))

	sendMethod := method
	if method == http.MethodPut {
		sendMethod = http.MethodPost
		spoofed := url.Values{}
		for k, vs := range form {
			spoofed[k] = vs
		}
		spoofed.Set(methodOverrideField, http.MethodPut)
		form = spoofed
	}

	var body io.Reader
	if sendMethod == http.MethodPost && form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, sendMethod, endpoint, body)
	if err != nil {
		return Failed(apierror.Transport(err.Error()))
	}
	if body != nil {
		req.Header.Set("Content-Type", contentTypeForm)
	}

	requestID := ulid.Make().String()
	req.Header.Set(requestIDHeader, requestID)

	if sess := c.store.Current(); sess != nil {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	c.logger.DebugContext(ctx, "dispatch",
		"method", method,
		"endpoint", endpoint,
		"request_id", requestID,
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Failed(apierror.Transport(err.Error()))
	}
	defer resp.Body.Close() //nolint:errcheck // Read-side close

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return Failed(apierror.Transport(err.Error()))
	}

	// No-content responses (destroy) carry no envelope.
	if len(payload) == 0 {
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return Success(nil)
		}
		return Failed(apierror.Transport(resp.Status))
	}

	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return Failed(apierror.Transport("unexpected response from backend"))
	}

	// Classification is payload-shape driven, never HTTP status alone:
	// the backend returns 200-level wrappers with the error flag set as
	// well as non-200 failures, and both take this path.
	if env.Error || resp.StatusCode >= 400 {
		return c.fail(ctx, env.Message)
	}

	return Success(payload)
}

// fail classifies a backend error payload. Session expiry is handled at
// this layer: the store is cleared and the outcome signals the caller
// that a redirect to the unauthenticated landing view is required.
func (c *Client) fail(ctx context.Context, message json.RawMessage) Outcome {
	classified := apierror.Classify(message)
	outcome := Failed(classified)

	if classified.Kind == apierror.KindSessionExpired {
		if err := c.store.Clear(); err != nil {
			c.logger.WarnContext(ctx, "failed to clear expired session", "error", err)
		}
		outcome.RedirectTo = c.loginPath
	}

	return outcome
}

// resourceLabel extracts the leading path segment for metrics and logs.
func resourceLabel(resourcePath string) string {
	trimmed := strings.TrimLeft(resourcePath, "/")
	if i := strings.IndexAny(trimmed, "/?"); i >= 0 {
		trimmed = trimmed[:i]
	}
	if trimmed == "" {
		return "unknown"
	}
	return trimmed
}
