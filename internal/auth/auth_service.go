// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tokoadmin Contributors

// Package auth implements the sign-in, sign-up, and sign-out flows on top
// of the API client. It owns no session state: the session store is the
// sole writer, and this package only asks it to save or clear.
package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/tokoadmin/tokoadmin/internal/api"
	"github.com/tokoadmin/tokoadmin/internal/apierror"
	"github.com/tokoadmin/tokoadmin/internal/gate"
	"github.com/tokoadmin/tokoadmin/internal/notify"
	"github.com/tokoadmin/tokoadmin/internal/session"
)

// Backend auth endpoints.
const (
	signInPath  = "auth/signin"
	signUpPath  = "auth/signup"
	signOutPath = "auth/logout"
)

// HomePath is the catalog home, the default post sign-in/sign-up redirect
// target.
const HomePath = "/"

// Dispatcher executes one normalized request. Satisfied by *api.Client.
type Dispatcher interface {
	Dispatch(ctx context.Context, method, resourcePath string, form url.Values) api.Outcome
}

// Result reports how a flow resolved. FieldErrors carries per-field flags
// for the calling form; RedirectTo is set when navigation was requested.
type Result struct {
	OK          bool
	RedirectTo  string
	FieldErrors map[string]bool
}

// Service provides the authentication flows.
type Service struct {
	client   Dispatcher
	store    *session.Store
	notifier notify.Notifier
	navigate func(path string)
	ttl      time.Duration
	homePath string
}

// ServiceOption configures a Service during construction.
type ServiceOption func(*Service)

// WithNavigator sets the navigation callback. If unset, redirects are
// reported in the Result only.
func WithNavigator(navigate func(path string)) ServiceOption {
	return func(s *Service) {
		s.navigate = navigate
	}
}

// WithSessionTTL overrides the client-declared credential lifetime saved
// on sign-in.
func WithSessionTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithHomePath overrides the post sign-in/sign-up redirect target.
func WithHomePath(path string) ServiceOption {
	return func(s *Service) {
		if path != "" {
			s.homePath = path
		}
	}
}

// NewService creates an auth Service.
func NewService(client Dispatcher, store *session.Store, notifier notify.Notifier, opts ...ServiceOption) *Service {
	s := &Service{
		client:   client,
		store:    store,
		notifier: notifier,
		ttl:      session.DefaultTTL,
		homePath: HomePath,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// signInPayload is the innermost sign-in response shape.
type signInPayload struct {
	Token string `json:"token"`
}

// SignIn authenticates with the backend. On success the credential is
// saved with its client-declared lifetime and the flow redirects to the
// catalog home.
func (s *Service) SignIn(ctx context.Context, email, password string) Result {
	form := url.Values{}
	form.Set("email", email)
	form.Set("password", password)

	outcome := s.client.Dispatch(ctx, http.MethodPost, signInPath, form)
	if !outcome.OK {
		return s.failed(outcome)
	}

	env, err := api.DecodeEnvelope(outcome.Payload)
	if err != nil {
		s.notifier.Error(apierror.Transport("").Surface())
		return Result{}
	}

	var payload signInPayload
	if err := json.Unmarshal(env.Data.Data, &payload); err != nil || payload.Token == "" {
		s.notifier.Error(apierror.Transport("").Surface())
		return Result{}
	}

	if _, err := s.store.Save(payload.Token, s.ttl); err != nil {
		s.notifier.Error("Failed to save session")
		return Result{}
	}

	if env.Data.Message != "" {
		s.notifier.Success(env.Data.Message)
	}
	return s.redirect(Result{OK: true}, s.homePath)
}

// SignUp registers a new account. Success notifies and redirects home; no
// session is stored — the account signs in explicitly afterwards.
func (s *Service) SignUp(ctx context.Context, fields url.Values) Result {
	outcome := s.client.Dispatch(ctx, http.MethodPost, signUpPath, fields)
	if !outcome.OK {
		return s.failed(outcome)
	}

	if msg := successMessage(outcome.Payload); msg != "" {
		s.notifier.Success(msg)
	}
	return s.redirect(Result{OK: true}, s.homePath)
}

// SignOut invalidates the backend session and clears the local one. A
// non-expiry backend failure keeps the local session and surfaces the
// error; the expiry sentinel has already cleared it at the client layer.
func (s *Service) SignOut(ctx context.Context) Result {
	outcome := s.client.Dispatch(ctx, http.MethodPost, signOutPath, url.Values{})
	if !outcome.OK {
		return s.failed(outcome)
	}

	if err := s.store.Clear(); err != nil {
		s.notifier.Error("Failed to clear session")
		return Result{}
	}

	if msg := successMessage(outcome.Payload); msg != "" {
		s.notifier.Success(msg)
	}
	return s.redirect(Result{OK: true}, gate.DefaultLoginPath)
}

// failed maps a failure outcome onto form behavior: field flags plus one
// notification per offending field for validation failures, a forced
// redirect for expiry, a single notification otherwise.
func (s *Service) failed(outcome api.Outcome) Result {
	switch outcome.Failure.Kind {
	case apierror.KindSessionExpired:
		// The client already cleared the store; no field markers are set.
		return s.redirect(Result{}, outcome.RedirectTo)
	case apierror.KindValidation:
		flags := make(map[string]bool, len(outcome.Failure.Fields))
		for _, field := range outcome.Failure.Fields {
			flags[field.Field] = true
			if len(field.Messages) > 0 {
				s.notifier.Error(field.Messages[0])
			}
		}
		return Result{FieldErrors: flags}
	default:
		s.notifier.Error(outcome.Failure.Surface())
		return Result{}
	}
}

func (s *Service) redirect(r Result, path string) Result {
	r.RedirectTo = path
	if s.navigate != nil {
		s.navigate(path)
	}
	return r
}

// successMessage extracts the toast text from a success payload, trying
// the outer envelope message first and the inner one second.
func successMessage(payload json.RawMessage) string {
	env, err := api.DecodeEnvelope(payload)
	if err != nil {
		return ""
	}
	var outer string
	if len(env.Message) > 0 && json.Unmarshal(env.Message, &outer) == nil && outer != "" {
		return outer
	}
	return env.Data.Message
}
