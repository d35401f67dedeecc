// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tokoadmin Contributors

// Package resource exposes generic list/create/show/update/destroy
// operations per named backend resource. Each is a direct pass-through to
// the API client with the corresponding verb and path; new entities are
// added by configuration, not new code.
package resource

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/tokoadmin/tokoadmin/internal/api"
	"github.com/tokoadmin/tokoadmin/internal/apierror"
)

// Dispatcher executes one normalized request. Satisfied by *api.Client.
type Dispatcher interface {
	Dispatch(ctx context.Context, method, resourcePath string, form url.Values) api.Outcome
}

// Service addresses backend resources through a uniform path scheme.
type Service struct {
	client   Dispatcher
	inflight *inflightGuard
	now      func() time.Time
}

// ServiceOption configures a Service during construction.
type ServiceOption func(*Service)

// WithClock overrides the time source used for cache-busting list requests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a Service on top of the given dispatcher.
func NewService(client Dispatcher, opts ...ServiceOption) *Service {
	s := &Service{
		client:   client,
		inflight: newInflightGuard(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List fetches all records of a resource. The request carries a
// cache-busting timestamp parameter so a refresh never serves stale data
// from an intermediary.
func (s *Service) List(ctx context.Context, name string) api.Outcome {
	if name == "" {
		return localFailure("resource name is required")
	}
	release, ok := s.inflight.acquire(name, "list", "")
	if !ok {
		return duplicateFailure(name, "list")
	}
	defer release()

	path := fmt.Sprintf("%s?t=%d", name, s.now().UnixMilli())
	return s.client.Dispatch(ctx, http.MethodGet, path, nil)
}

// Create submits a new record.
func (s *Service) Create(ctx context.Context, name string, form url.Values) api.Outcome {
	if name == "" {
		return localFailure("resource name is required")
	}
	release, ok := s.inflight.acquire(name, "create", "")
	if !ok {
		return duplicateFailure(name, "create")
	}
	defer release()

	return s.client.Dispatch(ctx, http.MethodPost, name, form)
}

// Show fetches one record by id.
func (s *Service) Show(ctx context.Context, name, id string) api.Outcome {
	if name == "" || id == "" {
		return localFailure("resource name and id are required")
	}
	release, ok := s.inflight.acquire(name, "show", id)
	if !ok {
		return duplicateFailure(name, "show")
	}
	defer release()

	return s.client.Dispatch(ctx, http.MethodGet, name+"/"+url.PathEscape(id), nil)
}

// Update replaces a record. The PUT verb is spoofed by the client per the
// backend's convention.
func (s *Service) Update(ctx context.Context, name, id string, form url.Values) api.Outcome {
	if name == "" || id == "" {
		return localFailure("resource name and id are required")
	}
	release, ok := s.inflight.acquire(name, "update", id)
	if !ok {
		return duplicateFailure(name, "update")
	}
	defer release()

	return s.client.Dispatch(ctx, http.MethodPut, name+"/"+url.PathEscape(id), form)
}

// Destroy deletes a record by id.
func (s *Service) Destroy(ctx context.Context, name, id string) api.Outcome {
	if name == "" || id == "" {
		return localFailure("resource name and id are required")
	}
	release, ok := s.inflight.acquire(name, "destroy", id)
	if !ok {
		return duplicateFailure(name, "destroy")
	}
	defer release()

	return s.client.Dispatch(ctx, http.MethodDelete, name+"/"+url.PathEscape(id), nil)
}

// localFailure rejects a request before any network call is attempted.
func localFailure(msg string) api.Outcome {
	return api.Failed(apierror.Classification{
		Kind:    apierror.KindGeneric,
		Message: msg,
	})
}

// duplicateFailure rejects a submission while an identical one is still in
// flight. No network call is made for the duplicate.
func duplicateFailure(name, verb string) api.Outcome {
	return api.Failed(apierror.Classification{
		Kind:    apierror.KindGeneric,
		Message: fmt.Sprintf("a %s request for %s is already in flight", verb, name),
	})
}
