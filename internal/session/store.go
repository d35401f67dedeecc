// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tokoadmin Contributors

package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/samber/oops"
)

// cookieRecord is the on-disk shape of the persisted credential.
// It mirrors the browser cookie the backend contract describes: an entry
// named "token" holding the encoded credential with a 1-day expiry.
type cookieRecord struct {
	Name      string    `json:"name"`
	Value     string    `json:"value"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store persists the session credential to a single file.
// It is the sole owner of session state; Save and Clear are its only
// write surfaces.
type Store struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// StoreOption configures a Store during construction.
type StoreOption func(*Store)

// WithClock overrides the time source. Used by tests for deterministic expiry.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a Store persisting to the given file path.
func NewStore(path string, opts ...StoreOption) *Store {
	s := &Store{
		path: path,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save encodes and persists the credential with the given lifetime.
// A non-positive ttl falls back to DefaultTTL. Subsequent Current calls
// return the session until expiry or an explicit Clear.
func (s *Store) Save(rawCredential string, ttl time.Duration) (*Session, error) {
	if rawCredential == "" {
		return nil, oops.Code("SESSION_TOKEN_EMPTY").Errorf("credential cannot be empty")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	issued := s.now()
	sess := &Session{
		Token:     rawCredential,
		Encoded:   EncodeToken(rawCredential),
		IssuedAt:  issued,
		ExpiresAt: issued.Add(ttl),
	}

	record := cookieRecord{
		Name:      CookieName,
		Value:     sess.Encoded,
		IssuedAt:  sess.IssuedAt,
		ExpiresAt: sess.ExpiresAt,
	}
	data, err := json.Marshal(record)
	if err != nil {
		return nil, oops.Code("SESSION_PERSIST_FAILED").
			With("operation", "marshal session record").
			Wrap(err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return nil, oops.Code("SESSION_PERSIST_FAILED").
			With("operation", "create state directory").
			With("path", filepath.Dir(s.path)).
			Wrap(err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return nil, oops.Code("SESSION_PERSIST_FAILED").
			With("operation", "write session file").
			With("path", s.path).
			Wrap(err)
	}

	return sess, nil
}

// Current returns the active session, or nil when absent, expired, or
// undecodable. It never returns an error: a session that cannot be read
// is treated the same as no session at all.
func (s *Store) Current() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}

	var record cookieRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil
	}
	if record.Name != CookieName || record.Value == "" {
		return nil
	}

	raw, err := DecodeToken(record.Value)
	if err != nil {
		return nil
	}

	sess := &Session{
		Token:     raw,
		Encoded:   record.Value,
		IssuedAt:  record.IssuedAt,
		ExpiresAt: record.ExpiresAt,
	}
	if sess.IsExpiredAt(s.now()) {
		// Lifetime elapsed: drop the stale record so later reads are cheap.
		_ = os.Remove(s.path) //nolint:errcheck // Best effort, Current never fails
		return nil
	}
	return sess
}

// Clear removes the persisted credential. Idempotent: clearing an absent
// session is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return oops.Code("SESSION_CLEAR_FAILED").
			With("path", s.path).
			Wrap(err)
	}
	return nil
}
