// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tokoadmin Contributors

// Package session owns the client-held session credential: its encoding,
// persistence, and lifetime. The Store is the only writer of session state;
// every other component receives the Session read-only per call.
package session

import (
	"encoding/base64"
	"time"

	"github.com/samber/oops"
)

// Session credential configuration.
const (
	// CookieName is the persisted entry name, matching the backend's
	// session cookie contract.
	CookieName = "token"

	// DefaultTTL is the client-declared credential lifetime (1 day).
	// It is independent of the backend's own expiry judgment; the two are
	// reconciled by the error classifier, not here.
	DefaultTTL = 24 * time.Hour
)

// Session is the client-held proof of authentication and its metadata.
type Session struct {
	Token     string    // raw credential as issued by the backend
	Encoded   string    // reversible encoded form as persisted
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// IsExpired returns true if the session is past its client-declared lifetime.
func (s *Session) IsExpired() bool {
	return s.IsExpiredAt(time.Now())
}

// IsExpiredAt returns true if the session would be expired at the given time.
// Useful for testing with deterministic time values.
func (s *Session) IsExpiredAt(t time.Time) bool {
	return t.After(s.ExpiresAt)
}

// EncodeToken converts a raw credential into its persisted form.
// The encoding is reversible obfuscation, not a security boundary:
// nothing downstream may treat the encoded form as verified.
func EncodeToken(raw string) string {
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// DecodeToken reverses EncodeToken.
func DecodeToken(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", oops.Code("SESSION_DECODE_FAILED").
			With("operation", "base64 decode credential").
			Wrap(err)
	}
	return string(raw), nil
}
