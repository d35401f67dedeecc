// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tokoadmin Contributors

// Package gate decides, before any protected screen renders, whether a
// navigation target is allowed given current credential presence. The
// decision is local and synchronous: no network call, presence only.
// Credential validity is judged later by the API client when the backend
// rejects a stale credential.
package gate

import (
	"strings"

	"github.com/gobwas/glob"
	"github.com/samber/oops"
)

// DefaultLoginPath is the unauthenticated landing view.
const DefaultLoginPath = "/login"

// DefaultProtectedPrefixes are the catalog sections requiring a session,
// including everything nested beneath them.
func DefaultProtectedPrefixes() []string {
	return []string{"/product", "/product-category", "/product-variant"}
}

// Decision is the outcome of a gate check.
type Decision struct {
	Allow      bool
	RedirectTo string // set only when Allow is false
}

// compiledPrefix holds a protected prefix and its compiled globs.
// exact matches the section root, nested matches everything beneath it.
type compiledPrefix struct {
	prefix string
	exact  glob.Glob
	nested glob.Glob
}

// Gate evaluates navigation targets against the protected prefix set.
// Immutable after construction and safe for concurrent use.
type Gate struct {
	prefixes  []compiledPrefix
	loginPath string
}

// New compiles the protected prefixes into a Gate. An empty prefix list is
// valid and protects nothing. Returns an error if a prefix fails to compile
// (invalid glob syntax).
func New(prefixes []string, loginPath string) (*Gate, error) {
	if loginPath == "" {
		loginPath = DefaultLoginPath
	}

	compiled := make([]compiledPrefix, 0, len(prefixes))
	for _, p := range prefixes {
		p = strings.TrimSuffix(p, "/")
		if p == "" || !strings.HasPrefix(p, "/") {
			return nil, oops.In("gate").
				Code("GATE_INVALID_PREFIX").
				With("prefix", p).
				Errorf("protected prefix must start with '/'")
		}
		exact, err := glob.Compile(p, '/')
		if err != nil {
			return nil, oops.In("gate").
				Code("GATE_INVALID_PREFIX").
				With("prefix", p).
				Wrap(err)
		}
		nested, err := glob.Compile(p+"/**", '/')
		if err != nil {
			return nil, oops.In("gate").
				Code("GATE_INVALID_PREFIX").
				With("prefix", p).
				Wrap(err)
		}
		compiled = append(compiled, compiledPrefix{prefix: p, exact: exact, nested: nested})
	}

	return &Gate{prefixes: compiled, loginPath: loginPath}, nil
}

// Decide is a pure function of the requested path and session presence.
// A protected path without a session is denied with a redirect to the
// unauthenticated landing view; everything else is allowed. An ambiguous
// or missing credential must be reported by the caller as absent — the
// gate never fails open.
func (g *Gate) Decide(path string, sessionPresent bool) Decision {
	if !g.isProtected(path) {
		return Decision{Allow: true}
	}
	if sessionPresent {
		return Decision{Allow: true}
	}
	return Decision{Allow: false, RedirectTo: g.loginPath}
}

// LoginPath returns the configured unauthenticated landing path.
func (g *Gate) LoginPath() string {
	return g.loginPath
}

func (g *Gate) isProtected(path string) bool {
	for _, p := range g.prefixes {
		if p.exact.Match(path) || p.nested.Match(path) {
			return true
		}
	}
	return false
}
