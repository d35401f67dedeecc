// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tokoadmin Contributors

package resource

import "sync"

// inflightGuard tracks requests currently in flight, keyed by
// (resource, verb, id). Rapid repeated triggers of the same operation —
// a double-click submit — are rejected instead of producing concurrent
// duplicate mutations.
type inflightGuard struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func newInflightGuard() *inflightGuard {
	return &inflightGuard{active: make(map[string]struct{})}
}

// acquire marks the keyed request in flight. Returns a release function and
// true on success, or nil and false when an identical request is active.
func (g *inflightGuard) acquire(resource, verb, id string) (func(), bool) {
	key := resource + ":" + verb + ":" + id

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.active[key]; exists {
		return nil, false
	}
	g.active[key] = struct{}{}

	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.active, key)
	}, true
}
