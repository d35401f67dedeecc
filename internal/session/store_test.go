// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tokoadmin Contributors

package session_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokoadmin/tokoadmin/internal/session"
	"github.com/tokoadmin/tokoadmin/pkg/errutil"
)

func storePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "session.json")
}

func TestStore_Save(t *testing.T) {
	t.Run("persists encoded credential", func(t *testing.T) {
		path := storePath(t)
		store := session.NewStore(path)

		sess, err := store.Save("raw-token", time.Hour)
		require.NoError(t, err)
		assert.Equal(t, "raw-token", sess.Token)
		assert.Equal(t, session.EncodeToken("raw-token"), sess.Encoded)

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var record map[string]any
		require.NoError(t, json.Unmarshal(data, &record))
		assert.Equal(t, session.CookieName, record["name"])
		assert.Equal(t, sess.Encoded, record["value"])
	})

	t.Run("rejects empty credential", func(t *testing.T) {
		store := session.NewStore(storePath(t))

		_, err := store.Save("", time.Hour)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "SESSION_TOKEN_EMPTY")
	})

	t.Run("non-positive ttl falls back to default", func(t *testing.T) {
		issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		store := session.NewStore(storePath(t),
			session.WithClock(func() time.Time { return issued }),
		)

		sess, err := store.Save("raw-token", 0)
		require.NoError(t, err)
		assert.Equal(t, issued.Add(session.DefaultTTL), sess.ExpiresAt)
	})

	t.Run("creates parent directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "state", "session.json")
		store := session.NewStore(path)

		_, err := store.Save("raw-token", time.Hour)
		require.NoError(t, err)
		assert.FileExists(t, path)
	})
}

func TestStore_Current(t *testing.T) {
	t.Run("returns saved session", func(t *testing.T) {
		store := session.NewStore(storePath(t))

		saved, err := store.Save("raw-token", time.Hour)
		require.NoError(t, err)

		current := store.Current()
		require.NotNil(t, current)
		assert.Equal(t, saved.Token, current.Token)
		assert.Equal(t, saved.Encoded, current.Encoded)
	})

	t.Run("nil when no file exists", func(t *testing.T) {
		store := session.NewStore(storePath(t))
		assert.Nil(t, store.Current())
	})

	t.Run("nil on corrupt file", func(t *testing.T) {
		path := storePath(t)
		require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

		store := session.NewStore(path)
		assert.Nil(t, store.Current())
	})

	t.Run("nil on wrong cookie name", func(t *testing.T) {
		path := storePath(t)
		record := `{"name":"other","value":"dG9rZW4=","issued_at":"2026-03-01T00:00:00Z","expires_at":"2030-01-01T00:00:00Z"}`
		require.NoError(t, os.WriteFile(path, []byte(record), 0o600))

		store := session.NewStore(path)
		assert.Nil(t, store.Current())
	})

	t.Run("nil on undecodable value", func(t *testing.T) {
		path := storePath(t)
		record := `{"name":"token","value":"%%%not-base64%%%","issued_at":"2026-03-01T00:00:00Z","expires_at":"2030-01-01T00:00:00Z"}`
		require.NoError(t, os.WriteFile(path, []byte(record), 0o600))

		store := session.NewStore(path)
		assert.Nil(t, store.Current())
	})

	t.Run("expired session is dropped and file removed", func(t *testing.T) {
		path := storePath(t)
		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		store := session.NewStore(path,
			session.WithClock(func() time.Time { return now }),
		)

		_, err := store.Save("raw-token", time.Hour)
		require.NoError(t, err)

		now = now.Add(2 * time.Hour)

		assert.Nil(t, store.Current())
		assert.NoFileExists(t, path)
	})
}

func TestStore_Clear(t *testing.T) {
	t.Run("removes the persisted session", func(t *testing.T) {
		path := storePath(t)
		store := session.NewStore(path)

		_, err := store.Save("raw-token", time.Hour)
		require.NoError(t, err)

		require.NoError(t, store.Clear())
		assert.Nil(t, store.Current())
		assert.NoFileExists(t, path)
	})

	t.Run("idempotent when nothing is stored", func(t *testing.T) {
		store := session.NewStore(storePath(t))
		assert.NoError(t, store.Clear())
		assert.NoError(t, store.Clear())
	})
}

func TestEncodeDecodeToken(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		raw := "header.payload.signature"
		decoded, err := session.DecodeToken(session.EncodeToken(raw))
		require.NoError(t, err)
		assert.Equal(t, raw, decoded)
	})

	t.Run("decode rejects invalid base64", func(t *testing.T) {
		_, err := session.DecodeToken("%%%")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "SESSION_DECODE_FAILED")
	})
}

func TestSession_IsExpiredAt(t *testing.T) {
	sess := &session.Session{
		ExpiresAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	assert.False(t, sess.IsExpiredAt(sess.ExpiresAt.Add(-time.Minute)))
	assert.False(t, sess.IsExpiredAt(sess.ExpiresAt))
	assert.True(t, sess.IsExpiredAt(sess.ExpiresAt.Add(time.Minute)))
}
