// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tokoadmin Contributors

package api

import (
	"encoding/json"

	"github.com/tokoadmin/tokoadmin/internal/apierror"
)

// Outcome is the discriminated result of a dispatch: exactly one of
// Payload (success) or Failure (classified error) is populated. The
// payload shape depends on the originating resource and is opaque here;
// callers unwrap the nested envelope themselves.
type Outcome struct {
	OK      bool
	Payload json.RawMessage
	Failure *apierror.Classification

	// RedirectTo is set when the access layer demands navigation, i.e. the
	// backend declared the credential expired and the session was cleared.
	RedirectTo string
}

// Success wraps a raw payload. The payload is handed through unchanged.
func Success(payload json.RawMessage) Outcome {
	return Outcome{OK: true, Payload: payload}
}

// Failed wraps a classification.
func Failed(c apierror.Classification) Outcome {
	return Outcome{Failure: &c}
}

// Status returns the metrics/log label for the outcome.
func (o Outcome) Status() string {
	if o.OK {
		return StatusSuccess
	}
	return o.Failure.Kind.String()
}

// Envelope mirrors the backend wrapper present on every response: a
// boolean error flag, a polymorphic message, and a nested data object.
type Envelope struct {
	Error   bool            `json:"error"`
	Message json.RawMessage `json:"message"`
	Data    InnerEnvelope   `json:"data"`
}

// InnerEnvelope is the second nesting level of a success envelope. Data
// holds an array for list responses and an object for show responses.
// Both nesting levels are load-bearing: callers unwrap them, the
// transport layer never does.
type InnerEnvelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// DecodeEnvelope unwraps a success payload into the backend envelope.
// Helper for callers; Dispatch itself never reshapes payloads.
func DecodeEnvelope(payload json.RawMessage) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return Envelope{}, err
	}
	return env, nil
}
