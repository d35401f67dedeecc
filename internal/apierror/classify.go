// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tokoadmin Contributors

// Package apierror maps raw backend error payloads into a closed set of
// error kinds. Classification is total and payload-shape driven: the
// backend returns 200-level wrappers with an internal error flag as well
// as non-200 failures, and both converge on the same taxonomy here.
package apierror

import (
	"bytes"
	"encoding/json"
)

// Kind identifies one of the closed set of backend error categories.
type Kind int

// The closed error taxonomy. Every backend error payload maps to exactly
// one kind.
const (
	// KindSessionExpired means the backend declared the credential expired.
	KindSessionExpired Kind = iota
	// KindValidation carries per-field validator messages.
	KindValidation
	// KindGeneric is a single human-readable failure message.
	KindGeneric
	// KindTransport covers network and parse failures.
	KindTransport
)

// String returns the kind name for logs and metrics labels.
func (k Kind) String() string {
	switch k {
	case KindSessionExpired:
		return "session_expired"
	case KindValidation:
		return "validation"
	case KindGeneric:
		return "generic"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// ExpirySentinel is the literal message the backend sends for an expired
// credential. Matched exactly, never as a substring.
const ExpirySentinel = "Token has expired"

// transportFallback is the user-facing text when a payload is absent or
// unparseable.
const transportFallback = "Something went wrong"

// FieldError holds one field's validator messages, in backend order.
type FieldError struct {
	Field    string
	Messages []string
}

// Classification is the typed outcome of classifying an error payload.
// Message is set for KindGeneric and KindTransport; Fields for
// KindValidation. Callers switch on Kind instead of re-deriving the
// payload shape.
type Classification struct {
	Kind    Kind
	Message string
	Fields  []FieldError
}

// Surface returns the single message to show the user: the payload message
// for generic and transport failures, or the first message of the first
// offending field for validation failures.
func (c Classification) Surface() string {
	switch c.Kind {
	case KindValidation:
		for _, f := range c.Fields {
			if len(f.Messages) > 0 {
				return f.Messages[0]
			}
		}
		return transportFallback
	case KindSessionExpired:
		return ExpirySentinel
	default:
		if c.Message == "" {
			return transportFallback
		}
		return c.Message
	}
}

// Transport builds a transport classification with the given detail, or the
// fallback text when detail is empty. Used by the API client for network
// and parse failures that never reach the backend envelope.
func Transport(detail string) Classification {
	if detail == "" {
		detail = transportFallback
	}
	return Classification{Kind: KindTransport, Message: detail}
}

// Classify maps a raw error payload to exactly one kind. First match wins,
// in this order:
//
//  1. the expiry sentinel string, matched exactly
//  2. a mapping of field name to a non-empty list of message strings
//  3. any other non-empty string
//  4. anything else (absent, empty, unparseable)
//
// The order is a design choice: the sentinel is itself a plain string and
// must win over the generic-string rule. Mapping entries whose value is not
// a list of strings are ignored, matching the backend's loose contract.
func Classify(raw json.RawMessage) Classification {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Transport("")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return Transport("")
	}

	switch v := tok.(type) {
	case string:
		if v == ExpirySentinel {
			return Classification{Kind: KindSessionExpired}
		}
		if v != "" {
			return Classification{Kind: KindGeneric, Message: v}
		}
		return Transport("")

	case json.Delim:
		if v != '{' {
			return Transport("")
		}
		fields, ok := decodeFieldMap(dec)
		if !ok {
			return Transport("")
		}
		return Classification{Kind: KindValidation, Fields: fields}

	default:
		return Transport("")
	}
}

// decodeFieldMap reads the remaining object entries in document order,
// keeping only entries whose value is a non-empty array of strings.
// Returns ok=false if the payload is structurally broken mid-stream.
func decodeFieldMap(dec *json.Decoder) ([]FieldError, bool) {
	var fields []FieldError
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, false
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, false
		}

		var messages []string
		if err := json.Unmarshal(value, &messages); err != nil || len(messages) == 0 {
			// Non-list or empty entries are ignored, not errors.
			continue
		}
		fields = append(fields, FieldError{Field: key, Messages: messages})
	}
	return fields, true
}
