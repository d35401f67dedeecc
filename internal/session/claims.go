// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tokoadmin Contributors

package session

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"
)

// UserClaim is the user object embedded in the backend's JWT.
type UserClaim struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Claims is the JWT claims shape issued by the backend.
type Claims struct {
	jwt.RegisteredClaims

	User        UserClaim `json:"user"`
	Roles       []string  `json:"roles,omitempty"`
	Permissions []string  `json:"permissions,omitempty"`
}

// DecodeClaims parses the raw credential without verifying its signature.
// Verification is the backend's job; the console only displays claim data,
// and the backend re-judges the credential on every dispatch.
func DecodeClaims(rawCredential string) (*Claims, error) {
	if rawCredential == "" {
		return nil, oops.Code("SESSION_TOKEN_EMPTY").Errorf("credential cannot be empty")
	}

	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(rawCredential, claims); err != nil {
		return nil, oops.Code("SESSION_CLAIMS_INVALID").
			With("operation", "parse JWT claims").
			Wrap(err)
	}
	return claims, nil
}
