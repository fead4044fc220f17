// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package keychain

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"os"
	"strings"
)

// EnvBridgeToken overrides the keychain entry when set.
const EnvBridgeToken = "MINIMALADB_BRIDGE_TOKEN"

// GenerateToken returns a random 256-bit token, hex encoded.
func GenerateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// ResolveToken returns the bridge token from the environment or, failing
// that, from m. m may be nil when no keychain is available.
func ResolveToken(m *Manager) (string, error) {
	if v := strings.TrimSpace(os.Getenv(EnvBridgeToken)); v != "" {
		return v, nil
	}
	if m == nil {
		return "", ErrNoToken
	}
	return m.LoadBridgeToken()
}

// EnsureToken returns the stored token, generating and storing one when none
// exists. The boolean reports whether a new token was created.
func EnsureToken(m *Manager) (string, bool, error) {
	tok, err := ResolveToken(m)
	if err == nil {
		return tok, false, nil
	}
	if !errors.Is(err, ErrNoToken) {
		return "", false, err
	}
	return RotateToken(m)
}

// RotateToken replaces the stored token with a fresh one. Without a keychain
// the token is still generated but lives only as long as the caller keeps it.
func RotateToken(m *Manager) (string, bool, error) {
	tok, err := GenerateToken()
	if err != nil {
		return "", false, err
	}
	if m != nil {
		if err := m.SaveBridgeToken(tok); err != nil {
			return "", false, err
		}
	}
	return tok, true, nil
}
