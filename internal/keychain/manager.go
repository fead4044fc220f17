// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain keeps minimaladb secrets in the OS credential store.
//
// The only secret is the bridge token shared by "minimaladb serve" and
// clients using --remote. Native backends are preferred: macOS Keychain,
// Windows Credential Manager, and Secret Service, KWallet or pass on Linux.
package keychain

import (
	"errors"
	"runtime"
	"sync"

	"github.com/99designs/keyring"
)

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "minimaladb"

// KeyBridgeToken is the keychain entry holding the bridge token.
const KeyBridgeToken = "bridge_token"

// ErrNoToken is returned when no bridge token has been stored yet.
var ErrNoToken = errors.New("no bridge token stored")

// Manager provides thread-safe operations on the OS keychain.
type Manager struct {
	mu   sync.RWMutex
	ring keyring.Keyring
}

// NewManager opens the platform keyring.
func NewManager() (*Manager, error) {
	ring, err := openRing()
	if err != nil {
		return nil, err
	}
	return &Manager{ring: ring}, nil
}

// NewWithRing wraps an already opened keyring.
func NewWithRing(ring keyring.Keyring) *Manager {
	return &Manager{ring: ring}
}

// openRing opens the OS keyring using native platform backends only.
func openRing() (keyring.Keyring, error) {
	var allowedBackends []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		allowedBackends = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		allowedBackends = []keyring.BackendType{keyring.WinCredBackend}
	default:
		allowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.PassBackend,
		}
	}

	cfg := keyring.Config{
		ServiceName:     ServiceName,
		AllowedBackends: allowedBackends,
		PassPrefix:      ServiceName,
	}
	if runtime.GOOS == "windows" {
		cfg.WinCredPrefix = ServiceName
	}
	return keyring.Open(cfg)
}

// SaveBridgeToken stores the bridge token.
func (m *Manager) SaveBridgeToken(token string) error {
	if token == "" {
		return errors.New("empty bridge token")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ring.Set(keyring.Item{
		Key:         KeyBridgeToken,
		Data:        []byte(token),
		Label:       "minimaladb bridge token",
		Description: "Shared secret for the minimaladb gRPC bridge",
	})
}

// LoadBridgeToken retrieves the bridge token.
func (m *Manager) LoadBridgeToken() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, err := m.ring.Get(KeyBridgeToken)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", ErrNoToken
		}
		return "", err
	}
	if len(it.Data) == 0 {
		return "", ErrNoToken
	}
	return string(it.Data), nil
}

// ClearBridgeToken removes the bridge token. Removing a missing token is not an error.
func (m *Manager) ClearBridgeToken() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ring.Remove(KeyBridgeToken); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return err
	}
	return nil
}
