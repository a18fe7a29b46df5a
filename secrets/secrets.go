// Package secrets stores DocuShare passwords between sessions.
//
// Storage is strictly best-effort: a vault that is locked, missing or
// otherwise broken reports absence instead of an error, so login can
// always fall back to prompting.
package secrets

import (
	"log/slog"
	"sync"

	"github.com/zalando/go-keyring"
)

// Store persists one secret per (service, account) pair.
type Store interface {
	// Get returns the stored secret, or false if none is available.
	Get(service, account string) (string, bool)
	// Set stores the secret, silently doing nothing on failure.
	Set(service, account, secret string)
	// Delete removes the secret, silently doing nothing on failure.
	Delete(service, account string)
}

// Keyring stores secrets in the OS credential vault.
type Keyring struct{}

func (Keyring) Get(service, account string) (string, bool) {
	secret, err := keyring.Get(service, account)
	if err != nil {
		return "", false
	}
	slog.Info("found stored password", "account", account, "service", service)
	return secret, true
}

func (Keyring) Set(service, account, secret string) {
	if err := keyring.Set(service, account, secret); err != nil {
		slog.Debug("failed to store password", "account", account, "err", err)
		return
	}
	slog.Info("stored password", "account", account, "service", service)
}

func (Keyring) Delete(service, account string) {
	if err := keyring.Delete(service, account); err != nil {
		slog.Debug("failed to delete stored password", "account", account, "err", err)
		return
	}
	slog.Info("deleted stored password", "account", account, "service", service)
}

type memoryKey struct {
	service, account string
}

// Memory is an in-process Store for tests and for callers that do not
// want to touch the OS vault.
type Memory struct {
	mu      sync.Mutex
	entries map[memoryKey]string
}

func NewMemory() *Memory {
	return &Memory{entries: map[memoryKey]string{}}
}

func (m *Memory) Get(service, account string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	secret, ok := m.entries[memoryKey{service, account}]
	return secret, ok
}

func (m *Memory) Set(service, account, secret string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[memoryKey{service, account}] = secret
}

func (m *Memory) Delete(service, account string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, memoryKey{service, account})
}
