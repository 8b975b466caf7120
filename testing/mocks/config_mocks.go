package mocks

import (
	"fmt"
	"sort"

	"github.com/sgaunet/git-mcp/internal/security"
	"github.com/sgaunet/git-mcp/pkg/config"
	"github.com/sgaunet/git-mcp/pkg/platform"
)

// ConfigStore is an in-memory configuration store with call tracking.
type ConfigStore struct {
	callTracker

	Connections map[string]platform.Connection
	Tokens      map[string]string
	TokenError  error
}

// NewConfigStore creates an empty store.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{
		Connections: map[string]platform.Connection{},
		Tokens:      map[string]string{},
	}
}

// Add registers a platform with an optional token.
func (m *ConfigStore) Add(name string, kind platform.Kind, url, username, token string) *ConfigStore {
	m.Connections[name] = platform.Connection{Name: name, Kind: kind, URL: url, Username: username}
	if token != "" {
		m.Tokens[name] = token
	}
	return m
}

// Names returns the configured platform names, sorted.
func (m *ConfigStore) Names() []string {
	m.trackCall("Names", map[string]any{})
	names := make([]string, 0, len(m.Connections))
	for name := range m.Connections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the connection of a platform.
func (m *ConfigStore) Resolve(name string) (platform.Connection, error) {
	m.trackCall("Resolve", map[string]any{"name": name})
	conn, ok := m.Connections[name]
	if !ok {
		return platform.Connection{}, fmt.Errorf("%w: %q", config.ErrPlatformNotFound, name)
	}
	return conn, nil
}

// Token returns the token of a platform.
func (m *ConfigStore) Token(name string) (security.SecureToken, error) {
	m.trackCall("Token", map[string]any{"name": name})
	if m.TokenError != nil {
		return security.SecureToken{}, m.TokenError
	}
	token, ok := m.Tokens[name]
	if !ok {
		return security.SecureToken{}, fmt.Errorf("%w for %q", config.ErrTokenNotFound, name)
	}
	return security.NewSecureToken(token), nil
}
