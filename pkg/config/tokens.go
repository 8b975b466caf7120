package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringService is the keyring service name tokens are stored under.
const KeyringService = "git-mcp"

// TokenStore persists platform tokens outside the configuration file.
type TokenStore interface {
	Get(platformName string) (string, error)
	Set(platformName, token string) error
	Delete(platformName string) error
}

// KeyringTokens stores tokens in the OS keyring, one entry per platform name.
type KeyringTokens struct {
	Service string
}

// NewKeyringTokens returns a keyring store under the git-mcp service.
func NewKeyringTokens() *KeyringTokens {
	return &KeyringTokens{Service: KeyringService}
}

// Get returns the token of a platform, or ErrTokenNotFound.
func (k *KeyringTokens) Get(platformName string) (string, error) {
	token, err := keyring.Get(k.Service, platformName)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("%w for %q", errTokenNotFound, platformName)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token from keyring: %w", err)
	}
	return token, nil
}

// Set stores the token of a platform.
func (k *KeyringTokens) Set(platformName, token string) error {
	if err := keyring.Set(k.Service, platformName, token); err != nil {
		return fmt.Errorf("failed to store token in keyring: %w", err)
	}
	return nil
}

// Delete removes the token of a platform. A missing entry is not an error.
func (k *KeyringTokens) Delete(platformName string) error {
	err := keyring.Delete(k.Service, platformName)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete token from keyring: %w", err)
	}
	return nil
}

// TokenEnvNames returns the environment variables checked for a platform
// token, in order: GIT_MCP_<NAME>_TOKEN then GIT_MCP_TOKEN_<NAME>.
func TokenEnvNames(platformName string) []string {
	key := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			return r
		default:
			return '_'
		}
	}, platformName)
	return []string{"GIT_MCP_" + key + "_TOKEN", "GIT_MCP_TOKEN_" + key}
}

func tokenFromEnv(platformName string, lookup func(string) (string, bool)) (string, bool) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	for _, name := range TokenEnvNames(platformName) {
		if v, ok := lookup(name); ok && v != "" {
			return v, true
		}
	}
	return "", false
}
