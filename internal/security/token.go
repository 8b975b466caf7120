// Package security keeps platform tokens out of logs, errors and output.
package security

import (
	"encoding/json"
	"fmt"
)

const (
	// Tokens shorter than this are fully redacted.
	minMaskedLen = 8
	// Trailing characters kept visible so users can tell tokens apart.
	visibleSuffix = 4

	maskEmpty    = "[empty]"
	maskRedacted = "[redacted]"
)

// SecureToken holds a platform access token. Every rendering of it (fmt
// verbs, JSON, YAML) shows a masked form such as "[token:****3456]"; only
// Value returns the secret.
type SecureToken struct {
	value string
}

// NewSecureToken wraps a raw token.
func NewSecureToken(token string) SecureToken {
	return SecureToken{value: token}
}

// String returns the masked form.
func (t SecureToken) String() string {
	switch {
	case t.value == "":
		return maskEmpty
	case len(t.value) < minMaskedLen:
		return maskRedacted
	default:
		return "[token:****" + t.value[len(t.value)-visibleSuffix:] + "]"
	}
}

// Value returns the raw token for the HTTP client. Never log it.
func (t SecureToken) Value() string {
	return t.value
}

// IsEmpty reports whether no token is set.
func (t SecureToken) IsEmpty() bool {
	return t.value == ""
}

// GoString masks %#v.
func (t SecureToken) GoString() string {
	return t.String()
}

// MarshalJSON renders the masked form.
func (t SecureToken) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(t.String())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal token: %w", err)
	}
	return b, nil
}

// MarshalYAML renders the masked form.
func (t SecureToken) MarshalYAML() (any, error) {
	return t.String(), nil
}
