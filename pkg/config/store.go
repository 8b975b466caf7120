package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sgaunet/git-mcp/internal/security"
	"github.com/sgaunet/git-mcp/pkg/platform"
)

// Store is the process-wide view of the configuration file plus the token
// store. It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	path   string
	cfg    *Config
	tokens TokenStore
	lookup func(string) (string, bool)
}

// StoreOption customizes a Store.
type StoreOption func(*Store)

// WithEnvLookup replaces os.LookupEnv for token environment variables.
func WithEnvLookup(lookup func(string) (string, bool)) StoreOption {
	return func(s *Store) {
		s.lookup = lookup
	}
}

// Open loads the configuration from dir. An empty dir uses Dir().
func Open(dir string, tokens TokenStore, opts ...StoreOption) (*Store, error) {
	if dir == "" {
		var err error
		if dir, err = Dir(); err != nil {
			return nil, err
		}
	}
	path := filepath.Join(dir, FileName)
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	return NewStore(path, cfg, tokens, opts...), nil
}

// NewStore wraps an already loaded configuration.
func NewStore(path string, cfg *Config, tokens TokenStore, opts ...StoreOption) *Store {
	s := &Store{path: path, cfg: cfg, tokens: tokens}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the configuration file path.
func (s *Store) Path() string {
	return s.path
}

// Defaults returns the default settings.
func (s *Store) Defaults() Defaults {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Defaults
}

// Names returns the configured platform names, sorted.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.cfg.Platforms))
	for name := range s.cfg.Platforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Platform returns the raw configuration of a platform.
func (s *Store) Platform(name string) (PlatformConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.cfg.Platforms[name]
	if !ok {
		return PlatformConfig{}, fmt.Errorf("%w: %q", errPlatformNotFound, name)
	}
	return p, nil
}

// Resolve returns the connection settings of a platform without its token.
func (s *Store) Resolve(name string) (platform.Connection, error) {
	p, err := s.Platform(name)
	if err != nil {
		return platform.Connection{}, err
	}
	kind, _ := platform.ParseKind(p.Type)
	return platform.Connection{Name: name, Kind: kind, URL: p.URL, Username: p.Username}, nil
}

// Token returns the token of a platform. Environment variables take
// precedence over the token store.
func (s *Store) Token(name string) (security.SecureToken, error) {
	if _, err := s.Platform(name); err != nil {
		return security.SecureToken{}, err
	}
	if v, ok := tokenFromEnv(name, s.lookup); ok {
		return security.NewSecureToken(v), nil
	}
	if s.tokens == nil {
		return security.SecureToken{}, fmt.Errorf("%w for %q", errTokenNotFound, name)
	}
	v, err := s.tokens.Get(name)
	if err != nil {
		return security.SecureToken{}, err
	}
	if v == "" {
		return security.SecureToken{}, fmt.Errorf("%w for %q", errTokenNotFound, name)
	}
	return security.NewSecureToken(v), nil
}

// HasToken reports whether a token can be found for a platform.
func (s *Store) HasToken(name string) bool {
	_, err := s.Token(name)
	return err == nil
}

// AddPlatform registers a platform, stores its token when given and saves the
// file. The URL defaults to the public instance of the platform type.
func (s *Store) AddPlatform(name string, p PlatformConfig, token string) error {
	kind, ok := platform.ParseKind(p.Type)
	if !ok {
		return fmt.Errorf("%w: unsupported platform type %q", errInvalidConfig, p.Type)
	}
	if p.URL == "" {
		p.URL = DefaultURL(kind)
	}
	p.URL = strings.TrimRight(p.URL, "/")

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.cfg.Platforms[name]; exists {
		return fmt.Errorf("%w: %q", errPlatformExists, name)
	}
	prevDefault := s.cfg.Defaults.Platform
	s.cfg.Platforms[name] = p
	if len(s.cfg.Platforms) == 1 && prevDefault == "" {
		s.cfg.Defaults.Platform = name
	}
	if err := s.cfg.Save(s.path); err != nil {
		delete(s.cfg.Platforms, name)
		s.cfg.Defaults.Platform = prevDefault
		return err
	}
	if token != "" && s.tokens != nil {
		return s.tokens.Set(name, token)
	}
	return nil
}

// RemovePlatform deletes a platform, its aliases and its stored token.
func (s *Store) RemovePlatform(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.cfg.Platforms[name]; !exists {
		return fmt.Errorf("%w: %q", errPlatformNotFound, name)
	}
	prevPlatform := s.cfg.Platforms[name]
	prevDefault := s.cfg.Defaults.Platform
	prevAliases := s.cfg.Aliases

	delete(s.cfg.Platforms, name)
	if prevDefault == name {
		s.cfg.Defaults.Platform = ""
	}
	kept := make([]Alias, 0, len(prevAliases))
	for _, a := range prevAliases {
		if a.Platform != name {
			kept = append(kept, a)
		}
	}
	s.cfg.Aliases = kept
	if err := s.cfg.Save(s.path); err != nil {
		s.cfg.Platforms[name] = prevPlatform
		s.cfg.Defaults.Platform = prevDefault
		s.cfg.Aliases = prevAliases
		return err
	}
	if s.tokens != nil {
		return s.tokens.Delete(name)
	}
	return nil
}

// SetToken replaces the stored token of a configured platform.
func (s *Store) SetToken(name, token string) error {
	if _, err := s.Platform(name); err != nil {
		return err
	}
	if s.tokens == nil {
		return fmt.Errorf("%w: no token store available", errInvalidConfig)
	}
	return s.tokens.Set(name, token)
}

// SetDefaultPlatform changes defaults.platform and saves the file.
func (s *Store) SetDefaultPlatform(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.cfg.Platforms[name]; !exists {
		return fmt.Errorf("%w: %q", errPlatformNotFound, name)
	}
	prev := s.cfg.Defaults.Platform
	s.cfg.Defaults.Platform = name
	if err := s.cfg.Save(s.path); err != nil {
		s.cfg.Defaults.Platform = prev
		return err
	}
	return nil
}

// DefaultPlatform returns name, or the configured default when name is empty.
func (s *Store) DefaultPlatform(name string) (string, error) {
	if name != "" {
		return name, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cfg.Defaults.Platform != "" {
		return s.cfg.Defaults.Platform, nil
	}
	if len(s.cfg.Platforms) == 1 {
		for only := range s.cfg.Platforms {
			return only, nil
		}
	}
	return "", fmt.Errorf("%w: no platform given and no default set", errPlatformNotFound)
}

// Aliases returns a copy of the configured aliases.
func (s *Store) Aliases() []Alias {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Alias(nil), s.cfg.Aliases...)
}

// Alias looks up an alias by name.
func (s *Store) Alias(name string) (Alias, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.cfg.Aliases {
		if a.Name == name {
			return a, nil
		}
	}
	return Alias{}, fmt.Errorf("%w: %q", errAliasNotFound, name)
}

// AddAlias adds or replaces an alias and saves the file.
func (s *Store) AddAlias(a Alias) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := append([]Alias(nil), s.cfg.Aliases...)
	replaced := false
	for i := range s.cfg.Aliases {
		if s.cfg.Aliases[i].Name == a.Name {
			s.cfg.Aliases[i] = a
			replaced = true
		}
	}
	if !replaced {
		s.cfg.Aliases = append(s.cfg.Aliases, a)
	}
	if err := s.cfg.Save(s.path); err != nil {
		s.cfg.Aliases = prev
		return err
	}
	return nil
}

// RemoveAlias deletes an alias and saves the file.
func (s *Store) RemoveAlias(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.cfg.Aliases {
		if a.Name == name {
			s.cfg.Aliases = append(s.cfg.Aliases[:i], s.cfg.Aliases[i+1:]...)
			return s.cfg.Save(s.path)
		}
	}
	return fmt.Errorf("%w: %q", errAliasNotFound, name)
}

// IsNotFound reports whether err means a platform or alias is not configured.
func IsNotFound(err error) bool {
	return errors.Is(err, errPlatformNotFound) || errors.Is(err, errAliasNotFound)
}
