// Package service routes platform operations by configured platform name to
// the matching adapter.
//
// The Service is the single error boundary between adapters and front-ends:
// every failure it returns is a *platform.Error whose kind the adapter chose,
// annotated with the platform name.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/sgaunet/bullets"
	"github.com/sgaunet/git-mcp/internal/logger"
	"github.com/sgaunet/git-mcp/internal/security"
	"github.com/sgaunet/git-mcp/pkg/github"
	"github.com/sgaunet/git-mcp/pkg/gitlab"
	"github.com/sgaunet/git-mcp/pkg/platform"
)

// ConfigStore resolves platform names to connection settings and tokens.
type ConfigStore interface {
	Names() []string
	Resolve(name string) (platform.Connection, error)
	Token(name string) (security.SecureToken, error)
}

// Factory builds an adapter for a connection.
type Factory func(conn platform.Connection, opts platform.Options) (platform.Adapter, error)

// DefaultFactories returns the factories of the built-in platforms.
func DefaultFactories() map[platform.Kind]Factory {
	return map[platform.Kind]Factory{
		platform.KindGitLab: func(conn platform.Connection, opts platform.Options) (platform.Adapter, error) {
			return gitlab.New(conn, opts)
		},
		platform.KindGitHub: func(conn platform.Connection, opts platform.Options) (platform.Adapter, error) {
			return github.New(conn, opts)
		},
	}
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger handed to adapters.
func WithLogger(log *bullets.Logger) Option {
	return func(s *Service) {
		s.log = log
	}
}

// WithRetryPolicy sets the retry policy of read operations.
func WithRetryPolicy(p platform.RetryPolicy) Option {
	return func(s *Service) {
		s.retry = p
	}
}

// WithHTTPClient sets the HTTP client adapters send requests with.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Service) {
		s.httpClient = c
	}
}

// Service dispatches operations to one cached adapter per platform name.
// It is safe for concurrent use.
//
// Cancelling ctx abandons the in-flight request. A write the server already
// received is not rolled back: requests are sent at most once, their effect
// may still land.
type Service struct {
	store      ConfigStore
	factories  map[platform.Kind]Factory
	log        *bullets.Logger
	retry      platform.RetryPolicy
	httpClient *http.Client

	mu    sync.Mutex
	slots map[string]*slot
}

// slot holds the adapter of one platform name. Its mutex serializes the
// construction of that adapter only.
type slot struct {
	mu      sync.Mutex
	adapter platform.Adapter
}

// New creates a Service. Nil factories use DefaultFactories.
func New(store ConfigStore, factories map[platform.Kind]Factory, opts ...Option) *Service {
	if factories == nil {
		factories = DefaultFactories()
	}
	s := &Service{
		store:     store,
		factories: factories,
		log:       logger.NoLogger(),
		retry:     platform.DefaultRetryPolicy(),
		slots:     map[string]*slot{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Adapter returns the adapter of a platform, constructing and verifying it on
// first use. A failed construction is not cached.
func (s *Service) Adapter(ctx context.Context, name string) (platform.Adapter, error) {
	s.mu.Lock()
	sl, ok := s.slots[name]
	if !ok {
		sl = &slot{}
		s.slots[name] = sl
	}
	s.mu.Unlock()

	sl.mu.Lock()
	defer sl.mu.Unlock()
	if sl.adapter != nil {
		return sl.adapter, nil
	}
	adapter, err := s.connect(ctx, name)
	if err != nil {
		return nil, err
	}
	sl.adapter = adapter
	return adapter, nil
}

func (s *Service) connect(ctx context.Context, name string) (platform.Adapter, error) {
	conn, err := s.store.Resolve(name)
	if err != nil {
		return nil, unknownPlatform(name, err)
	}
	factory, ok := s.factories[conn.Kind]
	if !ok {
		return nil, initError(name, fmt.Sprintf("unsupported platform type %q", conn.Kind), nil)
	}
	token, err := s.store.Token(name)
	if err != nil {
		return nil, initError(name, "no token available", err)
	}
	conn.Token = token

	adapter, err := factory(conn, platform.Options{Logger: s.log, Retry: s.retry, HTTPClient: s.httpClient})
	if err != nil {
		return nil, initError(name, "could not create adapter", err)
	}
	user, err := adapter.CurrentUser(ctx)
	if err != nil {
		return nil, initError(name, "session check failed", err)
	}
	s.log.Debug(fmt.Sprintf("Connected to %s (%s) as %s", name, conn.Kind, user.Username))
	return adapter, nil
}

func unknownPlatform(name string, cause error) *platform.Error {
	return &platform.Error{
		Kind:     platform.UnknownPlatform,
		Platform: name,
		Message:  fmt.Sprintf("platform %q is not configured", name),
		Err:      cause,
	}
}

// initError reports a failed adapter construction. A kinded cause keeps its
// kind in the message and its retry-after hint, and still matches its
// sentinel through errors.Is.
func initError(name, msg string, cause error) *platform.Error {
	out := &platform.Error{
		Kind:     platform.AdapterInitializationFailed,
		Platform: name,
		Err:      cause,
	}
	var perr *platform.Error
	switch {
	case errors.As(cause, &perr):
		detail := perr.Message
		if detail == "" && perr.Err != nil {
			detail = perr.Err.Error()
		}
		msg += fmt.Sprintf(": %s: %s", perr.Kind, security.SanitizeString(detail))
		out.RetryAfter = perr.RetryAfter
	case cause != nil:
		msg += ": " + security.SanitizeString(cause.Error())
	}
	out.Message = msg
	return out
}

// Close drops every cached adapter.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots = map[string]*slot{}
}

// annotate forwards an adapter error with the platform name. The kind is
// never changed; errors that are not *platform.Error become UpstreamError.
func annotate(name string, err error) error {
	if err == nil {
		return nil
	}
	var perr *platform.Error
	if !errors.As(err, &perr) {
		return &platform.Error{
			Kind:     platform.UpstreamError,
			Platform: name,
			Message:  security.SanitizeString(err.Error()),
			Err:      err,
		}
	}
	if perr.Platform != "" {
		return err
	}
	out := *perr
	out.Platform = name
	return &out
}

// call runs fn on the adapter of a platform.
func call[T any](ctx context.Context, s *Service, name string, fn func(platform.Adapter) (T, error)) (T, error) {
	var zero T
	adapter, err := s.Adapter(ctx, name)
	if err != nil {
		return zero, err
	}
	out, err := fn(adapter)
	if err != nil {
		return zero, annotate(name, err)
	}
	return out, nil
}

// exec runs fn on the adapter of a platform for operations with no result.
func exec(ctx context.Context, s *Service, name string, fn func(platform.Adapter) error) error {
	_, err := call(ctx, s, name, func(a platform.Adapter) (struct{}, error) {
		return struct{}{}, fn(a)
	})
	return err
}
