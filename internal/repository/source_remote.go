package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	domrepo "EigenFlow/internal/domain/repository"
	xhttp "EigenFlow/pkg/http"

	"github.com/sony/gobreaker"
)

// RemoteSource reads data files from a static host (for example a raw Git host).
// A circuit breaker makes repeated failures fail fast instead of waiting on the timeout.
type RemoteSource struct {
	baseURL string
	client  *xhttp.Client
	cb      *gobreaker.CircuitBreaker
}

// RemoteOption configures RemoteSource.
type RemoteOption func(*remoteConfig)

type remoteConfig struct {
	timeout     time.Duration
	maxFailures uint32
	openTimeout time.Duration
	maxBody     int64
	httpClient  *http.Client
}

func WithRemoteTimeout(d time.Duration) RemoteOption {
	return func(c *remoteConfig) { c.timeout = d }
}

// WithRemoteBreaker sets the consecutive failures that open the breaker and how long it stays open.
func WithRemoteBreaker(maxFailures uint32, openTimeout time.Duration) RemoteOption {
	return func(c *remoteConfig) {
		if maxFailures > 0 {
			c.maxFailures = maxFailures
		}
		if openTimeout > 0 {
			c.openTimeout = openTimeout
		}
	}
}

// WithRemoteMaxBody rejects files larger than n bytes instead of truncating them.
func WithRemoteMaxBody(n int64) RemoteOption {
	return func(c *remoteConfig) { c.maxBody = n }
}

func WithRemoteHTTPClient(hc *http.Client) RemoteOption {
	return func(c *remoteConfig) { c.httpClient = hc }
}

func NewRemoteSource(baseURL string, opts ...RemoteOption) *RemoteSource {
	cfg := &remoteConfig{
		timeout:     10 * time.Second,
		maxFailures: 5,
		openTimeout: 30 * time.Second,
		maxBody:     xhttp.DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	clientOpts := []xhttp.ClientOption{
		xhttp.WithTimeout(cfg.timeout),
		xhttp.WithMaxBodyBytes(cfg.maxBody),
	}
	if cfg.httpClient != nil {
		clientOpts = append(clientOpts, xhttp.WithHTTPClient(cfg.httpClient))
	}

	st := gobreaker.Settings{
		Name:    "remote-source",
		Timeout: cfg.openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.maxFailures
		},
		// A missing file is an answer, not an outage.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domrepo.ErrNotFound)
		},
	}

	return &RemoteSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  xhttp.NewClient(clientOpts...),
		cb:      gobreaker.NewCircuitBreaker(st),
	}
}

func (s *RemoteSource) Kind() string { return "remote" }

// State exposes the breaker state for health reporting.
func (s *RemoteSource) State() string { return s.cb.State().String() }

func (s *RemoteSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	u, err := s.resolve(name)
	if err != nil {
		return nil, err
	}

	out, err := s.cb.Execute(func() (interface{}, error) {
		b, err := s.client.GetBytes(ctx, u)
		if err != nil {
			var se *xhttp.StatusError
			if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
				return nil, fmt.Errorf("%s: %w", name, domrepo.ErrNotFound)
			}
			return nil, fmt.Errorf("fetch %s: %w", name, err)
		}
		return b, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	if err != nil {
		return nil, err
	}
	return out.([]byte), nil
}

func (s *RemoteSource) resolve(name string) (string, error) {
	parts := strings.Split(strings.Trim(name, "/"), "/")
	for i, p := range parts {
		if p == ".." || p == "" {
			return "", fmt.Errorf("invalid source name %q", name)
		}
		parts[i] = url.PathEscape(p)
	}
	return s.baseURL + "/" + strings.Join(parts, "/"), nil
}

var _ domrepo.Source = (*RemoteSource)(nil)
