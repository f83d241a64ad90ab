// Package resolve turns one decoded request into one complete response.
package resolve

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/systmms/vector-aws-secrets/internal/backend"
	dserrors "github.com/systmms/vector-aws-secrets/internal/errors"
	"github.com/systmms/vector-aws-secrets/internal/logging"
	"github.com/systmms/vector-aws-secrets/internal/metrics"
	"github.com/systmms/vector-aws-secrets/internal/secure"
	"github.com/systmms/vector-aws-secrets/internal/validation"
	"github.com/systmms/vector-aws-secrets/pkg/protocol"
)

const (
	// DefaultConcurrency bounds in-flight backend calls per request.
	DefaultConcurrency = 10
	// DefaultTimeoutMs bounds a single backend call.
	DefaultTimeoutMs = 30000
)

// Resolver fetches every name of a request from one backend.
type Resolver struct {
	backend     backend.Backend
	logger      *logging.Logger
	metrics     *metrics.Recorder
	concurrency int
	timeoutMs   int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics records one observation per backend call.
func WithMetrics(m *metrics.Recorder) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// WithConcurrency caps simultaneous backend calls. Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithTimeoutMs bounds each backend call. Zero disables the bound.
func WithTimeoutMs(ms int) Option {
	return func(r *Resolver) {
		if ms >= 0 {
			r.timeoutMs = ms
		}
	}
}

// New creates a Resolver for b.
func New(b backend.Backend, opts ...Option) *Resolver {
	r := &Resolver{
		backend:     b,
		logger:      logging.New(false, true),
		concurrency: DefaultConcurrency,
		timeoutMs:   DefaultTimeoutMs,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// result holds one outcome until the response is assembled. Values stay
// sealed in an enclave in the meantime.
type result struct {
	value *secure.SecureBuffer
	err   error
}

// Resolve returns exactly one outcome per distinct name in req. Failures are
// isolated: one name failing never affects another. Invalid names are
// answered without contacting the backend.
func (r *Resolver) Resolve(ctx context.Context, req protocol.Request) protocol.Response {
	var (
		mu      sync.Mutex
		results = make(map[string]result, len(req.Secrets))
		g       errgroup.Group
	)
	g.SetLimit(r.concurrency)

	store := func(name string, res result) {
		mu.Lock()
		results[name] = res
		mu.Unlock()
	}

	seen := make(map[string]bool, len(req.Secrets))
	for _, name := range req.Secrets {
		if seen[name] {
			continue
		}
		seen[name] = true

		if _, err := validation.SecretName(name); err != nil {
			r.logger.Debug("Rejecting secret name %q: %v", name, err)
			store(name, result{err: err})
			continue
		}

		g.Go(func() error {
			store(name, r.fetch(ctx, name))
			return nil
		})
	}
	_ = g.Wait() // fetch never returns an error to the group

	resp := protocol.NewResponse(len(results))
	for name, res := range results {
		resp.Secrets[name] = r.outcome(name, res)
	}
	return resp
}

func (r *Resolver) fetch(ctx context.Context, name string) result {
	if err := ctx.Err(); err != nil {
		return result{err: dserrors.Wrap(dserrors.BackendFailure, name, err, "request cancelled before fetching %q", name)}
	}

	fetchCtx, cancel := withFetchTimeout(ctx, r.timeoutMs)
	defer cancel()

	start := time.Now()
	value, err := r.backend.Fetch(fetchCtx, name)
	r.metrics.ObserveFetch(r.backend.Kind().String(), time.Since(start), err)

	if err != nil {
		err = timeoutError(err, name, r.backend.Kind(), r.timeoutMs)
		r.logFailure(name, err)
		return result{err: err}
	}

	r.logger.Debug("Fetched %q: %s", name, logging.Secret(value))

	// The SDK already holds value as a Go string; the enclave only narrows
	// how long plaintext stays on the heap until the reply is written.
	buf, serr := secure.FromString(value)
	if serr != nil {
		return result{err: dserrors.Wrap(dserrors.BackendFailure, name, serr, "cannot protect value of %q", name)}
	}
	return result{value: buf}
}

func (r *Resolver) outcome(name string, res result) protocol.Outcome {
	if res.err != nil {
		return protocol.Failure(res.err)
	}
	defer res.value.Destroy()

	value, err := res.value.String()
	if err != nil {
		return protocol.Failure(dserrors.Wrap(dserrors.BackendFailure, name, err, "cannot open value of %q", name))
	}
	return protocol.Value(value)
}

func (r *Resolver) logFailure(name string, err error) {
	kind := dserrors.KindOf(err)
	if dserrors.IsRetryable(err) {
		r.logger.Warn("Fetching %q failed: %v", name, err)
	} else {
		r.logger.Debug("Fetching %q failed: %v", name, err)
	}
	if hint := dserrors.Suggestion(kind, r.backend.Kind().String()); hint != "" {
		r.logger.Debug("Hint for %q: %s", name, hint)
	}
}
