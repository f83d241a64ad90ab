// Package server runs the exec protocol loop: one JSON request per stdin
// line, one JSON reply per stdout line, in order.
package server

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	dserrors "github.com/systmms/vector-aws-secrets/internal/errors"
	"github.com/systmms/vector-aws-secrets/internal/logging"
	"github.com/systmms/vector-aws-secrets/internal/metrics"
	"github.com/systmms/vector-aws-secrets/internal/resolve"
	"github.com/systmms/vector-aws-secrets/pkg/protocol"
)

// Server answers requests sequentially. Concurrency happens inside a
// request, never across requests.
type Server struct {
	resolver *resolve.Resolver
	logger   *logging.Logger
	metrics  *metrics.Recorder
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records one observation per request line.
func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// New creates a Server around resolver.
func New(resolver *resolve.Resolver, opts ...Option) *Server {
	s := &Server{
		resolver: resolver,
		logger:   logging.New(false, true),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handle decodes and resolves one request line. A non-nil error is a
// request-level failure (MalformedRequest or UnsupportedVersion) and must be
// reported as the top-level error of the reply.
func (s *Server) Handle(ctx context.Context, line []byte) (protocol.Response, error) {
	req, err := protocol.Decode(line)
	if err != nil {
		return protocol.Response{}, err
	}
	s.logger.Debug("Resolving %d secret(s)", len(req.Secrets))
	return s.resolver.Resolve(ctx, req), nil
}

type readResult struct {
	line []byte
	err  error
}

// Serve reads requests from in until end of input and writes one reply per
// non-blank line to out. A final line without a trailing newline is still
// answered. It returns nil at end of input or once ctx is done, even while a
// read is blocked, and an error only when in or out fail.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	enc := protocol.NewEncoder(out)
	lines := readLines(ctx, in)

	for {
		if ctx.Err() != nil {
			s.logger.Debug("Stopping: %v", ctx.Err())
			return nil
		}

		var next readResult
		select {
		case <-ctx.Done():
			s.logger.Debug("Stopping: %v", ctx.Err())
			return nil
		case next = <-lines:
		}

		if len(bytes.TrimSpace(next.line)) > 0 {
			if err := s.reply(ctx, enc, next.line); err != nil {
				return err
			}
		}

		if next.err != nil {
			if errors.Is(next.err, io.EOF) {
				s.logger.Debug("End of input")
				return nil
			}
			return fmt.Errorf("failed to read request: %w", next.err)
		}
	}
}

// readLines delivers lines from in until a read fails or ctx is done. A read
// blocked on in outlives ctx; its result is dropped.
func readLines(ctx context.Context, in io.Reader) <-chan readResult {
	lines := make(chan readResult)
	go func() {
		reader := bufio.NewReader(in)
		for {
			line, err := reader.ReadBytes('\n')
			select {
			case lines <- readResult{line: line, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()
	return lines
}

func (s *Server) reply(ctx context.Context, enc *protocol.Encoder, line []byte) error {
	resp, err := s.Handle(ctx, line)
	s.metrics.ObserveRequest(err)

	if err != nil {
		s.logger.Warn("Rejecting request (%s): %v", dserrors.KindOf(err), err)
		return enc.WriteError(err)
	}
	return enc.WriteResponse(resp)
}
