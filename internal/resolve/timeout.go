package resolve

import (
	"context"
	"errors"
	"time"

	"github.com/systmms/vector-aws-secrets/internal/backend"
	dserrors "github.com/systmms/vector-aws-secrets/internal/errors"
)

// withFetchTimeout creates a context bounding one backend call. A zero
// timeout leaves ctx unbounded.
func withFetchTimeout(ctx context.Context, timeoutMs int) (context.Context, context.CancelFunc) {
	if timeoutMs <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
}

// timeoutError rewrites a deadline failure into a BackendFailure that names
// the configured bound. Other errors are returned unchanged.
func timeoutError(err error, name string, kind backend.Kind, timeoutMs int) error {
	if !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return dserrors.Wrap(dserrors.BackendFailure, name, err,
		"%s request for %q exceeded %dms timeout: %s", kind, name, timeoutMs, timeoutSuggestion(timeoutMs))
}

func timeoutSuggestion(timeoutMs int) string {
	if timeoutMs < 5000 {
		return "AWS API can be slow, try increasing timeout_ms to 10000"
	}
	return "check AWS connectivity and credentials, verify region is correct"
}
