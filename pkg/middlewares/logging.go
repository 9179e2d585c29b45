// Package middlewares provides ready-made interceptors for the remote
// client: request logging, response caching and static header injection.
package middlewares

import (
	"context"
	"time"

	"github.com/samvad-hq/lancedb-remote/pkg/remote"
)

// Logger defines the logging surface middlewares rely on. It is satisfied by
// zap.SugaredLogger.
type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debugw(string, ...interface{}) {}
func (noopLogger) Warnw(string, ...interface{})  {}

func ensureLogger(log Logger) Logger {
	if log == nil {
		return noopLogger{}
	}
	return log
}

// Logging records every call passing through the chain: method, path, status
// and elapsed time at debug level, failures at warn level.
type Logging struct {
	log Logger
}

// NewLogging builds a logging middleware. A nil logger disables output.
func NewLogging(log Logger) *Logging {
	return &Logging{log: ensureLogger(log)}
}

// Wrap implements remote.Middleware.
func (m *Logging) Wrap(ctx context.Context, req *remote.Request, mc *remote.CallContext, next remote.Invoker) (*remote.Response, error) {
	start := time.Now()
	resp, err := next(ctx, req, mc)
	if err != nil {
		m.log.Warnw("remote call failed",
			"method", req.Method,
			"path", req.Path,
			"elapsed", time.Since(start),
			"error", err,
		)
		return nil, err
	}

	m.log.Debugw("remote call completed",
		"method", req.Method,
		"path", req.Path,
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)
	return resp, nil
}
