package middlewares

import (
	"context"

	"github.com/samvad-hq/lancedb-remote/pkg/remote"
)

// Headers injects a fixed set of headers into every request. The incoming
// request is cloned, not mutated, so outer frames keep their view of it.
// Headers already present on the request win over the injected set.
type Headers struct {
	headers map[string]string
}

// NewHeaders builds a header-injection middleware.
func NewHeaders(headers map[string]string) *Headers {
	copied := make(map[string]string, len(headers))
	for k, v := range headers {
		copied[k] = v
	}
	return &Headers{headers: copied}
}

// Wrap implements remote.Middleware.
func (m *Headers) Wrap(ctx context.Context, req *remote.Request, mc *remote.CallContext, next remote.Invoker) (*remote.Response, error) {
	if len(m.headers) == 0 {
		return next(ctx, req, mc)
	}

	derived := req.Clone()
	for k, v := range m.headers {
		if _, exists := derived.Headers[k]; !exists {
			derived.Headers[k] = v
		}
	}
	return next(ctx, derived, mc)
}
