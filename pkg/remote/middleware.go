// Package remote implements the request pipeline for the LanceDB Cloud HTTP
// API: an ordered middleware chain, a per-call context, and a client facade
// composing chain, credentials and tenant routing.
package remote

import "context"

// Invoker executes the remainder of a chain: either the next middleware or
// the terminal network call.
type Invoker func(ctx context.Context, req *Request, mc *CallContext) (*Response, error)

// Middleware wraps one outbound call with cross-cutting behavior. It may
// inspect or derive the request before calling next, and inspect or replace
// the response after next returns. It may also substitute the call context
// for the remainder of the chain. Errors returned by next must be propagated
// or translated, never swallowed silently.
type Middleware interface {
	Wrap(ctx context.Context, req *Request, mc *CallContext, next Invoker) (*Response, error)
}

// MiddlewareFunc adapts a plain function to the Middleware interface.
type MiddlewareFunc func(ctx context.Context, req *Request, mc *CallContext, next Invoker) (*Response, error)

// Wrap implements Middleware.
func (f MiddlewareFunc) Wrap(ctx context.Context, req *Request, mc *CallContext, next Invoker) (*Response, error) {
	return f(ctx, req, mc, next)
}

// Chain folds middlewares over the terminal invoker. The first middleware in
// the slice is the outermost wrapper: it sees the request first and the
// response last. Nil entries are skipped.
func Chain(middlewares []Middleware, terminal Invoker) Invoker {
	next := terminal
	for i := len(middlewares) - 1; i >= 0; i-- {
		mw := middlewares[i]
		if mw == nil {
			continue
		}
		fwd := next
		next = func(ctx context.Context, req *Request, mc *CallContext) (*Response, error) {
			return mw.Wrap(ctx, req, mc, fwd)
		}
	}
	return next
}
