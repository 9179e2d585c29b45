package remote

import (
	"context"
	"net/http"
	"testing"
)

// visitRecorder builds a middleware that records its request and response
// edges into log.
func visitRecorder(name string, log *[]string) Middleware {
	return MiddlewareFunc(func(ctx context.Context, req *Request, mc *CallContext, next Invoker) (*Response, error) {
		*log = append(*log, name+":request")
		resp, err := next(ctx, req, mc)
		*log = append(*log, name+":response")
		return resp, err
	})
}

func okTerminal(log *[]string) Invoker {
	return func(context.Context, *Request, *CallContext) (*Response, error) {
		if log != nil {
			*log = append(*log, "terminal")
		}
		return NewBufferedResponse(http.StatusOK, "200 OK", nil, nil), nil
	}
}

func TestChainVisitsMiddlewaresInRegistrationOrder(t *testing.T) {
	var log []string
	dispatch := Chain(
		[]Middleware{visitRecorder("first", &log), visitRecorder("second", &log), visitRecorder("third", &log)},
		okTerminal(&log),
	)

	resp, err := dispatch(context.Background(), NewGetRequest("/x", nil), NewCallContext())
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}

	want := []string{
		"first:request", "second:request", "third:request",
		"terminal",
		"third:response", "second:response", "first:response",
	}
	if len(log) != len(want) {
		t.Fatalf("visit log %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("visit log %v, want %v", log, want)
		}
	}
}

func TestChainWithoutMiddlewaresReachesTerminal(t *testing.T) {
	var log []string
	dispatch := Chain(nil, okTerminal(&log))

	if _, err := dispatch(context.Background(), NewGetRequest("/x", nil), NewCallContext()); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(log) != 1 || log[0] != "terminal" {
		t.Fatalf("expected terminal only, got %v", log)
	}
}

func TestChainSkipsNilMiddlewares(t *testing.T) {
	var log []string
	dispatch := Chain([]Middleware{nil, visitRecorder("only", &log), nil}, okTerminal(&log))

	if _, err := dispatch(context.Background(), NewGetRequest("/x", nil), NewCallContext()); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(log) != 3 || log[0] != "only:request" || log[1] != "terminal" || log[2] != "only:response" {
		t.Fatalf("unexpected visit log %v", log)
	}
}

func TestChainAllowsContextSubstitution(t *testing.T) {
	replacement := NewCallContext().Set("origin", "substituted")

	substitute := MiddlewareFunc(func(ctx context.Context, req *Request, _ *CallContext, next Invoker) (*Response, error) {
		return next(ctx, req, replacement)
	})

	var seen *CallContext
	terminal := func(_ context.Context, _ *Request, mc *CallContext) (*Response, error) {
		seen = mc
		return NewBufferedResponse(http.StatusOK, "200 OK", nil, nil), nil
	}

	if _, err := Chain([]Middleware{substitute}, terminal)(context.Background(), NewGetRequest("/x", nil), NewCallContext()); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if seen != replacement {
		t.Fatalf("terminal did not receive the substituted context")
	}
	if v, ok := seen.Get("origin"); !ok || v != "substituted" {
		t.Fatalf("substituted context lost its values: %v %v", v, ok)
	}
}

func TestChainPropagatesMiddlewareErrorsUnchanged(t *testing.T) {
	boom := &ServerError{StatusCode: 418, Status: "418 I'm a teapot", Body: "boom"}
	failing := MiddlewareFunc(func(context.Context, *Request, *CallContext, Invoker) (*Response, error) {
		return nil, boom
	})

	var outerSawErr error
	outer := MiddlewareFunc(func(ctx context.Context, req *Request, mc *CallContext, next Invoker) (*Response, error) {
		resp, err := next(ctx, req, mc)
		outerSawErr = err
		return resp, err
	})

	_, err := Chain([]Middleware{outer, failing}, okTerminal(nil))(context.Background(), NewGetRequest("/x", nil), NewCallContext())
	if err != boom {
		t.Fatalf("expected the middleware error unchanged, got %v", err)
	}
	if outerSawErr != boom {
		t.Fatalf("outer middleware saw %v, want the original error", outerSawErr)
	}
}

func TestChainAllowsRequestDerivation(t *testing.T) {
	rewrite := MiddlewareFunc(func(ctx context.Context, req *Request, mc *CallContext, next Invoker) (*Response, error) {
		derived := req.Clone()
		derived.Headers["x-derived"] = "1"
		return next(ctx, derived, mc)
	})

	original := NewGetRequest("/x", nil)
	var seen *Request
	terminal := func(_ context.Context, req *Request, _ *CallContext) (*Response, error) {
		seen = req
		return NewBufferedResponse(http.StatusOK, "200 OK", nil, nil), nil
	}

	if _, err := Chain([]Middleware{rewrite}, terminal)(context.Background(), original, NewCallContext()); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if seen == original {
		t.Fatalf("terminal received the original request, want a derived copy")
	}
	if seen.Headers["x-derived"] != "1" {
		t.Fatalf("derived header missing")
	}
	if _, ok := original.Headers["x-derived"]; ok {
		t.Fatalf("original request was mutated")
	}
}
