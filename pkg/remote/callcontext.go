package remote

import "sync"

// CallContext is the per-call key/value store shared by every middleware in
// one chain invocation. It lets middlewares communicate with each other and
// with the terminal handler without widening the Request type.
//
// The store is safe for concurrent use, but a client reuses its context
// across calls unless told otherwise; callers issuing concurrent requests
// that stash per-call state should derive a fresh client per call via
// Client.WithCallContext.
type CallContext struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewCallContext returns an empty call context.
func NewCallContext() *CallContext {
	return &CallContext{values: make(map[string]any)}
}

// Get returns the value stored under key. The second return distinguishes
// "never set" from "set to a zero value".
func (c *CallContext) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[key]
	return v, ok
}

// Set stores value under key and returns the receiver for chaining.
func (c *CallContext) Set(key string, value any) *CallContext {
	c.mu.Lock()
	c.values[key] = value
	c.mu.Unlock()
	return c
}

// Delete removes key and returns the receiver for chaining.
func (c *CallContext) Delete(key string) *CallContext {
	c.mu.Lock()
	delete(c.values, key)
	c.mu.Unlock()
	return c
}

// Key is a typed token over the call context, giving middleware authors
// compile-time typing on top of the untyped store. Two keys with the same
// string collide, so key strings should be namespaced ("cache.hit", ...).
type Key[T any] string

// Value returns the typed value stored under the key. ok is false when the
// key is unset or holds a value of a different type.
func (k Key[T]) Value(c *CallContext) (T, bool) {
	var zero T
	if c == nil {
		return zero, false
	}
	raw, ok := c.Get(string(k))
	if !ok {
		return zero, false
	}
	v, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// Set stores a typed value under the key.
func (k Key[T]) Set(c *CallContext, v T) {
	if c == nil {
		return
	}
	c.Set(string(k), v)
}

// Delete removes the key from the context.
func (k Key[T]) Delete(c *CallContext) {
	if c == nil {
		return
	}
	c.Delete(string(k))
}
