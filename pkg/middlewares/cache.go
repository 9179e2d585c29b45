package middlewares

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"github.com/samvad-hq/lancedb-remote/pkg/remote"
)

// ResponseCache is the store behind the cache middleware. Implemented by
// internal/respcache; any payload store with TTL semantics fits.
type ResponseCache interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, payload []byte) error
}

// KeyCacheHit is set on the call context when a response was served from
// cache, letting outer middlewares and callers tell hits from real calls.
var KeyCacheHit = remote.Key[bool]("cache.hit")

// cacheHeader marks synthesized responses.
const cacheHeader = "x-cache"

// Cache serves repeated reads from a payload store. Only successful GET
// responses are cached; anything else passes straight through. Store errors
// degrade to a pass-through rather than failing the call.
type Cache struct {
	store ResponseCache
	log   Logger
}

// NewCache builds a caching middleware over store.
func NewCache(store ResponseCache, log Logger) *Cache {
	return &Cache{store: store, log: ensureLogger(log)}
}

// Wrap implements remote.Middleware.
func (m *Cache) Wrap(ctx context.Context, req *remote.Request, mc *remote.CallContext, next remote.Invoker) (*remote.Response, error) {
	if m.store == nil || req.Method != remote.MethodGet {
		return next(ctx, req, mc)
	}

	key := cacheKey(req)
	if payload, ok, err := m.store.Get(key); err != nil {
		m.log.Warnw("cache lookup failed", "key", key, "error", err)
	} else if ok {
		KeyCacheHit.Set(mc, true)
		headers := map[string]string{cacheHeader: "hit"}
		return remote.NewBufferedResponse(http.StatusOK, "200 OK", headers, payload), nil
	}

	resp, err := next(ctx, req, mc)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusOK {
		body, err := resp.Body()
		if err != nil {
			return nil, err
		}
		if err := m.store.Put(key, body); err != nil {
			m.log.Warnw("cache store failed", "key", key, "error", err)
		}
	}
	return resp, nil
}

// cacheKey derives a stable key from method, path and sorted parameters.
func cacheKey(req *remote.Request) string {
	var b strings.Builder
	b.WriteString(string(req.Method))
	b.WriteByte(' ')
	b.WriteString(req.Path)

	if len(req.Params) > 0 {
		keys := make([]string, 0, len(req.Params))
		for k := range req.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteByte('?')
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(remote.FormatParamValue(req.Params[k]))
		}
	}
	return b.String()
}
