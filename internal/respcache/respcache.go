// Package respcache provides a local TTL cache for remote response payloads.
package respcache

import (
	"fmt"
	"strings"
	"time"
)

// Cache stores response payloads keyed by request identity.
type Cache interface {
	Close() error
	// Get returns the payload for key. The second return is false when the
	// key is absent or its entry has expired.
	Get(key string) ([]byte, bool, error)
	Put(key string, payload []byte) error
}

// Options controls retention characteristics for concrete cache implementations.
type Options struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

const (
	defaultTTL             = 5 * time.Minute
	defaultCleanupInterval = time.Hour
)

// New creates the configured cache backend.
func New(typ, path string, opts Options) (Cache, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopCache{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt cache requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported cache type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopCache struct{}

func (noopCache) Close() error                     { return nil }
func (noopCache) Get(string) ([]byte, bool, error) { return nil, false, nil }
func (noopCache) Put(string, []byte) error         { return nil }
