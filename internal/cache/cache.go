package cache

import (
	"context"
	"time"
)

// Cache is a minimal string-keyed, TTL-capable store. Values are opaque
// strings; callers decide the encoding (the games service stores JSON).
//
// An entry's absence is advisory: Get reporting a miss must never be
// treated as an error by callers.
type Cache interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}
