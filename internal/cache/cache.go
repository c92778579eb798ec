package cache

import (
	"context"
	"errors"
)

var (
	ErrMiss = errors.New("cache: miss")
)

// Cache is the result-cache port in front of the spatial index and the
// feasibility evaluator. It is advisory: callers must treat every error as a
// miss and recompute, never fail the request.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// DeleteByPrefix drops every key starting with prefix. Invalidation is
	// deliberately coarse; clearing a whole keyspace is acceptable.
	DeleteByPrefix(ctx context.Context, prefix string) error
}
