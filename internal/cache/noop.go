package cache

import "context"

// Noop never stores anything. Used in tests and when caching is disabled.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, error) { return nil, ErrMiss }

func (Noop) Set(context.Context, string, []byte) error { return nil }

func (Noop) DeleteByPrefix(context.Context, string) error { return nil }
