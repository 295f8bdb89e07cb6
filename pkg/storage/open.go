package storage

import (
	"context"
	"fmt"
	"strings"
)

// OpenOptions selects a store driver.
type OpenOptions struct {
	// Driver is "memory", "file" or "redis".
	Driver string
	Path   string
	Redis  RedisConfig
}

// Open builds the store named by opts.Driver.
func Open(ctx context.Context, opts OpenOptions) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case "", "memory":
		return NewMemoryStore(), nil
	case "file":
		return NewFileStore(opts.Path)
	case "redis":
		return NewRedisStore(ctx, opts.Redis)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", opts.Driver)
	}
}
