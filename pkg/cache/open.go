package cache

import (
	"context"
	"fmt"
	"time"
)

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Options selects and configures a backend for [Open].
type Options struct {
	Backend string
	Dir     string
	Redis   RedisConfig
	Mongo   MongoConfig

	// Timeout bounds connecting to a remote backend; zero means 10s.
	Timeout time.Duration
}

// Open creates the cache named by opts.Backend. An empty backend opens a
// file cache.
func Open(ctx context.Context, opts Options) (Cache, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	var (
		c   Cache
		err error
	)
	switch opts.Backend {
	case BackendFile, "":
		c, err = NewFileCache(opts.Dir)
	case BackendNone:
		c = NewNullCache()
	case BackendRedis:
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		c, err = NewRedisCache(ctx, opts.Redis)
	case BackendMongo:
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		c, err = NewMongoCache(ctx, opts.Mongo)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}
