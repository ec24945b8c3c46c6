package lambda

import (
	"context"
	"sync"
	"time"

	"eshop-reports-api/internal/config"
	"eshop-reports-api/pkg/server"
)

// defaultMaxIdle bounds how long a cached container may sit unused before
// the next invocation rebuilds it. A frozen Lambda can thaw minutes later
// with SQLite handles past their ConnMaxLifetime, so stale containers are
// recycled rather than reused.
const defaultMaxIdle = 5 * time.Minute

// ContainerCache reuses one service container across invocations of a warm
// Lambda so the database pool, migrations and archive store are not rebuilt
// on every scheduled refresh.
type ContainerCache struct {
	mu      sync.Mutex
	build   func() (*server.Container, error)
	maxIdle time.Duration

	cached  *server.Container
	lastUse time.Time
}

// NewContainerCache creates a cache around the given container builder.
// A maxIdle of zero falls back to the default staleness window.
func NewContainerCache(build func() (*server.Container, error), maxIdle time.Duration) *ContainerCache {
	if maxIdle <= 0 {
		maxIdle = defaultMaxIdle
	}
	return &ContainerCache{
		build:   build,
		maxIdle: maxIdle,
	}
}

var (
	sharedCache     *ContainerCache
	sharedCacheOnce sync.Once
)

// SharedCache returns the process-wide cache used by the Lambda entry
// points. It builds containers from the serverless configuration.
func SharedCache() *ContainerCache {
	sharedCacheOnce.Do(func() {
		sharedCache = NewContainerCache(func() (*server.Container, error) {
			cfg, err := config.GetOptimizedConfig()
			if err != nil {
				return nil, err
			}
			return server.NewContainer(cfg)
		}, defaultMaxIdle)
	})
	return sharedCache
}

// Container returns the cached service container, rebuilding it when none
// exists yet or the cached one has been idle past the staleness window.
func (cc *ContainerCache) Container(ctx context.Context) (*server.Container, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()

	now := time.Now()
	if cc.cached != nil {
		if now.Sub(cc.lastUse) < cc.maxIdle {
			cc.lastUse = now
			return cc.cached, nil
		}
		// Stale: release the old pool before building a fresh one. A close
		// failure is not fatal, the handles are being abandoned either way.
		cc.cached.Close()
		cc.cached = nil
	}

	container, err := cc.build()
	if err != nil {
		return nil, err
	}

	cc.cached = container
	cc.lastUse = now
	return container, nil
}

// Shutdown releases the cached container, if any. The cache stays usable;
// the next Container call rebuilds.
func (cc *ContainerCache) Shutdown() error {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	if cc.cached == nil {
		return nil
	}

	err := cc.cached.Close()
	cc.cached = nil
	return err
}
