package lambda

import (
	"context"
	"errors"
	"testing"
	"time"

	"eshop-reports-api/pkg/server"
)

type countingBuilder struct {
	builds int
	err    error
}

func (b *countingBuilder) build() (*server.Container, error) {
	b.builds++
	if b.err != nil {
		return nil, b.err
	}
	return &server.Container{}, nil
}

func TestContainerCacheReusesWarmContainer(t *testing.T) {
	builder := &countingBuilder{}
	cache := NewContainerCache(builder.build, time.Minute)
	ctx := context.Background()

	first, err := cache.Container(ctx)
	if err != nil {
		t.Fatalf("Container failed: %v", err)
	}
	second, err := cache.Container(ctx)
	if err != nil {
		t.Fatalf("Container failed: %v", err)
	}

	if first != second {
		t.Error("expected the same container on a warm invocation")
	}
	if builder.builds != 1 {
		t.Errorf("expected 1 build, got %d", builder.builds)
	}
}

func TestContainerCacheRecyclesStaleContainer(t *testing.T) {
	builder := &countingBuilder{}
	cache := NewContainerCache(builder.build, time.Minute)
	ctx := context.Background()

	first, err := cache.Container(ctx)
	if err != nil {
		t.Fatalf("Container failed: %v", err)
	}

	cache.mu.Lock()
	cache.lastUse = time.Now().Add(-2 * time.Minute)
	cache.mu.Unlock()

	second, err := cache.Container(ctx)
	if err != nil {
		t.Fatalf("Container failed: %v", err)
	}

	if first == second {
		t.Error("expected a fresh container after the idle window")
	}
	if builder.builds != 2 {
		t.Errorf("expected 2 builds, got %d", builder.builds)
	}
}

func TestContainerCachePropagatesBuildErrors(t *testing.T) {
	buildErr := errors.New("migrations unavailable")
	builder := &countingBuilder{err: buildErr}
	cache := NewContainerCache(builder.build, time.Minute)
	ctx := context.Background()

	if _, err := cache.Container(ctx); !errors.Is(err, buildErr) {
		t.Fatalf("expected build error, got %v", err)
	}

	// A failed build must not be cached.
	builder.err = nil
	container, err := cache.Container(ctx)
	if err != nil {
		t.Fatalf("Container failed after recovery: %v", err)
	}
	if container == nil {
		t.Fatal("expected a container after recovery")
	}
	if builder.builds != 2 {
		t.Errorf("expected 2 builds, got %d", builder.builds)
	}
}

func TestContainerCacheHonorsContext(t *testing.T) {
	builder := &countingBuilder{}
	cache := NewContainerCache(builder.build, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := cache.Container(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if builder.builds != 0 {
		t.Errorf("expected no builds on a cancelled context, got %d", builder.builds)
	}
}

func TestContainerCacheShutdown(t *testing.T) {
	builder := &countingBuilder{}
	cache := NewContainerCache(builder.build, time.Minute)
	ctx := context.Background()

	if _, err := cache.Container(ctx); err != nil {
		t.Fatalf("Container failed: %v", err)
	}
	if err := cache.Shutdown(); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if err := cache.Shutdown(); err != nil {
		t.Fatalf("repeated Shutdown failed: %v", err)
	}

	if _, err := cache.Container(ctx); err != nil {
		t.Fatalf("Container failed after shutdown: %v", err)
	}
	if builder.builds != 2 {
		t.Errorf("expected a rebuild after shutdown, got %d builds", builder.builds)
	}
}

func TestNewContainerCacheDefaultsIdleWindow(t *testing.T) {
	cache := NewContainerCache(func() (*server.Container, error) {
		return &server.Container{}, nil
	}, 0)

	if cache.maxIdle != defaultMaxIdle {
		t.Errorf("expected default idle window %v, got %v", defaultMaxIdle, cache.maxIdle)
	}
}
