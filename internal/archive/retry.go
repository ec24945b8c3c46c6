package archive

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// RetryStore wraps a Store and retries retryable failures with
// exponential backoff
type RetryStore struct {
	inner      Store
	maxRetries int
	baseDelay  time.Duration
	logger     *logrus.Logger
}

// NewRetryStore creates a new RetryStore around inner
func NewRetryStore(inner Store, maxRetries int, logger *logrus.Logger) *RetryStore {
	if maxRetries < 1 {
		maxRetries = 3
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &RetryStore{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  100 * time.Millisecond,
		logger:     logger,
	}
}

func (r *RetryStore) retry(ctx context.Context, op, key string, fn func() error) error {
	var err error

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			delay := r.baseDelay << (attempt - 1)
			r.logger.WithFields(logrus.Fields{
				"operation": op,
				"key":       key,
				"attempt":   attempt,
				"delay":     delay.String(),
			}).Warn("Retrying archive operation")

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err = fn()
		if err == nil || !IsRetryable(err) {
			return err
		}
	}

	return err
}

// Put implements Store.Put
func (r *RetryStore) Put(ctx context.Context, key string, data []byte) error {
	return r.retry(ctx, "Put", key, func() error {
		return r.inner.Put(ctx, key, data)
	})
}

// Get implements Store.Get
func (r *RetryStore) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := r.retry(ctx, "Get", key, func() error {
		var innerErr error
		data, innerErr = r.inner.Get(ctx, key)
		return innerErr
	})
	return data, err
}

// Delete implements Store.Delete
func (r *RetryStore) Delete(ctx context.Context, key string) error {
	return r.retry(ctx, "Delete", key, func() error {
		return r.inner.Delete(ctx, key)
	})
}

// Exists implements Store.Exists
func (r *RetryStore) Exists(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := r.retry(ctx, "Exists", key, func() error {
		var innerErr error
		exists, innerErr = r.inner.Exists(ctx, key)
		return innerErr
	})
	return exists, err
}

// List implements Store.List
func (r *RetryStore) List(ctx context.Context, prefix string) ([]EntryInfo, error) {
	var entries []EntryInfo
	err := r.retry(ctx, "List", prefix, func() error {
		var innerErr error
		entries, innerErr = r.inner.List(ctx, prefix)
		return innerErr
	})
	return entries, err
}

// Close implements Store.Close
func (r *RetryStore) Close() error {
	return r.inner.Close()
}
