package archive

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Common archive error types
var (
	ErrNotFound    = errors.New("archive entry not found")
	ErrInvalidKey  = errors.New("invalid archive key")
	ErrUnavailable = errors.New("archive unavailable")
)

// Error represents an archive operation error with additional context
type Error struct {
	Op        string
	Key       string
	Err       error
	Retryable bool
}

func (e *Error) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("archive %s operation failed for key '%s': %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("archive %s operation failed: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new archive Error
func NewError(op, key string, err error, retryable bool) *Error {
	return &Error{
		Op:        op,
		Key:       key,
		Err:       err,
		Retryable: retryable,
	}
}

// IsNotFound returns true if the error indicates a missing entry
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRetryable returns true if the error indicates a retryable condition
func IsRetryable(err error) bool {
	var archiveErr *Error
	if errors.As(err, &archiveErr) {
		return archiveErr.Retryable
	}
	return errors.Is(err, ErrUnavailable)
}

// EntryInfo describes a stored archive entry
type EntryInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// Store persists KPI snapshot documents outside the primary database so
// pruned history stays recoverable
type Store interface {
	// Put saves a document under the given key, replacing any previous
	// version
	Put(ctx context.Context, key string, data []byte) error

	// Get returns the document stored under the key
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes the document stored under the key
	Delete(ctx context.Context, key string) error

	// Exists reports whether a document is stored under the key
	Exists(ctx context.Context, key string) (bool, error)

	// List returns entries whose keys start with prefix, oldest first
	List(ctx context.Context, prefix string) ([]EntryInfo, error)

	// Close releases any resources held by the store
	Close() error
}

// Config selects and parameterizes a store implementation
type Config struct {
	Type       string // "local" or "memory"
	BasePath   string
	MaxRetries int
}
