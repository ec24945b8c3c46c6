package archive

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// NewStore creates a Store from the configuration, wrapped with retries
func NewStore(cfg *Config, logger *logrus.Logger) (Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("archive configuration is required")
	}

	var inner Store
	switch cfg.Type {
	case "local", "":
		basePath := cfg.BasePath
		if basePath == "" {
			basePath = "./data/archive"
		}
		store, err := NewLocalStore(basePath)
		if err != nil {
			return nil, fmt.Errorf("failed to create local archive store: %w", err)
		}
		inner = store
	case "memory":
		inner = NewMemoryStore()
	default:
		return nil, fmt.Errorf("unsupported archive store type: %s", cfg.Type)
	}

	return NewRetryStore(inner, cfg.MaxRetries, logger), nil
}
