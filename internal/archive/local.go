package archive

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LocalStore implements Store on the local filesystem
type LocalStore struct {
	basePath string
}

// NewLocalStore creates a new LocalStore rooted at basePath
func NewLocalStore(basePath string) (*LocalStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, NewError("NewLocalStore", "", err, false)
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, NewError("NewLocalStore", "", err, false)
	}

	return &LocalStore{basePath: absPath}, nil
}

// Put implements Store.Put with an atomic temp-file rename
func (l *LocalStore) Put(ctx context.Context, key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return NewError("Put", key, err, false)
	}

	filePath := l.filePath(key)
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return NewError("Put", key, err, true)
	}

	tempPath := filePath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return NewError("Put", key, err, true)
	}

	if err := os.Rename(tempPath, filePath); err != nil {
		os.Remove(tempPath)
		return NewError("Put", key, err, true)
	}

	return nil
}

// Get implements Store.Get
func (l *LocalStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, NewError("Get", key, err, false)
	}

	data, err := os.ReadFile(l.filePath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewError("Get", key, ErrNotFound, false)
		}
		return nil, NewError("Get", key, err, true)
	}

	return data, nil
}

// Delete implements Store.Delete
func (l *LocalStore) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return NewError("Delete", key, err, false)
	}

	if err := os.Remove(l.filePath(key)); err != nil {
		if os.IsNotExist(err) {
			return NewError("Delete", key, ErrNotFound, false)
		}
		return NewError("Delete", key, err, true)
	}

	return nil
}

// Exists implements Store.Exists
func (l *LocalStore) Exists(ctx context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, NewError("Exists", key, err, false)
	}

	if _, err := os.Stat(l.filePath(key)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, NewError("Exists", key, err, true)
	}

	return true, nil
}

// List implements Store.List
func (l *LocalStore) List(ctx context.Context, prefix string) ([]EntryInfo, error) {
	var entries []EntryInfo

	err := filepath.Walk(l.basePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() || strings.HasSuffix(path, ".tmp") {
			return nil
		}

		relPath, err := filepath.Rel(l.basePath, path)
		if err != nil {
			return err
		}

		key := filepath.ToSlash(relPath)
		if prefix != "" && !strings.HasPrefix(key, prefix) {
			return nil
		}

		entries = append(entries, EntryInfo{
			Key:          key,
			Size:         info.Size(),
			LastModified: info.ModTime(),
		})

		return nil
	})
	if err != nil {
		return nil, NewError("List", "", err, true)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})

	return entries, nil
}

// Close implements Store.Close
func (l *LocalStore) Close() error {
	return nil
}

func (l *LocalStore) filePath(key string) string {
	return filepath.Join(l.basePath, filepath.FromSlash(key))
}

func validateKey(key string) error {
	if key == "" {
		return ErrInvalidKey
	}

	// Reject keys that could escape the base path
	if strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return ErrInvalidKey
	}

	return nil
}
