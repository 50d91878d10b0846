// Package storage provides the durable key/value backends that hold the
// client session between runs. Values are plain strings; callers own the
// encoding.
package storage

import (
	"fmt"
	"strings"
)

// Store is a small durable key/value map.
//
// Get must reflect the latest persisted value, including writes made by
// another process since the last call. Set writes every pair in one step.
type Store interface {
	Get(key string) (string, bool, error)
	Set(values map[string]string) error
	Delete(keys ...string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open returns the backend named by kind rooted at path.
func Open(kind, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", BackendFile:
		return NewFile(path)
	case BackendSQLite:
		return OpenSQLite(path)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", kind)
	}
}
