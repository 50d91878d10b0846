package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

// File keeps values in a TOML document on disk. Every call re-reads the
// file so concurrent writers are observed; the last writer wins.
type File struct {
	path string
	mu   sync.Mutex
}

var _ Store = (*File)(nil)

// NewFile returns a File store at path. The file is created lazily.
func NewFile(path string) (*File, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is empty")
	}
	return &File{path: path}, nil
}

// Path reports the backing file location.
func (f *File) Path() string {
	return f.path
}

// Get returns the value for key.
func (f *File) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return "", false, err
	}
	value, ok := values[key]
	return value, ok, nil
}

// Set merges values into the document and writes it back.
func (f *File) Set(values map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	current, err := f.read()
	if err != nil {
		return err
	}
	for k, v := range values {
		current[k] = v
	}
	return f.write(current)
}

// Delete removes keys. Missing keys are ignored.
func (f *File) Delete(keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	current, err := f.read()
	if err != nil {
		return err
	}
	changed := false
	for _, k := range keys {
		if _, ok := current[k]; ok {
			delete(current, k)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return f.write(current)
}

// Close is a no-op for the file backend.
func (f *File) Close() error {
	return nil
}

func (f *File) read() (map[string]string, error) {
	values := map[string]string{}
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return values, nil
		}
		return nil, fmt.Errorf("read storage: %w", err)
	}
	if err := toml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse storage: %w", err)
	}
	return values, nil
}

func (f *File) write(values map[string]string) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}

	data, err := toml.Marshal(values)
	if err != nil {
		return fmt.Errorf("marshal storage: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".coursedeck-*")
	if err != nil {
		return fmt.Errorf("write storage: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write storage: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write storage: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace storage: %w", err)
	}
	return nil
}
