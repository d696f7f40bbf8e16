package persistence

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
)

// FileProvider stores each key as a file under basePath. Writes go to a temp
// file and are renamed into place; unchanged values are not rewritten.
type FileProvider struct {
	mu       sync.Mutex
	basePath string
}

// NewFileProvider constructs a provider rooted at basePath. The directory is
// created on first write.
func NewFileProvider(basePath string) *FileProvider {
	return &FileProvider{basePath: basePath}
}

// BasePath exposes the provider root (primarily for testing).
func (f *FileProvider) BasePath() string {
	if f == nil {
		return ""
	}
	return f.basePath
}

func (f *FileProvider) Get(_ context.Context, key string) (string, bool, error) {
	path, err := f.pathFor(key)
	if err != nil {
		return "", false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(data), true, nil
}

func (f *FileProvider) Set(_ context.Context, key, value string) error {
	target, err := f.pathFor(key)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	data := []byte(value)
	if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, data) {
		return nil
	}

	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, target)
}

func (f *FileProvider) Remove(_ context.Context, key string) error {
	path, err := f.pathFor(key)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (f *FileProvider) pathFor(key string) (string, error) {
	if f == nil {
		return "", fmt.Errorf("file provider not configured")
	}
	if key == "" {
		return "", ErrEmptyKey
	}
	return KeyPath(f.basePath, key), nil
}

// KeyPath builds the file path for a key. Keys are query-escaped so that
// separators such as ':' and '/' stay inside one file name.
func KeyPath(basePath, key string) string {
	return filepath.Join(basePath, url.QueryEscape(key)+".json")
}
