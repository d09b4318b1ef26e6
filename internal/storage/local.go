package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

type LocalStorage struct {
	cacheDir string
}

func NewLocalStorage(cacheDir string) *LocalStorage {
	return &LocalStorage{cacheDir: cacheDir}
}

func (s *LocalStorage) Resolve(path string, mustExist bool) (string, error) {
	if !mustExist {
		return path, nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("media file %s: %w", abs, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("media file %s is a directory", abs)
	}
	return abs, nil
}

func (s *LocalStorage) CachePath(bucket, object string) string {
	return filepath.Join(s.cacheDir, bucket, filepath.FromSlash(object))
}

func (s *LocalStorage) CacheDir() string {
	return s.cacheDir
}

// Clear removes every cached download.
func (s *LocalStorage) Clear() error {
	if err := os.RemoveAll(s.cacheDir); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}
